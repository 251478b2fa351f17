package synchronizer

import "errors"

var (
	ErrNoSubscriptions = errors.New("there are no subscriptions to sync")
	ErrSyncInProgress  = errors.New("another sync run is in progress")
)
