package constants

const (
	ConfigName   = "config"
	ConfigFormat = "yaml"

	// EnvPrefix is prepended to every environment override, e.g. HALISAHA_DATABASE_HOST.
	EnvPrefix = "HALISAHA"

	ServiceName = "halisaha_backend"
)

// NATS subjects. The trailing token is the appointment id.
const (
	SubjectAppointmentCreated   = "halisaha.appointment.created"
	SubjectAppointmentCancelled = "halisaha.appointment.cancelled"
)
