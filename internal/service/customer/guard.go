package customer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Alijeyrad/halisaha_backend/internal/repo"
)

var turkishLower = cases.Lower(language.Turkish)

// FoldName is the comparison key for customer names: trimmed, inner
// whitespace collapsed, lowercased with Turkish rules and the dotless ı
// merged into i. Names typed on a non-Turkish keyboard use ASCII I for both
// letters, so "ISMAIL" must match "ismail" as well as "İsmail".
func FoldName(name string) string {
	lower := turkishLower.String(strings.Join(strings.Fields(name), " "))
	return strings.ReplaceAll(lower, "ı", "i")
}

// CheckDuplicate returns a *DuplicateError when another customer in existing
// has the same phone or the same folded name. The record with id exceptID is
// ignored. Phone is checked across all records before name.
func CheckDuplicate(name, phone string, existing []repo.Customer, exceptID string) error {
	phone = strings.TrimSpace(phone)
	if phone != "" {
		for _, c := range existing {
			if c.ID != exceptID && strings.TrimSpace(c.Phone) == phone {
				return &DuplicateError{Field: FieldPhone, Existing: c}
			}
		}
	}

	key := FoldName(name)
	if key == "" {
		return nil
	}
	for _, c := range existing {
		if c.ID != exceptID && FoldName(c.Name) == key {
			return &DuplicateError{Field: FieldName, Existing: c}
		}
	}
	return nil
}
