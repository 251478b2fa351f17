package customer

import (
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// WhatsAppLink builds a wa.me chat link for phone, read as a national number
// of region when it has no country code. message may be empty.
func WhatsAppLink(phone, region, message string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(phone), region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	digits := strings.TrimPrefix(phonenumbers.Format(num, phonenumbers.E164), "+")

	link := "https://wa.me/" + digits
	if message != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link, nil
}
