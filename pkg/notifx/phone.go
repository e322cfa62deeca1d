package notifx

import "strings"

var phoneStripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// NormalizePhone converts a directory number to E.164. Numbers already
// starting with "+" are kept, ones starting with the country code get a "+",
// anything else is treated as a national number.
func NormalizePhone(raw, countryCode string) (string, error) {
	n := phoneStripper.Replace(strings.TrimSpace(raw))
	countryCode = strings.TrimPrefix(countryCode, "+")

	switch {
	case n == "" || n == "+":
		return "", notifxErrors.New(ErrInvalidPhone).WithDetail("number", raw)
	case strings.HasPrefix(n, "+"):
	case countryCode != "" && strings.HasPrefix(n, countryCode):
		n = "+" + n
	default:
		n = "+" + countryCode + n
	}

	for _, r := range n[1:] {
		if r < '0' || r > '9' {
			return "", notifxErrors.New(ErrInvalidPhone).WithDetail("number", raw)
		}
	}
	return n, nil
}
