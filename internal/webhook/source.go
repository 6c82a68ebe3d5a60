package webhook

import (
	"net/mail"
	"regexp"
	"strings"
)

const internalCaller = "internal"

var (
	e164Pattern      = regexp.MustCompile(`^\+?[1-9]\d{6,14}$`)
	plusPhonePattern = regexp.MustCompile(`^\+\d{7,}$`)
	phoneSeparators  = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

var internetHints = map[string]bool{"web": true, "widget": true, "internet": true}

// Classify derives the call source and, when something is known about the
// caller, a contact. First match wins:
//
//  1. caller "internal", a web hint, or no caller but an email → internet
//  2. phone-shaped caller → phone
//  3. anything else → unknown, no contact
func Classify(md CallMetadata) (CallSource, *ContactInfo) {
	caller := ""
	if md.CallerID != nil {
		caller = strings.TrimSpace(*md.CallerID)
	}
	email := emailOf(md.CallerEmail)
	hint := strings.ToLower(strings.TrimSpace(md.CallTypeHint))

	switch {
	case strings.EqualFold(caller, internalCaller), internetHints[hint], caller == "" && email != "":
		if email == "" {
			return SourceInternet, nil
		}
		return SourceInternet, &ContactInfo{Email: email, Name: md.CallerName}
	case IsPhoneNumber(caller):
		return SourcePhone, &ContactInfo{PhoneNumber: caller, Name: md.CallerName, Email: email}
	default:
		return SourceUnknown, nil
	}
}

// IsPhoneNumber reports whether s looks like a dialable number: a leading
// "+" with at least seven digits, or E.164, ignoring common separators.
func IsPhoneNumber(s string) bool {
	stripped := phoneSeparators.Replace(strings.TrimSpace(s))
	return plusPhonePattern.MatchString(stripped) || e164Pattern.MatchString(stripped)
}

// emailOf returns the bare address when s is email-shaped, else "".
func emailOf(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return ""
	}
	return addr.Address
}
