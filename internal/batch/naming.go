package batch

import (
	"strings"

	"go-duplicatepdf/internal/utils"
)

// NamingPattern selects which recipient attribute becomes the filename.
type NamingPattern string

const (
	PatternUsername   NamingPattern = "username"
	PatternEmail      NamingPattern = "email"
	PatternEmployeeID NamingPattern = "employee_id"
	PatternFullName   NamingPattern = "full_name"
)

// ParsePattern maps a request value onto a known pattern, defaulting to
// PatternUsername for anything unrecognized.
func ParsePattern(s string) NamingPattern {
	switch NamingPattern(s) {
	case PatternEmail, PatternEmployeeID, PatternFullName:
		return NamingPattern(s)
	default:
		return PatternUsername
	}
}

// Filename builds the sanitized output filename for one recipient. It is a
// pure function of its inputs so failure reports stay addressable by name:
// the same recipient and pattern always yield the same filename, whether or
// not processing later succeeds.
func Filename(r Recipient, pattern NamingPattern, prefix string) string {
	identifier := ""
	switch pattern {
	case PatternEmail:
		if at := strings.Index(r.Email, "@"); at > 0 {
			identifier = r.Email[:at]
		} else {
			identifier = r.Email
		}
		if identifier == "" {
			identifier = r.ID
		}
	case PatternFullName:
		identifier = r.DisplayName
	default: // username and employee_id both resolve to the internal id
		identifier = r.EmployeeID
		if identifier == "" {
			identifier = r.ID
		}
	}

	identifier = utils.SanitizeFilename(identifier)
	if identifier == "" {
		identifier = "user"
	}
	if prefix != "" {
		identifier = utils.SanitizeFilename(prefix) + "_" + identifier
	}
	return identifier + ".pdf"
}
