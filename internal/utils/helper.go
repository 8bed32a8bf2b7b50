package utils

import (
	"encoding/json"
	"net/http"
	"regexp"
)

var (
	postalCodeRegex = regexp.MustCompile(`^[0-9]{6}$`)
	phoneRegex      = regexp.MustCompile(`^[0-9]{10}$`)
)

// IsValidPostalCode reports whether s is a 6-digit postal code.
func IsValidPostalCode(s string) bool {
	return postalCodeRegex.MatchString(s)
}

// IsValidPhone reports whether s is a 10-digit phone number.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

func StrPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
