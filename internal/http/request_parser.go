package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxQueryLength = 100
	maxSuggest     = 50
)

var (
	errQueryTooLong = fmt.Errorf("query must be at most %d characters", maxQueryLength)
	errBadLimit     = fmt.Errorf("limit must be an integer between 1 and %d", maxSuggest)
)

// ParseQuery returns the q parameter untouched apart from a length check.
func ParseQuery(r *http.Request) (string, error) {
	q := r.URL.Query().Get("q")
	if utf8.RuneCountInString(q) > maxQueryLength {
		return "", errQueryTooLong
	}
	if !utf8.ValidString(q) {
		return "", errors.New("query must be valid UTF-8")
	}
	return q, nil
}

// ParseLimit reads the limit parameter. Absent means 0, the default.
func ParseLimit(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > maxSuggest {
		return 0, errBadLimit
	}
	return n, nil
}

// ParseStateCode reads the {code} path value as an upper-case USPS code.
func ParseStateCode(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(r.PathValue("code")))
}
