package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"limit=5", 5, false},
		{"limit=%205%20", 5, false},
		{"limit=50", 50, false},
		{"limit=51", 0, true},
		{"limit=0", 0, true},
		{"limit=-1", 0, true},
		{"limit=ten", 0, true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/api/suggest?"+tt.query, nil)
		got, err := ParseLimit(r)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, %v", tt.query, got, err)
		}
	}
}

func TestParseQuery(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/search?q=%20New%20", nil)
	q, err := ParseQuery(r)
	if err != nil || q != " New " {
		t.Errorf("ParseQuery = %q, %v", q, err)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/search?q="+url.QueryEscape(strings.Repeat("é", maxQueryLength)), nil)
	if _, err := ParseQuery(r); err != nil {
		t.Errorf("multi-byte query at the limit should pass: %v", err)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/search?q=%ff", nil)
	if _, err := ParseQuery(r); err == nil {
		t.Error("invalid UTF-8 should be rejected")
	}
}

func TestParseStateCode(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/states/tx", nil)
	r.SetPathValue("code", " tx ")
	if got := ParseStateCode(r); got != "TX" {
		t.Errorf("ParseStateCode = %q", got)
	}
}
