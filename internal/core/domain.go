package core

import (
	"strings"
)

// Unknown is the value used for descriptive state fields missing from the reference table.
const Unknown = "Unknown"

const (
	// StatusEnacted is the one free-text status consumers highlight.
	StatusEnacted       = "Enacted"
	issueSeparator      = ";"
	DefaultSuggestLimit = 8
)

type (
	// Bill is one row of the legislative tracking table. Every field is kept as text.
	Bill struct {
		State      string `json:"state"`
		StateLeg   string `json:"stateLeg"`
		Number     string `json:"number"`
		Status     string `json:"status"`
		Issues     string `json:"issues"`
		Notes      string `json:"notes"`
		SourceLink string `json:"sourceLink"`
		Year       string `json:"year"`
	}

	// StateSummary aggregates every bill of one state.
	StateSummary struct {
		Name            string   `json:"name"`
		Code            string   `json:"usps"`
		Capital         string   `json:"capital"`
		Population      string   `json:"population"`
		Bills           []Bill   `json:"bills"`
		BillCount       int      `json:"billCount"`
		IssueCategories []string `json:"issueCategories"`
	}

	// Summaries maps a two-letter state code to its summary.
	Summaries map[string]StateSummary

	// Diagnostic describes an input row dropped during aggregation.
	Diagnostic struct {
		Index  int    `json:"row"`
		State  string `json:"state"`
		Reason string `json:"reason"`
	}

	// DiagnosticFunc receives data-quality diagnostics. It must not retain the bill slice.
	DiagnosticFunc func(Diagnostic)
)

// IssueTags splits the semicolon separated issue field, trimming each token and
// discarding empty ones. Input order is kept and duplicates are not removed.
func (b Bill) IssueTags() []string {
	if strings.TrimSpace(b.Issues) == "" {
		return nil
	}
	parts := strings.Split(b.Issues, issueSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsEnacted reports whether the bill status is exactly "Enacted".
func (b Bill) IsEnacted() bool {
	return b.Status == StatusEnacted
}
