package core

import (
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Aggregate groups bills by state using the built-in reference table.
func Aggregate(bills []Bill, report DiagnosticFunc) Summaries {
	return DefaultReference().Aggregate(bills, report)
}

// Aggregate groups bills by state code in a single pass. Rows whose state name does not
// resolve are skipped and passed to report; a nil report logs them at warn level.
// The result is freshly allocated on every call and bills is never modified.
func (r *Reference) Aggregate(bills []Bill, report DiagnosticFunc) Summaries {
	if report == nil {
		report = logDiagnostic
	}

	out := make(Summaries)
	for i, bill := range bills {
		name := strings.TrimSpace(bill.State)
		code, ok := r.Code(name)
		if !ok {
			report(Diagnostic{Index: i, State: name, Reason: "unknown state"})
			continue
		}

		s, exists := out[code]
		if !exists {
			info := r.Info(code)
			s = StateSummary{
				Name:       name,
				Code:       code,
				Capital:    info.Capital,
				Population: info.Population,
			}
		}
		s.Bills = append(s.Bills, bill)
		out[code] = s
	}

	for code, s := range out {
		s.BillCount = len(s.Bills)
		s.IssueCategories = issueCategories(s.Bills)
		out[code] = s
	}
	return out
}

func issueCategories(bills []Bill) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, b := range bills {
		for _, tag := range b.IssueTags() {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

func logDiagnostic(d Diagnostic) {
	slog.Warn("Unknown state", "state", d.State, "row", d.Index, "reason", d.Reason)
}

// Lookup returns the summary for code. A missing code reports false.
func Lookup(code string, s Summaries) (StateSummary, bool) {
	summary, ok := s[code]
	return summary, ok
}

// Search returns the codes of every summary whose display name contains query,
// ignoring case. A blank query matches everything. Order is unspecified.
func Search(query string, s Summaries) []string {
	if strings.TrimSpace(query) == "" {
		return keys(s)
	}
	fold := cases.Fold()
	needle := fold.String(query)
	out := []string{}
	for code, summary := range s {
		if strings.Contains(fold.String(summary.Name), needle) {
			out = append(out, code)
		}
	}
	return out
}

// Codes returns every code in s sorted ascending.
func Codes(s Summaries) []string {
	out := keys(s)
	sort.Strings(out)
	return out
}

// Names returns every display name in s sorted ascending.
func Names(s Summaries) []string {
	out := make([]string, 0, len(s))
	for _, summary := range s {
		out = append(out, summary.Name)
	}
	sort.Strings(out)
	return out
}

// Suggest returns at most limit sorted display names containing query, ignoring case.
// A blank query suggests nothing. A limit of zero or less uses DefaultSuggestLimit.
func Suggest(query string, s Summaries, limit int) []string {
	if strings.TrimSpace(query) == "" {
		return []string{}
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	fold := cases.Fold()
	needle := fold.String(query)
	out := []string{}
	for _, name := range Names(s) {
		if !strings.Contains(fold.String(name), needle) {
			continue
		}
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}

// CodeForName finds the code of the summary whose display name equals name.
func CodeForName(name string, s Summaries) (string, bool) {
	for code, summary := range s {
		if summary.Name == name {
			return code, true
		}
	}
	return "", false
}

func keys(s Summaries) []string {
	out := make([]string, 0, len(s))
	for code := range s {
		out = append(out, code)
	}
	return out
}
