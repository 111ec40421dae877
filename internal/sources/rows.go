package sources

import (
	"errors"
	"fmt"
	"strings"

	"policymap/internal/core"
)

// Column headers recognized in the bills table. Matching is case-sensitive after trimming.
const (
	HeaderState      = "State"
	HeaderStateLeg   = "State Leg"
	HeaderNumber     = "Number"
	HeaderStatus     = "Status"
	HeaderIssues     = "Issues"
	HeaderNotes      = "Notes"
	HeaderSourceLink = "Source Link"
	HeaderYear       = "Year"
)

var (
	ErrNoHeader           = errors.New("missing header row")
	ErrMissingStateColumn = errors.New("missing State column")
)

// Headers lists the recognized columns in their canonical order.
var Headers = []string{
	HeaderState, HeaderStateLeg, HeaderNumber, HeaderStatus,
	HeaderIssues, HeaderNotes, HeaderSourceLink, HeaderYear,
}

// columns holds the index of each recognized header, -1 when absent.
type columns struct {
	state, stateLeg, number, status, issues, notes, sourceLink, year int
}

func mapHeader(header []string) (columns, error) {
	cols := columns{-1, -1, -1, -1, -1, -1, -1, -1}
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case HeaderState:
			cols.state = i
		case HeaderStateLeg:
			cols.stateLeg = i
		case HeaderNumber:
			cols.number = i
		case HeaderStatus:
			cols.status = i
		case HeaderIssues:
			cols.issues = i
		case HeaderNotes:
			cols.notes = i
		case HeaderSourceLink:
			cols.sourceLink = i
		case HeaderYear:
			cols.year = i
		}
	}
	if cols.state == -1 {
		return cols, fmt.Errorf("%w: got headers=%v", ErrMissingStateColumn, header)
	}
	return cols, nil
}

// DecodeRows converts a header-led table into bills. Unknown columns are ignored, missing
// optional columns yield empty fields and blank rows are skipped. Field values are kept
// verbatim; trimming is left to the aggregation.
func DecodeRows(rows [][]string) ([]core.Bill, error) {
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}
	cols, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	bills := make([]core.Bill, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		bills = append(bills, core.Bill{
			State:      safeGet(row, cols.state),
			StateLeg:   safeGet(row, cols.stateLeg),
			Number:     safeGet(row, cols.number),
			Status:     safeGet(row, cols.status),
			Issues:     safeGet(row, cols.issues),
			Notes:      safeGet(row, cols.notes),
			SourceLink: safeGet(row, cols.sourceLink),
			Year:       safeGet(row, cols.year),
		})
	}
	return bills, nil
}

// EncodeRow returns b's fields in Headers order.
func EncodeRow(b core.Bill) []string {
	return []string{b.State, b.StateLeg, b.Number, b.Status, b.Issues, b.Notes, b.SourceLink, b.Year}
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func safeGet(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
