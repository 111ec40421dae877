package sources

import (
	"context"

	"policymap/internal/core"
)

// Ports for inbound tabular sources.
type (
	// BillReader returns every bill row of a source in input order.
	// Failure to read or decode the source is returned as an error, never as empty data.
	BillReader interface {
		ReadBills(ctx context.Context) ([]core.Bill, error)
	}

	// Describer is implemented by sources that can name themselves for logs and snapshots.
	Describer interface {
		Describe() string
	}
)

// Describe returns a printable name for r, falling back to "unknown".
func Describe(r BillReader) string {
	if d, ok := r.(Describer); ok {
		return d.Describe()
	}
	return "unknown"
}
