package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"policymap/internal/core"
	"policymap/internal/sources"
	"policymap/internal/sources/csvfile"
)

// SeedFile is the file NewFromFiles looks for inside its directory.
const SeedFile = "bills.csv"

type Store struct {
	mu    sync.Mutex
	bills []core.Bill
}

var _ sources.BillReader = (*Store)(nil)

func New(bills []core.Bill) *Store {
	return &Store{bills: append([]core.Bill(nil), bills...)}
}

// NewFromFiles seeds the store from base/bills.csv. A missing seed yields an empty
// store; a seed that cannot be read or decoded is an error.
func NewFromFiles(base string) (*Store, error) {
	path := filepath.Join(base, SeedFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open seed %s: %w", path, err)
	}
	defer f.Close()
	bills, err := csvfile.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return New(bills), nil
}

// ReadBills returns a copy of the stored bills.
func (s *Store) ReadBills(_ context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Bill(nil), s.bills...), nil
}

func (s *Store) Describe() string {
	return "memory"
}
