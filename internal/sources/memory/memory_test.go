package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"policymap/internal/core"
	"policymap/internal/sources"
)

func TestMemoryStoreRead(t *testing.T) {
	in := []core.Bill{{State: "Texas", Number: "HB 1"}}
	s := New(in)
	in[0].Number = "mutated"

	bills, err := s.ReadBills(context.Background())
	if err != nil || len(bills) != 1 || bills[0].Number != "HB 1" {
		t.Fatalf("unexpected read: bills=%v err=%v", bills, err)
	}

	bills[0].Number = "mutated"
	again, _ := s.ReadBills(context.Background())
	if again[0].Number != "HB 1" {
		t.Fatalf("store leaked internal slice: %+v", again)
	}
}

func writeSeed(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFromFiles(dir)
	if err != nil {
		t.Fatalf("missing seed should not fail: %v", err)
	}
	bills, _ := s.ReadBills(context.Background())
	if len(bills) != 0 {
		t.Fatalf("expected empty store when seed is missing, got %d", len(bills))
	}

	writeSeed(t, dir, "State,Number,Issues\nTexas,HB 1,Housing\nAtlantis,X,Myth\n")
	s, err = NewFromFiles(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bills, _ = s.ReadBills(context.Background())
	if len(bills) != 2 || bills[1].State != "Atlantis" {
		t.Fatalf("unexpected seed: %+v", bills)
	}
}

func TestNewFromFilesRejectsMalformedSeed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "no State column", content: "Stat,Issues\nTexas,Housing\n", want: sources.ErrMissingStateColumn},
		{name: "empty file", content: "", want: sources.ErrNoHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSeed(t, dir, tt.content)
			s, err := NewFromFiles(dir)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if s != nil {
				t.Error("store should be nil on error")
			}
		})
	}
}

func TestNewFromFilesUnreadableSeed(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, SeedFile), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromFiles(dir); err == nil {
		t.Fatal("expected error when the seed is a directory")
	}
}
