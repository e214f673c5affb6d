package store

import (
	"path/filepath"
	"testing"
)

// MustGetTempStore returns a Store backed by a file in a temporary directory.
// The Store is closed when the test finishes.
func MustGetTempStore(t testing.TB) DBStore {
	t.Helper()
	st, err := NewStore(filepath.Join(t.TempDir(), "db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}
