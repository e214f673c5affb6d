package shell

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/usemam/ledger/pkg/config"
	"github.com/usemam/ledger/pkg/env"
	"github.com/usemam/ledger/pkg/prog"
)

// Returns the path of the history database, creating its directory if
// needed. The -db flag takes precedence over $LEDGER_DB, which takes
// precedence over the configuration file.
func dbPath(f *prog.Flags, cfg *config.Config) (string, error) {
	p := f.DB
	if p == "" {
		p = os.Getenv(env.LEDGER_DB)
	}
	if p == "" {
		p = cfg.HistoryDB
	}
	if p == "" {
		dir, err := dataDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(dir, "history.db")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return p, nil
}

// Returns $XDG_DATA_HOME/ledger, or ~/.local/share/ledger if $XDG_DATA_HOME is
// not set.
func dataDir() (string, error) {
	dataHome := os.Getenv(env.XDG_DATA_HOME)
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "ledger"), nil
}
