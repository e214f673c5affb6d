// Package shell is the entry point for the interactive ledger console.
package shell

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/usemam/ledger/pkg/cli/histutil"
	"github.com/usemam/ledger/pkg/config"
	"github.com/usemam/ledger/pkg/logutil"
	"github.com/usemam/ledger/pkg/prog"
	"github.com/usemam/ledger/pkg/store"
)

var logger = logutil.GetLogger("[shell] ")

// Program is the shell subprogram.
type Program struct {
	// Handles each line read. If nil, DefaultHandler is used.
	Handler Handler
}

func (p Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("arguments are not supported")
	}

	cfgPath := f.Config
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	bindings, err := cfg.KeyBindings()
	if err != nil {
		return err
	}

	history, closeHistory := openHistory(fds[2], f, cfg)
	err = Interact(fds, &InteractConfig{
		Prompt:     cfg.Prompt,
		History:    history,
		Vocabulary: cfg.CompletionVocabulary(),
		Bindings:   bindings,
		Handler:    p.Handler,
	})
	if cerr := closeHistory(); cerr != nil {
		err = multierror.Append(err, cerr)
	}
	return err
}

// Loads the configuration, first writing the default one if the file does not
// exist yet.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.Save(path, config.Default()); err != nil {
			logger.Println("failed to write default config:", err)
		} else {
			logger.Println("wrote default config to", path)
		}
	}
	return config.Load(path)
}

// Opens the history database and loads a History from it. When that fails, a
// warning is written to stderr and an in-memory History is returned instead.
func openHistory(stderr *os.File, f *prog.Flags, cfg *config.Config) (*histutil.History, func() error) {
	inMemory := func(err error) (*histutil.History, func() error) {
		fmt.Fprintln(stderr, "Warning:", err)
		fmt.Fprintln(stderr, "History will not be saved.")
		return histutil.NewHistory(cfg.MaxHistory), func() error { return nil }
	}

	path, err := dbPath(f, cfg)
	if err != nil {
		return inMemory(err)
	}
	st, err := store.NewStore(path)
	if err != nil {
		return inMemory(fmt.Errorf("cannot open history database: %w", err))
	}
	if _, err := st.TrimCmds(cfg.MaxHistory); err != nil {
		logger.Println("failed to trim history:", err)
	}
	history, err := histutil.NewDBHistory(st, cfg.MaxHistory)
	if err != nil {
		st.Close()
		return inMemory(fmt.Errorf("cannot load history: %w", err))
	}
	logger.Printf("loaded %d history entries from %s", history.Len(), path)
	return history, func() error {
		if err := st.Close(); err != nil {
			return fmt.Errorf("close history database: %w", err)
		}
		return nil
	}
}
