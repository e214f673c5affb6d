// Package env keeps names of environment variables with special significance to
// the line editor.
package env

// Environment variables with special significance to the line editor.
const (
	// Scales the timeouts used in tests; see testutil.Scaled.
	LEDGER_TEST_TIME_SCALE = "LEDGER_TEST_TIME_SCALE"
	// Overrides the default path of the configuration file.
	LEDGER_CONFIG = "LEDGER_CONFIG"
	// Overrides the default path of the history database.
	LEDGER_DB = "LEDGER_DB"

	XDG_DATA_HOME = "XDG_DATA_HOME"
)
