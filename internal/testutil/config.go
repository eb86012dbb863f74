package testutil

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/shelf/internal/config"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	ServerURL         string
	Timeout           time.Duration
	RequestsPerSecond int
	DebounceDelay     time.Duration
	ExportDBFile      string
	Password          string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		ServerURL:         config.ServerURL,
		Timeout:           config.Timeout,
		RequestsPerSecond: config.RequestsPerSecond,
		DebounceDelay:     config.DebounceDelay,
		ExportDBFile:      config.ExportDBFile,
		Password:          config.Password,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.ServerURL = state.ServerURL
	config.Timeout = state.Timeout
	config.RequestsPerSecond = state.RequestsPerSecond
	config.DebounceDelay = state.DebounceDelay
	config.ExportDBFile = state.ExportDBFile
	config.Password = state.Password
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig points the client at serverURL with throttling disabled and
// a short debounce. Previous values are restored when the test completes.
func SetTestConfig(t *testing.T, serverURL string) {
	t.Helper()

	ResetConfig(t)
	config.ServerURL = serverURL
	config.Timeout = 5 * time.Second
	config.RequestsPerSecond = 0
	config.DebounceDelay = 10 * time.Millisecond
	config.ExportDBFile = ""
	config.Password = ""
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)
	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// viper has no Unset; the key stays set after cleanup
	})
}
