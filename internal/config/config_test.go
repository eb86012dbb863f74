package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestInitConfig_Defaults(t *testing.T) {
	resetViper(t)

	InitConfig()

	assert.Equal(t, DefaultServerURL, ServerURL)
	assert.Equal(t, 10*time.Second, Timeout)
	assert.Equal(t, 8, RequestsPerSecond)
	assert.Equal(t, 750*time.Millisecond, DebounceDelay)
	assert.Equal(t, "./shelf.db", ExportDBFile)
}

func TestInitConfig_Overrides(t *testing.T) {
	resetViper(t)
	viper.Set("server.url", "https://books.example.com")
	viper.Set("server.timeout", "3s")
	viper.Set("server.rps", 2)
	viper.Set("search.debounce", "200ms")
	viper.Set("export.dbfile", "/tmp/out.db")
	viper.Set("password", "hunter2")

	InitConfig()

	assert.Equal(t, "https://books.example.com", ServerURL)
	assert.Equal(t, 3*time.Second, Timeout)
	assert.Equal(t, 2, RequestsPerSecond)
	assert.Equal(t, 200*time.Millisecond, DebounceDelay)
	assert.Equal(t, "/tmp/out.db", ExportDBFile)
	assert.Equal(t, "hunter2", Password)
}

func TestInitConfig_InvalidValuesFallBack(t *testing.T) {
	resetViper(t)
	viper.Set("server.timeout", "0s")
	viper.Set("search.debounce", "-1s")
	viper.Set("server.rps", -5)

	InitConfig()

	assert.Equal(t, DefaultTimeout, Timeout)
	assert.Equal(t, DefaultDebounceDelay, DebounceDelay)
	assert.Zero(t, RequestsPerSecond)
}

func TestSetServerURL(t *testing.T) {
	original := ServerURL
	t.Cleanup(func() { ServerURL = original })

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "override",
			input:    "http://127.0.0.1:9000",
			expected: "http://127.0.0.1:9000",
		},
		{
			name:     "empty keeps current",
			input:    "",
			expected: "http://127.0.0.1:9000",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			SetServerURL(tc.input)
			assert.Equal(t, tc.expected, ServerURL)
		})
	}
}
