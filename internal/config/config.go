package config

import (
	"time"

	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// ServerURL is the base URL of the catalog server
	ServerURL string
	// Timeout bounds a single HTTP request
	Timeout time.Duration
	// RequestsPerSecond throttles calls to the server; 0 disables throttling
	RequestsPerSecond int
	// DebounceDelay is the quiet period before a typed search is sent
	DebounceDelay time.Duration
	// ExportDBFile is the SQLite file written by the export command
	ExportDBFile string
	// Password is used by login and register when no flag is given
	Password string
)

// Defaults
const (
	DefaultServerURL         = "http://localhost:1323"
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerSecond = 8
	DefaultDebounceDelay     = 750 * time.Millisecond
	DefaultExportDBFile      = "./shelf.db"
)

// SetDefaults registers default values with viper.
func SetDefaults() {
	viper.SetDefault("server.url", DefaultServerURL)
	viper.SetDefault("server.timeout", DefaultTimeout)
	viper.SetDefault("server.rps", DefaultRequestsPerSecond)
	viper.SetDefault("search.debounce", DefaultDebounceDelay)
	viper.SetDefault("export.dbfile", DefaultExportDBFile)
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	ServerURL = viper.GetString("server.url")
	Timeout = viper.GetDuration("server.timeout")
	RequestsPerSecond = viper.GetInt("server.rps")
	DebounceDelay = viper.GetDuration("search.debounce")
	ExportDBFile = viper.GetString("export.dbfile")
	Password = viper.GetString("password")

	if Timeout <= 0 {
		Timeout = DefaultTimeout
	}
	if DebounceDelay <= 0 {
		DebounceDelay = DefaultDebounceDelay
	}
	if RequestsPerSecond < 0 {
		RequestsPerSecond = 0
	}
}

// SetServerURL overrides the server URL, typically from a command line flag.
func SetServerURL(url string) {
	if url != "" {
		ServerURL = url
	}
}
