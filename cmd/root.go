package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/shelf/internal/config"
	"github.com/lepinkainen/shelf/internal/debounce"
	"github.com/lepinkainen/shelf/internal/engine"
	"github.com/lepinkainen/shelf/internal/notify"
	"github.com/lepinkainen/shelf/internal/ratelimit"
	"github.com/lepinkainen/shelf/internal/transport"
)

// stdout receives command output; logs go to stderr.
var stdout io.Writer = os.Stdout

// newEngine builds an engine talking to the configured server.
var newEngine = func(opts ...engine.Option) *engine.Engine {
	client := transport.NewClient(config.ServerURL,
		transport.WithTimeout(config.Timeout),
		transport.WithRateLimiter(ratelimit.New("catalog", config.RequestsPerSecond)),
	)
	opts = append([]engine.Option{
		engine.WithNotifier(notify.LogNotifier{}),
		engine.WithDebouncer(debounce.New(config.DebounceDelay)),
	}, opts...)
	return engine.New(client, opts...)
}

// CLI represents the complete command structure for the shelf application
type CLI struct {
	// Global flags
	Server  string `help:"Catalog server URL (overrides server.url)"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	List      ListCmd      `cmd:"" help:"List a page of the catalog"`
	Search    SearchCmd    `cmd:"" help:"Search books by title"`
	Recommend RecommendCmd `cmd:"" help:"Show recommendations for a title"`
	AddBook   AddBookCmd   `cmd:"" name:"add-book" help:"Add a book to the catalog"`
	Rate      RateCmd      `cmd:"" help:"Rate a book from 1 to 5"`
	Users     UsersCmd     `cmd:"" help:"List registered users"`
	Login     LoginCmd     `cmd:"" help:"Check credentials against the server"`
	Register  RegisterCmd  `cmd:"" help:"Create an account"`
	Browse    BrowseCmd    `cmd:"" help:"Browse the catalog interactively"`
	Export    ExportCmd    `cmd:"" help:"Export catalog pages to a SQLite database"`
}

func newParser(cli *CLI, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("shelf"),
		kong.Description("A client for the book catalog: browse, search, recommend and rate."),
		kong.UsageOnError(),
	}, opts...)
	return kong.New(cli, opts...)
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(false)
	if err := initConfig(); err != nil {
		slog.Error("Fatal error config file", "error", err)
		os.Exit(1)
	}

	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		slog.Error("Failed to build command line parser", "error", err)
		os.Exit(1)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if cli.Verbose {
		initLogging(true)
	}
	updateGlobalConfig(&cli)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	kctx.BindTo(ctx, (*context.Context)(nil))

	if err := kctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func initConfig() error {
	config.SetDefaults()

	// SHELF_SERVER_URL, SHELF_PASSWORD, ...
	viper.SetEnvPrefix("shelf")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
		slog.Debug("Config file not found, using defaults and environment")
	}

	config.InitConfig()
	return nil
}

func updateGlobalConfig(cli *CLI) {
	config.SetServerURL(cli.Server)
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	} else if env := os.Getenv("SHELF_LOG_LEVEL"); env != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(env)); err == nil {
			level = parsed
		}
	}

	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
