package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kjelbo/zohoctl/config"
	"github.com/kjelbo/zohoctl/zoho"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *zoho.Client

	version   = "dev"
	buildTime = "unknown"

	// Command flags
	fromDate   string
	toDate     string
	status     string
	filterExpr string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "zohoctl",
	Short: "A tool to fetch and inspect Zoho Books invoices",
	Long: `zohoctl authenticates against the Zoho Books API using the OAuth2
refresh-token flow and retrieves invoice data, retrying transient
upstream failures and logging every attempt to a local log file.

Credentials are read from the ZOHO_CLIENT_ID, ZOHO_CLIENT_SECRET,
ZOHO_REFRESH_TOKEN and ZOHO_ORGANIZATION_ID environment variables.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets version info from build flags
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, bt)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration, logger and Books client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err = setupLogger(cfg.Logging)
	if err != nil {
		return err
	}

	client, err = zoho.NewClient(cfg.Zoho, logger,
		zoho.WithRetryPolicy(zoho.NewRetryPolicy(cfg.Retry.MaxAttempts, cfg.Retry.MinBackoff, cfg.Retry.MaxBackoff)),
	)
	if err != nil {
		return fmt.Errorf("failed to create Zoho Books client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger. Output is teed to the
// configured log file so failed runs can be diagnosed after the fact.
func setupLogger(cfg config.LoggingConfig) (zerolog.Logger, error) {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure console output format
	var console io.Writer = os.Stderr
	if cfg.Format == "console" {
		console = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
		}
	}

	writers := []io.Writer{console}
	if cfg.File != "" {
		logFile, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Logger{}, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		writers = append(writers, logFile)
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger(), nil
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test authentication against Zoho",
	Long:  `Force a token refresh to verify the configured credentials without touching any invoice data.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Println("Testing Zoho Books credentials...")

	if err := client.TestConnection(cmd.Context()); err != nil {
		return err
	}

	fmt.Println("✓ Token refresh successful!")
	return nil
}
