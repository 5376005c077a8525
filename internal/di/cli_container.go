package di

import (
	"flag"
	"io"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/phish-filter/internal/config"
	"github.com/mikey/phish-filter/internal/logging"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Input flags
	InputFile string
	EML       bool

	// Output flags
	JSON    bool
	Verbose bool
	JSONLog bool

	// Scoring flags
	LongURLThreshold int
	MaxInputSize     int

	ConfigFile string
}

// IsMessage reports whether the input should be decoded as an internet message
func (f *CLIFlags) IsMessage() bool {
	return f.EML || strings.HasSuffix(strings.ToLower(f.InputFile), ".eml")
}

// ParseFlags parses command line arguments (without the program name)
func ParseFlags(args []string, output io.Writer) (*CLIFlags, error) {
	flags := &CLIFlags{}
	fs := flag.NewFlagSet("phish-check", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	// Input flags
	fs.StringVar(&flags.InputFile, "file", "", "Input file (use stdin if not specified)")
	fs.BoolVar(&flags.EML, "eml", false, "Treat input as a raw .eml message (implied by a .eml file name)")

	// Output flags
	fs.BoolVar(&flags.JSON, "json", false, "Print the report as JSON")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging and print a body preview")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	// Scoring flags
	fs.IntVar(&flags.LongURLThreshold, "long-url", 110, "Length at which a link counts as very long")
	fs.IntVar(&flags.MaxInputSize, "max-input-size", 1<<20, "Maximum number of bytes analyzed")

	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.NewFromFile(flags.ConfigFile)
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			applyCLIOutput(cfg, flags)
			return cfg, nil
		}

		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	if err := provideAnalysis(container); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("scoring.long_url_threshold", flags.LongURLThreshold)
	v.Set("scoring.max_input_size", flags.MaxInputSize)

	cfg := config.NewFromViper(v)
	applyCLIOutput(cfg, flags)
	return cfg
}

// applyCLIOutput forces the cli filter and the output settings chosen on the command line
func applyCLIOutput(cfg *config.Config, flags *CLIFlags) {
	v := cfg.GetViper()
	v.Set("server.filter_type", "cli")
	v.Set("cli.verbose", flags.Verbose)
	v.Set("cli.json", flags.JSON)
}
