package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mikey/phish-filter/internal/di"
	"github.com/mikey/phish-filter/internal/ports"
	"go.uber.org/zap"
)

func main() {
	flags, err := di.ParseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(run); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run reads the input, analyzes it and prints the report
func run(flags *di.CLIFlags, logger *zap.Logger, emailFilter ports.EmailFilter) error {
	defer logger.Sync()

	var input io.Reader
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		input = file
		logger.Debug("Reading input from file", zap.String("file", flags.InputFile))
	} else {
		input = os.Stdin
		logger.Debug("Reading input from stdin")
	}

	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	ctx := context.Background()
	if flags.IsMessage() {
		if _, err := emailFilter.ProcessEmail(ctx, data); err != nil {
			return fmt.Errorf("could not decode the message: %w", err)
		}
		return nil
	}

	_, err = emailFilter.ProcessText(ctx, string(data))
	return err
}
