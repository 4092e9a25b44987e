package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/ninjagen/internal/app"
	"github.com/specialistvlad/ninjagen/internal/cli"
)

// main is the entrypoint for the ninjagen application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stderr, os.Args); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. argv includes the program name, which the reconfigure script
// replays together with the arguments.
func run(outW io.Writer, argv []string) error {
	appConfig, shouldExit, err := cli.Parse(argv[1:], outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}
	appConfig.RegenerateCommand = argv

	ninjagenApp := app.NewApp(outW, appConfig, app.DefaultLoaders())
	return ninjagenApp.Run(context.Background())
}
