// Package main implements a CHIP-8 virtual machine that runs ROM files in a
// window or directly in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/faiface/pixel/pixelgl"
	"github.com/retroenv/chip8emu/internal/chip8"
	"github.com/retroenv/chip8emu/internal/cli"
	"github.com/retroenv/chip8emu/internal/config"
	"github.com/retroenv/chip8emu/internal/emulator"
	"github.com/retroenv/chip8emu/internal/gui"
	"github.com/retroenv/chip8emu/internal/loader"
	"github.com/retroenv/chip8emu/internal/options"
	"github.com/retroenv/chip8emu/internal/terminal"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	opts, emuOptions, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			usageErr.ShowUsage()
		} else {
			logger.Error(err.Error())
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts)
	printBanner(logger, opts)

	ctx := app.Context()

	// pixelgl owns the main thread, even when the terminal frontend is used
	pixelgl.Run(func() {
		if err := run(ctx, logger, opts, emuOptions); err != nil {
			// Handle context cancellation (Ctrl+C) gracefully
			if errors.Is(err, context.Canceled) {
				logger.Info("Operation cancelled")
				return
			}
			logger.Fatal("Emulation failed", log.Err(err))
		}
	})
}

func run(ctx context.Context, logger *log.Logger, opts options.Program,
	emuOptions options.Emulator) error {

	rom, err := loader.New().Load(opts.ROM)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	machine := chip8.New()
	if err := machine.LoadROM(rom); err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	var (
		renderer emulator.Renderer
		input    emulator.Input
	)
	if opts.Terminal {
		term, err := terminal.New()
		if err != nil {
			return fmt.Errorf("initializing terminal: %w", err)
		}
		defer func() { _ = term.Close() }()
		renderer, input = term, term
	} else {
		window, err := gui.NewWindow("chip8emu", opts.Scale)
		if err != nil {
			return fmt.Errorf("initializing window: %w", err)
		}
		renderer, input = window, window
	}

	logger.Info("Running ROM",
		log.String("file", opts.ROM),
		log.Int("bytes", len(rom)),
	)

	return emulator.New(logger, machine, renderer, input, emuOptions).Run(ctx)
}

// printBanner prints application version information
func printBanner(logger *log.Logger, opts options.Program) {
	if opts.Quiet {
		return
	}
	logger.Info("chip8emu", log.String("version", buildinfo.Version(version, commit, date)))
}
