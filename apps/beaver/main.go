//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Command beaver is the two-party protocol harness. It runs the named
// protocol exercise against a live peer in test mode and reports
// timing and transfer statistics in bench mode.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"

	"github.com/markkurossi/beaver/party"
)

func main() {
	var (
		port      int
		server    string
		name      string
		mode      int
		output    string
		iteration int
	)

	cmd := &cobra.Command{
		Use:           "beaver <party-id> <test|bench>",
		Short:         "Run the two-party secret-sharing harness",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || (id != 0 && id != 1) {
				return xerrors.Errorf("invalid party ID %q: must be 0 or 1",
					args[0])
			}
			execMode := args[1]
			if execMode != "test" && execMode != "bench" {
				return xerrors.Errorf("invalid mode %q: must be test or bench",
					execMode)
			}
			if err := setupLogging(output, execMode, id); err != nil {
				return err
			}
			return run(id, server, port, execMode, name, mode, iteration)
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&port, "port", "p", party.DefaultPort, "peer link port")
	flags.StringVarP(&server, "server", "s", party.DefaultHost,
		"party 0 host address")
	flags.StringVarP(&name, "name", "n", "", "function name to run")
	flags.IntVarP(&mode, "mode", "m", 0, "function mode")
	flags.StringVarP(&output, "output", "o", "", "log output file prefix")
	flags.IntVarP(&iteration, "iteration", "i", 1, "bench iteration count")

	if err := cmd.Execute(); err != nil {
		log.Error().Msgf("beaver: %s", err)
		os.Exit(1)
	}
}

// setupLogging directs the global logger to the console and, when an
// output prefix is given, to a per-party log file.
func setupLogging(output, execMode string, id int) error {
	console := zerolog.ConsoleWriter{Out: os.Stderr}
	if len(output) == 0 {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return nil
	}
	path := fmt.Sprintf("%s-%s-%d.log", output, execMode, id)
	f, err := os.Create(path)
	if err != nil {
		return xerrors.Errorf("create log file: %w", err)
	}
	log.Logger = zerolog.New(io.MultiWriter(console, f)).
		With().Timestamp().Logger()
	log.Info().Msgf("logging to %s", path)
	return nil
}

func run(id int, server string, port int, execMode, name string,
	mode, iteration int) error {

	p, err := party.New(id, server, port)
	if err != nil {
		return err
	}
	if err := p.Start(); err != nil {
		return err
	}
	defer p.Close()

	var handlers map[string]func(p *party.Party, mode int) error
	switch execMode {
	case "test":
		log.Info().Msg("mode: test")
		handlers = testHandlers()
	case "bench":
		log.Info().Msg("mode: bench")
		handlers = benchHandlers(iteration)
	}

	if len(name) == 0 {
		name = "all"
	}
	handler, ok := handlers[name]
	if !ok {
		return xerrors.Errorf("unknown function %q: available: [%s]",
			name, strings.Join(handlerNames(handlers), ", "))
	}
	if err := handler(p, mode); err != nil {
		return err
	}
	p.LogBytesSent(name)
	return nil
}

func handlerNames(handlers map[string]func(*party.Party, int) error) []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
