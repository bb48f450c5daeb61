// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdhender/fudi"
	"github.com/mdhender/fudi/config"
	"github.com/mdhender/fudi/logging"
	"github.com/mdhender/fudi/transcripts"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds what the root command sets up for its subcommands.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
}

// transcripts returns a transcript service using the configured options.
func (a *app) transcripts() *transcripts.Service {
	return transcripts.New(a.cfg.DecoderOptions(), a.cfg.EncoderOptions())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{cfg: config.Default(), logger: zerolog.Nop()}

	var configFile string
	var logLevel string
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().StringVarP(&configFile, "config", "c", configFile, "load configuration from file")
		cmd.PersistentFlags().StringVar(&logLevel, "log-level", logLevel, "log level (trace, debug, info, warn, error, disabled)")
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		return nil
	}
	var cmdRoot = &cobra.Command{
		Use:   "fudi",
		Short: "FUDI message tool",
		Long:  `Decode, encode, trace, and record FUDI messages as sent by Pure Data's netsend.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				cfg, err := config.Load(configFile)
				if err != nil {
					return err
				}
				a.cfg = cfg
			}

			// flags take precedence over the environment
			logging.ApplyEnvOverrides(&a.cfg.Log)
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				a.cfg.Log.Level = "debug"
			} else if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				a.cfg.Log.Level = "warn"
			}
			if logLevel != "" {
				if _, ok := logging.ParseLevel(logLevel); !ok {
					return fmt.Errorf("--log-level: unknown level %q", logLevel)
				}
				a.cfg.Log.Level = logLevel
			}
			a.cfg.Log.Out = cmd.ErrOrStderr()
			a.logger = logging.New("fudi", a.cfg.Log)

			if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
				fmt.Fprintf(cmd.ErrOrStderr(), "fudi: version %q\n", fudi.Version().Core())
			}
			return nil
		},
	}
	cmdRoot.AddCommand(cmdDecode(a))
	cmdRoot.AddCommand(cmdEncode(a))
	cmdRoot.AddCommand(cmdTrace(a))
	cmdRoot.AddCommand(cmdInitDB(a))
	cmdRoot.AddCommand(cmdRecord(a))
	cmdRoot.AddCommand(cmdReplay(a))
	cmdRoot.AddCommand(cmdSessions(a))
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}
	return cmdRoot
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Fprintln(cmd.OutOrStdout(), fudi.Version().String())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), fudi.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
