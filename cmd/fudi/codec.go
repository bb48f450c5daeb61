// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mdhender/fudi"
	"github.com/mdhender/fudi/transcripts"
	"github.com/spf13/cobra"
)

// openInput returns a reader for the named transcript, or stdin if there
// is no name. The caller must call the returned close function.
func openInput(cmd *cobra.Command, ts *transcripts.Service, args []string) (io.Reader, string, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), "stdin", func() {}, nil
	}
	fd, err := ts.OpenFile(args[0])
	if err != nil {
		return nil, "", nil, err
	}
	return fd, args[0], func() { _ = fd.Close() }, nil
}

func cmdDecode(a *app) *cobra.Command {
	asJSON := false
	showDiagnostics := false
	var outputFile string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&asJSON, "json", asJSON, "print each message as a JSON array of atoms")
		cmd.Flags().BoolVar(&showDiagnostics, "diagnostics", showDiagnostics, "report discarded atoms on stderr")
		cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "save the decoded messages to a transcript file")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "decode [transcript-file]",
		Short:        "decode FUDI messages from a file or stdin",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, name, closeInput, err := openInput(cmd, a.transcripts(), args)
			if err != nil {
				return err
			}
			defer closeInput()

			opts := append(a.cfg.DecoderOptions(), fudi.WithLogger(a.logger))
			if showDiagnostics {
				opts = append(opts, fudi.WithDiagnostics(func(d fudi.Diagnostic) {
					fudi.PrintDiagnostic(cmd.ErrOrStderr(), d, name)
				}))
			}
			d, err := fudi.NewDecoder(r, opts...)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			var decoded []fudi.Message
			for m, err := range d.All() {
				if err != nil {
					return err
				}
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if outputFile != "" {
					decoded = append(decoded, m)
				}
				if asJSON {
					data, err := json.Marshal(m.Strings())
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s\n", data)
				} else {
					fmt.Fprintln(w, m.String())
				}
			}

			if outputFile != "" {
				if err := a.transcripts().Write(outputFile, decoded); err != nil {
					return err
				}
				a.logger.Info().Str("file", outputFile).Int("messages", len(decoded)).Msg("decode: wrote transcript")
			}

			stats := d.Tokenizer().Stats()
			a.logger.Debug().
				Str("input", name).
				Int64("bytes", stats.Bytes).
				Int64("messages", stats.Messages).
				Int64("atoms", stats.Atoms).
				Int64("discarded", stats.Discarded).
				Msg("decode: done")
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdEncode(a *app) *cobra.Command {
	noNewline := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&noNewline, "no-newline", noNewline, "do not append a newline after each terminator")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "encode [atom...]",
		Short: "encode one message from the arguments, or one per line of stdin",
		Long: `Encode one message from the arguments, or one per line of stdin.
Lines are split on whitespace; use the arguments to send atoms that contain spaces.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.EncoderOptions()
			if noNewline {
				opts = append(opts, fudi.WithNewline(false))
			}
			mw, err := fudi.NewMessageWriter(cmd.OutOrStdout(), opts...)
			if err != nil {
				return err
			}

			if len(args) != 0 {
				return mw.WriteMessage(fudi.ParseAtoms(args...))
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			lineNo := 0
			for scanner.Scan() {
				lineNo++
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if err := mw.WriteMessage(fudi.ParseAtoms(strings.Fields(scanner.Text())...)); err != nil {
					return fmt.Errorf("line %d: %w", lineNo, err)
				}
			}
			return scanner.Err()
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdTrace(a *app) *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "trace [transcript-file]",
		Short:        "print every tokenizer transition",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, name, closeInput, err := openInput(cmd, a.transcripts(), args)
			if err != nil {
				return err
			}
			defer closeInput()

			w := cmd.OutOrStdout()
			opts := append(a.cfg.DecoderOptions(),
				fudi.WithLogger(a.logger),
				fudi.WithTrace(func(tr fudi.Transition) {
					emitted := ""
					if tr.Emitted {
						emitted = "emit"
					}
					fmt.Fprintf(w, "%6d %-6q %-9s -> %-9s %s\n", tr.Offset, tr.Byte, tr.From, tr.To, emitted)
				}),
				fudi.WithDiagnostics(func(d fudi.Diagnostic) {
					fudi.PrintDiagnostic(w, d, name)
				}),
				fudi.WithHandler(func(m fudi.Message) {
					fmt.Fprintf(w, "       message %q\n", m.Strings())
				}),
			)
			tk, err := fudi.NewTokenizer(opts...)
			if err != nil {
				return err
			}
			if _, err := io.Copy(tk, r); err != nil {
				return err
			}
			if tk.Pending() {
				fmt.Fprintf(w, "%s: input ended in state %s; unterminated message dropped\n", name, tk.State())
			}
			return nil
		},
	}
	return cmd
}
