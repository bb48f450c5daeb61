// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mdhender/fudi"
	store "github.com/mdhender/fudi/stores/sqlite"
	"github.com/spf13/cobra"
)

// openStore opens the capture database named by --db or the configuration.
func openStore(a *app, dbPath string) (*store.SQLiteStore, error) {
	if dbPath == "" {
		dbPath = a.cfg.Store.Path
	}
	s, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

func cmdInitDB(a *app) *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "init-db [path]",
		Short:        "create a capture database",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Store.Path
			if len(args) == 1 {
				path = args[0]
			}
			if err := store.InitDatabase(path); err != nil {
				return err
			}
			a.logger.Info().Str("path", path).Msg("init-db: created capture database")
			return nil
		},
	}
	return cmd
}

func cmdRecord(a *app) *cobra.Command {
	var dbPath string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "capture database (default from config)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "record [transcript-file]",
		Short:        "decode messages from a file or stdin into a new capture session",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, name, closeInput, err := openInput(cmd, a.transcripts(), args)
			if err != nil {
				return err
			}
			defer closeInput()

			s, err := openStore(a, dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			session, err := s.CreateSession(ctx, name)
			if err != nil {
				return err
			}
			logger := a.logger.With().Str("session", session.ID).Logger()
			logger.Info().Str("source", name).Msg("record: started")

			d, err := fudi.NewDecoder(r, append(a.cfg.DecoderOptions(), fudi.WithLogger(logger))...)
			if err != nil {
				return err
			}
			recorded := 0
			var recordErr error
			for m, err := range d.All() {
				if err != nil {
					recordErr = err
					break
				}
				if err := ctx.Err(); err != nil {
					recordErr = err
					break
				}
				if err := s.AppendMessages(ctx, session.ID, time.Now(), m); err != nil {
					recordErr = err
					break
				}
				recorded++
				logger.Debug().Str("message", m.String()).Msg("record: message")
			}

			// an interrupted session is still closed
			stats := d.Tokenizer().Stats()
			if err := s.FinishSession(context.WithoutCancel(ctx), session.ID, stats.Discarded); err != nil && recordErr == nil {
				recordErr = err
			}
			logger.Info().
				Int("messages", recorded).
				Int64("discarded", stats.Discarded).
				Msg("record: finished")
			fmt.Fprintln(cmd.OutOrStdout(), session.ID)
			return recordErr
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdReplay(a *app) *cobra.Command {
	var dbPath string
	noNewline := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "capture database (default from config)")
		cmd.Flags().BoolVar(&noNewline, "no-newline", noNewline, "do not append a newline after each terminator")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "replay <session-id>",
		Short:        "write the messages of a capture session to stdout",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(a, dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			list, err := s.SessionMessages(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			opts := a.cfg.EncoderOptions()
			if noNewline {
				opts = append(opts, fudi.WithNewline(false))
			}
			mw, err := fudi.NewMessageWriter(cmd.OutOrStdout(), opts...)
			if err != nil {
				return err
			}
			for n, m := range list {
				if err := mw.WriteMessage(m); err != nil {
					return fmt.Errorf("message %d: %w", n+1, err)
				}
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdSessions(a *app) *cobra.Command {
	var dbPath string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "capture database (default from config)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "sessions",
		Short:        "list capture sessions",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(a, dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			sessions, err := s.ListSessions(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, session := range sessions {
				finished := "open"
				if !session.FinishedAt.IsZero() {
					finished = session.FinishedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s  %-20s  %s  %-20s  %6d messages  %4d discarded\n",
					session.ID, session.Source, session.StartedAt.Format(time.RFC3339), finished,
					session.Messages, session.Discarded)
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
