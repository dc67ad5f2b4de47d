package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/resumemd/internal/api"
	"github.com/dgallion1/resumemd/internal/prefs"
	"github.com/dgallion1/resumemd/internal/render"
	"github.com/dgallion1/resumemd/internal/source"
	"github.com/dgallion1/resumemd/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the résumé over HTTP, reloading it periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp(cmd)
			// Server logs go to stdout like any other service.
			a.log = newLogger(cmd.OutOrStdout(), a.level)
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(parent context.Context, a *app) error {
	cfg, log := a.cfg, a.log
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize clients.
	fetcher, err := source.New(cfg.Source, cfg.SourceToken)
	if err != nil {
		return err
	}
	themeDB, err := prefs.Open(ctx, cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open theme store: %w", err)
	}
	defer themeDB.Close()

	// Initial load, then periodic reloads.
	st := store.New(fetcher, log.With("source", cfg.Source),
		store.WithRetries(cfg.FetchRetries),
		store.WithStats(store.NewLoadStats(cfg.StatsWindow)),
	)
	st.Start(ctx, cfg.ReloadInterval)

	srv := api.NewServer(st, render.New(cfg.Render), prefs.NewService(themeDB), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info("shutting down...")

		st.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if c, ok := fetcher.(interface{ Close() }); ok {
			c.Close()
		}
	}()

	log.Info("starting resumemd", "port", cfg.Port, "source", cfg.Source)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		cancel()
		<-done
		return fmt.Errorf("server error: %w", err)
	}
	<-done
	return nil
}
