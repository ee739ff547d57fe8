package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/shiftreport/internal/config"
	"github.com/Simplici0/shiftreport/internal/service"
	"github.com/Simplici0/shiftreport/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report form and settings over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (env ADDR, default 127.0.0.1:8080)")
	_ = v.BindPFlag(config.KeyAddr, serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	archive, closeDB, err := openArchive()
	if err != nil {
		return err
	}
	defer closeDB()
	gen, err := newGenerator()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := worker.New(appLog)
	w.Start(ctx)
	defer w.Stop()

	srv := &server{
		store:   store,
		svc:     service.New(store, gen, archive, w, appLog),
		archive: archive,
		logger:  appLog,
	}
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLog.Warn("http shutdown", zap.Error(err))
		}
	}()

	appLog.Info("listening", zap.String("addr", cfg.Addr), zap.String("settings", store.Path()))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
