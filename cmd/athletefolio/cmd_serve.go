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

	"github.com/meur/athletefolio/internal/api"
	"github.com/meur/athletefolio/internal/mail"
	"github.com/meur/athletefolio/internal/objectstore"
	"github.com/meur/athletefolio/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var cfgPort string

func init() {
	serveCmd.Flags().StringVarP(&cfgPort, "port", "p", "", "Server port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfgPort != "" {
		cfg.Server.Port = cfgPort
	}

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	objects, err := objectstore.NewDisk(cfg.Media.Dir, cfg.Media.BaseURL)
	if err != nil {
		return err
	}

	var mailer mail.Mailer = mail.NewLogMailer(logger.Named("mail"))
	if cfg.Mail.Enabled {
		mailer = mail.NewSMTP(mail.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
			To:       cfg.Mail.To,
		})
	}

	handler := api.New(api.Deps{
		Store:             store,
		Objects:           objects,
		Mailer:            mailer,
		Logger:            logger,
		MediaDir:          objects.Root(),
		MediaPrefix:       cfg.Media.BaseURL,
		StaticDir:         cfg.Server.StaticDir,
		AllowedOrigins:    cfg.Server.AllowedOrigins,
		MaxUploadBytes:    cfg.Server.MaxUploadBytes,
		UploadConcurrency: cfg.Uploads.Concurrency,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("athletefolio API starting",
			zap.String("addr", "http://localhost:"+cfg.Server.Port),
			zap.String("database", cfg.Database.Path),
			zap.String("media", cfg.Media.Dir))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
