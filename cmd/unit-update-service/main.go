// Package main boots the unit update service.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/fairyhunter13/unit-update-service/internal/config"
	"github.com/fairyhunter13/unit-update-service/internal/extract"
	httpapi "github.com/fairyhunter13/unit-update-service/internal/http"
	"github.com/fairyhunter13/unit-update-service/internal/obs"
	"github.com/fairyhunter13/unit-update-service/internal/service"
)

func main() {
	if err := newApp(config.Load(), serve).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type serveFunc func(ctx context.Context, cfg config.Config) error

// newApp builds the CLI. Flag defaults come from cfg, so environment values
// apply unless a flag overrides them.
func newApp(cfg config.Config, run serveFunc) *cli.App {
	return &cli.App{
		Name:  "unit-update-service",
		Usage: "serve the unit registry and update units from .docx documents",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: cfg.HTTPAddr, Usage: "HTTP listen address"},
			&cli.IntFlag{Name: "shutdown-timeout", Value: int(cfg.ShutdownTimeout / time.Second), Usage: "graceful shutdown timeout in seconds"},
			&cli.StringFlag{Name: "document", Value: cfg.DocumentPath, Usage: "document read when a request uploads none"},
			&cli.StringFlag{Name: "output-dir", Value: cfg.OutputDir, Usage: "directory for <unit>_dados_atualizados.json files"},
			&cli.StringFlag{Name: "units-file", Value: cfg.UnitsFile, Usage: "YAML or HCL file with the registry seed units"},
			&cli.StringSliceFlag{Name: "known-unit", Value: cli.NewStringSlice(cfg.KnownUnits...), Usage: "unit name recognised in request text (repeatable, checked in order)"},
			&cli.Int64Flag{Name: "max-upload-bytes", Value: cfg.MaxUploadBytes, Usage: "maximum uploaded document size"},
			&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel, Usage: "debug, info, warn or error"},
		},
		Action: func(c *cli.Context) error {
			return run(c.Context, configFromFlags(c, cfg))
		},
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "print the fields a .docx document would update",
				ArgsUsage: "[document.docx]",
				Action:    extractAction(cfg),
			},
		},
	}
}

func configFromFlags(c *cli.Context, cfg config.Config) config.Config {
	cfg.HTTPAddr = c.String("addr")
	cfg.ShutdownTimeout = time.Duration(c.Int("shutdown-timeout")) * time.Second
	cfg.DocumentPath = c.String("document")
	cfg.OutputDir = c.String("output-dir")
	cfg.UnitsFile = c.String("units-file")
	cfg.KnownUnits = c.StringSlice("known-unit")
	cfg.MaxUploadBytes = c.Int64("max-upload-bytes")
	cfg.LogLevel = c.String("log-level")
	return cfg
}

func extractAction(cfg config.Config) cli.ActionFunc {
	return func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			path = cfg.DocumentPath
		}
		patch, err := extract.File(path)
		if err != nil {
			return fmt.Errorf("extract %s: %w", path, err)
		}
		enc := json.NewEncoder(c.App.Writer)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "    ")
		return enc.Encode(patch)
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	obs.InitLoggerWith(os.Stdout, cfg.LogLevel)
	obs.Logger.Info("service_starting",
		"output_dir", cfg.OutputDir,
		"units_file", cfg.UnitsFile,
	)

	svc, err := service.FromConfig(cfg)
	if err != nil {
		return err
	}
	app := httpapi.NewApp(cfg, svc)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		obs.Logger.Info("http_listen",
			"addr", cfg.HTTPAddr,
			"units", svc.Store().Names(),
			"document_path", svc.DocumentPath(),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)
	select {
	case s := <-sigc:
		obs.Logger.Info("shutdown_signal", "signal", s.String())
	case <-ctx.Done():
		obs.Logger.Info("shutdown_context_done")
	case err := <-errc:
		obs.Logger.Error("http_server_error", "error", err)
		return err
	}

	app.StartShutdown()
	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
		return err
	}
	obs.Logger.Info("service_stopped")
	return nil
}
