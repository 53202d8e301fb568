package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dejaos/dejasite"
	"github.com/dejaos/dejasite/scaffold"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env is normal in production.
	_ = godotenv.Load()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe()
	case "export":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: dejasite export <dir>")
			os.Exit(1)
		}
		err = runExport(os.Args[2])
	case "init":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: dejasite init <dir>")
			os.Exit(1)
		}
		err = runInit(os.Args[2])
	case "version":
		fmt.Printf("dejasite %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`dejasite - the DejaOS documentation and marketing site

Usage:
  dejasite <command> [arguments]

Commands:
  serve         Serve the site over HTTP
  export <dir>  Render every page for every locale into dir
  init <dir>    Write the default site content into dir
  version       Print the dejasite version
  help          Show this help message

Environment:
  SITE_DIR      Site content directory (default: embedded content)
  LOG_LEVEL     debug, info, warn or error (default info)`)
}

// newLogger builds a development logger for LOG_LEVEL=debug and a production
// logger otherwise.
func newLogger() (*zap.Logger, error) {
	level := dejasite.EnvOr("LOG_LEVEL", "info")
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}

// siteFS returns SITE_DIR when it is an existing directory and the embedded
// default site otherwise.
func siteFS(log *zap.Logger) (fs.FS, error) {
	if dir := os.Getenv("SITE_DIR"); dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return os.DirFS(dir), nil
		}
		log.Warn("site dir not found, using embedded content", zap.String("dir", dir))
	}
	return scaffold.Site()
}

func newApp(log *zap.Logger) (*dejasite.App, error) {
	fsys, err := siteFS(log)
	if err != nil {
		return nil, err
	}
	cfg, err := dejasite.LoadConfig(fsys, "site.yaml")
	if err != nil {
		return nil, err
	}
	return dejasite.New(cfg, dejasite.ViewFuncs{},
		dejasite.WithLogger(log),
		dejasite.WithSiteFS(fsys),
	), nil
}

func runServe() error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	app, err := newApp(log)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func runExport(dir string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	app, err := newApp(log)
	if err != nil {
		return err
	}
	defer app.Close()
	if err := app.Init(); err != nil {
		return err
	}

	workers := 0
	if v := os.Getenv("EXPORT_WORKERS"); v != "" {
		if workers, err = strconv.Atoi(v); err != nil {
			return errors.New("EXPORT_WORKERS must be a number")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	res, err := app.Export(ctx, dejasite.ExportOptions{Dir: dir, Workers: workers})
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d pages and %d files to %s\n", res.Pages, res.Files, dir)
	return nil
}
