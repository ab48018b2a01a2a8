package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/dashsync/internal/logging"
	"github.com/iudanet/dashsync/internal/server"
	"github.com/iudanet/dashsync/internal/server/config"
	"github.com/iudanet/dashsync/internal/server/jwt"
	"github.com/iudanet/dashsync/internal/server/storage/sqlite"
	"github.com/iudanet/dashsync/internal/validation"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		printVersion(stdout)
		return nil
	}

	if cfg.IssueToken != "" {
		return issueToken(cfg, stdout)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer logger.Close()

	st, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	logger.Info("Storage ready", "db_path", cfg.DBPath, "version", Version)

	srv, err := server.New(cfg, st, logger.Logger)
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

// issueToken печатает токен устройства для конфигурации клиента
func issueToken(cfg config.Config, out io.Writer) error {
	if err := validation.ValidateDeviceName(cfg.IssueToken); err != nil {
		return err
	}

	svc, err := jwt.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	token, err := svc.IssueDeviceToken(cfg.IssueToken)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, token)
	return err
}

func printVersion(out io.Writer) {
	fmt.Fprintf(out, "dashsync server\n")
	fmt.Fprintf(out, "Version:    %s\n", Version)
	fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
	fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
}
