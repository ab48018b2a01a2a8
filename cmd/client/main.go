package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/dashsync/internal/client/cli"
	"github.com/iudanet/dashsync/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Контекст отменяется по Ctrl+C, daemon завершается штатно
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	version := cli.VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
	}

	if err := cli.Execute(ctx, version, iocli.NewStdio(), os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}
