package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iudanet/dashsync/internal/client/api"
	"github.com/iudanet/dashsync/internal/client/data"
	"github.com/iudanet/dashsync/internal/client/iocli"
	"github.com/iudanet/dashsync/internal/client/netstatus"
	"github.com/iudanet/dashsync/internal/client/storage/boltdb"
	"github.com/iudanet/dashsync/internal/client/sync"
	"github.com/iudanet/dashsync/internal/config"
	"github.com/iudanet/dashsync/internal/logging"
)

// VersionInfo is set via ldflags during build
type VersionInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// App связывает конфигурацию, хранилище и сервисы одного запуска команды
type App struct {
	v       *viper.Viper
	cfg     *config.Config
	logger  *logging.Logger
	storage *boltdb.Storage
	monitor *netstatus.Monitor
	manager *sync.Manager
	cli     *Cli
	io      iocli.IO
	cfgFile string
	version VersionInfo
}

func newApp(version VersionInfo, io iocli.IO) *App {
	return &App{
		v:       config.New(),
		io:      io,
		version: version,
	}
}

// setup загружает конфигурацию, открывает хранилище и создает сервисы
func (a *App) setup(ctx context.Context) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	a.logger = logger

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := boltdb.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.storage = store

	if err := a.unlock(ctx); err != nil {
		return err
	}

	client := api.NewClient(cfg.ServerURL, cfg.Token)
	a.monitor = netstatus.NewMonitor(client, cfg.Sync.ProbeInterval, logger.Logger)
	a.manager = sync.NewManager(client, store, a.monitor, sync.Config{
		Interval:         cfg.Sync.Interval,
		ItemDelay:        cfg.Sync.ItemDelay,
		MaxRetryAttempts: cfg.Sync.MaxRetries,
	}, logger.Logger)

	a.cli = New(a.io, data.NewService(store), a.manager, store, a.monitor)
	return nil
}

// unlock включает шифрование, если задана парольная фраза или база уже зашифрована
func (a *App) unlock(ctx context.Context) error {
	passphrase := a.cfg.Passphrase
	if passphrase == "" {
		encrypted, err := a.storage.IsEncrypted(ctx)
		if err != nil {
			return fmt.Errorf("failed to check encryption: %w", err)
		}
		if !encrypted {
			return nil
		}
		passphrase, err = a.io.ReadPassword("Passphrase: ")
		if err != nil {
			return fmt.Errorf("failed to read passphrase: %w", err)
		}
	}

	if err := a.storage.Unlock(ctx, passphrase); err != nil {
		return fmt.Errorf("failed to unlock database: %w", err)
	}
	return nil
}

func (a *App) close() error {
	var errs []error
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
		a.storage = nil
	}
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// runDaemon запускает фоновую синхронизацию и следит за изменением файла конфигурации
func (a *App) runDaemon(ctx context.Context) error {
	if a.v.ConfigFileUsed() != "" {
		config.Watch(a.v, func(cfg *config.Config) {
			if err := a.logger.SetLevel(cfg.Log.Level); err != nil {
				a.logger.Warn("Ignoring invalid log level", "error", err)
				return
			}
			a.logger.Info("Config reloaded", "log_level", cfg.Log.Level)
		}, func(err error) {
			a.logger.Warn("Ignoring invalid config change", "error", err)
		})
	}

	return NewDaemon(a.monitor, a.manager, a.cfg.MetricsAddr, a.logger.Logger).Run(ctx)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	bindings := map[string]string{
		config.KeyServerURL: "server",
		config.KeyDBPath:    "db",
		config.KeyToken:     "token",
		config.KeyLogLevel:  "log-level",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", flag, err)
		}
	}
	return nil
}
