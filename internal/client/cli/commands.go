package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/dashsync/internal/client/iocli"
	"github.com/iudanet/dashsync/internal/models"
)

// annotationNoSetup помечает команды, которым не нужны хранилище и конфигурация
const annotationNoSetup = "dashsync/no-setup"

// Execute runs the command line and releases the local store afterwards
func Execute(ctx context.Context, version VersionInfo, io iocli.IO, args []string) error {
	app := newApp(version, io)
	root := newRootCmd(app)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if cerr := app.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "dashsync",
		Short: "Offline-first sync client for the personal dashboard",
		Long: `dashsync records dashboard data (transactions, meals, workouts, tasks, events)
locally and keeps it in sync with the server. Every change is stored first and
queued; queued changes are sent when the server is reachable.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsSetup(cmd) {
				return nil
			}
			return app.setup(cmd.Context())
		},
	}
	root.SetOut(app.io)
	root.SetErr(os.Stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&app.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/dashsync/config.yaml)")
	flags.String("server", "", "server URL")
	flags.String("db", "", "path to local database")
	flags.String("token", "", "device token for the server")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	if err := bindFlags(app.v, root); err != nil {
		panic(err)
	}

	root.AddGroup(
		&cobra.Group{ID: "data", Title: "Data Commands:"},
		&cobra.Group{ID: "sync", Title: "Sync Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)
	root.SetHelpCommandGroupID("system")
	root.SetCompletionCommandGroupID("system")

	root.AddCommand(
		newAddCmd(app),
		newUpdateCmd(app),
		newDeleteCmd(app),
		newGetCmd(app),
		newListCmd(app),
		newSyncCmd(app),
		newStatusCmd(app),
		newQueueCmd(app),
		newDaemonCmd(app),
		newDoctorCmd(app),
		newVersionCmd(app),
	)

	return root
}

// needsSetup is false for help, completion and commands annotated with annotationNoSetup
func needsSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
		if c.Annotations[annotationNoSetup] != "" {
			return false
		}
	}
	return true
}

func collectionNames() []string {
	names := make([]string, 0, len(models.Collections()))
	for _, c := range models.Collections() {
		names = append(names, string(c))
	}
	return names
}

// collectionArg разбирает первый аргумент как имя коллекции
func collectionArg(args []string) (models.Collection, error) {
	c, err := models.ParseCollection(args[0])
	if err != nil {
		return "", fmt.Errorf("%w (use one of: %s)", err, strings.Join(collectionNames(), ", "))
	}
	return c, nil
}

func newAddCmd(app *App) *cobra.Command {
	var payload string

	cmd := &cobra.Command{
		Use:   "add <collection>",
		Short: "Add a record",
		Example: `  dashsync add tasks --data '{"title":"Pay rent","priority":"high"}'
  dashsync add transactions --data '{"amountCents":1250,"currency":"EUR","kind":"expense","category":"food"}'`,
		GroupID:   "data",
		Args:      cobra.ExactArgs(1),
		ValidArgs: collectionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := collectionArg(args)
			if err != nil {
				return err
			}
			return app.cli.runAdd(cmd.Context(), c, payload)
		},
	}
	cmd.Flags().StringVarP(&payload, "data", "d", "", "record fields as JSON (prompted if empty)")
	return cmd
}

func newUpdateCmd(app *App) *cobra.Command {
	var payload string

	cmd := &cobra.Command{
		Use:     "update <collection> <id>",
		Short:   "Replace the fields of a record",
		GroupID: "data",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := collectionArg(args)
			if err != nil {
				return err
			}
			return app.cli.runUpdate(cmd.Context(), c, args[1], payload)
		},
	}
	cmd.Flags().StringVarP(&payload, "data", "d", "", "record fields as JSON (prompted if empty)")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <collection> <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a record",
		GroupID: "data",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := collectionArg(args)
			if err != nil {
				return err
			}
			return app.cli.runDelete(cmd.Context(), c, args[1], force)
		},
	}
	cmd.Flags().BoolVarP(&force, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "get <collection> <id>",
		Aliases: []string{"show"},
		Short:   "Show a record",
		GroupID: "data",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := collectionArg(args)
			if err != nil {
				return err
			}
			return app.cli.runGet(cmd.Context(), c, args[1])
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	var (
		opts      listOptions
		statusStr string
	)

	cmd := &cobra.Command{
		Use:       "list <collection>",
		Aliases:   []string{"ls"},
		Short:     "List records of a collection",
		GroupID:   "data",
		Args:      cobra.ExactArgs(1),
		ValidArgs: collectionNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := collectionArg(args)
			if err != nil {
				return err
			}
			if statusStr != "" {
				st, err := models.ParseSyncStatus(statusStr)
				if err != nil {
					return err
				}
				opts.status = st
			}
			return app.cli.runList(cmd.Context(), c, opts)
		},
	}
	cmd.Flags().StringVarP(&statusStr, "status", "s", "", "filter by sync status: synced, pending, failed")
	cmd.Flags().StringVar(&opts.from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.to, "to", "", "last day (YYYY-MM-DD)")
	return cmd
}

func newSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "sync",
		Short:   "Send queued changes to the server now",
		GroupID: "sync",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.cli.runSync(cmd.Context())
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show the offline indicator: connectivity, pending changes, errors",
		GroupID: "sync",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.cli.runStatus(cmd.Context(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newQueueCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "queue",
		Short:   "List queued mutations",
		GroupID: "sync",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.cli.runQueue(cmd.Context())
		},
	}
}

func newDaemonCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "daemon",
		Short:   "Sync in the background until interrupted",
		GroupID: "sync",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runDaemon(cmd.Context())
		},
	}
}

func newDoctorCmd(app *App) *cobra.Command {
	var repair bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Find pending records that lost their queued mutation",
		GroupID: "system",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.cli.runDoctor(cmd.Context(), repair)
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "queue the found records again")
	return cmd
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		GroupID:     "system",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app.io.Printf("dashsync client\n")
			app.io.Printf("Version:    %s\n", app.version.Version)
			app.io.Printf("Build Date: %s\n", app.version.BuildDate)
			app.io.Printf("Git Commit: %s\n", app.version.GitCommit)
			return nil
		},
	}
}
