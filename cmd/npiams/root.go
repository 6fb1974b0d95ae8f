package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/emabi2002/npiams-sub001/modules"
	"github.com/emabi2002/npiams-sub001/pkg/application"
	"github.com/emabi2002/npiams-sub001/pkg/configuration"
	"github.com/emabi2002/npiams-sub001/pkg/eventbus"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "npiams",
		Short:         "Academic administration management tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSeedCmd())
	return cmd
}

// loadApp connects to the database and registers every built-in
// module. The caller owns the returned pool.
func loadApp(ctx context.Context) (application.Application, *pgxpool.Pool, error) {
	conf := configuration.Use()
	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	if err := modules.Load(app); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return app, pool, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
