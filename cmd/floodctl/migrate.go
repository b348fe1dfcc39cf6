package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"floodwatch/internal/config"
	"floodwatch/internal/db"
	"floodwatch/internal/logging"
	"floodwatch/internal/migrate"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			logger := logging.New(cfg, version, appName)

			conn, err := db.Open(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(conn); err != nil {
					logger.Error("db close", "err", err)
				}
			}()

			applied, err := migrate.Run(cmd.Context(), conn)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if len(applied) == 0 {
				cmd.Println("database is up to date")
				return nil
			}
			for _, m := range applied {
				cmd.Printf("applied %s_%s\n", m.Version, m.Name)
			}
			return nil
		},
	}
}
