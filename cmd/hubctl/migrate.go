package main

import (
	"errors"
	"fmt"

	"supplierhub/db"
	"supplierhub/db/migrations"
	"supplierhub/internal/config"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("DATABASE_URL is not set")
			}

			conn, err := db.Connect(cmd.Context(), cfg.Database.URL)
			if err != nil {
				return err
			}
			defer conn.Close()

			switch args[0] {
			case "up":
				return migrations.Up(conn.DB)
			case "down":
				return migrations.Down(conn.DB)
			case "status":
				return migrations.Status(conn.DB)
			}
			return fmt.Errorf("unknown direction %q", args[0])
		},
	}
	return cmd
}
