package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itchan-dev/scoula/internal/storage/db"
	"github.com/itchan-dev/scoula/internal/storage/migrations"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database schema migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStorage(cmd, "Migrations applied.", func(s *db.Storage) error {
					return migrations.Up(s.DB(), s.Driver())
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStorage(cmd, "Migrations rolled back.", func(s *db.Storage) error {
					return migrations.Down(s.DB(), s.Driver())
				})
			},
		},
	)

	return cmd
}

// withStorage connects without the automatic migration so fn decides what runs.
func (a *app) withStorage(cmd *cobra.Command, done string, fn func(*db.Storage) error) error {
	cfg := *a.load()
	cfg.Public.Database.AutoMigrate = false

	s, err := db.New(cmd.Context(), &cfg)
	if err != nil {
		return err
	}
	defer s.Cleanup()

	if err := fn(s); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), done)
	return nil
}
