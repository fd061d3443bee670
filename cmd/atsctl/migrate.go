package main

import (
	"fmt"
	"strconv"

	"resume-ats/internal/database/migration"
	dbpostgres "resume-ats/internal/database/postgres"
	"resume-ats/migrations"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	RunE:  runMigrate,
}

var migrateStatus bool

func init() {
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "List migrations and whether they are applied, without applying")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled() {
		return fmt.Errorf("set DATABASE_URL or DB_HOST to run migrations")
	}

	ctx := cmd.Context()
	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	runner := migration.Runner{FS: migrations.Files}
	out := cmd.OutOrStdout()

	if migrateStatus {
		statuses, err := runner.Status(ctx, db)
		if err != nil {
			return err
		}
		table := tablewriter.NewWriter(out)
		table.Header("VERSION", "NAME", "APPLIED")
		for _, s := range statuses {
			if err := table.Append(strconv.FormatInt(s.Version, 10), s.Name, strconv.FormatBool(s.Applied)); err != nil {
				return err
			}
		}
		return table.Render()
	}

	applied, err := runner.Run(ctx, db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(out, "database is up to date")
		return nil
	}
	for _, m := range applied {
		fmt.Fprintf(out, "applied V%d %s\n", m.Version, m.Name)
	}
	return nil
}
