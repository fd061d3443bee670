package main

import (
	"fmt"

	"resume-ats/internal/app"
	"resume-ats/internal/config"
	"resume-ats/internal/database"
	"resume-ats/internal/database/seeder"
	"resume-ats/internal/infrastructure/cache"
	"resume-ats/internal/keywords"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Inspect and seed the keyword tables",
}

var keywordsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the keyword tables the server would load, as TOML",
	RunE:  runKeywordsShow,
}

var keywordsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the keyword_sets table with the built-in or file tables",
	RunE:  runKeywordsSeed,
}

var keywordsSeedFile string

func init() {
	keywordsSeedCmd.Flags().StringVar(&keywordsSeedFile, "file", "", "TOML keyword file to seed instead of the built-in tables")

	keywordsCmd.AddCommand(keywordsShowCmd, keywordsSeedCmd)
	rootCmd.AddCommand(keywordsCmd)
}

func runKeywordsShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	logger := newLogger()

	var db database.DB
	if cfg.Keywords.Source == config.KeywordsPostgres {
		db, err = app.ConnectDB(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	tables, err := app.LoadTables(ctx, cfg.Keywords, db)
	if err != nil {
		return err
	}
	b, err := keywords.Encode(tables)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# source=%s fingerprint=%s\n", cfg.Keywords.Source, tables.Fingerprint())
	_, err = out.Write(b)
	return err
}

func runKeywordsSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled() {
		return fmt.Errorf("set DATABASE_URL or DB_HOST to seed keyword tables")
	}
	ctx := cmd.Context()
	logger := newLogger()

	tables := keywords.Defaults()
	if keywordsSeedFile != "" {
		tables, err = keywords.LoadFile(keywordsSeedFile)
		if err != nil {
			return err
		}
	}

	db, err := app.ConnectDB(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := (seeder.Runner{Seeders: seeder.Defaults(tables), Logger: logger}).Run(ctx, db); err != nil {
		return err
	}

	// Cached results carry the old fingerprint and are unreachable now.
	rc := cache.NewRedis(ctx, cfg.Redis, logger)
	defer rc.Close()
	purged, err := rc.DeleteByPattern(ctx, "ats:analysis:*")
	if err != nil {
		logger.Printf("cache purge failed: %v", err)
	}

	fmt.Fprintf(
		cmd.OutOrStdout(),
		"seeded %d categories and %d roles (fingerprint %s), purged %d cached analyses\n",
		len(tables.Categories()), len(tables.Roles()), tables.Fingerprint(), purged,
	)
	return nil
}
