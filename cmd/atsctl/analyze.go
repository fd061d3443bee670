package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resume-ats/internal/app"
	"resume-ats/internal/config"
	"resume-ats/internal/database"
	"resume-ats/internal/domain/analysis"
	"resume-ats/internal/usecase"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE...",
	Short: "Score one or more resumes without the HTTP server",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

var (
	analyzeFormat      string
	analyzeConcurrency int
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "Output format: text or json")
	analyzeCmd.Flags().IntVarP(&analyzeConcurrency, "concurrency", "c", 4, "Files analyzed in parallel")

	rootCmd.AddCommand(analyzeCmd)
}

type fileResult struct {
	Path     string          `json:"path"`
	Analysis *analysisOutput `json:"analysis,omitempty"`
	Error    string          `json:"error,omitempty"`
}

type analysisOutput struct {
	Category          string   `json:"category"`
	ATSScore          float64  `json:"ats_score"`
	HighlightedSkills []string `json:"highlighted_skills"`
	SuggestedRole     string   `json:"suggested_role"`
	AllSkills         []string `json:"all_skills"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeFormat != "text" && analyzeFormat != "json" {
		return fmt.Errorf("unknown format %q", analyzeFormat)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var db database.DB
	if cfg.Keywords.Source == config.KeywordsPostgres {
		db, err = app.ConnectDB(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	core, err := app.NewCore(ctx, cfg, db, logger)
	if err != nil {
		return err
	}
	uc := usecase.NewPredictUsecase(core.Extractor, core.Classifier, core.Engine, logger)

	results := make([]fileResult, len(args))
	g, gctx := errgroup.WithContext(ctx)
	if analyzeConcurrency > 0 {
		g.SetLimit(analyzeConcurrency)
	}
	for i, path := range args {
		g.Go(func() error {
			results[i] = analyzeFile(gctx, uc, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else if err := writeTable(out, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

func analyzeFile(ctx context.Context, uc usecase.PredictUsecase, path string) fileResult {
	doc, err := os.ReadFile(path)
	if err != nil {
		return fileResult{Path: path, Error: err.Error()}
	}
	a, err := uc.Predict(ctx, usecase.PredictInput{Filename: filepath.Base(path), Document: doc})
	if err != nil {
		return fileResult{Path: path, Error: err.Error()}
	}
	return fileResult{Path: path, Analysis: toOutput(a)}
}

func toOutput(a analysis.Analysis) *analysisOutput {
	return &analysisOutput{
		Category:          a.Category,
		ATSScore:          a.ATSScore,
		HighlightedSkills: a.HighlightedSkills,
		SuggestedRole:     a.SuggestedRole,
		AllSkills:         a.AllSkills,
	}
}

func writeTable(w io.Writer, results []fileResult) error {
	table := tablewriter.NewWriter(w)
	table.Header("FILE", "CATEGORY", "SCORE", "ROLE", "SKILLS")
	for _, r := range results {
		if r.Error != "" {
			if err := table.Append(r.Path, "-", "-", "-", "error: "+r.Error); err != nil {
				return err
			}
			continue
		}
		a := r.Analysis
		if err := table.Append(r.Path, a.Category, fmt.Sprintf("%.2f", a.ATSScore), a.SuggestedRole, strings.Join(a.HighlightedSkills, ", ")); err != nil {
			return err
		}
	}
	return table.Render()
}
