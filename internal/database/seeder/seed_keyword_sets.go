package seeder

import (
	"context"
	"errors"

	"resume-ats/internal/database"
	"resume-ats/internal/keywords"
	"resume-ats/internal/repository"
)

// KeywordSetsSeeder replaces the keyword_sets table with Tables, or with
// the built-in defaults when Tables is nil.
type KeywordSetsSeeder struct {
	Tables *keywords.Tables
}

func (KeywordSetsSeeder) Name() string { return "keyword_sets" }

func (KeywordSetsSeeder) Table() string { return "keyword_sets" }

func (KeywordSetsSeeder) Columns() []string {
	return []string{"kind", "name", "position", "keywords", "updated_at"}
}

func (s KeywordSetsSeeder) Run(ctx context.Context, db database.DB) error {
	tables := s.Tables
	if tables == nil {
		tables = keywords.Defaults()
	}
	if len(tables.Categories()) == 0 && len(tables.Roles()) == 0 {
		return errors.New("refusing to seed empty keyword tables")
	}
	return keywords.SeedStore(ctx, repository.NewPostgresKeywordSetRepository(db), tables)
}
