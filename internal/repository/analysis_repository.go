package repository

import (
	"context"
	"errors"

	"resume-ats/internal/database"
	"resume-ats/internal/domain/analysis"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

type AnalysisRepository interface {
	Create(ctx context.Context, a analysis.Analysis) error
	List(ctx context.Context, limit, offset int) ([]analysis.Analysis, error)
	FindByID(ctx context.Context, id uuid.UUID) (analysis.Analysis, error)
}

type PostgresAnalysisRepository struct {
	db database.DB
}

func NewPostgresAnalysisRepository(db database.DB) *PostgresAnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

const analysisColumns = `id, filename, document_hash, category, ats_score, highlighted_skills, all_skills, suggested_role, match_mode, subject, created_at`

func (r *PostgresAnalysisRepository) Create(ctx context.Context, a analysis.Analysis) error {
	if r == nil || r.db == nil {
		return errors.New("nil db")
	}
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO resume_analyses (`+analysisColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		a.ID,
		a.Filename,
		a.DocumentHash,
		a.Category,
		a.ATSScore,
		nonNil(a.HighlightedSkills),
		nonNil(a.AllSkills),
		a.SuggestedRole,
		a.MatchMode,
		a.Subject,
		a.CreatedAt,
	)
	return err
}

func (r *PostgresAnalysisRepository) List(ctx context.Context, limit, offset int) ([]analysis.Analysis, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("nil db")
	}
	rows, err := r.db.Query(
		ctx,
		`SELECT `+analysisColumns+` FROM resume_analyses ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]analysis.Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (analysis.Analysis, error) {
	if r == nil || r.db == nil {
		return analysis.Analysis{}, errors.New("nil db")
	}
	row := r.db.QueryRow(ctx, `SELECT `+analysisColumns+` FROM resume_analyses WHERE id = $1`, id)
	a, err := scanAnalysis(row)
	if errors.Is(err, database.ErrNoRows) {
		return analysis.Analysis{}, ErrNotFound
	}
	return a, err
}

func scanAnalysis(row database.Row) (analysis.Analysis, error) {
	var a analysis.Analysis
	err := row.Scan(
		&a.ID,
		&a.Filename,
		&a.DocumentHash,
		&a.Category,
		&a.ATSScore,
		&a.HighlightedSkills,
		&a.AllSkills,
		&a.SuggestedRole,
		&a.MatchMode,
		&a.Subject,
		&a.CreatedAt,
	)
	if err != nil {
		return analysis.Analysis{}, err
	}
	a.HighlightedSkills = nonNil(a.HighlightedSkills)
	a.AllSkills = nonNil(a.AllSkills)
	return a, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
