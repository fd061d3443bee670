package repository

import (
	"context"
	"errors"
	"fmt"

	"resume-ats/internal/database"
	"resume-ats/internal/keywords"
)

type PostgresKeywordSetRepository struct {
	db database.DB
}

func NewPostgresKeywordSetRepository(db database.DB) *PostgresKeywordSetRepository {
	return &PostgresKeywordSetRepository{db: db}
}

var _ keywords.SetStore = (*PostgresKeywordSetRepository)(nil)

func (r *PostgresKeywordSetRepository) LoadSets(ctx context.Context) ([]keywords.KeywordSet, []keywords.KeywordSet, error) {
	if r == nil || r.db == nil {
		return nil, nil, errors.New("nil db")
	}
	rows, err := r.db.Query(ctx, `SELECT kind, name, keywords FROM keyword_sets ORDER BY kind ASC, position ASC`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var categories, roles []keywords.KeywordSet
	for rows.Next() {
		var kind string
		var set keywords.KeywordSet
		if err := rows.Scan(&kind, &set.Name, &set.Keywords); err != nil {
			return nil, nil, err
		}
		switch kind {
		case keywords.KindCategory:
			categories = append(categories, set)
		case keywords.KindRole:
			roles = append(roles, set)
		default:
			return nil, nil, fmt.Errorf("keyword_sets: unknown kind %q", kind)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return categories, roles, nil
}

func (r *PostgresKeywordSetRepository) ReplaceSets(ctx context.Context, categories, roles []keywords.KeywordSet) error {
	if r == nil || r.db == nil {
		return errors.New("nil db")
	}

	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM keyword_sets`); err != nil {
			return err
		}
		if err := insertSets(ctx, tx, keywords.KindCategory, categories); err != nil {
			return err
		}
		return insertSets(ctx, tx, keywords.KindRole, roles)
	})
}

func insertSets(ctx context.Context, q database.Querier, kind string, sets []keywords.KeywordSet) error {
	for i, s := range sets {
		kws := s.Keywords
		if kws == nil {
			kws = []string{}
		}
		_, err := q.Exec(
			ctx,
			`INSERT INTO keyword_sets (kind, name, position, keywords, updated_at) VALUES ($1, $2, $3, $4, now())`,
			kind,
			s.Name,
			i,
			kws,
		)
		if err != nil {
			return fmt.Errorf("insert %s %q: %w", kind, s.Name, err)
		}
	}
	return nil
}
