package seeder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"resume-ats/internal/database"
)

type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

// Run executes the seeders in order and stops at the first failure.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if ts, ok := s.(TableSeeder); ok {
			if err := CheckColumns(ctx, db, ts.Table(), ts.Columns()); err != nil {
				logger.Printf("seed name=%s status=schema_error err=%v", s.Name(), err)
				return fmt.Errorf("seed %s: %w", s.Name(), err)
			}
		}
		if err := s.Run(ctx, db); err != nil {
			logger.Printf("seed name=%s status=error err=%v", s.Name(), err)
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		logger.Printf("seed name=%s status=ok duration_ms=%d", s.Name(), time.Since(start).Milliseconds())
	}
	return nil
}
