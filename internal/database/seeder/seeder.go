package seeder

import (
	"context"

	"resume-ats/internal/database"
)

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// TableSeeder writes into a single table whose columns the runner verifies
// before Run is called.
type TableSeeder interface {
	Seeder
	Table() string
	Columns() []string
}
