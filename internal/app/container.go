package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"resume-ats/internal/classifier"
	"resume-ats/internal/config"
	"resume-ats/internal/database"
	"resume-ats/internal/database/migration"
	dbpostgres "resume-ats/internal/database/postgres"
	"resume-ats/internal/domain/ats"
	"resume-ats/internal/extractor"
	"resume-ats/internal/infrastructure/cache"
	"resume-ats/internal/keywords"
	"resume-ats/internal/pkg/jwt"
	"resume-ats/internal/repository"
	"resume-ats/internal/usecase"
	"resume-ats/internal/ws"
	"resume-ats/migrations"
)

// Core is what the analysis pipeline needs without any outer
// infrastructure. The CLI builds only this.
type Core struct {
	Tables     *keywords.Tables
	Engine     *ats.Engine
	Extractor  extractor.Extractor
	Classifier classifier.Classifier
}

type Container struct {
	Config config.Config
	Logger *log.Logger
	Core

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub
	JWT   jwt.Service

	Predict *usecase.Predict
	History *usecase.History
}

func NewContainer(ctx context.Context, cfg config.Config, logger *log.Logger) (*Container, error) {
	if logger == nil {
		logger = log.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	if cfg.Database.Enabled() {
		db, err := ConnectDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		c.DB = db
	}

	core, err := NewCore(ctx, cfg, c.DB, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Core = core

	c.Cache = cache.NewRedis(ctx, cfg.Redis, logger)
	c.Hub = ws.NewHub(logger)

	if cfg.JWT.AccessSecret != "" {
		c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn, cfg.App.AppName)
	}

	opts := []usecase.PredictOption{
		usecase.WithNotifier(ws.NewNotifier(c.Hub)),
	}
	if c.Cache.Available() {
		opts = append(opts, usecase.WithAnalysisCache(c.Cache, cfg.Redis.TTL))
	}
	var analyses repository.AnalysisRepository
	if c.DB != nil {
		analyses = repository.NewPostgresAnalysisRepository(c.DB)
		opts = append(opts, usecase.WithAnalysisRepository(analyses))
	}

	c.Predict = usecase.NewPredictUsecase(c.Extractor, c.Classifier, c.Engine, logger, opts...)
	c.History = usecase.NewHistoryUsecase(analyses)

	return c, nil
}

// ConnectDB opens the pool and, when DB_AUTO_MIGRATE is set, applies the
// embedded migrations before returning.
func ConnectDB(ctx context.Context, cfg config.DatabaseConfig, logger *log.Logger) (database.DB, error) {
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(cctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.AutoMigrate {
		applied, err := (migration.Runner{FS: migrations.Files}).Run(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		for _, m := range applied {
			logger.Printf("migration applied | version=%d name=%s", m.Version, m.Name)
		}
	}
	return db, nil
}

func NewCore(ctx context.Context, cfg config.Config, db database.DB, logger *log.Logger) (Core, error) {
	tables, err := LoadTables(ctx, cfg.Keywords, db)
	if err != nil {
		return Core{}, err
	}
	cl, err := NewClassifier(ctx, cfg.Model, logger)
	if err != nil {
		return Core{}, err
	}

	logger.Printf(
		"tables loaded | source=%s categories=%d roles=%d fingerprint=%s",
		cfg.Keywords.Source, len(tables.Categories()), len(tables.Roles()), tables.Fingerprint(),
	)

	return Core{
		Tables:     tables,
		Engine:     NewEngine(tables, cfg.Keywords, logger),
		Extractor:  extractor.NewPDF(logger),
		Classifier: cl,
	}, nil
}

func LoadTables(ctx context.Context, cfg config.KeywordsConfig, db database.DB) (*keywords.Tables, error) {
	switch cfg.Source {
	case "", config.KeywordsBuiltin:
		return keywords.Defaults(), nil
	case config.KeywordsFile:
		t, err := keywords.LoadFile(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("load keyword file: %w", err)
		}
		return t, nil
	case config.KeywordsPostgres:
		if db == nil {
			return nil, errors.New("keyword source postgres requires a database")
		}
		t, err := keywords.LoadStore(ctx, repository.NewPostgresKeywordSetRepository(db))
		if err != nil {
			return nil, err
		}
		if len(t.Categories()) == 0 {
			return nil, errors.New("keyword_sets is empty, run `atsctl keywords seed` first")
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown keyword source %q", cfg.Source)
	}
}

func NewEngine(tables *keywords.Tables, cfg config.KeywordsConfig, logger *log.Logger) *ats.Engine {
	opts := []ats.Option{}
	if cfg.PhraseMatching {
		opts = append(opts, ats.WithMatchMode(ats.MatchPhrases))
	}
	if cfg.TraceScoring {
		opts = append(opts, ats.WithObserver(ats.NewLogObserver(logger)))
	}
	return ats.NewEngine(tables, opts...)
}

// NewClassifier prefers the remote model service when CLASSIFIER_URL is set
// and otherwise loads the local artifact. Either failing is a startup error.
func NewClassifier(ctx context.Context, cfg config.ModelConfig, logger *log.Logger) (classifier.Classifier, error) {
	if remote := classifier.NewRemote(cfg.ClassifierURL, cfg.ClassifierTimeout, logger); remote != nil {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := remote.Ping(pctx); err != nil {
			return nil, fmt.Errorf("classifier service unreachable: %w", err)
		}
		logger.Printf("classifier ready | kind=remote url=%s", cfg.ClassifierURL)
		return remote, nil
	}

	m, err := classifier.LoadModel(cfg.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", cfg.ModelPath, err)
	}
	logger.Printf("classifier ready | kind=local path=%s labels=%d", cfg.ModelPath, len(m.Labels()))
	return m, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
