// Package wire provides dependency injection for the strat application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/example/strat/internal/adapters/generation"
	"github.com/example/strat/internal/adapters/sqlite"
	"github.com/example/strat/internal/app"
	"github.com/example/strat/internal/config"
	"github.com/example/strat/internal/core/dialect"
	"github.com/example/strat/internal/core/pipeline"
	"github.com/example/strat/internal/core/synth"
	"github.com/example/strat/internal/db"
	"github.com/example/strat/internal/ports/primary"
)

var (
	pipelineService primary.PipelineService
	synthesizer     *synth.Synthesizer
	stageRegistry   *pipeline.Registry
	cfg             *config.Config
	once            sync.Once
)

// PipelineService returns the singleton PipelineService instance.
func PipelineService() primary.PipelineService {
	once.Do(initServices)
	return pipelineService
}

// Synthesizer returns the singleton query synthesizer.
func Synthesizer() *synth.Synthesizer {
	once.Do(initServices)
	return synthesizer
}

// StageRegistry returns the singleton stage registry.
func StageRegistry() *pipeline.Registry {
	once.Do(initServices)
	return stageRegistry
}

// Cfg returns the loaded configuration.
func Cfg() *config.Config {
	once.Do(initServices)
	return cfg
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to resolve working directory: %v", err)
	}
	cfg, err = config.LoadOrDefault(cwd)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.DatabasePath != "" {
		db.SetPath(cfg.DatabasePath)
	}

	// Get database connection
	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	auditRepo := sqlite.NewAuditLogRepository(database)
	logWriter := sqlite.NewLogWriterAdapter(auditRepo)
	projectRepo := sqlite.NewProjectRepository(database, logWriter)
	artifactRepo := sqlite.NewArtifactRepository(database, logWriter)

	// Functional core
	synthesizer = synth.New(dialect.Builtin())
	stageRegistry = app.NewStageRegistry()

	// Draft generation: offline heuristics serve as both the default
	// proposer and the fallback
	proposer := generation.NewHeuristicProposer()
	handlers := app.NewStageHandlers(
		proposer,
		proposer,
		synthesizer,
		cfg.DefaultDatabases,
		time.Duration(cfg.ProposerTimeoutSeconds)*time.Second,
	)

	// Create services (primary ports implementation)
	pipelineService = app.NewPipelineService(projectRepo, artifactRepo, stageRegistry, handlers)
}
