package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/templui/stepboard/internal/config"
	"github.com/templui/stepboard/internal/db"
	"github.com/templui/stepboard/internal/repository"
	"github.com/templui/stepboard/internal/service"
	"github.com/templui/stepboard/internal/storage"
)

type App struct {
	Cfg                *config.Config
	DB                 *sqlx.DB
	AuthService        *service.AuthService
	GoalService        *service.GoalService
	ProofService       *service.ProofService
	SubmissionService  *service.SubmissionService
	LeaderboardService *service.LeaderboardService
	ContentService     *service.ContentService
}

func New(cfg *config.Config) (*App, error) {
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}
	return NewWithStorage(cfg, fileStorage)
}

// NewWithStorage wires the app around an already constructed proof storage
func NewWithStorage(cfg *config.Config, fileStorage storage.Storage) (*App, error) {
	a := &App{Cfg: cfg}

	// Repositories
	var recordRepository repository.RecordRepository
	var goalRepository repository.GoalRepository
	if cfg.UsesDatabase() {
		database, err := db.Init(cfg.StoreDriver, cfg.DBConnection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %v", err)
		}
		a.DB = database

		err = db.RunMigrations(database.DB, cfg.StoreDriver)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to run migrations: %v", err)
		}

		recordRepository = repository.NewSQLRecordRepository(database)
		goalRepository = repository.NewSQLGoalRepository(database)
	} else {
		slog.Info("using flat file stores", "records", cfg.RecordsPath, "goal", cfg.GoalPath)
		recordRepository = repository.NewCSVRecordRepository(cfg.RecordsPath, cfg.Location)
		goalRepository = repository.NewFileGoalRepository(cfg.GoalPath)
	}

	credentials, err := service.ParseCredentials(cfg.AdminCredentials)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to parse admin credentials: %v", err)
	}
	if len(credentials) == 0 {
		slog.Warn("ADMIN_CREDENTIALS not set, goal administration is disabled")
	}

	// Services
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	clock := func() time.Time { return time.Now().In(loc) }
	goalService := service.NewGoalService(goalRepository)
	proofService := service.NewProofService(fileStorage, clock)

	a.GoalService = goalService
	a.ProofService = proofService
	a.AuthService = service.NewAuthService(credentials, cfg.JWTSecret, cfg.IsProduction(), cfg.JWTExpiry)
	a.SubmissionService = service.NewSubmissionService(recordRepository, goalService, proofService, clock)
	a.LeaderboardService = service.NewLeaderboardService(recordRepository, goalService, clock)
	a.ContentService = service.NewContentService(cfg.ContentPath)

	return a, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
