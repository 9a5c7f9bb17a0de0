package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/employee_records/internal/config"
	"github.com/locvowork/employee_records/internal/database"
	"github.com/locvowork/employee_records/internal/handler"
	"github.com/locvowork/employee_records/internal/logger"
	"github.com/locvowork/employee_records/internal/report"
	"github.com/locvowork/employee_records/internal/repository"
	"github.com/locvowork/employee_records/internal/service"
	"github.com/locvowork/employee_records/internal/store"
)

type App struct {
	Echo    *echo.Echo
	DB      *sql.DB
	Store   *store.OrderedStore
	Service service.EmployeeService

	// DataFile overrides DATA_FILE when set before Initialize.
	DataFile string
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	if a.DataFile == "" {
		a.DataFile = cfg.DATA_FILE
	}

	layout, err := report.LoadLayout(cfg.REPORT_LAYOUT_PATH)
	if err != nil {
		return fmt.Errorf("failed to load report layout: %w", err)
	}

	opts := []service.Option{service.WithWorkbook(report.NewWorkbook(layout))}

	if cfg.DB_ENABLED {
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		a.DB = db

		mirror := repository.NewPostgresRepository(db)
		if err := mirror.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare employees table: %w", err)
		}
		opts = append(opts, service.WithMirror(mirror))
		logger.InfoLog(ctx, "Postgres mirror enabled on %s:%d", cfg.DB_HOST, cfg.DB_PORT)
	}

	// Initialize dependencies
	a.Store = store.New()
	a.Service = service.NewEmployeeService(a.Store, repository.NewFileRepository(a.DataFile), opts...)

	empHandler := handler.NewEmployeeHandler(a.Service, handler.StatsDefaults{
		ReferenceYear:  cfg.REFERENCE_YEAR,
		ThresholdYears: cfg.SENIORITY_THRESHOLD_YEARS,
	})

	a.RegisterMiddlewares()
	a.RegisterRoutes(empHandler)

	return nil
}

// ReferenceYear resolves the configured reference year against the clock.
func (a *App) ReferenceYear() int {
	return config.DefaultEnvConfig.ReferenceYear(time.Now())
}

func (a *App) RegisterMiddlewares() {
	a.Echo.HideBanner = true
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(handler.RequestLogger())
}

func (a *App) RegisterRoutes(empHandler *handler.EmployeeHandler) {
	a.Echo.GET("/healthcheck", empHandler.HealthcheckHandler)

	a.Echo.GET("/employees", empHandler.ListHandler)
	a.Echo.POST("/employees", empHandler.CreateHandler)
	a.Echo.GET("/employees/:id", empHandler.GetHandler)
	a.Echo.DELETE("/employees/:id", empHandler.DeleteHandler)
	a.Echo.GET("/stats", empHandler.StatsHandler)

	snapshotGroup := a.Echo.Group("/snapshot")
	snapshotGroup.POST("/save", empHandler.SaveSnapshotHandler)
	snapshotGroup.POST("/load", empHandler.LoadSnapshotHandler)

	exportGroup := a.Echo.Group("/export")
	exportGroup.GET("/xlsx", empHandler.ExportXLSXHandler)
}

// Run serves the HTTP API until the server stops.
func (a *App) Run() error {
	defer a.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
