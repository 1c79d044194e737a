package database

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
)

type Options struct {
	DSN         string
	ReplicaDSNs []string
	LogLevel    string
	Attempts    int
}

// Connect opens the primary pool, registers read replicas when configured,
// and retries while the database is still starting.
func Connect(ctx context.Context, opts Options) (*gorm.DB, error) {
	if opts.DSN == "" {
		return nil, errors.New("database url is empty")
	}
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = 5
	}

	var (
		db   *gorm.DB
		err  error
		wait = time.Second
	)
	for i := 1; i <= attempts; i++ {
		db, err = open(ctx, opts)
		if err == nil {
			break
		}
		logs.LogJSON("WARN", "Database not ready, retrying", map[string]interface{}{
			"attempt": i,
			"error":   err.Error(),
		})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		if wait < 8*time.Second {
			wait *= 2
		}
	}
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}

	if len(opts.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(opts.ReplicaDSNs))
		for _, dsn := range opts.ReplicaDSNs {
			replicas = append(replicas, dialector(dsn))
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, errors.Wrap(err, "register read replicas")
		}
	}
	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, errors.Wrap(err, "register tracing plugin")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "database handle")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func open(ctx context.Context, opts Options) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(opts.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(opts.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func dialector(dsn string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return logger.Info
	case "INFO", "WARN":
		return logger.Warn
	case "ERROR", "FATAL":
		return logger.Error
	default:
		return logger.Warn
	}
}

// Migrate creates or updates the tables of the given models.
func Migrate(ctx context.Context, db *gorm.DB, models ...interface{}) error {
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
