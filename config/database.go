package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

var db *gorm.DB

// InitDatabase opens the configured store once, verifies the connection and
// creates missing tables for the given models. Startup failures are fatal.
func InitDatabase(modelDefs ...interface{}) *gorm.DB {
	if db != nil {
		return db
	}

	conn, err := OpenDatabase(Get(), modelDefs...)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	db = conn
	return db
}

// OpenDatabase opens a gorm connection for cfg without touching the package singleton.
func OpenDatabase(cfg AppConfig, modelDefs ...interface{}) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	// Slow-sql threshold raised to keep warn level quiet
	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}

	if cfg.TracingEndpoint != "" {
		if err := conn.Use(tracing.NewPlugin()); err != nil {
			return nil, fmt.Errorf("install tracing plugin: %w", err)
		}
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		// every connection to :memory: is its own database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(nz(cfg.DBMaxIdleConns, 5))
		sqlDB.SetMaxOpenConns(nz(cfg.DBMaxOpenConns, 20))
		sqlDB.SetConnMaxLifetime(time.Duration(nz(cfg.DBConnLifetimeM, 30)) * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	if cfg.DBAutoMigrate {
		for _, model := range modelDefs {
			// only create what is missing, existing schemas are left alone
			if conn.Migrator().HasTable(model) {
				continue
			}
			if err := conn.AutoMigrate(model); err != nil {
				return nil, fmt.Errorf("auto migration for %T: %w", model, err)
			}
		}
	}

	return conn, nil
}

func dialectorFor(cfg AppConfig) (gorm.Dialector, error) {
	dsn := cfg.DatabaseURI
	switch cfg.DBDriver {
	case "mysql", "":
		if dsn == "" {
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		}
		return mysql.Open(dsn), nil
	case "postgres":
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		}
		return postgres.Open(dsn), nil
	case "sqlite":
		if dsn == "" {
			dsn = cfg.DBName + ".db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		// GORM 'Info' shows SQL
		return logger.Info
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

// DB provides access to the initialized gorm DB instance.
func DB() *gorm.DB {
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}

func nz(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
