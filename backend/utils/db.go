package utils

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"skilllist/backend/config"
	"skilllist/backend/models"
)

// InitDB открывает базу данных для хранилища ключ-значение и выполняет миграции
func InitDB(cfg *config.Config, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DBPath)
	case config.DriverPostgres:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		dialector = postgres.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	gormCfg := &gorm.Config{}
	if log != nil {
		gormCfg.Logger = gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.DBDriver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get database instance")
	}
	if cfg.DBDriver == config.DriverSQLite {
		// sqlite allows a single writer; an in-memory database also lives on one connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := db.AutoMigrate(&models.KVEntry{}); err != nil {
		return nil, errors.Wrap(err, "migrate key-value table")
	}
	return db, nil
}
