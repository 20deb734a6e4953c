package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewGormDB поднимает GORM поверх уже открытого пула соединений,
// чтобы sqlx и GORM делили одно подключение и один набор миграций.
func NewGormDB(sqlDB *sql.DB, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("failed to initialize GORM", "error", err)
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	logger.Info("GORM initialized on shared connection pool")
	return db, nil
}
