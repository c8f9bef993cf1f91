package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"course-backend/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // драйвер PostgreSQL
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB один пул соединений на GORM и sqlx
type DB struct {
	Gorm *gorm.DB
	SQL  *sqlx.DB
}

func InitDB(cfg *config.Config) (*DB, error) {
	return Open(cfg.DSN(), cfg.DBMaxOpenConns)
}

// Open подключается по готовой строке DSN
func Open(dsn string, maxOpenConns int) (*DB, error) {
	// Сначала открываем пул через sqlx
	dbx, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	dbx.SetMaxOpenConns(maxOpenConns)
	dbx.SetConnMaxIdleTime(5 * time.Minute)

	// Проверяем подключение
	if err := dbx.Ping(); err != nil {
		dbx.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	// Затем отдаем тот же пул в GORM
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: dbx.DB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		dbx.Close()
		return nil, fmt.Errorf("error opening gorm: %w", err)
	}

	log.Println("✅ Successfully connected to PostgreSQL!")
	return &DB{Gorm: gormDB, SQL: dbx}, nil
}

// Ping проверяет соединение простым запросом через sqlx
func (d *DB) Ping(ctx context.Context) error {
	var one int
	if err := d.SQL.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

func (d *DB) Close() error {
	return d.SQL.Close()
}
