package leads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"esklenchen/server/internal/models"
)

// SQLStore keeps leads in a SQLite database.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(dbPath string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open lead database: %w", err)
	}

	if err := db.AutoMigrate(&models.Lead{}); err != nil {
		return nil, fmt.Errorf("failed to migrate lead schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// GetDB exposes the underlying connection.
func (s *SQLStore) GetDB() *gorm.DB {
	return s.db
}

func (s *SQLStore) Save(ctx context.Context, leads []models.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&leads).Error; err != nil {
			return fmt.Errorf("failed to insert leads: %w", err)
		}
		return nil
	})
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
