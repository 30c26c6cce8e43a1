package localstore

import (
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore keeps entries in a MySQL table through GORM
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore opens a MySQL connection from a DSN and migrates the entries table
func NewSQLStore(dsn string) (*SQLStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return NewSQLStoreFromDB(db)
}

// NewSQLStoreFromDB wraps an existing GORM connection
func NewSQLStoreFromDB(db *gorm.DB) (*SQLStore, error) {
	store := &SQLStore{db: db}

	// Auto-migrate tables
	if err := store.db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return store, nil
}

func (s *SQLStore) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	var entry Entry
	result := s.db.Where("entry_key = ?", key).First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get entry: %w", result.Error)
	}

	return entry.Value, true, nil
}

func (s *SQLStore) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	entry := &Entry{Key: key, Value: value}
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to save entry: %w", result.Error)
	}

	return nil
}

func (s *SQLStore) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	if err := s.db.Where("entry_key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}
