package repository

import (
	"database/sql"
	"fmt"

	"github.com/stockguardian/stock-guardian-backend/internal/apperrors"
)

// SettingsRepository provides data access methods for the setting table.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the provided database connection.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves the value for a key.
func (s *SettingsRepository) GetSetting(key string) (string, error) {
	var value string

	err := s.db.QueryRow("SELECT value FROM setting WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query setting: %w", err)
	}

	return value, nil
}

// SetSetting upserts the value for a key.
func (s *SettingsRepository) SetSetting(key, value string) error {
	query := `
		INSERT INTO setting (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`

	if _, err := s.db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}

	return nil
}
