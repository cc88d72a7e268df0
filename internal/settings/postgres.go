package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"neonfood/internal/database"
	"neonfood/internal/models"
)

// PostgresStore keeps the settings document as a single JSONB row.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a settings store over the shared pool.
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context) (*models.Settings, error) {
	var data []byte
	err := s.db.QueryRow(ctx, database.GetSettingsSQL).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings document: %w", err)
	}
	return &settings, nil
}

func (s *PostgresStore) Init(ctx context.Context, settings *models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings document: %w", err)
	}
	if _, err := s.db.Exec(ctx, database.InsertSettingsSQL, data); err != nil {
		return fmt.Errorf("failed to insert settings: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, settings *models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings document: %w", err)
	}
	if _, err := s.db.Exec(ctx, database.SaveSettingsSQL, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
