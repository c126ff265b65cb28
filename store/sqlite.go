package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	ai "github.com/spetersoncode/postflow"
)

// sessionRecord is the GORM row shape. Structured fields travel as JSON
// columns; the status and timestamps stay queryable.
type sessionRecord struct {
	ID            string `gorm:"primaryKey"`
	Status        string `gorm:"index"`
	Input         string
	Draft         string
	History       string
	RevisionCount int
	LastError     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (sessionRecord) TableName() string { return "sessions" }

// SQLite is a session store backed by a SQLite file via GORM.
type SQLite struct {
	db *gorm.DB
}

// SQLiteConfig holds database configuration.
type SQLiteConfig struct {
	Path     string
	LogLevel logger.LogLevel
}

// NewSQLite opens the database, configures it for single-writer SQLite
// use, and runs migrations.
func NewSQLite(cfg SQLiteConfig) (*SQLite, error) {
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Warn
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON", cfg.Path)

	gormLogger := logger.New(
		log.New(log.Writer(), "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  cfg.LogLevel,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Single connection prevents "database is locked" errors.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Create stores a new session.
func (s *SQLite) Create(ctx context.Context, session *ai.Session) error {
	record, err := toRecord(session)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(record).Error
}

// Get returns a copy of the session.
func (s *SQLite) Get(ctx context.Context, id string) (*ai.Session, error) {
	var record sessionRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &ai.NotFoundError{SessionID: id}
	}
	if err != nil {
		return nil, err
	}
	return fromRecord(&record)
}

// Update overwrites an existing session.
func (s *SQLite) Update(ctx context.Context, session *ai.Session) error {
	record, err := toRecord(session)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&sessionRecord{}).Where("id = ?", session.ID).Updates(map[string]any{
		"status":         record.Status,
		"input":          record.Input,
		"draft":          record.Draft,
		"history":        record.History,
		"revision_count": record.RevisionCount,
		"last_error":     record.LastError,
		"updated_at":     record.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &ai.NotFoundError{SessionID: session.ID}
	}
	return nil
}

func toRecord(session *ai.Session) (*sessionRecord, error) {
	input, err := json.Marshal(session.Input)
	if err != nil {
		return nil, err
	}
	draft, err := json.Marshal(session.Draft)
	if err != nil {
		return nil, err
	}
	history, err := json.Marshal(session.History)
	if err != nil {
		return nil, err
	}

	return &sessionRecord{
		ID:            session.ID,
		Status:        string(session.Status),
		Input:         string(input),
		Draft:         string(draft),
		History:       string(history),
		RevisionCount: session.RevisionCount,
		LastError:     session.LastError,
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
	}, nil
}

func fromRecord(record *sessionRecord) (*ai.Session, error) {
	session := &ai.Session{
		ID:            record.ID,
		Status:        ai.Status(record.Status),
		RevisionCount: record.RevisionCount,
		LastError:     record.LastError,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(record.Input), &session.Input); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(record.Draft), &session.Draft); err != nil {
		return nil, err
	}
	if record.History != "" {
		if err := json.Unmarshal([]byte(record.History), &session.History); err != nil {
			return nil, err
		}
	}
	return session, nil
}

var _ SessionStore = (*SQLite)(nil)
