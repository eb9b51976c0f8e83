package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oxhq/morfx/element"
)

// Store wraps a gorm connection over the Session/Extraction/Locate
// tables.
type Store struct {
	db *gorm.DB
}

// Open establishes a connection to a SQLite database at dsn (a file
// path, or ":memory:") and runs migrations, mirroring db.Connect's
// directory-creation-then-migrate sequence.
func Open(dsn string, debug bool) (*Store, error) {
	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: failed to create database directory: %w", err)
			}
		}
	}

	config := &gorm.Config{}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("store: failed to connect: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("store: migration failed: %w", err)
	}

	return &Store{db: db}, nil
}

// Migrate applies the schema for all store models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Session{}, &Extraction{}, &Locate{})
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewSession opens a Session row and returns its ID.
func (s *Store) NewSession(ctx context.Context) (string, error) {
	sess := Session{ID: uuid.NewString()}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return "", fmt.Errorf("store: create session: %w", err)
	}
	return sess.ID, nil
}

// EndSession marks a session as finished.
func (s *Store) EndSession(ctx context.Context, sessionID string) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", sessionID).
		Update("ended_at", now).Error
}

// RecordExtraction persists the result of an Orchestrator.Extract call.
func (s *Store) RecordExtraction(ctx context.Context, sessionID, language, path string, source []byte, tree *element.ElementTree, warnings []element.Warning) (string, error) {
	treeJSON, err := json.Marshal(tree.Serialize())
	if err != nil {
		return "", fmt.Errorf("store: marshal tree: %w", err)
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return "", fmt.Errorf("store: marshal warnings: %w", err)
	}

	count := 0
	tree.Walk(func(*element.Element) { count++ })

	rec := Extraction{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		Language:     language,
		Path:         path,
		SourceDigest: digest(source),
		ElementCount: count,
		WarningCount: len(warnings),
		Tree:         datatypes.JSON(treeJSON),
		Warnings:     datatypes.JSON(warningsJSON),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("store: create extraction: %w", err)
	}

	s.db.WithContext(ctx).Model(&Session{}).Where("id = ?", sessionID).
		Update("extraction_count", gorm.Expr("extraction_count + 1"))

	return rec.ID, nil
}

// RecordLocate persists the result of an Orchestrator.Locate or
// pathresolver.Resolve call.
func (s *Store) RecordLocate(ctx context.Context, sessionID, language, path, query string, source []byte, rng element.Range) (string, error) {
	rec := Locate{
		ID:           uuid.NewString(),
		SessionID:    sessionID,
		Language:     language,
		Path:         path,
		SourceDigest: digest(source),
		Query:        query,
		Found:        !rng.IsZero(),
		StartLine:    rng.StartLine,
		EndLine:      rng.EndLine,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("store: create locate: %w", err)
	}
	return rec.ID, nil
}

// LatestExtraction returns the most recent Extraction row for path,
// or false if none exists.
func (s *Store) LatestExtraction(ctx context.Context, path string) (Extraction, bool, error) {
	var rec Extraction
	err := s.db.WithContext(ctx).Where("path = ?", path).Order("created_at desc").First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return Extraction{}, false, nil
		}
		return Extraction{}, false, fmt.Errorf("store: query latest extraction: %w", err)
	}
	return rec, true, nil
}

func digest(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}
