// Package store persists extraction history to a local database, so a
// CLI or long-running caller can inspect what was extracted from which
// source without re-parsing it.
//
// Grounded on models/models.go's gorm model shapes (Stage/Apply/Session)
// and db/sqlite.go's Connect/Migrate, generalized from the teacher's
// stage-then-apply transaction log to one record per extraction call,
// and switched from tursodatabase/libsql-client-go + gorm.io/driver/sqlite
// (cgo, remote-first) to glebarez/sqlite (pure Go, no cgo) since the
// engine has no remote-database requirement.
package store

import (
	"time"

	"gorm.io/datatypes"
)

// Session tracks one caller's run across multiple extractions, mirroring
// models.Session's role but scoped to this engine's operations rather
// than MCP client connections.
type Session struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	StartedAt time.Time `gorm:"autoCreateTime"`
	EndedAt   *time.Time

	ExtractionCount int `gorm:"default:0"`
}

func (Session) TableName() string { return "sessions" }

// Extraction records one Orchestrator.Extract call: the source that was
// parsed, the language, and the resulting tree, so a caller can look up
// "what did we last extract from this file" without re-running
// tree-sitter.
type Extraction struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	SessionID string `gorm:"type:varchar(36);index"`

	Language    string `gorm:"type:varchar(50);not null"`
	Path        string `gorm:"type:varchar(1024);index"`
	SourceDigest string `gorm:"type:varchar(64);index"` // sha256 of source

	ElementCount int            `gorm:"default:0"`
	WarningCount int            `gorm:"default:0"`
	Tree         datatypes.JSON `gorm:"type:jsonb"` // element.ElementTree.Serialize()
	Warnings     datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (Extraction) TableName() string { return "extractions" }

// Locate records one Orchestrator.Locate or pathresolver.Resolve call,
// mirroring models.Stage's target-tracking fields but without the
// pending/applied transaction lifecycle that domain doesn't need.
type Locate struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	SessionID string `gorm:"type:varchar(36);index"`

	Language     string `gorm:"type:varchar(50);not null"`
	Path         string `gorm:"type:varchar(1024);index"`
	SourceDigest string `gorm:"type:varchar(64);index"`

	Query string `gorm:"type:text;not null"` // the dotted path or kind/name query
	Found bool   `gorm:"default:false"`

	StartLine int `gorm:"default:0"`
	EndLine   int `gorm:"default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (Locate) TableName() string { return "locates" }
