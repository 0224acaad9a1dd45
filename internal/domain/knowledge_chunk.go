package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Language variants for a chunk's reader-facing text.
const (
	VariantClinical   = "clinical"
	VariantSimplified = "simplified"
	VariantOriginal   = "original"
)

// KnowledgeChunk is one unit of protocol text. ChunkText is the source of
// truth and is never overwritten; SimplifiedText carries the annotated
// rendering and is always re-derivable from ChunkText, which is what makes
// engine writes idempotent.
type KnowledgeChunk struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SourceFile   string    `gorm:"column:source_file;not null;index" json:"source_file"`
	ChunkNumber  int       `gorm:"column:chunk_number;not null;default:0" json:"chunk_number"`
	ChunkSummary string    `gorm:"column:chunk_summary;type:text" json:"chunk_summary"`
	ChunkText    string    `gorm:"column:chunk_text;type:text;not null" json:"chunk_text"`

	SimplifiedText string         `gorm:"column:simplified_text;type:text" json:"simplified_text,omitempty"`
	GlossaryTerms  datatypes.JSON `gorm:"column:glossary_terms;type:jsonb" json:"glossary_terms,omitempty"` // map[term]definition

	ReadingLevelBefore *float64 `gorm:"column:reading_level_before" json:"reading_level_before,omitempty"`
	ReadingLevelAfter  *float64 `gorm:"column:reading_level_after" json:"reading_level_after,omitempty"`
	LanguageVariant    string   `gorm:"column:language_variant;not null;default:'clinical';index" json:"language_variant"`

	DifficultyLevel string `gorm:"column:difficulty_level;not null;default:'intermediate'" json:"difficulty_level"`
	Category        string `gorm:"column:category;not null;default:'general';index" json:"category"`

	// Version guards concurrent writers: updates compare-and-swap on it.
	Version int `gorm:"column:version;not null;default:1" json:"version"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (KnowledgeChunk) TableName() string { return "knowledge_chunk" }
