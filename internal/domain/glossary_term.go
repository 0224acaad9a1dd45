package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GlossaryTerm is one stored glossary record. The set is owned by the
// glossary pipeline; the annotation engine only ever reads it.
type GlossaryTerm struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	// Term is unique case-insensitively (idx_glossary_term_lower); dedupe
	// happens before insert.
	Term               string  `gorm:"column:term;not null" json:"term"`
	UserFriendly       string  `gorm:"column:user_friendly;type:text" json:"user_friendly"`
	ClinicalDefinition string  `gorm:"column:clinical_definition;type:text" json:"clinical_definition,omitempty"`
	Category           string  `gorm:"column:category;not null;default:'general'" json:"category"`
	Analogy            string  `gorm:"column:analogy;type:text" json:"analogy,omitempty"`
	WhyItMatters       string  `gorm:"column:why_it_matters;type:text" json:"why_it_matters,omitempty"`
	ExampleSentence    string  `gorm:"column:example_sentence;type:text" json:"example_sentence,omitempty"`
	ReadingLevel       float64 `gorm:"column:reading_level;not null;default:0" json:"reading_level"`
	// SourceCount is how many raw glossary records collapsed into this row.
	SourceCount int `gorm:"column:source_count;not null;default:1" json:"source_count"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (GlossaryTerm) TableName() string { return "glossary_term" }
