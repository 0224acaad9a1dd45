package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Per-chunk terminal outcomes of an annotation run.
const (
	OutcomeAccepted   = "accepted"
	OutcomeRepaired   = "repaired"
	OutcomeReverted   = "reverted"
	OutcomeUnresolved = "unresolved"
	OutcomeError      = "error"
)

// AnnotationRun is the stored batch report: one row per engine run over the
// corpus.
type AnnotationRun struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StartedAt  time.Time  `gorm:"column:started_at;not null;default:now()" json:"started_at"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finished_at,omitempty"`
	DryRun     bool       `gorm:"column:dry_run;not null;default:false" json:"dry_run"`

	TotalDocuments   int `gorm:"column:total_documents;not null;default:0" json:"total_documents"`
	TooltipsInjected int `gorm:"column:tooltips_injected;not null;default:0" json:"tooltips_injected"`

	AcceptedCount   int `gorm:"column:accepted_count;not null;default:0" json:"accepted_count"`
	RepairedCount   int `gorm:"column:repaired_count;not null;default:0" json:"repaired_count"`
	RevertedCount   int `gorm:"column:reverted_count;not null;default:0" json:"reverted_count"`
	UnresolvedCount int `gorm:"column:unresolved_count;not null;default:0" json:"unresolved_count"`
	ErrorCount      int `gorm:"column:error_count;not null;default:0" json:"error_count"`

	AvgGradeLevelBefore float64 `gorm:"column:avg_grade_level_before;not null;default:0" json:"avg_grade_level_before"`
	AvgGradeLevelAfter  float64 `gorm:"column:avg_grade_level_after;not null;default:0" json:"avg_grade_level_after"`

	ValidationErrors datatypes.JSON `gorm:"column:validation_errors;type:jsonb" json:"validation_errors,omitempty"` // []string
	Detail           datatypes.JSON `gorm:"column:detail;type:jsonb" json:"detail,omitempty"`                       // per-chunk outcome list

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (AnnotationRun) TableName() string { return "annotation_run" }
