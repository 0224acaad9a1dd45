package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/protocol-clarity-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.GlossaryTerm{},
		&types.KnowledgeChunk{},
		&types.AnnotationRun{},
	)
}

func EnsureAnnotationIndexes(db *gorm.DB) error {
	// Lexical matching loads the whole glossary ordered by term length,
	// but lookups during ingest hit lower(term) directly.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_glossary_term_lower
		ON glossary_term (lower(term));
	`).Error; err != nil {
		return fmt.Errorf("create idx_glossary_term_lower: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_glossary_term_category
		ON glossary_term (category);
	`).Error; err != nil {
		return fmt.Errorf("create idx_glossary_term_category: %w", err)
	}

	// Batch runs select chunks with no stored rendering yet, optionally
	// narrowed by category, oldest first. Partial index matches that
	// predicate exactly.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_knowledge_chunk_pending
		ON knowledge_chunk (category, created_at)
		WHERE simplified_text IS NULL OR simplified_text = '';
	`).Error; err != nil {
		return fmt.Errorf("create idx_knowledge_chunk_pending: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_knowledge_chunk_difficulty
		ON knowledge_chunk (difficulty_level, reading_level_before);
	`).Error; err != nil {
		return fmt.Errorf("create idx_knowledge_chunk_difficulty: %w", err)
	}

	// Run history per report page, newest first.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_annotation_run_started_at
		ON annotation_run (started_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_annotation_run_started_at: %w", err)
	}

	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureAnnotationIndexes(s.db); err != nil {
		s.log.Error("Annotation index migration failed", "error", err)
		return err
	}
	return nil
}
