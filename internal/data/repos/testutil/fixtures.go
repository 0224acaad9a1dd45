package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/protocol-clarity-backend/internal/domain"
)

func SeedGlossaryTerm(tb testing.TB, ctx context.Context, tx *gorm.DB, term, definition, category string) *types.GlossaryTerm {
	tb.Helper()
	g := &types.GlossaryTerm{
		ID:           uuid.New(),
		Term:         term,
		UserFriendly: definition,
		Category:     category,
		ReadingLevel: 6,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed glossary term: %v", err)
	}
	return g
}

func SeedKnowledgeChunk(tb testing.TB, ctx context.Context, tx *gorm.DB, sourceFile string, number int, text string) *types.KnowledgeChunk {
	tb.Helper()
	c := &types.KnowledgeChunk{
		ID:              uuid.New(),
		SourceFile:      sourceFile,
		ChunkNumber:     number,
		ChunkText:       text,
		GlossaryTerms:   datatypes.JSON([]byte("{}")),
		LanguageVariant: types.VariantClinical,
		DifficultyLevel: "intermediate",
		Category:        "general",
		Version:         1,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed knowledge chunk: %v", err)
	}
	return c
}

func SeedAnnotationRun(tb testing.TB, ctx context.Context, tx *gorm.DB, dryRun bool) *types.AnnotationRun {
	tb.Helper()
	r := &types.AnnotationRun{
		ID:               uuid.New(),
		StartedAt:        time.Now().UTC(),
		DryRun:           dryRun,
		ValidationErrors: datatypes.JSON([]byte("[]")),
		Detail:           datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed annotation run: %v", err)
	}
	return r
}

func PtrFloat(v float64) *float64 { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
