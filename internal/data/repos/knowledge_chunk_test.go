package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/protocol-clarity-backend/internal/data/repos/testutil"
	types "github.com/yungbote/protocol-clarity-backend/internal/domain"
	pkgerrors "github.com/yungbote/protocol-clarity-backend/internal/pkg/errors"
)

func TestKnowledgeChunkRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewKnowledgeChunkRepo(db, testutil.Logger(t))

	c1 := testutil.SeedKnowledgeChunk(t, ctx, tx, "protocol.md", 0, "The amygdala processes threat.")
	c2 := testutil.SeedKnowledgeChunk(t, ctx, tx, "protocol.md", 1, "Cortisol rises under stress.")

	if got, err := repo.GetByID(ctx, tx, c1.ID); err != nil || got.ChunkText != c1.ChunkText {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}

	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{c1.ID, c2.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}

	if rows, err := repo.ListPending(ctx, tx, "", 0); err != nil || len(rows) < 2 {
		t.Fatalf("ListPending: err=%v len=%d", err, len(rows))
	}

	// A chunk with a stored rendering is no longer pending.
	if err := repo.UpdateAnnotated(ctx, tx, c1.ID, c1.Version, map[string]interface{}{
		"simplified_text": "The amygdala processes threat.",
	}); err != nil {
		t.Fatalf("UpdateAnnotated: %v", err)
	}
	rows, err := repo.ListPending(ctx, tx, "", 0)
	if err != nil {
		t.Fatalf("ListPending after annotate: %v", err)
	}
	for _, r := range rows {
		if r.ID == c1.ID {
			t.Fatalf("annotated chunk still listed as pending")
		}
	}
}

func TestKnowledgeChunkRepo_UpdateAnnotatedVersionGuard(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewKnowledgeChunkRepo(db, testutil.Logger(t))

	c := testutil.SeedKnowledgeChunk(t, ctx, tx, "guard.md", 0, "The amygdala processes threat.")

	updates := map[string]interface{}{
		"simplified_text":      "The {{amygdala||your brain's alarm system}} processes threat.",
		"glossary_terms":       datatypes.JSON([]byte(`{"amygdala":"your brain's alarm system"}`)),
		"reading_level_before": 9.5,
		"reading_level_after":  9.5,
		"language_variant":     types.VariantSimplified,
	}
	if err := repo.UpdateAnnotated(ctx, tx, c.ID, c.Version, updates); err != nil {
		t.Fatalf("UpdateAnnotated: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, c.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Version != c.Version+1 {
		t.Fatalf("version not bumped: got %d want %d", got.Version, c.Version+1)
	}
	if got.ChunkText != c.ChunkText {
		t.Fatalf("chunk_text changed: %q", got.ChunkText)
	}
	if got.LanguageVariant != types.VariantSimplified {
		t.Fatalf("language_variant: %q", got.LanguageVariant)
	}

	// A writer still holding the old version must lose.
	err = repo.UpdateAnnotated(ctx, tx, c.ID, c.Version, map[string]interface{}{
		"simplified_text": "stale",
	})
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("expected ErrConflict for stale version, got %v", err)
	}
	got, err = repo.GetByID(ctx, tx, c.ID)
	if err != nil {
		t.Fatalf("GetByID after stale write: %v", err)
	}
	if got.SimplifiedText == "stale" {
		t.Fatalf("stale write persisted")
	}
}

func TestKnowledgeChunkRepo_UpdateAnnotatedNeverTouchesChunkText(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewKnowledgeChunkRepo(db, testutil.Logger(t))

	c := testutil.SeedKnowledgeChunk(t, ctx, tx, "immutable.md", 0, "Original protocol text.")

	err := repo.UpdateAnnotated(ctx, tx, c.ID, c.Version, map[string]interface{}{
		"chunk_text":      "overwritten",
		"simplified_text": "Annotated rendering.",
	})
	if err != nil {
		t.Fatalf("UpdateAnnotated: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ChunkText != "Original protocol text." {
		t.Fatalf("chunk_text overwritten: %q", got.ChunkText)
	}
	if got.SimplifiedText != "Annotated rendering." {
		t.Fatalf("simplified_text: %q", got.SimplifiedText)
	}
}
