package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/protocol-clarity-backend/internal/data/repos/testutil"
	types "github.com/yungbote/protocol-clarity-backend/internal/domain"
)

func TestGlossaryTermRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewGlossaryTermRepo(db, testutil.Logger(t))

	g1 := testutil.SeedGlossaryTerm(t, ctx, tx, "amygdala", "your brain's alarm system", "neuroscience")
	testutil.SeedGlossaryTerm(t, ctx, tx, "cortisol", "a stress hormone", "neuroscience")
	testutil.SeedGlossaryTerm(t, ctx, tx, "protocol", "a step by step plan", "general")

	all, err := repo.GetAll(ctx, tx)
	if err != nil || len(all) != 3 {
		t.Fatalf("GetAll: err=%v len=%d", err, len(all))
	}
	// Deterministic term-ascending order.
	if all[0].Term != "amygdala" || all[2].Term != "protocol" {
		t.Fatalf("GetAll order: %q, %q, %q", all[0].Term, all[1].Term, all[2].Term)
	}

	neuro, err := repo.GetByCategory(ctx, tx, "neuroscience")
	if err != nil || len(neuro) != 2 {
		t.Fatalf("GetByCategory: err=%v len=%d", err, len(neuro))
	}

	got, err := repo.GetByTermLower(ctx, tx, "AMYGDALA")
	if err != nil || got.ID != g1.ID {
		t.Fatalf("GetByTermLower: err=%v got=%+v", err, got)
	}

	if err := repo.UpdateFields(ctx, tx, g1.ID, map[string]interface{}{
		"user_friendly": "the brain's threat detector",
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = repo.GetByTermLower(ctx, tx, "amygdala")
	if err != nil || got.UserFriendly != "the brain's threat detector" {
		t.Fatalf("UpdateFields readback: err=%v got=%q", err, got.UserFriendly)
	}
}

func TestGlossaryTermRepo_UpsertBatchRefreshesDefinitions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewGlossaryTermRepo(db, testutil.Logger(t))

	first := []*types.GlossaryTerm{{
		ID:           uuid.New(),
		Term:         "neuroplasticity",
		UserFriendly: "how the brain rewires itself",
		Category:     "neuroscience",
		ReadingLevel: 7,
	}}
	if _, err := repo.UpsertBatch(ctx, tx, first); err != nil {
		t.Fatalf("UpsertBatch initial: %v", err)
	}

	second := []*types.GlossaryTerm{{
		ID:           uuid.New(),
		Term:         "Neuroplasticity",
		UserFriendly: "the brain's ability to change",
		Category:     "neuroscience",
		ReadingLevel: 6,
	}}
	if _, err := repo.UpsertBatch(ctx, tx, second); err != nil {
		t.Fatalf("UpsertBatch refresh: %v", err)
	}

	all, err := repo.GetAll(ctx, tx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	count := 0
	var kept *types.GlossaryTerm
	for _, g := range all {
		if g.Term == "neuroplasticity" || g.Term == "Neuroplasticity" {
			count++
			kept = g
		}
	}
	if count != 1 {
		t.Fatalf("expected one row for case-insensitive term, got %d", count)
	}
	if kept.UserFriendly != "the brain's ability to change" {
		t.Fatalf("definition not refreshed: %q", kept.UserFriendly)
	}
}
