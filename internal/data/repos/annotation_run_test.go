package repos

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/protocol-clarity-backend/internal/data/repos/testutil"
)

func TestAnnotationRunRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAnnotationRunRepo(db, testutil.Logger(t))

	run := testutil.SeedAnnotationRun(t, ctx, tx, false)

	got, err := repo.GetByID(ctx, tx, run.ID)
	if err != nil || got.DryRun {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}

	finished := time.Now().UTC()
	if err := repo.UpdateFields(ctx, tx, run.ID, map[string]interface{}{
		"finished_at":            finished,
		"total_documents":        12,
		"tooltips_injected":      31,
		"accepted_count":         9,
		"repaired_count":         2,
		"reverted_count":         1,
		"avg_grade_level_before": 11.2,
		"avg_grade_level_after":  10.4,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	got, err = repo.GetByID(ctx, tx, run.ID)
	if err != nil {
		t.Fatalf("GetByID after finish: %v", err)
	}
	if got.FinishedAt == nil || got.TotalDocuments != 12 || got.AcceptedCount != 9 {
		t.Fatalf("finish not persisted: %+v", got)
	}

	recent, err := repo.ListRecent(ctx, tx, 5)
	if err != nil || len(recent) == 0 {
		t.Fatalf("ListRecent: err=%v len=%d", err, len(recent))
	}
	if recent[0].ID != run.ID {
		t.Fatalf("ListRecent order: newest first expected")
	}
}
