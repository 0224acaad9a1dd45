package repos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/protocol-clarity-backend/internal/domain"
	"github.com/yungbote/protocol-clarity-backend/internal/pkg/logger"
)

type GlossaryTermRepo interface {
	UpsertBatch(ctx context.Context, tx *gorm.DB, terms []*types.GlossaryTerm) ([]*types.GlossaryTerm, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.GlossaryTerm, error)
	GetByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.GlossaryTerm, error)
	GetByTermLower(ctx context.Context, tx *gorm.DB, term string) (*types.GlossaryTerm, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type glossaryTermRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGlossaryTermRepo(db *gorm.DB, baseLog *logger.Logger) GlossaryTermRepo {
	repoLog := baseLog.With("repo", "GlossaryTermRepo")
	return &glossaryTermRepo{db: db, log: repoLog}
}

func (r *glossaryTermRepo) UpsertBatch(ctx context.Context, tx *gorm.DB, terms []*types.GlossaryTerm) ([]*types.GlossaryTerm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(terms) == 0 {
		return []*types.GlossaryTerm{}, nil
	}

	// Conflict target matches idx_glossary_term_lower so a re-imported
	// glossary file refreshes definitions instead of duplicating terms.
	const batchSize = 200
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "lower(term)", Raw: true}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_friendly", "clinical_definition", "category",
				"analogy", "why_it_matters", "example_sentence",
				"reading_level", "source_count", "updated_at",
			}),
		}).
		CreateInBatches(terms, batchSize).Error
	if err != nil {
		return nil, err
	}
	return terms, nil
}

func (r *glossaryTermRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.GlossaryTerm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.GlossaryTerm
	if err := transaction.WithContext(ctx).
		Order("term ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *glossaryTermRepo) GetByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*types.GlossaryTerm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.GlossaryTerm
	if err := transaction.WithContext(ctx).
		Where("category = ?", category).
		Order("term ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *glossaryTermRepo) GetByTermLower(ctx context.Context, tx *gorm.DB, term string) (*types.GlossaryTerm, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.GlossaryTerm
	if err := transaction.WithContext(ctx).
		Where("lower(term) = ?", strings.ToLower(term)).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *glossaryTermRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return transaction.WithContext(ctx).
		Model(&types.GlossaryTerm{}).
		Where("id = ?", id).
		Updates(updates).Error
}
