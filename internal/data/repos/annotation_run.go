package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/protocol-clarity-backend/internal/domain"
	"github.com/yungbote/protocol-clarity-backend/internal/pkg/logger"
)

type AnnotationRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.AnnotationRun) (*types.AnnotationRun, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AnnotationRun, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.AnnotationRun, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type annotationRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnnotationRunRepo(db *gorm.DB, baseLog *logger.Logger) AnnotationRunRepo {
	repoLog := baseLog.With("repo", "AnnotationRunRepo")
	return &annotationRunRepo{db: db, log: repoLog}
}

func (r *annotationRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.AnnotationRun) (*types.AnnotationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (r *annotationRunRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AnnotationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.AnnotationRun
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *annotationRunRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.AnnotationRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 20
	}
	var results []*types.AnnotationRun
	if err := transaction.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *annotationRunRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.AnnotationRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}
