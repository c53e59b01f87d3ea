package repository

import (
	"context"

	"digitask/internal/dto"
	"digitask/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context, filter dto.TaskFilter) ([]model.Task, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Used inside the completion transaction; callers must pass the tx.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error
	MarkDeductedTx(tx *gorm.DB, taskProductID uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type taskRepo struct{ db *gorm.DB }

func NewTaskRepository(db *gorm.DB) TaskRepository { return &taskRepo{db: db} }

func (r *taskRepo) Create(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *taskRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var t model.Task
	err := r.db.WithContext(ctx).
		Preload("Products").Preload("Products.Product").Preload("Products.Warehouse").
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepo) List(ctx context.Context, filter dto.TaskFilter) ([]model.Task, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("active = true").
		Preload("Products")

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AssignedToID != "" {
		q = q.Where("assigned_to_id = ?", filter.AssignedToID)
	}
	if filter.RegionID != "" {
		q = q.Where("region_id = ?", filter.RegionID)
	}
	if filter.Search != "" {
		q = q.Where("title ILIKE ? OR customer_name ILIKE ? OR note ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var tasks []model.Task
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&tasks).Error
	return tasks, total, err
}

func (r *taskRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Update("active", false).Error
}

func (r *taskRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status string) error {
	return tx.Model(&model.Task{}).Where("id = ?", id).Update("status", status).Error
}

func (r *taskRepo) MarkDeductedTx(tx *gorm.DB, taskProductID uuid.UUID) error {
	return tx.Model(&model.TaskProduct{}).Where("id = ?", taskProductID).Update("deducted", true).Error
}

func (r *taskRepo) DB() *gorm.DB { return r.db }
