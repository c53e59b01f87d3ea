package service

import (
	"context"
	"fmt"
	"time"

	"digitask/internal/dto"
	"digitask/internal/model"
	"digitask/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskService manages work orders and drives the completion deduction: the
// terminal "done" transition flips every undeducted product reservation and
// records the matching OUT movements as one atomic unit.
type TaskService interface {
	Create(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error)
	List(ctx context.Context, filter dto.TaskFilter) (*dto.TaskListResponse, error)
	// UpdateStatus transitions a task. On "done", all reservations are
	// deducted in one transaction together with the status flip; if any
	// reservation fails, nothing is deducted and the transition is aborted
	// with a *DeductionError naming the failing product/warehouse.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, actorID *uuid.UUID) (*dto.TaskResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type taskService struct {
	repo      repository.TaskRepository
	stock     StockService
	notifRepo repository.NotificationRepository
	publisher EventPublisher
}

func NewTaskService(repo repository.TaskRepository, stock StockService, notifRepo repository.NotificationRepository, publisher EventPublisher) TaskService {
	return &taskService{repo: repo, stock: stock, notifRepo: notifRepo, publisher: publisher}
}

func (s *taskService) Create(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	task := model.Task{
		Title:        req.Title,
		Note:         req.Note,
		Status:       model.TaskTodo,
		CustomerName: req.CustomerName,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	}
	if req.AssignedToID != nil {
		id, err := uuid.Parse(*req.AssignedToID)
		if err != nil {
			return nil, fmt.Errorf("%w: assigned_to_id", ErrValidation)
		}
		task.AssignedToID = &id
	}
	if req.RegionID != nil {
		id, err := uuid.Parse(*req.RegionID)
		if err != nil {
			return nil, fmt.Errorf("%w: region_id", ErrValidation)
		}
		task.RegionID = &id
	}
	for _, p := range req.Products {
		if !p.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: reservation quantity must be positive", ErrValidation)
		}
		productID, err := uuid.Parse(p.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: product_id", ErrValidation)
		}
		warehouseID, err := uuid.Parse(p.WarehouseID)
		if err != nil {
			return nil, fmt.Errorf("%w: warehouse_id", ErrValidation)
		}
		task.Products = append(task.Products, model.TaskProduct{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Quantity:    p.Quantity,
		})
	}

	if err := s.repo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return taskToResponse(&task), nil
}

func (s *taskService) Get(ctx context.Context, id uuid.UUID) (*dto.TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, id)
	}
	return taskToResponse(task), nil
}

func (s *taskService) List(ctx context.Context, filter dto.TaskFilter) (*dto.TaskListResponse, error) {
	tasks, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.TaskListResponse{
		Data:  make([]dto.TaskResponse, 0, len(tasks)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range tasks {
		resp.Data = append(resp.Data, *taskToResponse(&tasks[i]))
	}
	return resp, nil
}

func (s *taskService) UpdateStatus(ctx context.Context, id uuid.UUID, status string, actorID *uuid.UUID) (*dto.TaskResponse, error) {
	switch status {
	case model.TaskTodo, model.TaskInProgress, model.TaskArrived, model.TaskDone, model.TaskPending, model.TaskRejected:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, id)
	}

	if status == model.TaskDone && task.Status != model.TaskDone {
		if err := s.completeWithDeduction(ctx, task, actorID); err != nil {
			return nil, err
		}
		for i := range task.Products {
			task.Products[i].Deducted = true
		}
	} else {
		if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			return s.repo.UpdateStatusTx(tx, id, status)
		}); err != nil {
			return nil, err
		}
	}
	task.Status = status

	s.notifyStatus(ctx, task)
	return taskToResponse(task), nil
}

// completeWithDeduction deducts every undeducted reservation and flips the
// task to done, all in one transaction. Balance keys are locked up front in
// deterministic order, the same discipline as manual ledger operations.
func (s *taskService) completeWithDeduction(ctx context.Context, task *model.Task, actorID *uuid.UUID) error {
	var pending []model.TaskProduct
	for _, tp := range task.Products {
		if !tp.Deducted {
			pending = append(pending, tp)
		}
	}

	if len(pending) > 0 {
		keys := make([]BalanceKey, 0, len(pending))
		for _, tp := range pending {
			keys = append(keys, BalanceKey{WarehouseID: tp.WarehouseID, ProductID: tp.ProductID})
		}
		release := s.stock.LockKeys(keys...)
		defer release()
	}

	reference := fmt.Sprintf("TASK-%s", task.ID)
	reqFor := func(tp model.TaskProduct) MovementRequest {
		return MovementRequest{
			WarehouseID: tp.WarehouseID,
			ProductID:   tp.ProductID,
			Type:        model.MovementOut,
			Quantity:    tp.Quantity,
			Reason:      "task completion",
			ReferenceNo: reference,
			ActorID:     actorID,
		}
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Validate the whole batch before touching any balance, so a bad
		// reservation aborts the completion without partial work.
		for _, tp := range pending {
			if err := s.stock.ValidateMovement(ctx, reqFor(tp)); err != nil {
				return &DeductionError{
					TaskID:      task.ID,
					ProductID:   tp.ProductID,
					WarehouseID: tp.WarehouseID,
					Err:         err,
				}
			}
		}
		for _, tp := range pending {
			if _, err := s.stock.ApplyMovementTx(ctx, tx, reqFor(tp)); err != nil {
				return &DeductionError{
					TaskID:      task.ID,
					ProductID:   tp.ProductID,
					WarehouseID: tp.WarehouseID,
					Err:         err,
				}
			}
			if err := s.repo.MarkDeductedTx(tx, tp.ID); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatusTx(tx, task.ID, model.TaskDone)
	})
	if err != nil {
		return err
	}

	// A completion OUT can push a balance under its min threshold just like
	// a manual movement does.
	for _, tp := range pending {
		s.stock.CheckThreshold(ctx, tp.WarehouseID, tp.ProductID)
	}
	return nil
}

func (s *taskService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: task %s", ErrNotFound, id)
	}
	return s.repo.SoftDelete(ctx, id)
}

// notifyStatus records a notification for the assignee and hands it to the
// dispatcher. Best-effort.
func (s *taskService) notifyStatus(ctx context.Context, task *model.Task) {
	if s.notifRepo == nil || task.AssignedToID == nil {
		return
	}
	n := &model.Notification{
		Title:   fmt.Sprintf("Task status: %s", task.Status),
		Message: task.Title,
		Type:    model.NotificationTask,
		UserID:  task.AssignedToID,
		TaskID:  &task.ID,
	}
	if err := s.notifRepo.Create(ctx, n); err != nil {
		return
	}
	if s.publisher != nil {
		s.publisher.PublishNotification(ctx, n)
	}
}

func taskToResponse(t *model.Task) *dto.TaskResponse {
	resp := &dto.TaskResponse{
		ID:           t.ID.String(),
		Title:        t.Title,
		Note:         t.Note,
		Status:       t.Status,
		CustomerName: t.CustomerName,
		Latitude:     t.Latitude,
		Longitude:    t.Longitude,
		Products:     make([]dto.TaskProductResponse, 0, len(t.Products)),
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
	if t.AssignedToID != nil {
		v := t.AssignedToID.String()
		resp.AssignedToID = &v
	}
	if t.RegionID != nil {
		v := t.RegionID.String()
		resp.RegionID = &v
	}
	for _, tp := range t.Products {
		item := dto.TaskProductResponse{
			ID:          tp.ID.String(),
			ProductID:   tp.ProductID.String(),
			WarehouseID: tp.WarehouseID.String(),
			Quantity:    tp.Quantity,
			Deducted:    tp.Deducted,
		}
		if tp.Product != nil {
			item.ProductName = tp.Product.Name
		}
		resp.Products = append(resp.Products, item)
	}
	return resp
}
