package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"digitask/internal/dto"
	"digitask/internal/model"
	"digitask/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// txRetryBudget bounds re-attempts of a ledger transaction that aborted on
// DB-level contention (deadlock / serialization failure) before the error
// surfaces to the caller as ErrConflict.
const txRetryBudget = 3

// MovementRequest describes one ledger operation.
type MovementRequest struct {
	WarehouseID   uuid.UUID
	ProductID     uuid.UUID
	Type          string
	Quantity      decimal.Decimal // positive magnitude; signed delta for adjust
	Reason        string
	ReferenceNo   string
	ActorID       *uuid.UUID
	ToWarehouseID *uuid.UUID // transfer only
}

// BalanceKey identifies one (warehouse, product) balance for locking.
type BalanceKey struct {
	WarehouseID uuid.UUID
	ProductID   uuid.UUID
}

func (k BalanceKey) String() string {
	return k.WarehouseID.String() + "/" + k.ProductID.String()
}

// StockService is the inventory ledger engine. Balances are mutated
// exclusively through it, one immutable movement row per mutation, under a
// per-(warehouse, product) lock.
type StockService interface {
	// ApplyMovement validates, locks the affected balance key(s), and runs
	// the read-modify-write-append sequence in one transaction. Transfers
	// produce two linked movement rows and touch two balances atomically.
	ApplyMovement(ctx context.Context, req MovementRequest) ([]model.StockMovement, error)

	// ApplyMovementTx is the transactional core for callers that manage
	// their own transaction and locks (task completion). It performs the
	// same validation and balance math but neither locks nor commits.
	ApplyMovementTx(ctx context.Context, tx *gorm.DB, req MovementRequest) ([]model.StockMovement, error)

	// ValidateMovement runs the same request checks ApplyMovement performs,
	// without touching any balance. Batch callers reject the whole batch up
	// front instead of failing halfway through.
	ValidateMovement(ctx context.Context, req MovementRequest) error

	// LockKeys serializes against concurrent ledger writes on the given
	// balances. The release function must be called after the enclosing
	// transaction finishes.
	LockKeys(keys ...BalanceKey) (release func())

	// CheckThreshold inspects one balance after a committed write and
	// raises a low-stock alert when it sits under the product's min
	// threshold. Best-effort, never fails the caller.
	CheckThreshold(ctx context.Context, warehouseID, productID uuid.UUID)

	Balances(ctx context.Context, filter dto.BalanceFilter) (*dto.BalanceListResponse, error)
	Movements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	Alerts(ctx context.Context) ([]dto.StockAlertResponse, error)
}

type stockService struct {
	invRepo       repository.InventoryRepository
	movRepo       repository.MovementRepository
	warehouseRepo repository.WarehouseRepository
	productRepo   repository.ProductRepository
	notifRepo     repository.NotificationRepository
	publisher     EventPublisher
	locks         *KeyedMutex
}

func NewStockService(
	invRepo repository.InventoryRepository,
	movRepo repository.MovementRepository,
	warehouseRepo repository.WarehouseRepository,
	productRepo repository.ProductRepository,
	notifRepo repository.NotificationRepository,
	publisher EventPublisher,
) StockService {
	return &stockService{
		invRepo:       invRepo,
		movRepo:       movRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		notifRepo:     notifRepo,
		publisher:     publisher,
		locks:         NewKeyedMutex(),
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// isRetryableTxError reports whether the transaction aborted on DB-level
// contention and is worth re-attempting.
func isRetryableTxError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access")
}

func (s *stockService) ApplyMovement(ctx context.Context, req MovementRequest) ([]model.StockMovement, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}

	keys := []BalanceKey{{WarehouseID: req.WarehouseID, ProductID: req.ProductID}}
	if req.Type == model.MovementTransfer {
		keys = append(keys, BalanceKey{WarehouseID: *req.ToWarehouseID, ProductID: req.ProductID})
	}
	release := s.LockKeys(keys...)
	defer release()

	var movements []model.StockMovement
	var err error
	for attempt := 0; attempt < txRetryBudget; attempt++ {
		err = runTx(ctx, s.invRepo.DB(), func(tx *gorm.DB) error {
			var txErr error
			movements, txErr = s.apply(ctx, tx, req)
			return txErr
		})
		if !isRetryableTxError(err) {
			break
		}
	}
	if isRetryableTxError(err) {
		return nil, fmt.Errorf("%w: ledger contention persisted after %d attempts: %v", ErrConflict, txRetryBudget, err)
	}
	if err != nil {
		return nil, err
	}

	s.CheckThreshold(ctx, req.WarehouseID, req.ProductID)
	return movements, nil
}

func (s *stockService) ApplyMovementTx(ctx context.Context, tx *gorm.DB, req MovementRequest) ([]model.StockMovement, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	return s.apply(ctx, tx, req)
}

func (s *stockService) ValidateMovement(ctx context.Context, req MovementRequest) error {
	return s.validate(ctx, &req)
}

func (s *stockService) LockKeys(keys ...BalanceKey) (release func()) {
	strs := make([]string, len(keys))
	for i, k := range keys {
		strs[i] = k.String()
	}
	return s.locks.Lock(strs...)
}

// validate rejects the request before any mutation. Quantity must be a
// positive magnitude, except adjust where it is a caller-signed delta and
// only needs to be non-zero.
func (s *stockService) validate(ctx context.Context, req *MovementRequest) error {
	switch req.Type {
	case model.MovementIn, model.MovementOut, model.MovementTransfer, model.MovementAdjust, model.MovementReturn:
	default:
		return fmt.Errorf("%w: unknown movement type %q", ErrValidation, req.Type)
	}

	if req.Type == model.MovementAdjust {
		if req.Quantity.IsZero() {
			return fmt.Errorf("%w: adjustment delta must be non-zero", ErrValidation)
		}
	} else if !req.Quantity.IsPositive() {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	if req.Type == model.MovementTransfer {
		if req.ToWarehouseID == nil {
			return fmt.Errorf("%w: target warehouse required for transfer", ErrValidation)
		}
		if *req.ToWarehouseID == req.WarehouseID {
			return fmt.Errorf("%w: transfer source and target must differ", ErrValidation)
		}
	}

	w, err := s.warehouseRepo.FindByID(ctx, req.WarehouseID)
	if err != nil || !w.Active {
		return fmt.Errorf("%w: warehouse %s", ErrNotFound, req.WarehouseID)
	}
	p, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil || !p.Active {
		return fmt.Errorf("%w: product %s", ErrNotFound, req.ProductID)
	}
	if req.Type == model.MovementTransfer {
		tw, err := s.warehouseRepo.FindByID(ctx, *req.ToWarehouseID)
		if err != nil || !tw.Active {
			return fmt.Errorf("%w: warehouse %s", ErrNotFound, *req.ToWarehouseID)
		}
	}
	return nil
}

// apply performs the balance read-modify-write and appends the movement
// row(s). Callers hold the balance key lock(s) and the transaction.
func (s *stockService) apply(ctx context.Context, tx *gorm.DB, req MovementRequest) ([]model.StockMovement, error) {
	if req.Type == model.MovementTransfer {
		return s.applyTransfer(ctx, tx, req)
	}

	bal, err := s.invRepo.GetOrCreateForUpdate(tx, req.WarehouseID, req.ProductID)
	if err != nil {
		return nil, err
	}

	qtyOld := bal.Quantity
	var qtyNew decimal.Decimal
	switch req.Type {
	case model.MovementOut:
		qtyNew = qtyOld.Sub(req.Quantity)
	default: // in, return, adjust are all additive; adjust carries its own sign
		qtyNew = qtyOld.Add(req.Quantity)
	}

	if err := s.invRepo.UpdateQuantityTx(tx, bal.ID, qtyNew); err != nil {
		return nil, err
	}

	mov := model.StockMovement{
		WarehouseID:  req.WarehouseID,
		ProductID:    req.ProductID,
		MovementType: req.Type,
		Reason:       req.Reason,
		QuantityOld:  qtyOld,
		QuantityNew:  qtyNew,
		CreatedByID:  req.ActorID,
		ReferenceNo:  req.ReferenceNo,
		CreatedAt:    time.Now(),
	}
	if err := s.movRepo.CreateTx(tx, &mov); err != nil {
		return nil, err
	}
	return []model.StockMovement{mov}, nil
}

// applyTransfer decrements the source balance and increments the
// destination, recording two linked movement rows that share the reference
// number and timestamp. All four writes belong to the caller's transaction.
func (s *stockService) applyTransfer(ctx context.Context, tx *gorm.DB, req MovementRequest) ([]model.StockMovement, error) {
	srcBal, err := s.invRepo.GetOrCreateForUpdate(tx, req.WarehouseID, req.ProductID)
	if err != nil {
		return nil, err
	}
	dstBal, err := s.invRepo.GetOrCreateForUpdate(tx, *req.ToWarehouseID, req.ProductID)
	if err != nil {
		return nil, err
	}

	srcOld := srcBal.Quantity
	srcNew := srcOld.Sub(req.Quantity)
	dstOld := dstBal.Quantity
	dstNew := dstOld.Add(req.Quantity)

	if err := s.invRepo.UpdateQuantityTx(tx, srcBal.ID, srcNew); err != nil {
		return nil, err
	}
	if err := s.invRepo.UpdateQuantityTx(tx, dstBal.ID, dstNew); err != nil {
		return nil, err
	}

	now := time.Now()
	from := req.WarehouseID
	to := *req.ToWarehouseID

	out := model.StockMovement{
		WarehouseID:   from,
		ToWarehouseID: &to,
		ProductID:     req.ProductID,
		MovementType:  model.MovementTransfer,
		Reason:        req.Reason,
		QuantityOld:   srcOld,
		QuantityNew:   srcNew,
		CreatedByID:   req.ActorID,
		ReferenceNo:   req.ReferenceNo,
		CreatedAt:     now,
	}
	in := model.StockMovement{
		WarehouseID:     to,
		FromWarehouseID: &from,
		ProductID:       req.ProductID,
		MovementType:    model.MovementTransfer,
		Reason:          req.Reason,
		QuantityOld:     dstOld,
		QuantityNew:     dstNew,
		CreatedByID:     req.ActorID,
		ReferenceNo:     req.ReferenceNo,
		CreatedAt:       now,
	}
	if err := s.movRepo.CreateTx(tx, &out); err != nil {
		return nil, err
	}
	if err := s.movRepo.CreateTx(tx, &in); err != nil {
		return nil, err
	}
	return []model.StockMovement{out, in}, nil
}

// CheckThreshold runs after a committed movement: when the balance dropped
// under the product's min threshold, persist a stock alert notification and
// hand it to the dispatcher. Best-effort, never fails the write path.
func (s *stockService) CheckThreshold(ctx context.Context, warehouseID, productID uuid.UUID) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil || p.MinQuantity == nil {
		return
	}
	bal, err := s.invRepo.Find(ctx, warehouseID, productID)
	if err != nil || bal.Quantity.GreaterThanOrEqual(*p.MinQuantity) {
		return
	}

	w, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return
	}

	alert := dto.StockAlertResponse{
		WarehouseID:   warehouseID.String(),
		WarehouseName: w.Name,
		ProductID:     productID.String(),
		ProductName:   p.Name,
		Quantity:      bal.Quantity,
		MinQuantity:   *p.MinQuantity,
		Level:         "low",
	}

	if s.notifRepo != nil {
		n := &model.Notification{
			Title:   fmt.Sprintf("Low stock: %s", p.Name),
			Message: fmt.Sprintf("%s at %s is down to %s (min %s)", p.Name, w.Name, bal.Quantity, p.MinQuantity),
			Type:    model.NotificationStockAlert,
		}
		_ = s.notifRepo.Create(ctx, n)
		if s.publisher != nil {
			s.publisher.PublishNotification(ctx, n)
		}
	}
	if s.publisher != nil {
		s.publisher.EnqueueStockAlert(ctx, alert)
	}
}

// ── Read side ─────────────────────────────────────────────────────────────────

func (s *stockService) Balances(ctx context.Context, filter dto.BalanceFilter) (*dto.BalanceListResponse, error) {
	balances, total, err := s.invRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.BalanceListResponse{
		Data:  make([]dto.BalanceResponse, 0, len(balances)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for _, b := range balances {
		item := dto.BalanceResponse{
			ID:          b.ID.String(),
			WarehouseID: b.WarehouseID.String(),
			ProductID:   b.ProductID.String(),
			Quantity:    b.Quantity,
		}
		if b.Warehouse != nil {
			item.WarehouseName = b.Warehouse.Name
		}
		if b.Product != nil {
			item.ProductName = b.Product.Name
			item.ProductUnit = b.Product.Unit
		}
		resp.Data = append(resp.Data, item)
	}
	return resp, nil
}

func (s *stockService) Movements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	movements, total, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.MovementListResponse{
		Data:  make([]dto.MovementResponse, 0, len(movements)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for _, m := range movements {
		resp.Data = append(resp.Data, MovementToResponse(&m))
	}
	return resp, nil
}

func (s *stockService) Alerts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	balances, err := s.invRepo.ListBelowMin(ctx)
	if err != nil {
		return nil, err
	}
	alerts := make([]dto.StockAlertResponse, 0, len(balances))
	for _, b := range balances {
		if b.Product == nil || b.Product.MinQuantity == nil {
			continue
		}
		alert := dto.StockAlertResponse{
			WarehouseID: b.WarehouseID.String(),
			ProductID:   b.ProductID.String(),
			ProductName: b.Product.Name,
			Quantity:    b.Quantity,
			MinQuantity: *b.Product.MinQuantity,
			Level:       "low",
		}
		if b.Warehouse != nil {
			alert.WarehouseName = b.Warehouse.Name
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

func MovementToResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:           m.ID.String(),
		WarehouseID:  m.WarehouseID.String(),
		ProductID:    m.ProductID.String(),
		MovementType: m.MovementType,
		Reason:       m.Reason,
		QuantityOld:  m.QuantityOld,
		QuantityNew:  m.QuantityNew,
		ReferenceNo:  m.ReferenceNo,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
	}
	if m.FromWarehouseID != nil {
		v := m.FromWarehouseID.String()
		resp.FromWarehouseID = &v
	}
	if m.ToWarehouseID != nil {
		v := m.ToWarehouseID.String()
		resp.ToWarehouseID = &v
	}
	if m.Warehouse != nil {
		resp.WarehouseName = m.Warehouse.Name
	}
	if m.Product != nil {
		resp.ProductName = m.Product.Name
	}
	if m.CreatedBy != nil {
		v := m.CreatedBy.FullName
		resp.CreatedBy = &v
	}
	return resp
}
