package repository

import (
	"context"
	"errors"

	"digitask/internal/dto"
	"digitask/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository is the data access contract for materialized balances.
// All mutating methods take the live transaction: balances are only ever
// written inside the ledger engine's transaction.
type InventoryRepository interface {
	// GetOrCreateForUpdate reads the balance row for (warehouse, product)
	// under a FOR UPDATE row lock, creating a zero-quantity row when none
	// exists yet.
	GetOrCreateForUpdate(tx *gorm.DB, warehouseID, productID uuid.UUID) (*model.InventoryBalance, error)
	UpdateQuantityTx(tx *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error

	Find(ctx context.Context, warehouseID, productID uuid.UUID) (*model.InventoryBalance, error)
	List(ctx context.Context, filter dto.BalanceFilter) ([]model.InventoryBalance, int64, error)
	// ListBelowMin returns balances whose quantity is under the product's
	// min threshold (alerting read model).
	ListBelowMin(ctx context.Context) ([]model.InventoryBalance, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) GetOrCreateForUpdate(tx *gorm.DB, warehouseID, productID uuid.UUID) (*model.InventoryBalance, error) {
	var bal model.InventoryBalance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&bal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		bal = model.InventoryBalance{
			WarehouseID: warehouseID,
			ProductID:   productID,
			Quantity:    decimal.Zero,
		}
		if err := tx.Create(&bal).Error; err != nil {
			return nil, err
		}
		return &bal, nil
	}
	if err != nil {
		return nil, err
	}
	return &bal, nil
}

func (r *inventoryRepo) UpdateQuantityTx(tx *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error {
	return tx.Model(&model.InventoryBalance{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *inventoryRepo) Find(ctx context.Context, warehouseID, productID uuid.UUID) (*model.InventoryBalance, error) {
	var bal model.InventoryBalance
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
		First(&bal).Error
	if err != nil {
		return nil, err
	}
	return &bal, nil
}

func (r *inventoryRepo) List(ctx context.Context, filter dto.BalanceFilter) ([]model.InventoryBalance, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.InventoryBalance{}).
		Preload("Warehouse").Preload("Product")

	if filter.WarehouseID != "" {
		q = q.Where("warehouse_id = ?", filter.WarehouseID)
	}
	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Search != "" {
		q = q.Joins("JOIN products ON products.id = inventory_balances.product_id").
			Where("products.name ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	var balances []model.InventoryBalance
	err := q.Limit(filter.Limit).Offset(offset).Find(&balances).Error
	return balances, total, err
}

func (r *inventoryRepo) ListBelowMin(ctx context.Context) ([]model.InventoryBalance, error) {
	var balances []model.InventoryBalance
	err := r.db.WithContext(ctx).
		Preload("Warehouse").Preload("Product").
		Joins("JOIN products ON products.id = inventory_balances.product_id").
		Where("products.min_quantity IS NOT NULL AND inventory_balances.quantity < products.min_quantity").
		Find(&balances).Error
	return balances, err
}

func (r *inventoryRepo) DB() *gorm.DB { return r.db }
