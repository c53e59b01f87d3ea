package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Task statuses. DONE is terminal: reaching it deducts all reserved
// products from their warehouses exactly once.
const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskArrived    = "arrived"
	TaskDone       = "done"
	TaskPending    = "pending"
	TaskRejected   = "rejected"
)

// Task is a field work order.
type Task struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title        string    `gorm:"not null"`
	Note         string
	Status       string `gorm:"not null;default:'todo';index"`
	CustomerName string
	Latitude     *float64
	Longitude    *float64
	AssignedToID *uuid.UUID `gorm:"type:uuid;index"`
	RegionID     *uuid.UUID `gorm:"type:uuid;index"`
	Active       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	AssignedTo *User         `gorm:"foreignKey:AssignedToID"`
	Region     *Region       `gorm:"foreignKey:RegionID"`
	Products   []TaskProduct `gorm:"foreignKey:TaskID"`
}

// TaskProduct reserves a quantity of a product from a specific warehouse
// for a task. Deducted flips false→true exactly once, when the owning task
// transitions to done, producing one OUT movement per reservation.
type TaskProduct struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TaskID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	Deducted    bool            `gorm:"not null;default:false"`
	CreatedAt   time.Time

	Task      *Task      `gorm:"foreignKey:TaskID"`
	Product   *Product   `gorm:"foreignKey:ProductID"`
	Warehouse *Warehouse `gorm:"foreignKey:WarehouseID"`
}
