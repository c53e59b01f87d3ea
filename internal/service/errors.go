package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error taxonomy shared by all engines. Handlers map these to HTTP codes:
// ErrValidation → 400, ErrNotFound → 404, ErrConflict → 409.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// DeductionError reports which reservation made a task-completion batch
// fail. The whole batch is rolled back when it is returned.
type DeductionError struct {
	TaskID      uuid.UUID
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Err         error
}

func (e *DeductionError) Error() string {
	return fmt.Sprintf("deduction failed for product %s at warehouse %s: %v",
		e.ProductID, e.WarehouseID, e.Err)
}

func (e *DeductionError) Unwrap() error { return e.Err }
