package service

import (
	"context"
	"sync"
	"testing"

	"digitask/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockFixture struct {
	svc        StockService
	inv        *stubInventoryRepo
	movements  *stubMovementRepo
	warehouses *stubWarehouseRepo
	products   *stubProductRepo
	notifs     *stubNotificationRepo
	publisher  *stubPublisher
}

func newStockFixture() *stockFixture {
	f := &stockFixture{
		inv:        newStubInventoryRepo(),
		movements:  newStubMovementRepo(),
		warehouses: newStubWarehouseRepo(),
		products:   newStubProductRepo(),
		notifs:     newStubNotificationRepo(),
		publisher:  &stubPublisher{},
	}
	f.svc = NewStockService(f.inv, f.movements, f.warehouses, f.products, f.notifs, f.publisher)
	return f
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestApplyMovementInCreatesBalance(t *testing.T) {
	f := newStockFixture()
	wh := f.warehouses.seed("Central", true)
	prod := f.products.seed("Cable", true)

	movements, err := f.svc.ApplyMovement(context.Background(), MovementRequest{
		WarehouseID: wh,
		ProductID:   prod,
		Type:        model.MovementIn,
		Quantity:    dec("100"),
	})
	require.NoError(t, err)
	require.Len(t, movements, 1)

	assert.True(t, movements[0].QuantityOld.IsZero())
	assert.True(t, movements[0].QuantityNew.Equal(dec("100")))
	assert.True(t, f.inv.quantity(wh, prod).Equal(dec("100")))
}

func TestApplyMovementSequence(t *testing.T) {
	f := newStockFixture()
	src := f.warehouses.seed("Central", true)
	dst := f.warehouses.seed("North", true)
	prod := f.products.seed("Router", true)
	ctx := context.Background()

	_, err := f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: src, ProductID: prod, Type: model.MovementIn, Quantity: dec("100"),
	})
	require.NoError(t, err)

	_, err = f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: src, ProductID: prod, Type: model.MovementOut, Quantity: dec("30"),
	})
	require.NoError(t, err)
	assert.True(t, f.inv.quantity(src, prod).Equal(dec("70")))

	transfers, err := f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: src, ProductID: prod, Type: model.MovementTransfer,
		Quantity: dec("20"), ToWarehouseID: &dst, ReferenceNo: "TRF-001",
	})
	require.NoError(t, err)
	require.Len(t, transfers, 2)

	assert.True(t, f.inv.quantity(src, prod).Equal(dec("50")))
	assert.True(t, f.inv.quantity(dst, prod).Equal(dec("20")))

	// Both legs share the reference and carry the cross-warehouse links.
	out, in := transfers[0], transfers[1]
	assert.Equal(t, "TRF-001", out.ReferenceNo)
	assert.Equal(t, "TRF-001", in.ReferenceNo)
	assert.Equal(t, src, out.WarehouseID)
	require.NotNil(t, out.ToWarehouseID)
	assert.Equal(t, dst, *out.ToWarehouseID)
	assert.Equal(t, dst, in.WarehouseID)
	require.NotNil(t, in.FromWarehouseID)
	assert.Equal(t, src, *in.FromWarehouseID)

	// Snapshots on each leg reflect that warehouse's before/after.
	assert.True(t, out.QuantityOld.Equal(dec("70")))
	assert.True(t, out.QuantityNew.Equal(dec("50")))
	assert.True(t, in.QuantityOld.IsZero())
	assert.True(t, in.QuantityNew.Equal(dec("20")))

	// 1 in + 1 out + 2 transfer legs
	assert.Len(t, f.movements.all(), 4)
}

func TestApplyMovementTransferConservesTotal(t *testing.T) {
	f := newStockFixture()
	src := f.warehouses.seed("A", true)
	dst := f.warehouses.seed("B", true)
	prod := f.products.seed("Switch", true)
	ctx := context.Background()

	_, err := f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: src, ProductID: prod, Type: model.MovementIn, Quantity: dec("42.5"),
	})
	require.NoError(t, err)

	_, err = f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: src, ProductID: prod, Type: model.MovementTransfer,
		Quantity: dec("17.25"), ToWarehouseID: &dst,
	})
	require.NoError(t, err)

	total := f.inv.quantity(src, prod).Add(f.inv.quantity(dst, prod))
	assert.True(t, total.Equal(dec("42.5")))
}

func TestApplyMovementAdjustSignedDelta(t *testing.T) {
	f := newStockFixture()
	wh := f.warehouses.seed("Central", true)
	prod := f.products.seed("Clamp", true)
	ctx := context.Background()

	_, err := f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: wh, ProductID: prod, Type: model.MovementIn, Quantity: dec("10"),
	})
	require.NoError(t, err)

	// Downward correction
	movements, err := f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: wh, ProductID: prod, Type: model.MovementAdjust,
		Quantity: dec("-3"), Reason: "shrinkage",
	})
	require.NoError(t, err)
	assert.True(t, movements[0].QuantityNew.Equal(dec("7")))
	assert.True(t, f.inv.quantity(wh, prod).Equal(dec("7")))

	// Zero delta is meaningless
	_, err = f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: wh, ProductID: prod, Type: model.MovementAdjust, Quantity: decimal.Zero,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplyMovementValidation(t *testing.T) {
	f := newStockFixture()
	wh := f.warehouses.seed("Central", true)
	prod := f.products.seed("Cable", true)
	ctx := context.Background()

	cases := []struct {
		name string
		req  MovementRequest
	}{
		{"unknown type", MovementRequest{WarehouseID: wh, ProductID: prod, Type: "destroy", Quantity: dec("1")}},
		{"zero quantity", MovementRequest{WarehouseID: wh, ProductID: prod, Type: model.MovementIn, Quantity: decimal.Zero}},
		{"negative out", MovementRequest{WarehouseID: wh, ProductID: prod, Type: model.MovementOut, Quantity: dec("-5")}},
		{"transfer without target", MovementRequest{WarehouseID: wh, ProductID: prod, Type: model.MovementTransfer, Quantity: dec("1")}},
		{"transfer to itself", MovementRequest{WarehouseID: wh, ProductID: prod, Type: model.MovementTransfer, Quantity: dec("1"), ToWarehouseID: &wh}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.ApplyMovement(ctx, tc.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, f.movements.all(), "rejected requests must not write movements")
}

func TestApplyMovementUnknownReferences(t *testing.T) {
	f := newStockFixture()
	wh := f.warehouses.seed("Central", true)
	prod := f.products.seed("Cable", true)
	inactiveWh := f.warehouses.seed("Closed", false)
	inactiveProd := f.products.seed("Legacy", false)
	ctx := context.Background()

	_, err := f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: uuid.New(), ProductID: prod, Type: model.MovementIn, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: inactiveWh, ProductID: prod, Type: model.MovementIn, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: wh, ProductID: inactiveProd, Type: model.MovementIn, Quantity: dec("1"),
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: wh, ProductID: prod, Type: model.MovementTransfer,
		Quantity: dec("1"), ToWarehouseID: &inactiveWh,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyMovementConcurrentSameBalance(t *testing.T) {
	f := newStockFixture()
	wh := f.warehouses.seed("Central", true)
	prod := f.products.seed("Cable", true)
	ctx := context.Background()

	const workers = 10
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ApplyMovement(ctx, MovementRequest{
				WarehouseID: wh, ProductID: prod, Type: model.MovementIn, Quantity: dec("5"),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, f.inv.quantity(wh, prod).Equal(dec("50")),
		"10 concurrent +5 receipts must land on exactly 50, got %s", f.inv.quantity(wh, prod))
	assert.Len(t, f.movements.all(), workers)
}

func TestApplyMovementOpposingTransfersNoDeadlock(t *testing.T) {
	f := newStockFixture()
	a := f.warehouses.seed("A", true)
	b := f.warehouses.seed("B", true)
	prod := f.products.seed("Cable", true)
	ctx := context.Background()

	for _, wh := range []uuid.UUID{a, b} {
		_, err := f.svc.ApplyMovement(ctx, MovementRequest{
			WarehouseID: wh, ProductID: prod, Type: model.MovementIn, Quantity: dec("1000"),
		})
		require.NoError(t, err)
	}

	// Transfers in opposite directions between the same pair acquire both
	// balance keys; sorted acquisition keeps them from deadlocking.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			src, dst := a, b
			if i%2 == 1 {
				src, dst = b, a
			}
			_, err := f.svc.ApplyMovement(ctx, MovementRequest{
				WarehouseID: src, ProductID: prod, Type: model.MovementTransfer,
				Quantity: dec("1"), ToWarehouseID: &dst,
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	total := f.inv.quantity(a, prod).Add(f.inv.quantity(b, prod))
	assert.True(t, total.Equal(dec("2000")))
}

func TestLowStockAlertAfterMovement(t *testing.T) {
	f := newStockFixture()
	wh := f.warehouses.seed("Central", true)
	min := dec("10")
	prod := f.products.seed("Connector", true)
	p, _ := f.products.FindByID(context.Background(), prod)
	p.MinQuantity = &min
	require.NoError(t, f.products.Update(context.Background(), p))
	ctx := context.Background()

	_, err := f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: wh, ProductID: prod, Type: model.MovementIn, Quantity: dec("12"),
	})
	require.NoError(t, err)
	assert.Empty(t, f.publisher.alerts, "above the threshold, no alert")

	_, err = f.svc.ApplyMovement(ctx, MovementRequest{
		WarehouseID: wh, ProductID: prod, Type: model.MovementOut, Quantity: dec("5"),
	})
	require.NoError(t, err)

	require.Len(t, f.publisher.alerts, 1)
	alert := f.publisher.alerts[0]
	assert.Equal(t, "Connector", alert.ProductName)
	assert.True(t, alert.Quantity.Equal(dec("7")))
	assert.True(t, alert.MinQuantity.Equal(dec("10")))
	assert.Equal(t, "low", alert.Level)

	// Persisted notification rides along with the queued alert.
	require.Len(t, f.notifs.notifications, 1)
	assert.Equal(t, model.NotificationStockAlert, f.notifs.notifications[0].Type)
}

func TestMovementsListNewestFirst(t *testing.T) {
	f := newStockFixture()
	wh := f.warehouses.seed("Central", true)
	prod := f.products.seed("Cable", true)
	ctx := context.Background()

	for _, q := range []string{"1", "2", "3"} {
		_, err := f.svc.ApplyMovement(ctx, MovementRequest{
			WarehouseID: wh, ProductID: prod, Type: model.MovementIn, Quantity: dec(q),
		})
		require.NoError(t, err)
	}

	history, err := f.movements.ListByWarehouseProduct(ctx, wh.String(), prod.String())
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Snapshot chain is contiguous: each row's old equals the previous new.
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i].QuantityOld.Equal(history[i-1].QuantityNew))
	}
}
