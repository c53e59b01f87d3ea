package service

import (
	"context"
	"sync"
	"time"

	"digitask/internal/dto"
	"digitask/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. The services run their transactions through
// runTx, which short-circuits when DB() returns nil, so everything below
// works without a database.

// ── Publisher ────────────────────────────────────────────────────────────────

type stubPublisher struct {
	mu            sync.Mutex
	locations     []dto.LocationBroadcast
	notifications []*model.Notification
	alerts        []dto.StockAlertResponse
	chatMessages  []dto.ChatMessageResponse
}

func (p *stubPublisher) PublishLocation(_ context.Context, payload dto.LocationBroadcast) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.locations = append(p.locations, payload)
}

func (p *stubPublisher) PublishNotification(_ context.Context, n *model.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, n)
}

func (p *stubPublisher) EnqueueStockAlert(_ context.Context, alert dto.StockAlertResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, alert)
}

func (p *stubPublisher) PublishChatMessage(_ context.Context, msg dto.ChatMessageResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chatMessages = append(p.chatMessages, msg)
}

// ── Warehouses ───────────────────────────────────────────────────────────────

type stubWarehouseRepo struct {
	mu         sync.Mutex
	warehouses map[uuid.UUID]*model.Warehouse
}

func newStubWarehouseRepo() *stubWarehouseRepo {
	return &stubWarehouseRepo{warehouses: make(map[uuid.UUID]*model.Warehouse)}
}

func (r *stubWarehouseRepo) seed(name string, active bool) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.warehouses[id] = &model.Warehouse{ID: id, Name: name, Active: active}
	return id
}

func (r *stubWarehouseRepo) Create(_ context.Context, w *model.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	cp := *w
	r.warehouses[w.ID] = &cp
	return nil
}

func (r *stubWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.warehouses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *stubWarehouseRepo) List(_ context.Context, _ dto.WarehouseFilter) ([]model.Warehouse, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Warehouse
	for _, w := range r.warehouses {
		out = append(out, *w)
	}
	return out, int64(len(out)), nil
}

func (r *stubWarehouseRepo) ListActive(_ context.Context) ([]model.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Warehouse
	for _, w := range r.warehouses {
		if w.Active {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *stubWarehouseRepo) Update(_ context.Context, w *model.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.warehouses[w.ID] = &cp
	return nil
}

func (r *stubWarehouseRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.warehouses[id]; ok {
		w.Active = false
	}
	return nil
}

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) seed(name string, active bool) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.New()
	r.products[id] = &model.Product{ID: id, Name: name, Unit: model.UnitPcs, Active: active}
	return id
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.Active = false
	}
	return nil
}

func (r *stubProductRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.products[id]; ok {
		p.Active = true
	}
	return nil
}

// ── Inventory balances ───────────────────────────────────────────────────────

type stubInventoryRepo struct {
	mu       sync.Mutex
	balances map[string]*model.InventoryBalance
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{balances: make(map[string]*model.InventoryBalance)}
}

func balKey(warehouseID, productID uuid.UUID) string {
	return warehouseID.String() + "/" + productID.String()
}

func (r *stubInventoryRepo) GetOrCreateForUpdate(_ *gorm.DB, warehouseID, productID uuid.UUID) (*model.InventoryBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := balKey(warehouseID, productID)
	bal, ok := r.balances[key]
	if !ok {
		bal = &model.InventoryBalance{
			ID:          uuid.New(),
			WarehouseID: warehouseID,
			ProductID:   productID,
		}
		r.balances[key] = bal
	}
	cp := *bal
	return &cp, nil
}

func (r *stubInventoryRepo) UpdateQuantityTx(_ *gorm.DB, id uuid.UUID, quantity decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bal := range r.balances {
		if bal.ID == id {
			bal.Quantity = quantity
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) Find(_ context.Context, warehouseID, productID uuid.UUID) (*model.InventoryBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bal, ok := r.balances[balKey(warehouseID, productID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *bal
	return &cp, nil
}

func (r *stubInventoryRepo) List(_ context.Context, _ dto.BalanceFilter) ([]model.InventoryBalance, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.InventoryBalance
	for _, bal := range r.balances {
		out = append(out, *bal)
	}
	return out, int64(len(out)), nil
}

func (r *stubInventoryRepo) ListBelowMin(_ context.Context) ([]model.InventoryBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.InventoryBalance
	for _, bal := range r.balances {
		if bal.Product != nil && bal.Product.MinQuantity != nil && bal.Quantity.LessThan(*bal.Product.MinQuantity) {
			out = append(out, *bal)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) DB() *gorm.DB { return nil }

// quantity reads the current balance for assertions.
func (r *stubInventoryRepo) quantity(warehouseID, productID uuid.UUID) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	bal, ok := r.balances[balKey(warehouseID, productID)]
	if !ok {
		return decimal.Zero
	}
	return bal.Quantity
}

// ── Movements ────────────────────────────────────────────────────────────────

type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func newStubMovementRepo() *stubMovementRepo { return &stubMovementRepo{} }

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for i := len(r.movements) - 1; i >= 0; i-- {
		m := r.movements[i]
		if filter.MovementType != "" && m.MovementType != filter.MovementType {
			continue
		}
		if filter.ReferenceNo != "" && m.ReferenceNo != filter.ReferenceNo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) ListByWarehouseProduct(_ context.Context, warehouseID, productID string) ([]model.StockMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.WarehouseID.String() == warehouseID && m.ProductID.String() == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovementRepo) all() []model.StockMovement {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.StockMovement, len(r.movements))
	copy(out, r.movements)
	return out
}

// ── Notifications ────────────────────────────────────────────────────────────

type stubNotificationRepo struct {
	mu            sync.Mutex
	notifications []model.Notification
}

func newStubNotificationRepo() *stubNotificationRepo { return &stubNotificationRepo{} }

func (r *stubNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *stubNotificationRepo) ListForUser(_ context.Context, userID uuid.UUID, _ int) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.notifications {
		if n.UserID == nil || *n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].Read = true
		}
	}
	return nil
}

// ── Tracking ─────────────────────────────────────────────────────────────────

type stubTrackingRepo struct {
	mu        sync.Mutex
	locations map[uuid.UUID]*model.UserLocation
	history   []model.LocationHistory
}

func newStubTrackingRepo() *stubTrackingRepo {
	return &stubTrackingRepo{locations: make(map[uuid.UUID]*model.UserLocation)}
}

func (r *stubTrackingRepo) UpsertLocation(_ context.Context, userID uuid.UUID, lat, lng float64, online bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.locations[userID]
	if !ok {
		loc = &model.UserLocation{ID: uuid.New(), UserID: userID}
		r.locations[userID] = loc
	}
	loc.Latitude = &lat
	loc.Longitude = &lng
	loc.IsOnline = online
	loc.LastSeen = time.Now()
	return nil
}

func (r *stubTrackingRepo) SetOnline(_ context.Context, userID uuid.UUID, online bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.locations[userID]
	if !ok {
		loc = &model.UserLocation{ID: uuid.New(), UserID: userID}
		r.locations[userID] = loc
	}
	loc.IsOnline = online
	loc.LastSeen = time.Now()
	return nil
}

func (r *stubTrackingRepo) ListLocations(_ context.Context) ([]model.UserLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.UserLocation
	for _, loc := range r.locations {
		out = append(out, *loc)
	}
	return out, nil
}

func (r *stubTrackingRepo) LatestHistory(_ context.Context, userID uuid.UUID) (*model.LocationHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.LocationHistory
	for i := range r.history {
		h := &r.history[i]
		if h.UserID != userID {
			continue
		}
		if latest == nil || h.Timestamp.After(latest.Timestamp) {
			latest = h
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *stubTrackingRepo) AppendHistory(_ context.Context, h *model.LocationHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.Timestamp.IsZero() {
		h.Timestamp = time.Now()
	}
	r.history = append(r.history, *h)
	return nil
}

func (r *stubTrackingRepo) HistorySince(_ context.Context, userID uuid.UUID, since time.Time) ([]model.LocationHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.LocationHistory
	for _, h := range r.history {
		if h.UserID == userID && !h.Timestamp.Before(since) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *stubTrackingRepo) PurgeHistoryBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []model.LocationHistory
	var removed int64
	for _, h := range r.history {
		if h.Timestamp.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, h)
	}
	r.history = kept
	return removed, nil
}

func (r *stubTrackingRepo) historyCount(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, h := range r.history {
		if h.UserID == userID {
			n++
		}
	}
	return n
}

// ── Tasks ────────────────────────────────────────────────────────────────────

type stubTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*model.Task
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[uuid.UUID]*model.Task)}
}

func (r *stubTaskRepo) Create(_ context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	for i := range t.Products {
		if t.Products[i].ID == uuid.Nil {
			t.Products[i].ID = uuid.New()
		}
		t.Products[i].TaskID = t.ID
	}
	cp := *t
	cp.Products = append([]model.TaskProduct(nil), t.Products...)
	r.tasks[t.ID] = &cp
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	cp.Products = append([]model.TaskProduct(nil), t.Products...)
	return &cp, nil
}

func (r *stubTaskRepo) List(_ context.Context, _ dto.TaskFilter) ([]model.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Task
	for _, t := range r.tasks {
		if t.Active {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubTaskRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; ok {
		t.Active = false
	}
	return nil
}

func (r *stubTaskRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Status = status
	return nil
}

func (r *stubTaskRepo) MarkDeductedTx(_ *gorm.DB, taskProductID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		for i := range t.Products {
			if t.Products[i].ID == taskProductID {
				t.Products[i].Deducted = true
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubTaskRepo) DB() *gorm.DB { return nil }

// ── Users ────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

// ── Chat ─────────────────────────────────────────────────────────────────────

type stubChatRepo struct {
	mu       sync.Mutex
	groups   map[uuid.UUID]*model.ChatGroup
	messages []model.ChatMessage
}

func newStubChatRepo() *stubChatRepo {
	return &stubChatRepo{groups: make(map[uuid.UUID]*model.ChatGroup)}
}

func (r *stubChatRepo) CreateGroup(_ context.Context, g *model.ChatGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	cp := *g
	cp.Members = append([]model.ChatMember(nil), g.Members...)
	r.groups[g.ID] = &cp
	return nil
}

func (r *stubChatRepo) FindGroupByID(_ context.Context, id uuid.UUID) (*model.ChatGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	cp.Members = append([]model.ChatMember(nil), g.Members...)
	return &cp, nil
}

func (r *stubChatRepo) ListGroupsForUser(_ context.Context, userID uuid.UUID) ([]model.ChatGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ChatGroup
	for _, g := range r.groups {
		if !g.Active {
			continue
		}
		for _, m := range g.Members {
			if m.UserID == userID {
				cp := *g
				cp.Members = append([]model.ChatMember(nil), g.Members...)
				out = append(out, cp)
				break
			}
		}
	}
	return out, nil
}

func (r *stubChatRepo) AddMember(_ context.Context, m *model.ChatMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[m.GroupID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, existing := range g.Members {
		if existing.UserID == m.UserID {
			return nil
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	g.Members = append(g.Members, *m)
	return nil
}

func (r *stubChatRepo) CreateMessage(_ context.Context, msg *model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *stubChatRepo) ListMessages(_ context.Context, groupID uuid.UUID, limit int) ([]model.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit < 1 {
		limit = 100
	}
	var out []model.ChatMessage
	for _, m := range r.messages {
		if m.GroupID == groupID {
			out = append(out, m)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
