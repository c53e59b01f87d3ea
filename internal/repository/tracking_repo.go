package repository

import (
	"context"
	"errors"
	"time"

	"digitask/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrackingRepository is the data access contract for current positions and
// the deduplicated location trail.
type TrackingRepository interface {
	// UpsertLocation writes the current position for a user, creating the
	// row on first contact. At most one row per user.
	UpsertLocation(ctx context.Context, userID uuid.UUID, lat, lng float64, online bool) error
	// SetOnline flips the presence flag without touching coordinates.
	SetOnline(ctx context.Context, userID uuid.UUID, online bool) error
	ListLocations(ctx context.Context) ([]model.UserLocation, error)

	// LatestHistory returns the newest trail entry for a user, or (nil, nil)
	// when the user has no history yet.
	LatestHistory(ctx context.Context, userID uuid.UUID) (*model.LocationHistory, error)
	AppendHistory(ctx context.Context, h *model.LocationHistory) error
	HistorySince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.LocationHistory, error)
	// PurgeHistoryBefore deletes trail entries older than cutoff and returns
	// the number of rows removed. Idempotent.
	PurgeHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type trackingRepo struct{ db *gorm.DB }

func NewTrackingRepository(db *gorm.DB) TrackingRepository { return &trackingRepo{db: db} }

func (r *trackingRepo) UpsertLocation(ctx context.Context, userID uuid.UUID, lat, lng float64, online bool) error {
	loc := model.UserLocation{
		UserID:    userID,
		Latitude:  &lat,
		Longitude: &lng,
		IsOnline:  online,
		LastSeen:  time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "is_online", "last_seen"}),
	}).Create(&loc).Error
}

func (r *trackingRepo) SetOnline(ctx context.Context, userID uuid.UUID, online bool) error {
	loc := model.UserLocation{
		UserID:   userID,
		IsOnline: online,
		LastSeen: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_online", "last_seen"}),
	}).Create(&loc).Error
}

func (r *trackingRepo) ListLocations(ctx context.Context) ([]model.UserLocation, error) {
	var locs []model.UserLocation
	err := r.db.WithContext(ctx).Preload("User").Find(&locs).Error
	return locs, err
}

func (r *trackingRepo) LatestHistory(ctx context.Context, userID uuid.UUID) (*model.LocationHistory, error) {
	var h model.LocationHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *trackingRepo) AppendHistory(ctx context.Context, h *model.LocationHistory) error {
	if h.Timestamp.IsZero() {
		h.Timestamp = time.Now()
	}
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *trackingRepo) HistorySince(ctx context.Context, userID uuid.UUID, since time.Time) ([]model.LocationHistory, error) {
	var hs []model.LocationHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp ASC").
		Find(&hs).Error
	return hs, err
}

func (r *trackingRepo) PurgeHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&model.LocationHistory{})
	return res.RowsAffected, res.Error
}
