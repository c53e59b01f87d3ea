package service

import (
	"context"
	"fmt"
	"time"

	"digitask/internal/dto"
	"digitask/internal/geo"
	"digitask/internal/model"
	"digitask/internal/repository"

	"github.com/google/uuid"
)

const (
	// MinMoveDistanceMeters is the displacement gate for the trail: samples
	// closer than this to the previous history entry are treated as GPS
	// jitter and not persisted. Fixed design constant, not per-user.
	MinMoveDistanceMeters = 20.0

	// HistoryRetention is the default age window for the purge sweep.
	HistoryRetention = 30 * 24 * time.Hour
)

// TrackingService is the live-tracking engine: one current position per
// user, plus a deduplicated append-only trail.
type TrackingService interface {
	// RecordSample ingests one telemetry sample. The current position is
	// updated unconditionally; the trail only gains an entry when the user
	// moved at least MinMoveDistanceMeters since the last recorded point.
	RecordSample(ctx context.Context, userID uuid.UUID, lat, lng float64) (*dto.LocationBroadcast, error)
	// SetOnline marks session start/end. Never writes a trail entry.
	SetOnline(ctx context.Context, userID uuid.UUID, online bool) error
	LiveMap(ctx context.Context) (*dto.LiveMapResponse, error)
	History(ctx context.Context, userID uuid.UUID, hours int) ([]dto.HistoryPointResponse, error)
	// PurgeHistory deletes trail entries older than the cutoff and returns
	// the number of rows removed. Safe to run repeatedly.
	PurgeHistory(ctx context.Context, olderThan time.Duration) (int64, error)
}

type trackingService struct {
	repo          repository.TrackingRepository
	warehouseRepo repository.WarehouseRepository
	publisher     EventPublisher
}

func NewTrackingService(repo repository.TrackingRepository, warehouseRepo repository.WarehouseRepository, publisher EventPublisher) TrackingService {
	return &trackingService{repo: repo, warehouseRepo: warehouseRepo, publisher: publisher}
}

func (s *trackingService) RecordSample(ctx context.Context, userID uuid.UUID, lat, lng float64) (*dto.LocationBroadcast, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range (%f, %f)", ErrValidation, lat, lng)
	}

	// Current position always reflects the latest raw input, regardless of
	// the distance gate below.
	if err := s.repo.UpsertLocation(ctx, userID, lat, lng, true); err != nil {
		return nil, err
	}

	last, err := s.repo.LatestHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	appendEntry := true
	if last != nil {
		distance := geo.Haversine(last.Latitude, last.Longitude, lat, lng)
		if distance < MinMoveDistanceMeters {
			appendEntry = false
		}
	}

	if appendEntry {
		h := &model.LocationHistory{
			UserID:    userID,
			Latitude:  lat,
			Longitude: lng,
			Timestamp: time.Now(),
		}
		if err := s.repo.AppendHistory(ctx, h); err != nil {
			return nil, err
		}
	}

	payload := &dto.LocationBroadcast{
		UserID:    userID.String(),
		Latitude:  lat,
		Longitude: lng,
		IsOnline:  true,
	}
	if s.publisher != nil {
		s.publisher.PublishLocation(ctx, *payload)
	}
	return payload, nil
}

func (s *trackingService) SetOnline(ctx context.Context, userID uuid.UUID, online bool) error {
	return s.repo.SetOnline(ctx, userID, online)
}

func (s *trackingService) LiveMap(ctx context.Context) (*dto.LiveMapResponse, error) {
	locations, err := s.repo.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	warehouses, err := s.warehouseRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.LiveMapResponse{
		Users:      make([]dto.UserLocationResponse, 0, len(locations)),
		Warehouses: make([]dto.WarehousePinResponse, 0, len(warehouses)),
	}
	for _, loc := range locations {
		u := dto.UserLocationResponse{
			UserID:    loc.UserID.String(),
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			IsOnline:  loc.IsOnline,
			LastSeen:  loc.LastSeen.Format(time.RFC3339),
		}
		if loc.User != nil {
			u.FullName = loc.User.FullName
			u.Role = loc.User.Role
		}
		resp.Users = append(resp.Users, u)
	}
	for _, w := range warehouses {
		resp.Warehouses = append(resp.Warehouses, dto.WarehousePinResponse{
			ID:   w.ID.String(),
			Name: w.Name,
			Lat:  w.Latitude,
			Lng:  w.Longitude,
			Type: "warehouse",
		})
	}
	return resp, nil
}

func (s *trackingService) History(ctx context.Context, userID uuid.UUID, hours int) ([]dto.HistoryPointResponse, error) {
	if hours < 1 {
		hours = 1
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	entries, err := s.repo.HistorySince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	points := make([]dto.HistoryPointResponse, 0, len(entries))
	for _, e := range entries {
		points = append(points, dto.HistoryPointResponse{
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
			Timestamp: e.Timestamp.Format(time.RFC3339),
		})
	}
	return points, nil
}

func (s *trackingService) PurgeHistory(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		olderThan = HistoryRetention
	}
	cutoff := time.Now().Add(-olderThan)
	return s.repo.PurgeHistoryBefore(ctx, cutoff)
}
