package service

import (
	"context"
	"fmt"

	"digitask/internal/dto"
	"digitask/internal/model"
	"digitask/internal/repository"

	"github.com/google/uuid"
)

type WarehouseService interface {
	Create(ctx context.Context, req dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.WarehouseResponse, error)
	List(ctx context.Context, filter dto.WarehouseFilter) (*dto.WarehouseListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type warehouseService struct {
	repo repository.WarehouseRepository
}

func NewWarehouseService(repo repository.WarehouseRepository) WarehouseService {
	return &warehouseService{repo: repo}
}

func (s *warehouseService) Create(ctx context.Context, req dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	regionID, err := uuid.Parse(req.RegionID)
	if err != nil {
		return nil, fmt.Errorf("%w: region_id", ErrValidation)
	}
	w := model.Warehouse{
		Name:      req.Name,
		RegionID:  regionID,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Note:      req.Note,
		Active:    true,
	}
	if err := s.repo.Create(ctx, &w); err != nil {
		return nil, err
	}
	return warehouseToResponse(&w), nil
}

func (s *warehouseService) Get(ctx context.Context, id uuid.UUID) (*dto.WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: warehouse %s", ErrNotFound, id)
	}
	return warehouseToResponse(w), nil
}

func (s *warehouseService) List(ctx context.Context, filter dto.WarehouseFilter) (*dto.WarehouseListResponse, error) {
	warehouses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.WarehouseListResponse{
		Data:  make([]dto.WarehouseResponse, 0, len(warehouses)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range warehouses {
		resp.Data = append(resp.Data, *warehouseToResponse(&warehouses[i]))
	}
	return resp, nil
}

func (s *warehouseService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	w, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: warehouse %s", ErrNotFound, id)
	}
	if req.Name != nil {
		w.Name = *req.Name
	}
	if req.RegionID != nil {
		regionID, err := uuid.Parse(*req.RegionID)
		if err != nil {
			return nil, fmt.Errorf("%w: region_id", ErrValidation)
		}
		w.RegionID = regionID
	}
	if req.Address != nil {
		w.Address = *req.Address
	}
	if req.Latitude != nil {
		w.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		w.Longitude = req.Longitude
	}
	if req.Note != nil {
		w.Note = *req.Note
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return warehouseToResponse(w), nil
}

func (s *warehouseService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: warehouse %s", ErrNotFound, id)
	}
	return s.repo.SoftDelete(ctx, id)
}

func warehouseToResponse(w *model.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		RegionID:  w.RegionID.String(),
		Address:   w.Address,
		Latitude:  w.Latitude,
		Longitude: w.Longitude,
		Note:      w.Note,
		Active:    w.Active,
	}
}
