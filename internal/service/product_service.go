package service

import (
	"context"
	"fmt"

	"digitask/internal/dto"
	"digitask/internal/model"
	"digitask/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if req.MinQuantity != nil && req.MaxQuantity != nil && req.MinQuantity.GreaterThan(*req.MaxQuantity) {
		return nil, fmt.Errorf("%w: min_quantity exceeds max_quantity", ErrValidation)
	}
	unit := req.Unit
	if unit == "" {
		unit = model.UnitPcs
	}
	p := model.Product{
		Name:         req.Name,
		Description:  req.Description,
		Unit:         unit,
		Brand:        req.Brand,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		MinQuantity:  req.MinQuantity,
		MaxQuantity:  req.MaxQuantity,
		Note:         req.Note,
		Active:       true,
	}
	if req.Price != nil {
		p.Price = *req.Price
	} else {
		p.Price = decimal.Zero
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return productToResponse(&p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductListResponse{
		Data:  make([]dto.ProductResponse, 0, len(products)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range products {
		resp.Data = append(resp.Data, *productToResponse(&products[i]))
	}
	return resp, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.Brand != nil {
		p.Brand = *req.Brand
	}
	if req.Model != nil {
		p.Model = *req.Model
	}
	if req.SerialNumber != nil {
		p.SerialNumber = *req.SerialNumber
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.MinQuantity != nil {
		p.MinQuantity = req.MinQuantity
	}
	if req.MaxQuantity != nil {
		p.MaxQuantity = req.MaxQuantity
	}
	if req.Note != nil {
		p.Note = *req.Note
	}
	if p.MinQuantity != nil && p.MaxQuantity != nil && p.MinQuantity.GreaterThan(*p.MaxQuantity) {
		return nil, fmt.Errorf("%w: min_quantity exceeds max_quantity", ErrValidation)
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: product %s", ErrNotFound, id)
	}
	return s.repo.Reactivate(ctx, id)
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		Unit:         p.Unit,
		Brand:        p.Brand,
		Model:        p.Model,
		SerialNumber: p.SerialNumber,
		Price:        p.Price,
		MinQuantity:  p.MinQuantity,
		MaxQuantity:  p.MaxQuantity,
		Note:         p.Note,
		Active:       p.Active,
	}
}
