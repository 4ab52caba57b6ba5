package service

import (
	"context"
	"errors"

	"campus/internal/domain"
	"campus/internal/repository"
)

// CatalogService инкапсулирует логику каталога столовой
type CatalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

var ErrInvalidInput = errors.New("invalid input")

// Create добавляет позицию в каталог от имени владельца
func (s *CatalogService) Create(ctx context.Context, owner domain.Principal, item domain.CatalogItem) (*domain.CatalogItem, error) {
	if item.Name == "" || item.Price < 0 {
		return nil, ErrInvalidInput
	}
	item.OwnerID = owner.ID
	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// List возвращает доступные позиции с именем владельца
func (s *CatalogService) List(ctx context.Context) ([]domain.CatalogItem, error) {
	return s.repo.ListAvailable(ctx)
}
