package repository

import (
	"context"
	"errors"

	"campus/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail возвращается при попытке создать второй профиль
// с тем же email
var ErrDuplicateEmail = errors.New("email already registered")

// ProfileRepository интерфейс репозитория профилей
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
}

// CatalogRepository интерфейс репозитория каталога столовой
type CatalogRepository interface {
	Create(ctx context.Context, item *domain.CatalogItem) error
	ListAvailable(ctx context.Context) ([]domain.CatalogItem, error)
	// OwnedItemIDs возвращает ID всех позиций каталога данного владельца.
	OwnedItemIDs(ctx context.Context, ownerID string) ([]string, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	// ListByItemIDs возвращает заказы, у которых хотя бы одна позиция
	// ссылается на один из переданных ID каталога.
	ListByItemIDs(ctx context.Context, itemIDs []string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// PostRepository интерфейс репозитория объявлений о соседях
type PostRepository interface {
	Create(ctx context.Context, p *domain.RoommatePost) error
	List(ctx context.Context) ([]domain.RoommatePost, error)
}

// EventRepository интерфейс репозитория событий
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) error
	// ListByDate возвращает события по возрастанию даты.
	ListByDate(ctx context.Context) ([]domain.Event, error)
}
