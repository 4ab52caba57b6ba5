package service

import (
	"context"
	"errors"

	"campus/internal/domain"
	"campus/internal/repository"
)

// OrderService маршрутизация заказов: создание, выборки для покупателя
// и владельца, смена статуса. Принадлежность заказа владельцу нигде не
// хранится — она выводится на каждый запрос пересечением позиций заказа
// с каталогом владельца.
type OrderService struct {
	catalog repository.CatalogRepository
	orders  repository.OrderRepository
}

func NewOrderService(catalog repository.CatalogRepository, orders repository.OrderRepository) *OrderService {
	return &OrderService{catalog: catalog, orders: orders}
}

// ErrForbidden возвращается, когда пользователь не владеет ни одной
// позицией заказа
var ErrForbidden = errors.New("not an owning party")

// Create создаёт заказ; позиции после создания не меняются
func (s *OrderService) Create(ctx context.Context, user domain.Principal, lines []domain.OrderLine, totalPrice float64, notes string) (*domain.Order, error) {
	if len(lines) == 0 || totalPrice < 0 {
		return nil, ErrInvalidInput
	}
	for _, l := range lines {
		if l.ItemID == "" || l.Quantity <= 0 {
			return nil, ErrInvalidInput
		}
	}
	o := domain.Order{
		UserID:     user.ID,
		Items:      lines,
		TotalPrice: totalPrice,
		Status:     domain.OrderStatusPending,
		Notes:      notes,
	}
	if err := s.orders.Create(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListForPurchaser возвращает заказы, оформленные самим пользователем
func (s *OrderService) ListForPurchaser(ctx context.Context, user domain.Principal) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, user.ID)
}

// ListForOwner возвращает заказы, в которых есть хотя бы одна позиция
// из каталога владельца. Пустой каталог — пустая выдача, не ошибка.
func (s *OrderService) ListForOwner(ctx context.Context, owner domain.Principal) ([]domain.Order, error) {
	ids, err := s.catalog.OwnedItemIDs(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Order{}, nil
	}
	return s.orders.ListByItemIDs(ctx, ids)
}

// UpdateStatus меняет статус заказа. Разрешено только пользователю,
// владеющему хотя бы одной позицией заказа; заказ должен существовать.
// Переходы статусов не проверяются: повторная установка того же
// статуса — два одинаковых успеха.
func (s *OrderService) UpdateStatus(ctx context.Context, owner domain.Principal, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if orderID == "" || status == "" {
		return nil, ErrInvalidInput
	}
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	ids, err := s.catalog.OwnedItemIDs(ctx, owner.ID)
	if err != nil {
		return nil, err
	}
	owned := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		owned[id] = struct{}{}
	}
	authorized := false
	for _, l := range o.Items {
		if _, ok := owned[l.ItemID]; ok {
			authorized = true
			break
		}
	}
	if !authorized {
		return nil, ErrForbidden
	}
	return s.orders.UpdateStatus(ctx, orderID, status)
}
