package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"campus/internal/domain"
)

// MemoryStore объединённое in-memory хранилище; используется в тестах
// и при запуске без Postgres. Сам реализует ProfileRepository,
// остальные репозитории — типы-обёртки над ним.
type MemoryStore struct {
	mu           sync.RWMutex
	profilesByID map[string]domain.Profile
	itemsByID    map[string]domain.CatalogItem
	ordersByID   map[string]domain.Order
	postsByID    map[string]domain.RoommatePost
	eventsByID   map[string]domain.Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profilesByID: make(map[string]domain.Profile),
		itemsByID:    make(map[string]domain.CatalogItem),
		ordersByID:   make(map[string]domain.Order),
		postsByID:    make(map[string]domain.RoommatePost),
		eventsByID:   make(map[string]domain.Event),
	}
}

// Ensure interfaces
var (
	_ ProfileRepository = (*MemoryStore)(nil)
	_ CatalogRepository = (*MemoryCatalog)(nil)
	_ OrderRepository   = (*MemoryOrders)(nil)
	_ PostRepository    = (*MemoryPosts)(nil)
	_ EventRepository   = (*MemoryEvents)(nil)
)

// contact собирает контакт из профиля; вызывать под блокировкой.
// Телефон отдаётся только когда withPhone=true (выдача для владельца).
func (m *MemoryStore) contact(userID string, withPhone bool) *domain.Contact {
	p, ok := m.profilesByID[userID]
	if !ok {
		return nil
	}
	c := domain.Contact{Name: p.Name, Email: p.Email}
	if withPhone {
		c.Phone = p.Phone
	}
	return &c
}

// ProfileRepository implementation

func (m *MemoryStore) Create(ctx context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profilesByID {
		if existing.Email == p.Email {
			return ErrDuplicateEmail
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	m.profilesByID[p.ID] = *p
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profilesByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (m *MemoryStore) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.profilesByID {
		if p.Email == email {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// CatalogRepository implementation on wrapper type

type MemoryCatalog struct{ store *MemoryStore }

func NewMemoryCatalog(store *MemoryStore) *MemoryCatalog { return &MemoryCatalog{store: store} }

func (mc *MemoryCatalog) Create(ctx context.Context, item *domain.CatalogItem) error {
	mc.store.mu.Lock()
	defer mc.store.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = time.Now().UTC()
	mc.store.itemsByID[item.ID] = *item
	return nil
}

func (mc *MemoryCatalog) ListAvailable(ctx context.Context) ([]domain.CatalogItem, error) {
	mc.store.mu.RLock()
	defer mc.store.mu.RUnlock()
	out := make([]domain.CatalogItem, 0)
	for _, item := range mc.store.itemsByID {
		if !item.Available {
			continue
		}
		if c := mc.store.contact(item.OwnerID, false); c != nil {
			item.Owner = &domain.Contact{Name: c.Name}
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (mc *MemoryCatalog) OwnedItemIDs(ctx context.Context, ownerID string) ([]string, error) {
	mc.store.mu.RLock()
	defer mc.store.mu.RUnlock()
	ids := make([]string, 0)
	for id, item := range mc.store.itemsByID {
		if item.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// OrderRepository implementation on wrapper type

type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	mo.store.ordersByID[o.ID] = *o
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return mo.copyJoined(o, true), nil
}

func (mo *MemoryOrders) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	out := make([]domain.Order, 0)
	for _, o := range mo.store.ordersByID {
		if o.UserID != userID {
			continue
		}
		out = append(out, *mo.copyJoined(o, false))
	}
	sortOrders(out)
	return out, nil
}

func (mo *MemoryOrders) ListByItemIDs(ctx context.Context, itemIDs []string) ([]domain.Order, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	wanted := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	out := make([]domain.Order, 0)
	for _, o := range mo.store.ordersByID {
		if !touchesAny(o.Items, wanted) {
			continue
		}
		out = append(out, *mo.copyJoined(o, true))
	}
	sortOrders(out)
	return out, nil
}

func (mo *MemoryOrders) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	mo.store.ordersByID[id] = o
	return mo.copyJoined(o, true), nil
}

// copyJoined возвращает копию заказа с подмешанным контактом покупателя
func (mo *MemoryOrders) copyJoined(o domain.Order, withPhone bool) *domain.Order {
	cp := o
	cp.Items = append([]domain.OrderLine(nil), o.Items...)
	cp.Purchaser = mo.store.contact(o.UserID, withPhone)
	return &cp
}

func sortOrders(out []domain.Order) {
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
}

func touchesAny(lines []domain.OrderLine, ids map[string]struct{}) bool {
	for _, l := range lines {
		if _, ok := ids[l.ItemID]; ok {
			return true
		}
	}
	return false
}

// PostRepository implementation on wrapper type

type MemoryPosts struct{ store *MemoryStore }

func NewMemoryPosts(store *MemoryStore) *MemoryPosts { return &MemoryPosts{store: store} }

func (mp *MemoryPosts) Create(ctx context.Context, p *domain.RoommatePost) error {
	mp.store.mu.Lock()
	defer mp.store.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	mp.store.postsByID[p.ID] = *p
	return nil
}

func (mp *MemoryPosts) List(ctx context.Context) ([]domain.RoommatePost, error) {
	mp.store.mu.RLock()
	defer mp.store.mu.RUnlock()
	out := make([]domain.RoommatePost, 0)
	for _, p := range mp.store.postsByID {
		if c := mp.store.contact(p.UserID, false); c != nil {
			p.Poster = &domain.Contact{Name: c.Name}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// EventRepository implementation on wrapper type

type MemoryEvents struct{ store *MemoryStore }

func NewMemoryEvents(store *MemoryStore) *MemoryEvents { return &MemoryEvents{store: store} }

func (me *MemoryEvents) Create(ctx context.Context, e *domain.Event) error {
	me.store.mu.Lock()
	defer me.store.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	me.store.eventsByID[e.ID] = *e
	return nil
}

func (me *MemoryEvents) ListByDate(ctx context.Context) ([]domain.Event, error) {
	me.store.mu.RLock()
	defer me.store.mu.RUnlock()
	out := make([]domain.Event, 0, len(me.store.eventsByID))
	for _, e := range me.store.eventsByID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
