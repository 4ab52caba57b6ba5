package repository

import (
	"context"
	"testing"
	"time"

	"campus/internal/domain"
)

func seedProfile(t *testing.T, store *MemoryStore, name, email string) *domain.Profile {
	t.Helper()
	p := domain.Profile{Name: name, Email: email, Role: domain.RoleStudent}
	if err := store.Create(context.Background(), &p); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return &p
}

func TestMemoryStore_ProfileCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := domain.Profile{Name: "Asha", Email: "asha@campus.test", Role: domain.RoleOwner}
	if err := store.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == "" {
		t.Fatalf("no id")
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get by id: %v", err)
	}
	got, err = store.GetByEmail(ctx, "asha@campus.test")
	if err != nil || got.ID != p.ID {
		t.Fatalf("get by email: %v", err)
	}

	// duplicate email rejected
	dup := domain.Profile{Name: "Other", Email: "asha@campus.test"}
	if err := store.Create(ctx, &dup); err != ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	if _, err := store.GetByID(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryCatalog_ListAvailable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	catalog := NewMemoryCatalog(store)
	owner := seedProfile(t, store, "Ravi", "ravi@campus.test")

	add := func(name string, available bool) {
		item := domain.CatalogItem{Name: name, Price: 50, Available: available, OwnerID: owner.ID}
		if err := catalog.Create(ctx, &item); err != nil {
			t.Fatal(err)
		}
	}
	add("Samosa", true)
	add("Dosa", true)
	add("Off menu", false)

	list, err := catalog.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 available items, got %d", len(list))
	}
	for _, item := range list {
		if item.Owner == nil || item.Owner.Name != "Ravi" {
			t.Fatalf("owner name not joined: %+v", item.Owner)
		}
	}

	ids, err := catalog.OwnedItemIDs(ctx, owner.ID)
	if err != nil || len(ids) != 3 {
		t.Fatalf("owned ids: %v %v", ids, err)
	}
	ids, err = catalog.OwnedItemIDs(ctx, "someone-else")
	if err != nil || len(ids) != 0 {
		t.Fatalf("expected no ids for stranger, got %v", ids)
	}
}

func TestMemoryOrders_ListByItemIDs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)
	buyer := seedProfile(t, store, "Meera", "meera@campus.test")

	x := domain.Order{UserID: buyer.ID, Items: []domain.OrderLine{{ItemID: "item-2", Quantity: 1, Price: 30}}, TotalPrice: 30, Status: domain.OrderStatusPending}
	y := domain.Order{UserID: buyer.ID, Items: []domain.OrderLine{{ItemID: "item-9", Quantity: 1, Price: 60}}, TotalPrice: 60, Status: domain.OrderStatusPending}
	if err := orders.Create(ctx, &x); err != nil {
		t.Fatal(err)
	}
	if err := orders.Create(ctx, &y); err != nil {
		t.Fatal(err)
	}

	got, err := orders.ListByItemIDs(ctx, []string{"item-1", "item-2"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != x.ID {
		t.Fatalf("expected only order X, got %+v", got)
	}
	if got[0].Purchaser == nil || got[0].Purchaser.Name != "Meera" {
		t.Fatalf("purchaser not joined")
	}
}

func TestMemoryOrders_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)
	buyer := seedProfile(t, store, "Meera", "meera@campus.test")

	o := domain.Order{UserID: buyer.ID, Items: []domain.OrderLine{{ItemID: "item-1", Quantity: 2, Price: 20}}, TotalPrice: 40, Status: domain.OrderStatusPending}
	if err := orders.Create(ctx, &o); err != nil {
		t.Fatal(err)
	}

	up, err := orders.UpdateStatus(ctx, o.ID, domain.OrderStatusReady)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.Status != domain.OrderStatusReady {
		t.Fatalf("status not updated: %v", up.Status)
	}
	if !up.UpdatedAt.After(up.CreatedAt) && !up.UpdatedAt.Equal(up.CreatedAt) {
		t.Fatalf("updated_at not touched")
	}

	if _, err := orders.UpdateStatus(ctx, "missing", domain.OrderStatusReady); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryEvents_OrderedByDate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	events := NewMemoryEvents(store)

	base := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	for _, d := range []int{3, 1, 2} {
		e := domain.Event{Title: "Event", Date: base.AddDate(0, 0, d)}
		if err := events.Create(ctx, &e); err != nil {
			t.Fatal(err)
		}
	}

	list, err := events.ListByDate(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 events")
	}
	for i := 1; i < len(list); i++ {
		if list[i].Date.Before(list[i-1].Date) {
			t.Fatalf("events not sorted by date ascending")
		}
	}
}
