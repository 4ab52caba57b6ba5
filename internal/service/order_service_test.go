package service

import (
	"context"
	"testing"

	"campus/internal/domain"
	"campus/internal/repository"
)

func setup(t *testing.T) (*repository.MemoryStore, *CatalogService, *OrderService) {
	t.Helper()
	store := repository.NewMemoryStore()
	catalog := repository.NewMemoryCatalog(store)
	orders := repository.NewMemoryOrders(store)
	return store, NewCatalogService(catalog), NewOrderService(catalog, orders)
}

func registerUser(t *testing.T, store *repository.MemoryStore, name string, role domain.Role) domain.Principal {
	t.Helper()
	p := domain.Profile{Name: name, Email: name + "@campus.test", Role: role}
	if err := store.Create(context.Background(), &p); err != nil {
		t.Fatal(err)
	}
	return domain.Principal{ID: p.ID, Role: role}
}

func TestListForOwner_EmptyCatalog(t *testing.T) {
	ctx := context.Background()
	store, _, os := setup(t)
	owner := registerUser(t, store, "owner", domain.RoleOwner)

	// owner with no catalog sees nothing, and it is not an error
	got, err := os.ListForOwner(ctx, owner)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %d", len(got))
	}
}

func TestListForOwner_FiltersByOwnedItems(t *testing.T) {
	ctx := context.Background()
	store, cs, os := setup(t)
	ownerA := registerUser(t, store, "ownerA", domain.RoleOwner)
	student := registerUser(t, store, "student", domain.RoleStudent)

	if _, err := cs.Create(ctx, ownerA, domain.CatalogItem{Name: "Samosa", Price: 20, Available: true}); err != nil {
		t.Fatal(err)
	}
	item2, err := cs.Create(ctx, ownerA, domain.CatalogItem{Name: "Dosa", Price: 40, Available: true})
	if err != nil {
		t.Fatal(err)
	}

	// X references item2 (owned by A), Y references a foreign item
	x, err := os.Create(ctx, student, []domain.OrderLine{{ItemID: item2.ID, Quantity: 1, Price: 40}}, 40, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Create(ctx, student, []domain.OrderLine{{ItemID: "item-9", Quantity: 1, Price: 10}}, 10, ""); err != nil {
		t.Fatal(err)
	}

	got, err := os.ListForOwner(ctx, ownerA)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != x.ID {
		t.Fatalf("expected only X, got %+v", got)
	}
}

func TestUpdateStatus_AuthorizedByIntersection(t *testing.T) {
	ctx := context.Background()
	store, cs, os := setup(t)
	ownerA := registerUser(t, store, "ownerA", domain.RoleOwner)
	ownerB := registerUser(t, store, "ownerB", domain.RoleOwner)
	student := registerUser(t, store, "student", domain.RoleStudent)

	itemA, err := cs.Create(ctx, ownerA, domain.CatalogItem{Name: "Samosa", Price: 20, Available: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cs.Create(ctx, ownerB, domain.CatalogItem{Name: "Chai", Price: 10, Available: true}); err != nil {
		t.Fatal(err)
	}

	o, err := os.Create(ctx, student, []domain.OrderLine{{ItemID: itemA.ID, Quantity: 2, Price: 20}}, 40, "no onions")
	if err != nil {
		t.Fatal(err)
	}

	// owner B holds no item of the order
	if _, err := os.UpdateStatus(ctx, ownerB, o.ID, domain.OrderStatusReady); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// owner A is authorized
	up, err := os.UpdateStatus(ctx, ownerA, o.ID, domain.OrderStatusPreparing)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.Status != domain.OrderStatusPreparing {
		t.Fatalf("status not applied: %v", up.Status)
	}
	if up.Purchaser == nil || up.Purchaser.Name != "student" {
		t.Fatalf("purchaser contact not joined: %+v", up.Purchaser)
	}
}

func TestUpdateStatus_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, cs, os := setup(t)
	owner := registerUser(t, store, "owner", domain.RoleOwner)
	student := registerUser(t, store, "student", domain.RoleStudent)

	item, _ := cs.Create(ctx, owner, domain.CatalogItem{Name: "Samosa", Price: 20, Available: true})
	o, _ := os.Create(ctx, student, []domain.OrderLine{{ItemID: item.ID, Quantity: 1, Price: 20}}, 20, "")

	// no transition graph: setting the same status twice is two successes
	for i := 0; i < 2; i++ {
		up, err := os.UpdateStatus(ctx, owner, o.ID, domain.OrderStatusReady)
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if up.Status != domain.OrderStatusReady {
			t.Fatalf("attempt %d: status %v", i, up.Status)
		}
	}
}

func TestUpdateStatus_MissingOrder(t *testing.T) {
	ctx := context.Background()
	store, cs, os := setup(t)
	owner := registerUser(t, store, "owner", domain.RoleOwner)
	if _, err := cs.Create(ctx, owner, domain.CatalogItem{Name: "Samosa", Price: 20, Available: true}); err != nil {
		t.Fatal(err)
	}

	// unknown order is NotFound, not Forbidden
	if _, err := os.UpdateStatus(ctx, owner, "missing-order", domain.OrderStatusReady); err != repository.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateOrder_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _, os := setup(t)
	student := registerUser(t, store, "student", domain.RoleStudent)

	lines := []domain.OrderLine{
		{ItemID: "item-1", Quantity: 2, Price: 20},
		{ItemID: "item-2", Quantity: 1, Price: 40},
	}
	o, err := os.Create(ctx, student, lines, 80, "extra spicy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending, got %v", o.Status)
	}

	got, err := os.ListForPurchaser(ctx, student)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 order")
	}
	if len(got[0].Items) != len(lines) {
		t.Fatalf("line items lost")
	}
	for i, l := range got[0].Items {
		if l != lines[i] {
			t.Fatalf("line %d mismatch: %+v != %+v", i, l, lines[i])
		}
	}
}

func TestCreateOrder_Invalid(t *testing.T) {
	ctx := context.Background()
	store, _, os := setup(t)
	student := registerUser(t, store, "student", domain.RoleStudent)

	if _, err := os.Create(ctx, student, nil, 0, ""); err != ErrInvalidInput {
		t.Fatalf("expected invalid input for empty lines, got %v", err)
	}
	if _, err := os.Create(ctx, student, []domain.OrderLine{{ItemID: "", Quantity: 1}}, 10, ""); err != ErrInvalidInput {
		t.Fatalf("expected invalid input for empty item ref, got %v", err)
	}
	if _, err := os.Create(ctx, student, []domain.OrderLine{{ItemID: "i", Quantity: 0}}, 10, ""); err != ErrInvalidInput {
		t.Fatalf("expected invalid input for zero qty, got %v", err)
	}
}
