package service

import (
	"context"
	"testing"

	"campus/internal/domain"
)

func TestCatalog_Create_Valid(t *testing.T) {
	ctx := context.Background()
	store, cs, _ := setup(t)
	owner := registerUser(t, store, "owner", domain.RoleOwner)

	item, err := cs.Create(ctx, owner, domain.CatalogItem{Name: "Samosa", Price: 20, IsVeg: true, Available: true, Description: "fried"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if item.ID == "" {
		t.Fatalf("expected id assigned")
	}
	if item.OwnerID != owner.ID {
		t.Fatalf("owner not stamped")
	}
}

func TestCatalog_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	store, cs, _ := setup(t)
	owner := registerUser(t, store, "owner", domain.RoleOwner)

	if _, err := cs.Create(ctx, owner, domain.CatalogItem{Name: "", Price: 1}); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := cs.Create(ctx, owner, domain.CatalogItem{Name: "N", Price: -1}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestCatalog_List_OnlyAvailable(t *testing.T) {
	ctx := context.Background()
	store, cs, _ := setup(t)
	owner := registerUser(t, store, "owner", domain.RoleOwner)

	if _, err := cs.Create(ctx, owner, domain.CatalogItem{Name: "Samosa", Price: 20, Available: true}); err != nil {
		t.Fatal(err)
	}
	if _, err := cs.Create(ctx, owner, domain.CatalogItem{Name: "Off menu", Price: 50, Available: false}); err != nil {
		t.Fatal(err)
	}

	list, err := cs.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Samosa" {
		t.Fatalf("expected only available items, got %+v", list)
	}
	if list[0].Owner == nil || list[0].Owner.Name != "owner" {
		t.Fatalf("owner name not joined")
	}
}
