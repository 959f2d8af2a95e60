package services

import (
	"context"
	"errors"
	"testing"

	"github.com/agamariel/parcerogo/internal/catalog"
	"github.com/agamariel/parcerogo/internal/models"
)

func TestCatalogService_ListBusinesses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		catalog *mockCatalog
		want    int
	}{
		{name: "available", catalog: newTestCatalog(), want: 2},
		{
			name: "source unavailable",
			catalog: &mockCatalog{
				BusinessesFunc: func(ctx context.Context) catalog.Result[models.Business] {
					return catalog.Result[models.Business]{Err: errSourceDown}
				},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCatalogService(tt.catalog, discardLogger())
			got := svc.ListBusinesses(ctx)
			if got == nil {
				t.Fatal("ListBusinesses() returned nil")
			}
			if len(got) != tt.want {
				t.Errorf("len(ListBusinesses) = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestCatalogService_GetBusiness(t *testing.T) {
	svc := NewCatalogService(newTestCatalog(), discardLogger())

	b, err := svc.GetBusiness(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetBusiness() unexpected error: %v", err)
	}
	if b.Name != "Farmacia Laureles" {
		t.Errorf("b.Name = %q", b.Name)
	}
	if _, err := svc.GetBusiness(context.Background(), 3); !errors.Is(err, ErrBusinessNotFound) {
		t.Errorf("GetBusiness() error = %v, want ErrBusinessNotFound", err)
	}
}

func TestCatalogService_BusinessProducts(t *testing.T) {
	svc := NewCatalogService(newTestCatalog(), discardLogger())

	got := svc.BusinessProducts(context.Background(), 1)
	if len(got) != 2 {
		t.Fatalf("len(BusinessProducts) = %d, want 2", len(got))
	}
	for _, p := range got {
		if p.BusinessID != 1 || !p.IsAvailable() {
			t.Errorf("unexpected product %+v", p)
		}
	}

	if got := svc.BusinessProducts(context.Background(), 404); got == nil || len(got) != 0 {
		t.Errorf("BusinessProducts(404) = %v, want empty", got)
	}
}

func TestCatalogService_JumboCatalog(t *testing.T) {
	svc := NewCatalogService(newTestCatalog(), discardLogger())

	got := svc.JumboCatalog(context.Background(), nil)

	if got.Count != 4 || len(got.Products) != 4 {
		t.Errorf("count = %d, products = %d, want 4", got.Count, len(got.Products))
	}
	if got.Source != "Jumbo Colombia" {
		t.Errorf("source = %q", got.Source)
	}
	if got.Category != nil {
		t.Errorf("category = %v, want nil", *got.Category)
	}
	want := []string{"Lácteos", "Despensa", "Sin categoría"}
	if len(got.Categories) != len(want) {
		t.Fatalf("categories = %v, want %v", got.Categories, want)
	}
	for i := range want {
		if got.Categories[i] != want[i] {
			t.Errorf("categories[%d] = %q, want %q", i, got.Categories[i], want[i])
		}
	}
}

func TestCatalogService_JumboCatalogUnavailable(t *testing.T) {
	svc := NewCatalogService(&mockCatalog{
		JumboProductsFunc: func(ctx context.Context) catalog.Result[models.Product] {
			return catalog.Result[models.Product]{Err: errSourceDown}
		},
	}, discardLogger())

	got := svc.JumboCatalog(context.Background(), nil)
	if got.Count != 0 || got.Products == nil || got.Categories == nil {
		t.Errorf("unexpected response %+v", got)
	}
}

func TestCatalogService_JumboCatalogByCategory(t *testing.T) {
	svc := NewCatalogService(newTestCatalog(), discardLogger())
	category := "lácteos"

	got := svc.JumboCatalog(context.Background(), &category)

	if got.Count != 2 || len(got.Products) != 2 {
		t.Fatalf("count = %d, products = %d, want 2", got.Count, len(got.Products))
	}
	for _, p := range got.Products {
		if p.Category != "Lácteos" {
			t.Errorf("product %d category = %q", p.ID, p.Category)
		}
	}
	if len(got.Categories) != 1 || got.Categories[0] != "Lácteos" {
		t.Errorf("categories = %v, want [Lácteos]", got.Categories)
	}
	if got.Category == nil || *got.Category != category {
		t.Errorf("category = %v, want %q", got.Category, category)
	}
}

func TestCatalogService_AllProducts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		catalog  *mockCatalog
		category string
		wantIDs  []int64
	}{
		{name: "no filter", catalog: newTestCatalog(), wantIDs: []int64{10, 11, 12, 20, 500, 501, 502, 503}},
		{name: "case insensitive", catalog: newTestCatalog(), category: "DESPENSA", wantIDs: []int64{501}},
		{name: "unknown category", catalog: newTestCatalog(), category: "Ferretería", wantIDs: []int64{}},
		{
			name: "source unavailable",
			catalog: &mockCatalog{
				ProductsFunc: func(ctx context.Context) catalog.Result[models.Product] {
					return catalog.Result[models.Product]{Err: errSourceDown}
				},
			},
			wantIDs: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCatalogService(tt.catalog, discardLogger())
			var category *string
			if tt.category != "" {
				category = &tt.category
			}

			got := svc.AllProducts(ctx, category)

			if got.Products == nil {
				t.Fatal("AllProducts() returned nil products")
			}
			if got.Count != len(tt.wantIDs) || len(got.Products) != len(tt.wantIDs) {
				t.Fatalf("count = %d, products = %d, want %d", got.Count, len(got.Products), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got.Products[i].ID != id {
					t.Errorf("products[%d].ID = %d, want %d", i, got.Products[i].ID, id)
				}
			}
			if got.Category != category {
				t.Errorf("category = %v, want %v", got.Category, category)
			}
		})
	}
}

func TestCatalogService_DeliveryPersons(t *testing.T) {
	svc := NewCatalogService(newTestCatalog(), discardLogger())

	got := svc.DeliveryPersons(context.Background())
	if len(got) != len(testCouriers()) {
		t.Fatalf("len(DeliveryPersons) = %d, want %d", len(got), len(testCouriers()))
	}
	if got[2].CurrentOrderID == nil || *got[2].CurrentOrderID != 99 {
		t.Errorf("reference record changed: %+v", got[2])
	}

	empty := NewCatalogService(&mockCatalog{}, discardLogger()).DeliveryPersons(context.Background())
	if empty == nil || len(empty) != 0 {
		t.Errorf("DeliveryPersons() without source = %v, want empty", empty)
	}
}
