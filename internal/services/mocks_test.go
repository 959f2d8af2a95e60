package services

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/agamariel/parcerogo/internal/catalog"
	"github.com/agamariel/parcerogo/internal/events"
	"github.com/agamariel/parcerogo/internal/models"
	"github.com/agamariel/parcerogo/internal/storage"
)

type mockCatalog struct {
	BusinessesFunc        func(ctx context.Context) catalog.Result[models.Business]
	ProductsFunc          func(ctx context.Context) catalog.Result[models.Product]
	JumboProductsFunc     func(ctx context.Context) catalog.Result[models.Product]
	CouriersReferenceFunc func(ctx context.Context) catalog.Result[models.Courier]
}

func (m *mockCatalog) Businesses(ctx context.Context) catalog.Result[models.Business] {
	if m.BusinessesFunc != nil {
		return m.BusinessesFunc(ctx)
	}
	return catalog.Result[models.Business]{}
}

func (m *mockCatalog) Products(ctx context.Context) catalog.Result[models.Product] {
	if m.ProductsFunc != nil {
		return m.ProductsFunc(ctx)
	}
	return catalog.Result[models.Product]{}
}

func (m *mockCatalog) JumboProducts(ctx context.Context) catalog.Result[models.Product] {
	if m.JumboProductsFunc != nil {
		return m.JumboProductsFunc(ctx)
	}
	return catalog.Result[models.Product]{}
}

func (m *mockCatalog) AllProducts(ctx context.Context) catalog.Result[models.Product] {
	regular := m.Products(ctx)
	if regular.Unavailable() {
		return regular
	}
	jumbo := m.JumboProducts(ctx)
	if jumbo.Unavailable() {
		return jumbo
	}
	return catalog.Result[models.Product]{Items: append(append([]models.Product{}, regular.Items...), jumbo.Items...)}
}

func (m *mockCatalog) CouriersReference(ctx context.Context) catalog.Result[models.Courier] {
	if m.CouriersReferenceFunc != nil {
		return m.CouriersReferenceFunc(ctx)
	}
	return catalog.Result[models.Courier]{}
}

type mockPublisher struct {
	PublishFunc func(ctx context.Context, event events.OrderEvent) error

	mu        sync.Mutex
	published []events.OrderEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event events.OrderEvent) error {
	m.mu.Lock()
	m.published = append(m.published, event)
	m.mu.Unlock()
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}

var errSourceDown = errors.New("source down")

func boolPtr(b bool) *bool { return &b }

func int64Ptr(v int64) *int64 { return &v }

func testBusinesses() []models.Business {
	return []models.Business{
		{ID: 1, Name: "Arepas La 70", Category: "Restaurante", DeliveryTime: 25, Latitude: 6.2442, Longitude: -75.5812, IsOpen: true},
		{ID: 2, Name: "Farmacia Laureles", Category: "Farmacia", Latitude: 6.2450, Longitude: -75.5900, IsOpen: true},
	}
}

func testProducts() []models.Product {
	return []models.Product{
		{ID: 10, BusinessID: 1, Name: "Arepa de choclo", Price: 5000},
		{ID: 11, BusinessID: 1, Name: "Bandeja paisa", Price: 28000, Available: boolPtr(false)},
		{ID: 12, BusinessID: 1, Name: "Limonada", Price: 4000, Available: boolPtr(true)},
		{ID: 20, BusinessID: 2, Name: "Acetaminofén", Price: 3500},
	}
}

func testJumboProducts() []models.Product {
	return []models.Product{
		{ID: 500, BusinessID: 99, Name: "Leche entera", Price: 4200, Category: "Lácteos"},
		{ID: 501, BusinessID: 99, Name: "Arroz", Price: 3900, Category: "Despensa"},
		{ID: 502, BusinessID: 99, Name: "Queso", Price: 9800, Category: "Lácteos"},
		{ID: 503, BusinessID: 99, Name: "Bolsa", Price: 200},
	}
}

func testCouriers() []models.Courier {
	return []models.Courier{
		{ID: 1, Name: "Juan", Phone: "3001111111", Lat: 6.2450, Lng: -75.5800, Available: boolPtr(true)},
		{ID: 2, Name: "Laura", Phone: "3002222222", Lat: 6.3300, Lng: -75.5600},
		{ID: 3, Name: "Mateo", Phone: "3003333333", Lat: 6.2440, Lng: -75.5810, Available: boolPtr(false), CurrentOrderID: int64Ptr(99)},
	}
}

func newTestCatalog() *mockCatalog {
	return &mockCatalog{
		BusinessesFunc: func(ctx context.Context) catalog.Result[models.Business] {
			return catalog.Result[models.Business]{Items: testBusinesses()}
		},
		ProductsFunc: func(ctx context.Context) catalog.Result[models.Product] {
			return catalog.Result[models.Product]{Items: testProducts()}
		},
		JumboProductsFunc: func(ctx context.Context) catalog.Result[models.Product] {
			return catalog.Result[models.Product]{Items: testJumboProducts()}
		},
		CouriersReferenceFunc: func(ctx context.Context) catalog.Result[models.Courier] {
			return catalog.Result[models.Courier]{Items: testCouriers()}
		},
	}
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// tickingClock возвращает моменты времени, растущие на секунду при каждом вызове.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

type testServices struct {
	store     *storage.Store
	kv        *storage.MemoryKV
	publisher *mockPublisher
	orders    *OrderServiceImpl
	couriers  *CourierServiceImpl
	payments  *PaymentServiceImpl
}

func newTestServices(cat Catalog) *testServices {
	kv := storage.NewMemoryKV()
	store := storage.NewStore(kv, discardLogger())
	pub := &mockPublisher{}
	clock := tickingClock()

	orders := NewOrderService(cat, store, pub, discardLogger())
	orders.now = clock
	couriers := NewCourierService(cat, store, pub, discardLogger())
	couriers.now = clock
	payments := NewPaymentService(store, pub, discardLogger())
	payments.now = clock

	return &testServices{store: store, kv: kv, publisher: pub, orders: orders, couriers: couriers, payments: payments}
}

func validCreateRequest() *models.CreateOrderRequest {
	return &models.CreateOrderRequest{
		BusinessID:      1,
		Products:        []models.OrderItemRequest{{ProductID: 10, Quantity: 2}},
		CustomerLat:     6.2500,
		CustomerLng:     -75.5700,
		CustomerName:    "Valentina",
		CustomerPhone:   "300 123 4567",
		CustomerAddress: "Cra 70 #44-10",
		TipAmount:       "1000",
	}
}
