package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agamariel/parcerogo/internal/catalog"
	"github.com/agamariel/parcerogo/internal/events"
	"github.com/agamariel/parcerogo/internal/geo"
	"github.com/agamariel/parcerogo/internal/models"
	"github.com/agamariel/parcerogo/internal/storage"
	"github.com/agamariel/parcerogo/internal/utils"
)

const (
	maxNotesLength = 500
	publishTimeout = 3 * time.Second
)

// Имена подставных курьеров для заказов, отправленных без выбора курьера.
var placeholderCouriers = []string{"Carlos", "María", "Pedro", "Ana"}

// OrderService определяет интерфейс работы с заказами.
type OrderService interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) []models.Order
	OrdersByPhone(ctx context.Context, phone string) []models.Order
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.Order, string, error)
}

// OrderServiceImpl реализует OrderService.
type OrderServiceImpl struct {
	catalog   Catalog
	store     *storage.Store
	couriers  *courierSeeder
	publisher events.Publisher
	logger    *log.Logger
	now       func() time.Time
}

// NewOrderService создаёт новый сервис заказов.
func NewOrderService(cat Catalog, store *storage.Store, publisher events.Publisher, logger *log.Logger) *OrderServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &OrderServiceImpl{
		catalog:   cat,
		store:     store,
		couriers:  &courierSeeder{catalog: cat, store: store, logger: logger},
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder проверяет запрос, считает сумму, расстояние и время доставки и сохраняет заказ.
func (s *OrderServiceImpl) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) (*models.Order, error) {
	businesses := s.catalog.Businesses(ctx)
	if businesses.Unavailable() {
		return nil, errInternal(businesses.Err, "Error al crear pedido")
	}
	products := s.catalog.AllProducts(ctx)
	if products.Unavailable() {
		return nil, errInternal(products.Err, "Error al crear pedido")
	}

	business, ok := catalog.FindBusiness(businesses.Items, req.BusinessID)
	if !ok {
		return nil, ErrBusinessNotFound
	}

	lines, err := buildOrderLines(req.Products, products.Items)
	if err != nil {
		return nil, ErrAmountTooLarge
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	if !geo.InDeliveryArea(req.CustomerLat, req.CustomerLng) {
		return nil, ErrOutOfArea
	}

	tip := geo.ParseTip(req.TipAmount.String())
	total, err := geo.OrderTotal(lines, tip)
	if err != nil {
		return nil, ErrAmountTooLarge
	}
	distance := geo.HaversineKm(business.Latitude, business.Longitude, req.CustomerLat, req.CustomerLng)

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = models.PaymentMethodCash
	}

	var created models.Order
	err = s.store.Update(ctx, func(snap *storage.Snapshot) error {
		ts := formatTimestamp(s.now())
		created = models.Order{
			ID:              snap.NextOrderID(),
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerAddress: req.CustomerAddress,
			CustomerLat:     req.CustomerLat,
			CustomerLng:     req.CustomerLng,
			BusinessID:      business.ID,
			BusinessName:    business.Name,
			BusinessLat:     business.Latitude,
			BusinessLng:     business.Longitude,
			Products:        lines,
			Total:           total,
			DistanceKm:      geo.RoundKm(distance),
			EstimatedTime:   geo.EstimateETAMinutes(business.DeliveryTime, distance),
			PaymentMethod:   paymentMethod,
			TipAmount:       tip,
			PaymentStatus:   models.PaymentStatusPending,
			Status:          models.OrderStatusPending,
			CreatedAt:       ts,
			StatusHistory:   []models.StatusChange{{Status: models.OrderStatusPending, Timestamp: ts}},
		}
		snap.Orders = append(snap.Orders, created)
		snap.TouchOrders()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Printf("order %d created for business %d, total %d", created.ID, created.BusinessID, created.Total)
	publish(ctx, s.publisher, s.logger, events.NewOrderEvent(events.OrderCreated, &created, s.now()))
	return &created, nil
}

// buildOrderLines сопоставляет позиции запроса с каталогом.
// Неизвестные и недоступные товары молча пропускаются.
func buildOrderLines(items []models.OrderItemRequest, products []models.Product) ([]models.OrderLine, error) {
	lines := make([]models.OrderLine, 0, len(items))
	for _, item := range items {
		p, ok := catalog.FindProduct(products, item.ProductID)
		if !ok || !p.IsAvailable() {
			continue
		}
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		subtotal, err := geo.LineSubtotal(p.Price, qty)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", p.ID, err)
		}
		lines = append(lines, models.OrderLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    qty,
			UnitPrice:   p.Price,
			Subtotal:    subtotal,
			Notes:       truncateNotes(item.Notes),
		})
	}
	return lines, nil
}

func truncateNotes(notes string) string {
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) <= maxNotesLength {
		return notes
	}
	return string([]rune(notes)[:maxNotesLength])
}

// ListOrders возвращает заказы, отфильтрованные по равенству полей.
func (s *OrderServiceImpl) ListOrders(ctx context.Context, filter models.OrderFilter) []models.Order {
	orders := s.store.LoadOrders(ctx)
	result := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if filter.BusinessID != nil && o.BusinessID != *filter.BusinessID {
			continue
		}
		if filter.CourierID != nil && !o.AssignedTo(*filter.CourierID) {
			continue
		}
		result = append(result, o)
	}
	return result
}

// OrdersByPhone возвращает заказы клиента, самые новые первыми.
func (s *OrderServiceImpl) OrdersByPhone(ctx context.Context, phone string) []models.Order {
	want := utils.NormalizePhone(phone)
	orders := s.store.LoadOrders(ctx)

	result := make([]models.Order, 0)
	for _, o := range orders {
		if utils.NormalizePhone(o.CustomerPhone) == want {
			result = append(result, o)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt > result[j].CreatedAt
	})
	return result
}

// GetOrder возвращает заказ по id.
func (s *OrderServiceImpl) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	for _, o := range s.store.LoadOrders(ctx) {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

// UpdateStatus меняет статус заказа и дописывает запись в историю.
// При переходе в en_camino заказу назначается курьер: реальный, если передан courier_id,
// иначе подставной по номеру заказа.
func (s *OrderServiceImpl) UpdateStatus(ctx context.Context, id int64, req *models.UpdateStatusRequest) (*models.Order, string, error) {
	withCourier := req.Status == models.OrderStatusOnTheWay && req.CourierID != nil && *req.CourierID != 0
	if withCourier {
		s.couriers.seed(ctx)
	}

	var (
		updated   models.Order
		oldStatus models.OrderStatus
	)
	err := s.store.Update(ctx, func(snap *storage.Snapshot) error {
		order := snap.FindOrder(id)
		if order == nil {
			return ErrOrderNotFound
		}
		if !req.Status.IsValid() {
			return ErrInvalidStatus
		}

		oldStatus = order.Status
		order.Status = req.Status

		if withCourier {
			if c := snap.FindCourier(*req.CourierID); c != nil {
				courierID := c.ID
				name, phone := c.Name, c.Phone
				order.CourierID = &courierID
				order.DeliveryPerson = &name
				order.CourierPhone = &phone
			}
		}
		if req.Status == models.OrderStatusOnTheWay && (order.DeliveryPerson == nil || *order.DeliveryPerson == "") {
			name := placeholderCouriers[id%int64(len(placeholderCouriers))]
			phone := fmt.Sprintf("+57 300 %d", 1000000+id)
			order.DeliveryPerson = &name
			order.CourierPhone = &phone
		}

		recordStatus(order, req.Status, formatTimestamp(s.now()))
		snap.TouchOrders()
		updated = *order
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.Printf("order %d status %s -> %s", id, oldStatus, updated.Status)
	publish(ctx, s.publisher, s.logger, events.NewOrderEvent(events.OrderStatusChanged, &updated, s.now()))
	return &updated, fmt.Sprintf("Estado actualizado de '%s' a '%s'", oldStatus, updated.Status), nil
}

// recordStatus дописывает историю и обновляет updated_at. Историю не переписывает.
func recordStatus(order *models.Order, status models.OrderStatus, ts string) {
	order.StatusHistory = append(order.StatusHistory, models.StatusChange{Status: status, Timestamp: ts})
	order.UpdatedAt = ts
}

// publish отправляет событие. Ошибка брокера не влияет на результат операции,
// а ожидание брокера ограничено publishTimeout.
func publish(ctx context.Context, p events.Publisher, logger *log.Logger, event events.OrderEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, event); err != nil {
		logger.Printf("publish %s for order %d failed: %v", event.Type, event.OrderID, err)
	}
}
