package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/agamariel/parcerogo/internal/events"
	"github.com/agamariel/parcerogo/internal/geo"
	"github.com/agamariel/parcerogo/internal/models"
	"github.com/agamariel/parcerogo/internal/storage"
)

// CourierService определяет интерфейс работы с курьерами.
type CourierService interface {
	ListCouriers(ctx context.Context) []models.Courier
	AvailableCouriers(ctx context.Context) []models.Courier
	GetCourier(ctx context.Context, id int64) (*models.Courier, error)
	NearbyCouriers(ctx context.Context, lat, lng, maxDistanceKm float64) ([]models.NearbyCourier, error)
	AssignOrder(ctx context.Context, courierID, orderID int64) (*models.AssignmentResponse, error)
	CompleteOrder(ctx context.Context, courierID, orderID int64) (*models.AssignmentResponse, error)
}

// CourierServiceImpl реализует CourierService.
type CourierServiceImpl struct {
	store     *storage.Store
	couriers  *courierSeeder
	publisher events.Publisher
	logger    *log.Logger
	now       func() time.Time
}

// NewCourierService создаёт новый сервис курьеров.
func NewCourierService(cat Catalog, store *storage.Store, publisher events.Publisher, logger *log.Logger) *CourierServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CourierServiceImpl{
		store:     store,
		couriers:  &courierSeeder{catalog: cat, store: store, logger: logger},
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *CourierServiceImpl) ListCouriers(ctx context.Context) []models.Courier {
	return s.couriers.seed(ctx)
}

// AvailableCouriers возвращает курьеров, у которых available не равен false.
func (s *CourierServiceImpl) AvailableCouriers(ctx context.Context) []models.Courier {
	all := s.couriers.seed(ctx)
	available := make([]models.Courier, 0, len(all))
	for i := range all {
		if all[i].IsAvailable() {
			available = append(available, all[i])
		}
	}
	return available
}

func (s *CourierServiceImpl) GetCourier(ctx context.Context, id int64) (*models.Courier, error) {
	for _, c := range s.couriers.seed(ctx) {
		if c.ID == id {
			courier := c
			return &courier, nil
		}
	}
	return nil, ErrCourierNotFound
}

// NearbyCouriers возвращает свободных курьеров в радиусе maxDistanceKm, ближайшие первыми.
func (s *CourierServiceImpl) NearbyCouriers(ctx context.Context, lat, lng, maxDistanceKm float64) ([]models.NearbyCourier, error) {
	if maxDistanceKm < 0 {
		return nil, ErrInvalidCoords
	}

	nearby := make([]models.NearbyCourier, 0)
	for _, c := range s.AvailableCouriers(ctx) {
		d := geo.HaversineKm(lat, lng, c.Lat, c.Lng)
		if d > maxDistanceKm {
			continue
		}
		nearby = append(nearby, models.NearbyCourier{Courier: c, DistanceKm: geo.RoundKm(d)})
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

// AssignOrder закрепляет заказ за свободным курьером и переводит его в en_camino.
func (s *CourierServiceImpl) AssignOrder(ctx context.Context, courierID, orderID int64) (*models.AssignmentResponse, error) {
	s.couriers.seed(ctx)

	var (
		order   models.Order
		courier models.Courier
	)
	err := s.store.Update(ctx, func(snap *storage.Snapshot) error {
		c := snap.FindCourier(courierID)
		if c == nil {
			return ErrCourierNotFound
		}
		if !c.IsAvailable() {
			return ErrCourierUnavailable
		}
		o := snap.FindOrder(orderID)
		if o == nil {
			return ErrOrderNotFound
		}
		if o.Status != models.OrderStatusPending && o.Status != models.OrderStatusPreparing {
			return errNotAssignable(o.Status)
		}

		id, name, phone := c.ID, c.Name, c.Phone
		o.CourierID = &id
		o.CourierName = &name
		o.CourierPhone = &phone
		recordStatus(o, models.OrderStatusOnTheWay, formatTimestamp(s.now()))
		o.Status = models.OrderStatusOnTheWay
		c.Occupy(orderID)

		snap.TouchOrders()
		snap.TouchCouriers()
		order, courier = *o, *c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Printf("order %d assigned to courier %d", orderID, courierID)
	publish(ctx, s.publisher, s.logger, events.NewOrderEvent(events.OrderAssigned, &order, s.now()))
	return &models.AssignmentResponse{
		Message: fmt.Sprintf("Pedido %d asignado a %s", orderID, courier.Name),
		Order:   &order,
		Courier: &courier,
	}, nil
}

// CompleteOrder отмечает заказ доставленным и освобождает курьера.
// Текущий статус заказа не проверяется, важно только закрепление за курьером.
func (s *CourierServiceImpl) CompleteOrder(ctx context.Context, courierID, orderID int64) (*models.AssignmentResponse, error) {
	s.couriers.seed(ctx)

	var (
		order   models.Order
		courier models.Courier
	)
	err := s.store.Update(ctx, func(snap *storage.Snapshot) error {
		c := snap.FindCourier(courierID)
		if c == nil {
			return ErrCourierNotFound
		}
		o := snap.FindOrder(orderID)
		if o == nil {
			return ErrOrderNotFound
		}
		if !o.AssignedTo(courierID) {
			return ErrOrderNotAssigned
		}

		recordStatus(o, models.OrderStatusDelivered, formatTimestamp(s.now()))
		o.Status = models.OrderStatusDelivered
		c.Release()
		c.TotalDeliveries++

		snap.TouchOrders()
		snap.TouchCouriers()
		order, courier = *o, *c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Printf("order %d delivered by courier %d", orderID, courierID)
	publish(ctx, s.publisher, s.logger, events.NewOrderEvent(events.OrderCompleted, &order, s.now()))
	return &models.AssignmentResponse{
		Message: fmt.Sprintf("Pedido %d marcado como entregado", orderID),
		Order:   &order,
		Courier: &courier,
	}, nil
}

// courierSeeder создаёт изменяемую копию курьеров из справочника при первом обращении.
// Пустая сохранённая коллекция тоже считается неинициализированной.
type courierSeeder struct {
	catalog Catalog
	store   *storage.Store
	logger  *log.Logger
}

func (c *courierSeeder) seed(ctx context.Context) []models.Courier {
	if couriers, ok := c.store.LoadCouriers(ctx); ok && len(couriers) > 0 {
		return couriers
	}

	ref := c.catalog.CouriersReference(ctx)
	if ref.Unavailable() {
		c.logger.Printf("couriers reference unavailable, nothing to seed: %v", ref.Err)
		return []models.Courier{}
	}

	var seeded []models.Courier
	_ = c.store.Update(ctx, func(snap *storage.Snapshot) error {
		if snap.CouriersInitialized && len(snap.Couriers) > 0 {
			seeded = snap.Couriers
			return nil
		}
		snap.Couriers = append([]models.Courier{}, ref.Items...)
		snap.TouchCouriers()
		seeded = snap.Couriers
		return nil
	})
	return nonNil(seeded)
}
