package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/agamariel/parcerogo/internal/models"
)

// Ключи коллекций. Совпадают с ключами, под которыми данные лежали у клиента.
const (
	OrdersKey   = "parcerogo_orders"
	CouriersKey = "parcerogo_couriers"
)

// Store - граница персистентности: изменяемые коллекции заказов и курьеров.
// Каждая коллекция читается и записывается целиком.
//
// Все операции Store выполняются под одним мьютексом, поэтому цикл
// "прочитать - изменить - записать" внутри Update не теряет чужих обновлений.
type Store struct {
	mu     sync.Mutex
	kv     KV
	logger *log.Logger
}

// NewStore создаёт Store поверх kv.
func NewStore(kv KV, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{kv: kv, logger: logger}
}

// LoadOrders возвращает все заказы. Ошибка чтения даёт пустой список.
func (s *Store) LoadOrders(ctx context.Context) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadOrders(ctx)
}

// SaveOrders заменяет коллекцию заказов. Ошибка записи только логируется.
func (s *Store) SaveOrders(ctx context.Context, orders []models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx, OrdersKey, orders)
}

// LoadCouriers возвращает курьеров и признак того, что коллекция уже инициализирована.
// Ошибка чтения трактуется как "не инициализирована".
func (s *Store) LoadCouriers(ctx context.Context) ([]models.Courier, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCouriers(ctx)
}

// SaveCouriers заменяет коллекцию курьеров. Ошибка записи только логируется.
func (s *Store) SaveCouriers(ctx context.Context, couriers []models.Courier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save(ctx, CouriersKey, couriers)
}

// Snapshot - копия обеих коллекций, которую изменяет функция Update.
// Изменённые коллекции нужно пометить через TouchOrders/TouchCouriers,
// иначе они не будут записаны.
type Snapshot struct {
	Orders              []models.Order
	Couriers            []models.Courier
	CouriersInitialized bool

	ordersTouched   bool
	couriersTouched bool
}

// TouchOrders помечает коллекцию заказов к записи.
func (s *Snapshot) TouchOrders() { s.ordersTouched = true }

// TouchCouriers помечает коллекцию курьеров к записи.
func (s *Snapshot) TouchCouriers() { s.couriersTouched = true }

// FindOrder возвращает указатель на заказ внутри снимка.
func (s *Snapshot) FindOrder(id int64) *models.Order {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return &s.Orders[i]
		}
	}
	return nil
}

// FindCourier возвращает указатель на курьера внутри снимка.
func (s *Snapshot) FindCourier(id int64) *models.Courier {
	for i := range s.Couriers {
		if s.Couriers[i].ID == id {
			return &s.Couriers[i]
		}
	}
	return nil
}

// NextOrderID возвращает максимальный id плюс один, либо 1 для пустой коллекции.
func (s *Snapshot) NextOrderID() int64 {
	var maxID int64
	for _, o := range s.Orders {
		if o.ID > maxID {
			maxID = o.ID
		}
	}
	return maxID + 1
}

// Update выполняет fn над свежим снимком под мьютексом и записывает помеченные коллекции.
// Если fn вернула ошибку, ничего не записывается.
// Ошибки записи логируются и не возвращаются: ответ вызывающему остаётся согласованным
// в пределах вызова, но долговечность не гарантируется.
func (s *Store) Update(ctx context.Context, fn func(snap *Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &Snapshot{Orders: s.loadOrders(ctx)}
	snap.Couriers, snap.CouriersInitialized = s.loadCouriers(ctx)

	if err := fn(snap); err != nil {
		return err
	}

	if snap.ordersTouched {
		s.save(ctx, OrdersKey, snap.Orders)
	}
	if snap.couriersTouched {
		s.save(ctx, CouriersKey, snap.Couriers)
	}
	return nil
}

func (s *Store) loadOrders(ctx context.Context) []models.Order {
	orders := []models.Order{}
	raw, err := s.kv.Get(ctx, OrdersKey)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Printf("load orders failed, using empty collection: %v", err)
		}
		return orders
	}
	if err := json.Unmarshal(raw, &orders); err != nil || orders == nil {
		if err != nil {
			s.logger.Printf("decode orders failed, using empty collection: %v", err)
		}
		return []models.Order{}
	}
	return orders
}

func (s *Store) loadCouriers(ctx context.Context) ([]models.Courier, bool) {
	raw, err := s.kv.Get(ctx, CouriersKey)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Printf("load couriers failed, treating as absent: %v", err)
		}
		return nil, false
	}
	var couriers []models.Courier
	if err := json.Unmarshal(raw, &couriers); err != nil {
		s.logger.Printf("decode couriers failed, treating as absent: %v", err)
		return nil, false
	}
	if couriers == nil {
		// в ключе лежал null
		return nil, false
	}
	return couriers, true
}

func (s *Store) save(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Printf("encode %s failed: %v", key, err)
		return
	}
	if err := s.kv.Put(ctx, key, raw); err != nil {
		s.logger.Printf("save %s failed, change is not durable: %v", key, err)
	}
}
