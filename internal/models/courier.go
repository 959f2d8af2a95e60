package models

// Courier - курьер. Изменяемая копия создаётся из справочника при первом обращении.
type Courier struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Zone            string  `json:"zone"`
	Vehicle         string  `json:"vehicle"`
	Rating          float64 `json:"rating"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
	Available       *bool   `json:"available,omitempty"`
	CurrentOrderID  *int64  `json:"current_order_id"`
	TotalDeliveries int64   `json:"total_deliveries,omitempty"`
}

// IsAvailable возвращает false только при явном available=false.
func (c *Courier) IsAvailable() bool {
	return c.Available == nil || *c.Available
}

// Occupy закрепляет курьера за заказом.
func (c *Courier) Occupy(orderID int64) {
	busy := false
	c.Available = &busy
	c.CurrentOrderID = &orderID
}

// Release освобождает курьера.
func (c *Courier) Release() {
	free := true
	c.Available = &free
	c.CurrentOrderID = nil
}

// NearbyCourier - курьер с расстоянием до точки запроса.
type NearbyCourier struct {
	Courier
	DistanceKm float64 `json:"distance_km"`
}

// Location - координаты точки.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CouriersResponse - ответ со списком курьеров.
type CouriersResponse struct {
	Couriers []Courier `json:"couriers"`
}

// AvailableCouriersResponse - ответ GET /api/couriers/available.
type AvailableCouriersResponse struct {
	Couriers []Courier `json:"couriers"`
	Count    int       `json:"count"`
}

// NearbyCouriersResponse - ответ GET /api/couriers/nearby/{lat}/{lng}.
type NearbyCouriersResponse struct {
	Couriers      []NearbyCourier `json:"couriers"`
	Count         int             `json:"count"`
	Location      Location        `json:"location"`
	MaxDistanceKm float64         `json:"max_distance_km"`
}

// AssignmentResponse - ответ на назначение и завершение заказа курьером.
type AssignmentResponse struct {
	Message string   `json:"message"`
	Order   *Order   `json:"order"`
	Courier *Courier `json:"courier"`
}

// DeliveryPersonsResponse - ответ GET /api/delivery/delivery-persons: справочник курьеров как есть.
type DeliveryPersonsResponse struct {
	DeliveryPersons []Courier `json:"delivery_persons"`
}
