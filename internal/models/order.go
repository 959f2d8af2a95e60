package models

// OrderStatus описывает этап жизненного цикла заказа.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pendiente"
	OrderStatusPreparing OrderStatus = "preparando"
	OrderStatusOnTheWay  OrderStatus = "en_camino"
	OrderStatusDelivered OrderStatus = "entregado"
	OrderStatusCancelled OrderStatus = "cancelado"
)

// ValidOrderStatuses - допустимые статусы в порядке, в котором они перечисляются клиенту.
var ValidOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusOnTheWay,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValid сообщает, входит ли статус в ValidOrderStatuses.
func (s OrderStatus) IsValid() bool {
	for _, v := range ValidOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PaymentStatus описывает состояние оплаты заказа.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pendiente"
	PaymentStatusPaid    PaymentStatus = "pagado"
)

// StatusChange - запись истории статусов.
type StatusChange struct {
	Status    OrderStatus `json:"status"`
	Timestamp string      `json:"timestamp"`
}

// OrderLine - позиция заказа.
type OrderLine struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
	Notes       string `json:"notes"`
}

// Order представляет заказ клиента.
// Имена JSON-полей совпадают с уже сохранёнными данными, менять их нельзя.
type Order struct {
	ID              int64          `json:"id"`
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	CustomerAddress string         `json:"customer_address"`
	CustomerLat     float64        `json:"customer_lat"`
	CustomerLng     float64        `json:"customer_lng"`
	BusinessID      int64          `json:"business_id"`
	BusinessName    string         `json:"business_name"`
	BusinessLat     float64        `json:"business_lat"`
	BusinessLng     float64        `json:"business_lng"`
	Products        []OrderLine    `json:"products"`
	Total           int64          `json:"total"`
	DistanceKm      float64        `json:"distance_km"`
	EstimatedTime   int64          `json:"estimated_time"`
	PaymentMethod   string         `json:"payment_method"`
	TipAmount       int64          `json:"tip_amount"`
	PaymentStatus   PaymentStatus  `json:"payment_status"`
	Status          OrderStatus    `json:"status"`
	DeliveryPerson  *string        `json:"delivery_person"`
	CourierID       *int64         `json:"courier_id,omitempty"`
	CourierName     *string        `json:"courier_name,omitempty"`
	CourierPhone    *string        `json:"courier_phone"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at,omitempty"`
	StatusHistory   []StatusChange `json:"status_history"`
}

// AssignedTo сообщает, закреплён ли заказ за курьером courierID.
func (o *Order) AssignedTo(courierID int64) bool {
	return o.CourierID != nil && *o.CourierID == courierID
}

// OrderItemRequest - позиция в запросе на создание заказа.
type OrderItemRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Notes     string `json:"notes"`
}

// CreateOrderRequest - тело POST /api/delivery/orders.
type CreateOrderRequest struct {
	BusinessID      int64              `json:"business_id"`
	Products        []OrderItemRequest `json:"products"`
	CustomerLat     float64            `json:"customer_lat"`
	CustomerLng     float64            `json:"customer_lng"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerAddress string             `json:"customer_address"`
	PaymentMethod   string             `json:"payment_method"`
	TipAmount       FlexString         `json:"tip_amount"`
}

// UpdateStatusRequest - тело PATCH /api/delivery/orders/{id}/status.
type UpdateStatusRequest struct {
	Status    OrderStatus `json:"status"`
	CourierID *int64      `json:"courier_id"`
}

// OrderFilter - фильтр списка заказов по равенству полей.
type OrderFilter struct {
	BusinessID *int64
	CourierID  *int64
}

// OrderResponse - ответ с одним заказом.
type OrderResponse struct {
	Order   *Order `json:"order"`
	Message string `json:"message,omitempty"`
}

// OrdersResponse - ответ со списком заказов.
type OrdersResponse struct {
	Orders []Order `json:"orders"`
	Count  int     `json:"count"`
}
