package models

// Способы оплаты.
const (
	PaymentMethodCash = "efectivo"
	PaymentMethodCard = "tarjeta"
)

// PlaceholderPaymentID - постоянный идентификатор платежа, последовательность не ведётся.
const PlaceholderPaymentID int64 = 1

// Payment - запись о платеже, возвращается клиенту и не сохраняется.
type Payment struct {
	ID            int64         `json:"id"`
	OrderID       int64         `json:"order_id"`
	Amount        int64         `json:"amount"`
	TipAmount     int64         `json:"tip_amount"`
	PaymentMethod string        `json:"payment_method"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     string        `json:"created_at"`
}

// PayRequest - тело POST /orders/pay.
type PayRequest struct {
	OrderID       int64      `json:"order_id"`
	PaymentMethod string     `json:"payment_method"`
	CardNumber    string     `json:"card_number"`
	CardHolder    string     `json:"card_holder"`
	CVV           FlexString `json:"cvv"`
}

// PayResponse - ответ POST /orders/pay.
type PayResponse struct {
	Payment *Payment `json:"payment"`
	Message string   `json:"message"`
	Order   *Order   `json:"order"`
}
