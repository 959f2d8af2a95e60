package services

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agamariel/parcerogo/internal/events"
	"github.com/agamariel/parcerogo/internal/models"
	"github.com/agamariel/parcerogo/internal/storage"
	"github.com/agamariel/parcerogo/internal/utils"
)

const (
	minCardDigits      = 13
	maxCardDigits      = 19
	minCardHolderLen   = 3
	cvvLength          = 3
	cardPaidMessage    = "Pago con tarjeta procesado exitosamente"
	cashPendingMessage = "Pago en efectivo registrado. Se cobrará al momento de la entrega."
)

// PaymentService определяет интерфейс оплаты заказов.
type PaymentService interface {
	Pay(ctx context.Context, req *models.PayRequest) (*models.PayResponse, error)
}

// PaymentServiceImpl реализует PaymentService.
type PaymentServiceImpl struct {
	store     *storage.Store
	publisher events.Publisher
	logger    *log.Logger
	now       func() time.Time
}

// NewPaymentService создаёт новый сервис оплаты.
func NewPaymentService(store *storage.Store, publisher events.Publisher, logger *log.Logger) *PaymentServiceImpl {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &PaymentServiceImpl{store: store, publisher: publisher, logger: logger, now: time.Now}
}

// Pay регистрирует оплату. Карта оплачивает заказ сразу, наличные остаются в статусе pendiente.
// Данные карты только проверяются и нигде не сохраняются.
func (s *PaymentServiceImpl) Pay(ctx context.Context, req *models.PayRequest) (*models.PayResponse, error) {
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentMethodCash
	}

	var (
		order   models.Order
		payment models.Payment
	)
	err := s.store.Update(ctx, func(snap *storage.Snapshot) error {
		o := snap.FindOrder(req.OrderID)
		if o == nil {
			return ErrOrderNotFound
		}
		if o.PaymentStatus == models.PaymentStatusPaid {
			return ErrAlreadyPaid
		}
		if err := validatePayment(method, req); err != nil {
			return err
		}

		status := models.PaymentStatusPending
		if method == models.PaymentMethodCard {
			status = models.PaymentStatusPaid
		}
		o.PaymentMethod = method
		o.PaymentStatus = status
		snap.TouchOrders()

		order = *o
		payment = models.Payment{
			ID:            models.PlaceholderPaymentID,
			OrderID:       o.ID,
			Amount:        o.Total,
			TipAmount:     o.TipAmount,
			PaymentMethod: method,
			Status:        status,
			CreatedAt:     formatTimestamp(s.now()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	message := cashPendingMessage
	if method == models.PaymentMethodCard {
		message = cardPaidMessage
	}

	s.logger.Printf("order %d payment %s registered, status %s", order.ID, method, order.PaymentStatus)
	publish(ctx, s.publisher, s.logger, events.NewOrderEvent(events.OrderPaid, &order, s.now()))
	return &models.PayResponse{Payment: &payment, Message: message, Order: &order}, nil
}

func validatePayment(method string, req *models.PayRequest) error {
	switch method {
	case models.PaymentMethodCash:
		return nil
	case models.PaymentMethodCard:
		return validateCard(req.CardNumber, req.CardHolder, req.CVV.String())
	default:
		return ErrInvalidPaymentMethod
	}
}

func validateCard(number, holder, cvv string) error {
	digits := utils.StripCardSeparators(number)
	if len(digits) < minCardDigits || len(digits) > maxCardDigits || !utils.IsDigits(digits) {
		return ErrInvalidCardNumber
	}
	if utf8.RuneCountInString(strings.TrimSpace(holder)) < minCardHolderLen {
		return ErrInvalidCardHolder
	}
	if len(cvv) != cvvLength || !utils.IsDigits(cvv) {
		return ErrInvalidCVV
	}
	return nil
}
