package services

import (
	"context"
	"errors"
	"testing"

	"github.com/agamariel/parcerogo/internal/models"
)

func TestPaymentService_Pay(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		req         models.PayRequest
		wantErr     error
		wantStatus  models.PaymentStatus
		wantMessage string
	}{
		{
			name:        "card with spaces",
			req:         models.PayRequest{OrderID: 1, PaymentMethod: "tarjeta", CardNumber: "4111 1111 1111 1111", CardHolder: "Ana Gómez", CVV: "123"},
			wantStatus:  models.PaymentStatusPaid,
			wantMessage: "Pago con tarjeta procesado exitosamente",
		},
		{
			name:        "card with dashes",
			req:         models.PayRequest{OrderID: 1, PaymentMethod: "tarjeta", CardNumber: "4111-1111-1111-1", CardHolder: "Ana", CVV: "999"},
			wantStatus:  models.PaymentStatusPaid,
			wantMessage: "Pago con tarjeta procesado exitosamente",
		},
		{
			name:        "cash",
			req:         models.PayRequest{OrderID: 1, PaymentMethod: "efectivo"},
			wantStatus:  models.PaymentStatusPending,
			wantMessage: "Pago en efectivo registrado. Se cobrará al momento de la entrega.",
		},
		{
			name:        "default method is cash",
			req:         models.PayRequest{OrderID: 1},
			wantStatus:  models.PaymentStatusPending,
			wantMessage: "Pago en efectivo registrado. Se cobrará al momento de la entrega.",
		},
		{
			name:    "unknown order",
			req:     models.PayRequest{OrderID: 7, PaymentMethod: "efectivo"},
			wantErr: ErrOrderNotFound,
		},
		{
			name:    "unknown method",
			req:     models.PayRequest{OrderID: 1, PaymentMethod: "bitcoin"},
			wantErr: ErrInvalidPaymentMethod,
		},
		{
			name:    "short card number",
			req:     models.PayRequest{OrderID: 1, PaymentMethod: "tarjeta", CardNumber: "123", CardHolder: "Ana Gómez", CVV: "123"},
			wantErr: ErrInvalidCardNumber,
		},
		{
			name:    "too long card number",
			req:     models.PayRequest{OrderID: 1, PaymentMethod: "tarjeta", CardNumber: "41111111111111111111", CardHolder: "Ana Gómez", CVV: "123"},
			wantErr: ErrInvalidCardNumber,
		},
		{
			name:    "letters in card number",
			req:     models.PayRequest{OrderID: 1, PaymentMethod: "tarjeta", CardNumber: "4111 1111 1111 11AB", CardHolder: "Ana Gómez", CVV: "123"},
			wantErr: ErrInvalidCardNumber,
		},
		{
			name:    "short holder",
			req:     models.PayRequest{OrderID: 1, PaymentMethod: "tarjeta", CardNumber: "4111111111111111", CardHolder: "  Al ", CVV: "123"},
			wantErr: ErrInvalidCardHolder,
		},
		{
			name:    "short cvv",
			req:     models.PayRequest{OrderID: 1, PaymentMethod: "tarjeta", CardNumber: "4111111111111111", CardHolder: "Ana Gómez", CVV: "12"},
			wantErr: ErrInvalidCVV,
		},
		{
			name:    "non numeric cvv",
			req:     models.PayRequest{OrderID: 1, PaymentMethod: "tarjeta", CardNumber: "4111111111111111", CardHolder: "Ana Gómez", CVV: "1a3"},
			wantErr: ErrInvalidCVV,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestServices(newTestCatalog())
			createOrders(t, svc, 1)

			resp, err := svc.payments.Pay(ctx, &tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Pay() error = %v, want %v", err, tt.wantErr)
				}
				order, _ := svc.orders.GetOrder(ctx, 1)
				if order.PaymentStatus != models.PaymentStatusPending {
					t.Errorf("failed payment changed order: %+v", order)
				}
				return
			}
			if err != nil {
				t.Fatalf("Pay() unexpected error: %v", err)
			}

			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if resp.Payment.ID != models.PlaceholderPaymentID {
				t.Errorf("payment.ID = %d, want placeholder", resp.Payment.ID)
			}
			if resp.Payment.Amount != resp.Order.Total || resp.Payment.TipAmount != resp.Order.TipAmount {
				t.Errorf("payment amounts do not match order: %+v", resp.Payment)
			}
			if resp.Order.PaymentStatus != tt.wantStatus || resp.Payment.Status != tt.wantStatus {
				t.Errorf("payment status = %q/%q, want %q", resp.Order.PaymentStatus, resp.Payment.Status, tt.wantStatus)
			}

			stored, _ := svc.orders.GetOrder(ctx, 1)
			if stored.PaymentStatus != tt.wantStatus || stored.PaymentMethod != resp.Payment.PaymentMethod {
				t.Errorf("stored order payment = %q/%q", stored.PaymentMethod, stored.PaymentStatus)
			}
		})
	}
}

func TestPaymentService_PayTwice(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(newTestCatalog())
	createOrders(t, svc, 1)

	card := &models.PayRequest{OrderID: 1, PaymentMethod: "tarjeta", CardNumber: "4111111111111111", CardHolder: "Ana Gómez", CVV: "123"}
	if _, err := svc.payments.Pay(ctx, card); err != nil {
		t.Fatalf("Pay() unexpected error: %v", err)
	}
	_, err := svc.payments.Pay(ctx, &models.PayRequest{OrderID: 1, PaymentMethod: "efectivo"})
	if !errors.Is(err, ErrAlreadyPaid) {
		t.Errorf("Pay() error = %v, want ErrAlreadyPaid", err)
	}
}

func TestPaymentService_CashCanBeFollowedByCard(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(newTestCatalog())
	createOrders(t, svc, 1)

	if _, err := svc.payments.Pay(ctx, &models.PayRequest{OrderID: 1, PaymentMethod: "efectivo"}); err != nil {
		t.Fatalf("Pay() unexpected error: %v", err)
	}
	card := &models.PayRequest{OrderID: 1, PaymentMethod: "tarjeta", CardNumber: "4111111111111111", CardHolder: "Ana Gómez", CVV: "123"}
	resp, err := svc.payments.Pay(ctx, card)
	if err != nil {
		t.Fatalf("Pay() unexpected error: %v", err)
	}
	if resp.Order.PaymentMethod != models.PaymentMethodCard {
		t.Errorf("payment_method = %q, want tarjeta", resp.Order.PaymentMethod)
	}
}
