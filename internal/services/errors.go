package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agamariel/parcerogo/internal/models"
)

// Kind - класс ошибки операции. По нему обработчик выбирает HTTP-статус.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindInternal
)

// Error - ошибка операции с сообщением, которое отдаётся клиенту как есть.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrOrderNotFound    = newError(KindNotFound, "Pedido no encontrado")
	ErrBusinessNotFound = newError(KindNotFound, "Negocio no encontrado")
	ErrCourierNotFound  = newError(KindNotFound, "Repartidor no encontrado")

	ErrInvalidStatus  = newError(KindValidation, "Estado inválido. Válidos: "+joinStatuses(models.ValidOrderStatuses))
	ErrEmptyOrder     = newError(KindValidation, "El pedido debe contener al menos un producto")
	ErrOutOfArea      = newError(KindValidation, "Coordenadas fuera del rango válido para Medellín")
	ErrInvalidCoords  = newError(KindValidation, "Coordenadas inválidas")
	ErrAmountTooLarge = newError(KindValidation, "Cantidad o monto del pedido fuera de rango")

	ErrAlreadyPaid          = newError(KindValidation, "El pedido ya está pagado")
	ErrInvalidPaymentMethod = newError(KindValidation, "Método de pago inválido. Válidos: efectivo, tarjeta")
	ErrInvalidCardNumber    = newError(KindValidation, "Número de tarjeta inválido. Debe tener entre 13 y 19 dígitos")
	ErrInvalidCardHolder    = newError(KindValidation, "Nombre del titular requerido (mínimo 3 caracteres)")
	ErrInvalidCVV           = newError(KindValidation, "CVV inválido. Debe ser un número de 3 dígitos")

	ErrCourierUnavailable = newError(KindConflict, "El repartidor no está disponible")
	ErrOrderNotAssigned   = newError(KindConflict, "Este pedido no está asignado a este repartidor")

	// ErrOrderNotAssignable оборачивается ошибкой с текущим статусом заказа.
	ErrOrderNotAssignable = errors.New("order is not assignable")
)

func errNotAssignable(status models.OrderStatus) error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("El pedido no puede ser asignado. Estado actual: %s", status),
		Err:     ErrOrderNotAssignable,
	}
}

// errInternal превращает сбой загрузки справочника в внутреннюю ошибку операции.
func errInternal(err error, fallback string) error {
	msg := fallback
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf возвращает класс ошибки. Ошибки вне таксономии считаются внутренними.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

func joinStatuses(list []models.OrderStatus) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
