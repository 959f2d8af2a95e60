package handlers

import (
	"net/http"

	"github.com/agamariel/parcerogo/internal/models"
	"github.com/agamariel/parcerogo/internal/router"
	"github.com/agamariel/parcerogo/internal/services"
	"github.com/labstack/echo/v4"
)

const orderCreatedMessage = "Pedido creado exitosamente"

// DeliveryHandler обслуживает все маршруты мок-бэкенда.
type DeliveryHandler struct {
	catalog  services.CatalogService
	orders   services.OrderService
	couriers services.CourierService
	payments services.PaymentService
}

// NewDeliveryHandler создаёт обработчик поверх сервисов.
func NewDeliveryHandler(
	catalog services.CatalogService,
	orders services.OrderService,
	couriers services.CourierService,
	payments services.PaymentService,
) *DeliveryHandler {
	return &DeliveryHandler{catalog: catalog, orders: orders, couriers: couriers, payments: payments}
}

// For возвращает обработчик операции. Передаётся в router.Register.
func (h *DeliveryHandler) For(kind router.Kind) echo.HandlerFunc {
	switch kind {
	case router.ListBusinesses:
		return h.ListBusinesses
	case router.GetBusiness:
		return h.GetBusiness
	case router.BusinessProducts:
		return h.BusinessProducts
	case router.JumboProducts:
		return h.JumboProducts
	case router.ListProducts:
		return h.ListProducts
	case router.DeliveryPersons:
		return h.DeliveryPersons
	case router.AvailableCouriers:
		return h.AvailableCouriers
	case router.NearbyCouriers:
		return h.NearbyCouriers
	case router.ListCouriers:
		return h.ListCouriers
	case router.GetCourier:
		return h.GetCourier
	case router.AssignOrder:
		return h.AssignOrder
	case router.CompleteOrder:
		return h.CompleteOrder
	case router.OrdersByPhone:
		return h.OrdersByPhone
	case router.GetOrder:
		return h.GetOrder
	case router.ListOrders:
		return h.ListOrders
	case router.UpdateOrderStatus:
		return h.UpdateOrderStatus
	case router.CreateOrder:
		return h.CreateOrder
	case router.PayOrder:
		return h.PayOrder
	default:
		return func(c echo.Context) error { return echo.ErrNotFound }
	}
}

func route(c echo.Context) (router.Route, error) {
	r, ok := router.FromContext(c)
	if !ok {
		return router.Route{}, echo.ErrNotFound
	}
	return r, nil
}

// ListBusinesses обрабатывает GET /api/delivery/businesses.
func (h *DeliveryHandler) ListBusinesses(c echo.Context) error {
	businesses := h.catalog.ListBusinesses(c.Request().Context())
	return c.JSON(http.StatusOK, models.BusinessesResponse{Businesses: businesses})
}

// GetBusiness обрабатывает GET /api/delivery/businesses/{id}.
func (h *DeliveryHandler) GetBusiness(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	business, err := h.catalog.GetBusiness(c.Request().Context(), r.BusinessID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, business)
}

// BusinessProducts обрабатывает GET /api/delivery/businesses/{id}/products.
func (h *DeliveryHandler) BusinessProducts(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	products := h.catalog.BusinessProducts(c.Request().Context(), r.BusinessID)
	return c.JSON(http.StatusOK, models.ProductsResponse{Products: products})
}

// JumboProducts обрабатывает GET /api/delivery/products/jumbo*.
func (h *DeliveryHandler) JumboProducts(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.catalog.JumboCatalog(c.Request().Context(), r.Category))
}

// ListProducts обрабатывает GET /api/delivery/products.
func (h *DeliveryHandler) ListProducts(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.catalog.AllProducts(c.Request().Context(), r.Category))
}

// DeliveryPersons обрабатывает GET /api/delivery/delivery-persons.
func (h *DeliveryHandler) DeliveryPersons(c echo.Context) error {
	persons := h.catalog.DeliveryPersons(c.Request().Context())
	return c.JSON(http.StatusOK, models.DeliveryPersonsResponse{DeliveryPersons: persons})
}

// AvailableCouriers обрабатывает GET /api/couriers/available.
func (h *DeliveryHandler) AvailableCouriers(c echo.Context) error {
	couriers := h.couriers.AvailableCouriers(c.Request().Context())
	return c.JSON(http.StatusOK, models.AvailableCouriersResponse{Couriers: couriers, Count: len(couriers)})
}

// NearbyCouriers обрабатывает GET /api/couriers/nearby/{lat}/{lng}.
func (h *DeliveryHandler) NearbyCouriers(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	if r.InvalidQuery {
		return toHTTPError(services.ErrInvalidCoords)
	}
	couriers, err := h.couriers.NearbyCouriers(c.Request().Context(), r.Lat, r.Lng, r.MaxDistanceKm)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, models.NearbyCouriersResponse{
		Couriers:      couriers,
		Count:         len(couriers),
		Location:      models.Location{Lat: r.Lat, Lng: r.Lng},
		MaxDistanceKm: r.MaxDistanceKm,
	})
}

// ListCouriers обрабатывает GET /api/couriers/.
func (h *DeliveryHandler) ListCouriers(c echo.Context) error {
	couriers := h.couriers.ListCouriers(c.Request().Context())
	return c.JSON(http.StatusOK, models.CouriersResponse{Couriers: couriers})
}

// GetCourier обрабатывает GET /api/couriers/{id}.
func (h *DeliveryHandler) GetCourier(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	courier, err := h.couriers.GetCourier(c.Request().Context(), r.CourierID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, courier)
}

// AssignOrder обрабатывает POST /api/couriers/{cid}/assign-order/{oid}.
func (h *DeliveryHandler) AssignOrder(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	resp, err := h.couriers.AssignOrder(c.Request().Context(), r.CourierID, r.OrderID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// CompleteOrder обрабатывает POST /api/couriers/{cid}/complete-order/{oid}.
func (h *DeliveryHandler) CompleteOrder(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	resp, err := h.couriers.CompleteOrder(c.Request().Context(), r.CourierID, r.OrderID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// OrdersByPhone обрабатывает GET /api/delivery/orders/by-phone/{phone}.
func (h *DeliveryHandler) OrdersByPhone(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	orders := h.orders.OrdersByPhone(c.Request().Context(), r.Phone)
	return c.JSON(http.StatusOK, models.OrdersResponse{Orders: orders, Count: len(orders)})
}

// GetOrder обрабатывает GET /api/delivery/orders/{id}.
func (h *DeliveryHandler) GetOrder(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	order, err := h.orders.GetOrder(c.Request().Context(), r.OrderID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, models.OrderResponse{Order: order})
}

// ListOrders обрабатывает GET /api/delivery/orders.
// Нечисловой фильтр не совпадает ни с одним заказом.
func (h *DeliveryHandler) ListOrders(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	orders := []models.Order{}
	if !r.InvalidQuery {
		orders = h.orders.ListOrders(c.Request().Context(), r.Filter)
	}
	return c.JSON(http.StatusOK, models.OrdersResponse{Orders: orders, Count: len(orders)})
}

// UpdateOrderStatus обрабатывает PATCH /api/delivery/orders/{id}/status.
func (h *DeliveryHandler) UpdateOrderStatus(c echo.Context) error {
	r, err := route(c)
	if err != nil {
		return err
	}
	var req models.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, invalidBodyMessage)
	}
	order, message, err := h.orders.UpdateStatus(c.Request().Context(), r.OrderID, &req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, models.OrderResponse{Order: order, Message: message})
}

// CreateOrder обрабатывает POST /api/delivery/orders.
func (h *DeliveryHandler) CreateOrder(c echo.Context) error {
	var req models.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, invalidBodyMessage)
	}
	order, err := h.orders.CreateOrder(c.Request().Context(), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, models.OrderResponse{Order: order, Message: orderCreatedMessage})
}

// PayOrder обрабатывает POST /orders/pay.
func (h *DeliveryHandler) PayOrder(c echo.Context) error {
	var req models.PayRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, invalidBodyMessage)
	}
	resp, err := h.payments.Pay(c.Request().Context(), &req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

// NewEcho собирает echo с маршрутами мок-бэкенда и обработчиком ошибок {"detail"}.
func NewEcho(h *DeliveryHandler, middleware ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware...)
	router.Register(e, h.For)
	return e
}
