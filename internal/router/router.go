// Package router описывает закрытый набор маршрутов мок-бэкенда и порядок их сопоставления.
package router

import (
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/agamariel/parcerogo/internal/models"
	"github.com/labstack/echo/v4"
)

// Kind - операция, которую обслуживает маршрут.
type Kind int

const (
	ListBusinesses Kind = iota + 1
	GetBusiness
	BusinessProducts
	JumboProducts
	ListProducts
	DeliveryPersons
	AvailableCouriers
	NearbyCouriers
	ListCouriers
	GetCourier
	AssignOrder
	CompleteOrder
	OrdersByPhone
	GetOrder
	ListOrders
	UpdateOrderStatus
	CreateOrder
	PayOrder
)

var kindNames = map[Kind]string{
	ListBusinesses:    "list_businesses",
	GetBusiness:       "get_business",
	BusinessProducts:  "business_products",
	JumboProducts:     "jumbo_products",
	ListProducts:      "list_products",
	DeliveryPersons:   "delivery_persons",
	AvailableCouriers: "available_couriers",
	NearbyCouriers:    "nearby_couriers",
	ListCouriers:      "list_couriers",
	GetCourier:        "get_courier",
	AssignOrder:       "assign_order",
	CompleteOrder:     "complete_order",
	OrdersByPhone:     "orders_by_phone",
	GetOrder:          "get_order",
	ListOrders:        "list_orders",
	UpdateOrderStatus: "update_order_status",
	CreateOrder:       "create_order",
	PayOrder:          "pay_order",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Route - сопоставленный запрос с типизированными параметрами пути и строки запроса.
type Route struct {
	Kind Kind

	BusinessID int64
	CourierID  int64
	OrderID    int64
	Phone      string

	Lat           float64
	Lng           float64
	MaxDistanceKm float64

	Filter models.OrderFilter

	// Category - фильтр каталога; nil, если параметр не задан или пуст.
	Category *string

	// InvalidQuery выставляется, когда параметр строки запроса не разобрался как число.
	InvalidQuery bool
}

type binder func(r *Route, m []string, q url.Values)

type pattern struct {
	kind     Kind
	method   string
	re       *regexp.Regexp
	echoPath string
	bind     binder
}

// DefaultMaxDistanceKm - радиус поиска курьеров, если max_distance не задан.
const DefaultMaxDistanceKm = 5.0

const number = `(-?\d+(?:\.\d+)?)`

// patterns перечислены в порядке сопоставления.
var patterns = []pattern{
	{ListBusinesses, http.MethodGet, regexp.MustCompile(`^/api/delivery/businesses$`), "/api/delivery/businesses", nil},
	{GetBusiness, http.MethodGet, regexp.MustCompile(`^/api/delivery/businesses/(\d+)$`), "/api/delivery/businesses/:id", bindBusiness},
	{BusinessProducts, http.MethodGet, regexp.MustCompile(`^/api/delivery/businesses/(\d+)/products$`), "/api/delivery/businesses/:id/products", bindBusiness},
	{JumboProducts, http.MethodGet, regexp.MustCompile(`^/api/delivery/products/jumbo`), "/api/delivery/products/jumbo*", bindCategory},
	{ListProducts, http.MethodGet, regexp.MustCompile(`^/api/delivery/products$`), "/api/delivery/products", bindCategory},
	{DeliveryPersons, http.MethodGet, regexp.MustCompile(`^/api/delivery/delivery-persons$`), "/api/delivery/delivery-persons", nil},
	{AvailableCouriers, http.MethodGet, regexp.MustCompile(`^/api/couriers/available$`), "/api/couriers/available", nil},
	{NearbyCouriers, http.MethodGet, regexp.MustCompile(`^/api/couriers/nearby/` + number + `/` + number + `$`), "/api/couriers/nearby/:lat/:lng", bindNearby},
	{ListCouriers, http.MethodGet, regexp.MustCompile(`^/api/couriers/$`), "/api/couriers/", nil},
	{GetCourier, http.MethodGet, regexp.MustCompile(`^/api/couriers/(\d+)$`), "/api/couriers/:id", bindCourier},
	{AssignOrder, http.MethodPost, regexp.MustCompile(`^/api/couriers/(\d+)/assign-order/(\d+)$`), "/api/couriers/:id/assign-order/:order_id", bindCourierOrder},
	{CompleteOrder, http.MethodPost, regexp.MustCompile(`^/api/couriers/(\d+)/complete-order/(\d+)$`), "/api/couriers/:id/complete-order/:order_id", bindCourierOrder},
	{OrdersByPhone, http.MethodGet, regexp.MustCompile(`^/api/delivery/orders/by-phone/(.+)$`), "/api/delivery/orders/by-phone/*", bindPhone},
	{GetOrder, http.MethodGet, regexp.MustCompile(`^/api/delivery/orders/(\d+)$`), "/api/delivery/orders/:id", bindOrder},
	{ListOrders, http.MethodGet, regexp.MustCompile(`^/api/delivery/orders$`), "/api/delivery/orders", bindOrderFilter},
	{UpdateOrderStatus, http.MethodPatch, regexp.MustCompile(`^/api/delivery/orders/(\d+)/status$`), "/api/delivery/orders/:id/status", bindOrder},
	{CreateOrder, http.MethodPost, regexp.MustCompile(`^/api/delivery/orders$`), "/api/delivery/orders", nil},
	{PayOrder, http.MethodPost, regexp.MustCompile(`^/orders/pay$`), "/orders/pay", nil},
}

// Match сопоставляет метод и путь с маршрутом. Первый подходящий шаблон выигрывает.
// Путь должен быть уже декодирован, строка запроса передаётся отдельно.
func Match(method, path string, query url.Values) (Route, bool) {
	for _, p := range patterns {
		if p.method != method {
			continue
		}
		m := p.re.FindStringSubmatch(path)
		if m == nil {
			continue
		}
		r := Route{Kind: p.kind}
		if p.bind != nil {
			p.bind(&r, m, query)
		}
		return r, true
	}
	return Route{}, false
}

// Kinds возвращает все операции в порядке сопоставления.
func Kinds() []Kind {
	kinds := make([]Kind, len(patterns))
	for i, p := range patterns {
		kinds[i] = p.kind
	}
	return kinds
}

func parseID(s string) int64 {
	// шаблон пропускает только цифры, ошибка возможна лишь при переполнении
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return -1
	}
	return id
}

func bindBusiness(r *Route, m []string, _ url.Values) {
	r.BusinessID = parseID(m[1])
}

func bindCourier(r *Route, m []string, _ url.Values) {
	r.CourierID = parseID(m[1])
}

func bindOrder(r *Route, m []string, _ url.Values) {
	r.OrderID = parseID(m[1])
}

func bindCourierOrder(r *Route, m []string, _ url.Values) {
	r.CourierID = parseID(m[1])
	r.OrderID = parseID(m[2])
}

func bindPhone(r *Route, m []string, _ url.Values) {
	r.Phone = m[1]
}

func bindCategory(r *Route, _ []string, q url.Values) {
	if c := q.Get("category"); c != "" {
		r.Category = &c
	}
}

func bindNearby(r *Route, m []string, q url.Values) {
	r.Lat, _ = strconv.ParseFloat(m[1], 64)
	r.Lng, _ = strconv.ParseFloat(m[2], 64)
	r.MaxDistanceKm = DefaultMaxDistanceKm
	if raw := q.Get("max_distance"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			r.InvalidQuery = true
			return
		}
		r.MaxDistanceKm = d
	}
}

func bindOrderFilter(r *Route, _ []string, q url.Values) {
	r.Filter.BusinessID = queryInt(r, q, "business_id")
	r.Filter.CourierID = queryInt(r, q, "courier_id")
}

func queryInt(r *Route, q url.Values, key string) *int64 {
	raw := q.Get(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		r.InvalidQuery = true
		return nil
	}
	return &v
}

const routeContextKey = "parcerogo.route"

// Register регистрирует все маршруты в echo. handlerFor вызывается один раз
// для каждой операции; сопоставленный Route доступен обработчику через FromContext.
func Register(e *echo.Echo, handlerFor func(Kind) echo.HandlerFunc) {
	handlers := make(map[Kind]echo.HandlerFunc, len(patterns))
	for _, p := range patterns {
		handlers[p.kind] = handlerFor(p.kind)
	}
	dispatch := func(c echo.Context) error {
		req := c.Request()
		r, ok := Match(req.Method, req.URL.Path, req.URL.Query())
		if !ok {
			return echo.ErrNotFound
		}
		c.Set(routeContextKey, r)
		return handlers[r.Kind](c)
	}
	// дерево echo только сужает выбор, операцию определяет Match
	for _, p := range patterns {
		e.Add(p.method, p.echoPath, dispatch)
	}
}

// FromContext возвращает маршрут, сопоставленный для текущего запроса.
func FromContext(c echo.Context) (Route, bool) {
	r, ok := c.Get(routeContextKey).(Route)
	return r, ok
}

// WithRoute кладёт маршрут в контекст echo. Используется в тестах обработчиков.
func WithRoute(c echo.Context, r Route) {
	c.Set(routeContextKey, r)
}
