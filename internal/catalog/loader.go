package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/agamariel/parcerogo/internal/models"
)

// Result - результат чтения справочника.
// Err != nil означает, что источник недоступен; Items в этом случае пуст.
// Пустой Items при Err == nil - это действительно пустой справочник.
type Result[T any] struct {
	Items []T
	Err   error
}

// Unavailable сообщает, что источник не ответил.
func (r Result[T]) Unavailable() bool {
	return r.Err != nil
}

// Loader читает справочные данные. Сам ничего не кэширует и не изменяет.
type Loader struct {
	source Source
	logger *log.Logger
}

// NewLoader создаёт загрузчик справочника.
func NewLoader(source Source, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{source: source, logger: logger}
}

// Businesses возвращает все заведения.
func (l *Loader) Businesses(ctx context.Context) Result[models.Business] {
	return load[models.Business](ctx, l, BusinessesFile)
}

// Products возвращает основной каталог товаров.
func (l *Loader) Products(ctx context.Context) Result[models.Product] {
	return load[models.Product](ctx, l, ProductsFile)
}

// JumboProducts возвращает каталог Jumbo.
func (l *Loader) JumboProducts(ctx context.Context) Result[models.Product] {
	return load[models.Product](ctx, l, JumboProductsFile)
}

// CouriersReference возвращает справочник курьеров, из которого засевается хранилище.
func (l *Loader) CouriersReference(ctx context.Context) Result[models.Courier] {
	return load[models.Courier](ctx, l, CouriersFile)
}

// AllProducts объединяет оба каталога: сначала основной, затем Jumbo.
// Недоступность любого из источников возвращается в Err.
func (l *Loader) AllProducts(ctx context.Context) Result[models.Product] {
	regular := l.Products(ctx)
	if regular.Unavailable() {
		return regular
	}
	jumbo := l.JumboProducts(ctx)
	if jumbo.Unavailable() {
		return jumbo
	}
	all := make([]models.Product, 0, len(regular.Items)+len(jumbo.Items))
	all = append(all, regular.Items...)
	all = append(all, jumbo.Items...)
	return Result[models.Product]{Items: all}
}

func load[T any](ctx context.Context, l *Loader, name string) Result[T] {
	data, err := l.source.Fetch(ctx, name)
	if err != nil {
		l.logger.Printf("catalog %s unavailable: %v", name, err)
		return Result[T]{Items: []T{}, Err: err}
	}

	// Документ, который не является массивом, считается пустым справочником.
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		var shape any
		if jerr := json.Unmarshal(data, &shape); jerr == nil {
			if _, isList := shape.([]any); !isList {
				return Result[T]{Items: []T{}}
			}
		}
		l.logger.Printf("catalog %s malformed: %v", name, err)
		return Result[T]{Items: []T{}, Err: fmt.Errorf("decode %s: %w", name, err)}
	}
	if items == nil {
		items = []T{}
	}
	return Result[T]{Items: items}
}

// FindBusiness ищет заведение по id.
func FindBusiness(list []models.Business, id int64) (*models.Business, bool) {
	for i := range list {
		if list[i].ID == id {
			return &list[i], true
		}
	}
	return nil, false
}

// FindProduct ищет первый товар с заданным id.
func FindProduct(list []models.Product, id int64) (*models.Product, bool) {
	for i := range list {
		if list[i].ID == id {
			return &list[i], true
		}
	}
	return nil, false
}
