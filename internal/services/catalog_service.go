package services

import (
	"context"
	"log"
	"strings"

	"github.com/agamariel/parcerogo/internal/catalog"
	"github.com/agamariel/parcerogo/internal/models"
)

const (
	jumboSource          = "Jumbo Colombia"
	uncategorizedProduct = "Sin categoría"
)

// CatalogService отдаёт справочные данные. Недоступность источника
// превращается в пустой ответ, клиенту ошибка не показывается.
type CatalogService interface {
	ListBusinesses(ctx context.Context) []models.Business
	GetBusiness(ctx context.Context, id int64) (*models.Business, error)
	BusinessProducts(ctx context.Context, businessID int64) []models.Product
	AllProducts(ctx context.Context, category *string) *models.ProductsCatalogResponse
	JumboCatalog(ctx context.Context, category *string) *models.JumboCatalogResponse
	DeliveryPersons(ctx context.Context) []models.Courier
}

// CatalogServiceImpl реализует CatalogService.
type CatalogServiceImpl struct {
	catalog Catalog
	logger  *log.Logger
}

// NewCatalogService создаёт сервис справочников.
func NewCatalogService(cat Catalog, logger *log.Logger) *CatalogServiceImpl {
	if logger == nil {
		logger = log.Default()
	}
	return &CatalogServiceImpl{catalog: cat, logger: logger}
}

func (s *CatalogServiceImpl) ListBusinesses(ctx context.Context) []models.Business {
	res := s.catalog.Businesses(ctx)
	if res.Unavailable() {
		s.logger.Printf("businesses unavailable: %v", res.Err)
	}
	return nonNil(res.Items)
}

func (s *CatalogServiceImpl) GetBusiness(ctx context.Context, id int64) (*models.Business, error) {
	res := s.catalog.Businesses(ctx)
	b, ok := catalog.FindBusiness(res.Items, id)
	if !ok {
		return nil, ErrBusinessNotFound
	}
	return b, nil
}

// BusinessProducts возвращает доступные товары заведения.
func (s *CatalogServiceImpl) BusinessProducts(ctx context.Context, businessID int64) []models.Product {
	res := s.catalog.Products(ctx)
	if res.Unavailable() {
		s.logger.Printf("products unavailable: %v", res.Err)
	}
	products := make([]models.Product, 0)
	for i := range res.Items {
		p := res.Items[i]
		if p.BusinessID == businessID && p.IsAvailable() {
			products = append(products, p)
		}
	}
	return products
}

// AllProducts возвращает товары заведений и Jumbo одним списком.
// Доступность не учитывается, категория сравнивается без учёта регистра.
func (s *CatalogServiceImpl) AllProducts(ctx context.Context, category *string) *models.ProductsCatalogResponse {
	res := s.catalog.AllProducts(ctx)
	if res.Unavailable() {
		s.logger.Printf("products unavailable: %v", res.Err)
	}

	products := filterByCategory(res.Items, category)
	return &models.ProductsCatalogResponse{
		Products: products,
		Count:    len(products),
		Category: category,
	}
}

// JumboCatalog возвращает каталог Jumbo и категории в порядке первого появления.
// Категории считаются уже после фильтра.
func (s *CatalogServiceImpl) JumboCatalog(ctx context.Context, category *string) *models.JumboCatalogResponse {
	res := s.catalog.JumboProducts(ctx)
	if res.Unavailable() {
		s.logger.Printf("jumbo products unavailable: %v", res.Err)
	}

	products := filterByCategory(res.Items, category)
	categories := make([]string, 0)
	seen := make(map[string]struct{})
	for _, p := range products {
		c := p.Category
		if c == "" {
			c = uncategorizedProduct
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}

	return &models.JumboCatalogResponse{
		Products:   products,
		Count:      len(products),
		Source:     jumboSource,
		Categories: categories,
		Category:   category,
	}
}

// DeliveryPersons возвращает справочник курьеров без изменений рабочего состояния.
func (s *CatalogServiceImpl) DeliveryPersons(ctx context.Context) []models.Courier {
	res := s.catalog.CouriersReference(ctx)
	if res.Unavailable() {
		s.logger.Printf("couriers unavailable: %v", res.Err)
	}
	return nonNil(res.Items)
}

func filterByCategory(products []models.Product, category *string) []models.Product {
	if category == nil || *category == "" {
		return nonNil(products)
	}
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Category, *category) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
