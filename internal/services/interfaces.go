package services

import (
	"context"
	"time"

	"github.com/agamariel/parcerogo/internal/catalog"
	"github.com/agamariel/parcerogo/internal/models"
)

// Catalog определяет интерфейс чтения справочных данных.
type Catalog interface {
	Businesses(ctx context.Context) catalog.Result[models.Business]
	Products(ctx context.Context) catalog.Result[models.Product]
	JumboProducts(ctx context.Context) catalog.Result[models.Product]
	AllProducts(ctx context.Context) catalog.Result[models.Product]
	CouriersReference(ctx context.Context) catalog.Result[models.Courier]
}

// timestampLayout даёт строки, у которых лексикографический порядок совпадает с временным.
const timestampLayout = "2006-01-02T15:04:05.000Z"

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
