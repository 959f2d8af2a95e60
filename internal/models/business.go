package models

// Business - справочная запись заведения. Никогда не изменяется.
type Business struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	Rating       float64 `json:"rating"`
	DeliveryTime int64   `json:"delivery_time"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	IsOpen       bool    `json:"is_open"`
}

// Product - справочная запись товара.
// Available хранится указателем: отсутствие поля в источнике означает "доступен".
type Product struct {
	ID         int64   `json:"id"`
	BusinessID int64   `json:"business_id"`
	Name       string  `json:"name"`
	Price      int64   `json:"price"`
	Available  *bool   `json:"available,omitempty"`
	Category   string  `json:"category,omitempty"`
	Image      string  `json:"image,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
}

// IsAvailable возвращает false только при явном available=false.
func (p *Product) IsAvailable() bool {
	return p.Available == nil || *p.Available
}

// BusinessesResponse - ответ GET /api/delivery/businesses.
type BusinessesResponse struct {
	Businesses []Business `json:"businesses"`
}

// ProductsResponse - ответ GET /api/delivery/businesses/{id}/products.
type ProductsResponse struct {
	Products []Product `json:"products"`
}

// JumboCatalogResponse - ответ GET /api/delivery/products/jumbo.
type JumboCatalogResponse struct {
	Products   []Product `json:"products"`
	Count      int       `json:"count"`
	Source     string    `json:"source"`
	Categories []string  `json:"categories"`
	Category   *string   `json:"category"`
}

// ProductsCatalogResponse - ответ GET /api/delivery/products: товары заведений и Jumbo вместе.
type ProductsCatalogResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
	Category *string   `json:"category"`
}
