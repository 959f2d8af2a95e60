package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Имена справочных документов.
const (
	BusinessesFile    = "businesses.json"
	ProductsFile      = "products.json"
	JumboProductsFile = "jumbo_products.json"
	CouriersFile      = "couriers.json"
)

var ErrSourceNotFound = errors.New("catalog document not found")

// Source отдаёт сырые JSON-документы справочника по имени.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FSSource читает документы из файловой системы (каталог data/ или embed.FS).
type FSSource struct {
	fsys fs.FS
}

// NewFSSource создаёт источник поверх fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Fetch читает документ name.
func (s *FSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrSourceNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// HTTPSource скачивает документы по соглашению <baseURL>/data/<name>.
// Используется, когда справочник лежит рядом со статикой клиента.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSource создаёт HTTP-источник. transport может быть nil.
func NewHTTPSource(baseURL string, timeout time.Duration, transport http.RoundTripper) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Fetch получает документ name.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog base url: %w", err)
	}
	u.Path = path.Join(u.Path, "data", name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return data, nil
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", name, ErrSourceNotFound)
	default:
		return nil, fmt.Errorf("unexpected catalog status for %s: %d", name, resp.StatusCode)
	}
}
