package config

import (
	"flag"
	"os"
	"strings"
	"time"
)

const (
	defaultRunAddress     = "localhost:8080"
	defaultCatalogSource  = "data"
	defaultKafkaTopic     = "parcerogo.orders"
	defaultCatalogTimeout = 5 * time.Second
)

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress     string
	DatabaseURI    string
	StorePath      string
	CatalogSource  string
	CatalogTimeout time.Duration
	KafkaBrokers   []string
	KafkaTopic     string
	OTLPEndpoint   string
}

// Load загружает конфигурацию из флагов командной строки и переменных окружения.
// Приоритет: переменные окружения > флаги > значения по умолчанию.
func Load() *Config {
	cfg := &Config{}
	var brokers string

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "адрес и порт запуска сервиса")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "строка подключения к PostgreSQL")
	flag.StringVar(&cfg.StorePath, "s", "", "файл SQLite для хранилища, если не задан PostgreSQL")
	flag.StringVar(&cfg.CatalogSource, "c", defaultCatalogSource, "каталог или http(s)-адрес справочных JSON")
	flag.StringVar(&brokers, "k", "", "адреса брокеров Kafka через запятую")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDRESS"); envRunAddr != "" {
		cfg.RunAddress = envRunAddr
	}
	if envDBURI := os.Getenv("DATABASE_URI"); envDBURI != "" {
		cfg.DatabaseURI = envDBURI
	}
	if envStore := os.Getenv("STORE_PATH"); envStore != "" {
		cfg.StorePath = envStore
	}
	if envCatalog := os.Getenv("CATALOG_SOURCE"); envCatalog != "" {
		cfg.CatalogSource = envCatalog
	}
	if envBrokers := os.Getenv("KAFKA_BROKERS"); envBrokers != "" {
		brokers = envBrokers
	}
	cfg.KafkaBrokers = splitList(brokers)

	cfg.KafkaTopic = os.Getenv("KAFKA_TOPIC")
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = defaultKafkaTopic
	}

	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	// Некорректное значение игнорируется
	cfg.CatalogTimeout = defaultCatalogTimeout
	if envTimeout := os.Getenv("CATALOG_TIMEOUT"); envTimeout != "" {
		if d, err := time.ParseDuration(envTimeout); err == nil && d > 0 {
			cfg.CatalogTimeout = d
		}
	}

	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
