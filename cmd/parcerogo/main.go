package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/agamariel/parcerogo/internal/config"
)

// shutdownTimeout - сколько ждать завершения активных запросов и сброса телеметрии.
const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize mock backend: %v", err)
	}

	if err := run(ctx, app, shutdownTimeout); err != nil {
		log.Fatal(err)
	}
}

// run обслуживает запросы до сигнала или до падения сервера, например
// если адрес уже занят, и затем останавливает приложение.
func run(ctx context.Context, app *App, timeout time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.Start(ctx)
	}()

	var err error
	select {
	case <-ctx.Done():
		log.Println("Stop signal received")
	case err = <-serveErr:
		// до Shutdown Start возвращает только ошибку запуска
		log.Printf("Server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return errors.Join(err, app.Shutdown(shutdownCtx))
}
