package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asistentas-gateway/internal/bootstrap"
	"asistentas-gateway/internal/config"
	"asistentas-gateway/internal/server"
	"asistentas-gateway/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// Tracer, exporting only when OTEL_ENABLED=true
	shutdownTracer := tracer.InitTracer(cfg.Tracing, cfg.App.Environment)
	defer shutdownTracer(context.Background())

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Start Background Services
	if err := container.Start(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 5. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
