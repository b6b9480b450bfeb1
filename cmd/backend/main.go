// Command backend runs the SchoolSpace dev backend: the HTTP API the rest
// client talks to, over sqlite or postgres.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/schoolspace/schoolspace/internal/api"
	"github.com/schoolspace/schoolspace/internal/backend/local"
	"github.com/schoolspace/schoolspace/internal/config"
	"github.com/schoolspace/schoolspace/internal/db"
)

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	conn, err := db.ConnectAndMigrate(cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if *migrateOnlyFlag {
		log.Println("migrations completed; exiting as requested")
		return
	}

	server := api.NewServer(local.New(conn))
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(server.Routes()),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Printf("backend listening on %s (driver=%s)", srv.Addr, cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	log.Println("server stopped")
}
