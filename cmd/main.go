package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"campus/internal/auth"
	"campus/internal/cache"
	"campus/internal/config"
	httpapi "campus/internal/http"
	"campus/internal/metrics"
	"campus/internal/repository"
	"campus/internal/service"

	_ "campus/docs"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		profiles repository.ProfileRepository
		catalog  repository.CatalogRepository
		orders   repository.OrderRepository
		posts    repository.PostRepository
		events   repository.EventRepository
	)
	if cfg.PostgresDSN != "" {
		pg, err := repository.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres connect: %v", err)
		}
		defer pg.Close()
		if err := pg.Bootstrap(ctx); err != nil {
			log.Fatalf("schema bootstrap: %v", err)
		}
		profiles = pg
		catalog = repository.NewPostgresCatalog(pg)
		orders = repository.NewPostgresOrders(pg)
		posts = repository.NewPostgresPosts(pg)
		events = repository.NewPostgresEvents(pg)
	} else {
		log.Printf("POSTGRES_DSN empty, using in-memory store")
		store := repository.NewMemoryStore()
		profiles = store
		catalog = repository.NewMemoryCatalog(store)
		orders = repository.NewMemoryOrders(store)
		posts = repository.NewMemoryPosts(store)
		events = repository.NewMemoryEvents(store)
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = cache.New(cfg.RedisAddr)
		defer rdb.Close()
	}

	tokens := auth.NewTokenAuthority(cfg.AuthSecret, cfg.TokenTTL)
	accountsSvc := service.NewAccountService(profiles, tokens)
	catalogSvc := service.NewCatalogService(catalog)
	ordersSvc := service.NewOrderService(catalog, orders)
	listingsSvc := service.NewListingService(posts, events)

	m := metrics.NewServerMetrics("api")
	srv := httpapi.NewServer(accountsSvc, catalogSvc, ordersSvc, listingsSvc, tokens, rdb, m)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		log.Printf("%s listening on %s", cfg.ServiceName, httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
