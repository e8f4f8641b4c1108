package main

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrovia/agrovia/internal/auth"
	"github.com/agrovia/agrovia/internal/config"
	"github.com/agrovia/agrovia/internal/dashboard"
	"github.com/agrovia/agrovia/internal/events"
	"github.com/agrovia/agrovia/internal/order"
	"github.com/agrovia/agrovia/internal/product"
	"github.com/agrovia/agrovia/internal/user"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping postgres: %v", err)
	}

	var pub *events.Publisher
	if cfg.RabbitMQURL != "" {
		pub, err = events.NewPublisher(cfg.RabbitMQURL, cfg.OrderTopic)
		if err != nil {
			// The API stays up without the broker; events are just dropped.
			log.Printf("[events] rabbitmq unavailable, publishing disabled: %v", err)
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	r := newRouter(deps{
		cfg:      cfg,
		tokens:   auth.NewTokens(cfg.JWTSecret),
		users:    user.NewPGRepo(pool),
		products: product.NewPGRepo(pool),
		orders:   order.NewPGRepo(pool),
		stats:    dashboard.NewAggregator(dashboard.NewPGRepo(pool)),
		pub:      pub,
		health:   pool.Ping,
	})

	log.Printf("api listening on %s", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
