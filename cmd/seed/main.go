package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-social-graph/config"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-graph/internal/domain/repository"
	pginfra "github.com/oksasatya/go-ddd-social-graph/internal/infrastructure/postgres"
)

// demo users; external ids match what a local HS256 token's sub would carry
var demoUsers = []entity.User{
	{ExternalID: "user_demo_alice", Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Liddell"},
	{ExternalID: "user_demo_bob", Username: "bob", Email: "bob@example.com", FirstName: "Bob", LastName: "Builder"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{AppName: cfg.AppName + "-seed", MaxConns: 2})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	follows := pginfra.NewFollowRepository(pool)

	seeded := make([]*entity.User, 0, len(demoUsers))
	for i := range demoUsers {
		u, err := users.GetByExternalID(ctx, demoUsers[i].ExternalID)
		if errors.Is(err, repository.ErrNotFound) {
			u = &demoUsers[i]
			err = users.Create(ctx, u)
		}
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", demoUsers[i].Username, err)
		}
		fmt.Printf("seeded user: id=%s external_id=%s username=%s\n", u.ID, u.ExternalID, u.Username)
		seeded = append(seeded, u)
	}

	// bob follows alice, with the notification alice would have received
	bob, alice := seeded[1], seeded[0]
	n := &entity.Notification{FromUserID: bob.ID, ToUserID: alice.ID, Type: entity.NotificationFollow}
	created, err := follows.Follow(ctx, bob.ID, alice.ID, n)
	if err != nil {
		log.Fatalf("failed to seed follow: %v", err)
	}
	if created {
		fmt.Printf("bob now follows alice (notification %s)\n", n.ID)
	} else {
		fmt.Println("bob already follows alice")
	}
}
