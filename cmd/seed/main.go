package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"friendgraph/internal/social"
	"friendgraph/internal/store"
	"friendgraph/pkg/config"
	"friendgraph/pkg/logger"
)

type seedUser struct {
	username string
	age      int
	hobbies  []string
}

var sampleUsers = []seedUser{
	{"alice", 29, []string{"reading", "hiking", "chess"}},
	{"bob", 34, []string{"hiking", "cooking"}},
	{"carol", 25, []string{"chess", "painting", "cooking"}},
	{"dave", 41, []string{"fishing"}},
}

// Pairs of sample usernames to link after creation.
var sampleLinks = [][2]string{
	{"alice", "bob"},
	{"alice", "carol"},
	{"bob", "carol"},
}

func main() {
	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	st, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.Close()

	svc := social.NewService(st)
	ctx := context.Background()

	ids := make(map[string]string, len(sampleUsers))
	for _, u := range sampleUsers {
		created, err := svc.CreateUser(ctx, u.username, u.age, u.hobbies)
		if err != nil {
			log.Fatal("Failed to create user",
				zap.String("username", u.username),
				zap.Error(err),
			)
		}
		ids[u.username] = created.ID
	}

	for _, pair := range sampleLinks {
		if _, err := svc.Link(ctx, ids[pair[0]], ids[pair[1]]); err != nil {
			log.Fatal("Failed to link users",
				zap.String("user_a", pair[0]),
				zap.String("user_b", pair[1]),
				zap.Error(err),
			)
		}
	}

	log.Info("Seeding complete",
		zap.Int("users", len(sampleUsers)),
		zap.Int("friendships", len(sampleLinks)),
	)
}
