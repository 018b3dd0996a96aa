// Package main provides a tool to seed the store with test study data.
//
// It creates users, links them as friends, and logs study sessions over the
// past days so the stats, badge, and leaderboard endpoints have something to
// show. Storage settings come from the same environment variables the server
// reads, and a bearer token is printed for each user.
//
// Usage:
//
//	DATA_PATH=~/Studly/data go run ./cmd/seed
//	STORAGE_BACKEND=sqlite go run ./cmd/seed -users 8 -days 21
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/auth"
	"github.com/HaMeD1379/Studly-sub001/internal/config"
	"github.com/HaMeD1379/Studly-sub001/internal/di/providers"
	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/id"
)

var (
	userCount = flag.Int("users", 5, "Number of test users to create")
	days      = flag.Int("days", 14, "Days of study history to generate")
	tokenTTL  = flag.Duration("token-ttl", 24*time.Hour, "Lifetime of the printed bearer tokens")
)

var (
	names    = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Frances", "Ken", "Radia", "Tim"}
	subjects = []string{"Calculus", "Linear Algebra", "Physics", "Organic Chemistry", "History", "Spanish"}
)

func main() {
	flag.Parse()

	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	backend, path, err := providers.OpenBackend(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer backend.Close()

	fmt.Printf("Seeding %s store at: %s\n", cfg.Storage.Backend, path)

	keyHex := cfg.Auth.TokenKeyHex
	if keyHex == "" {
		keyHex, err = auth.LoadOrGenerateKey(cfg.Storage.BasePath)
		if err != nil {
			log.Fatalf("Failed to load auth key: %v", err)
		}
	}
	tokens, err := auth.NewTokenService(keyHex, *tokenTTL)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	ctx := context.Background()
	now := time.Now()
	rng := rand.New(rand.NewPCG(uint64(now.UnixNano()), 0))

	users := createUsers(ctx, backend, min(*userCount, len(names)))
	linkFriends(ctx, backend, users, now)

	for _, user := range users {
		created := seedSessions(ctx, backend, rng, user.ID, now)
		fmt.Printf("\n%s (%s): %d sessions\n", *user.DisplayName, user.ID, created)

		token, err := tokens.GenerateAccessToken(user.ID)
		if err != nil {
			log.Fatalf("Failed to mint token for %s: %v", user.ID, err)
		}
		fmt.Printf("  Authorization: Bearer %s\n", token)
	}

	fmt.Println("\nSeeding complete!")
}

func createUsers(ctx context.Context, backend providers.Backend, n int) []domain.User {
	users := make([]domain.User, 0, n)
	for _, name := range names[:n] {
		user := domain.User{ID: id.MustGenerate(id.PrefixUser), DisplayName: &name}
		if err := backend.UpsertUser(ctx, &user); err != nil {
			log.Fatalf("Failed to create user %s: %v", name, err)
		}
		users = append(users, user)
	}
	return users
}

// linkFriends connects each user to the next one, so friends boards differ per user.
func linkFriends(ctx context.Context, backend providers.Backend, users []domain.User, now time.Time) {
	for i := 1; i < len(users); i++ {
		if err := backend.AddFriendship(ctx, users[i-1].ID, users[i].ID, now); err != nil {
			log.Fatalf("Failed to link %s and %s: %v", users[i-1].ID, users[i].ID, err)
		}
	}
}

func seedSessions(ctx context.Context, backend providers.Backend, rng *rand.Rand, userID string, now time.Time) int {
	created := 0
	for day := *days - 1; day >= 1; day-- {
		// 75% chance of studying on any given day
		if rng.Float32() > 0.75 {
			continue
		}

		for range 1 + rng.IntN(3) {
			hour := 7 + rng.IntN(14)
			start := time.Date(now.Year(), now.Month(), now.Day()-day, hour, rng.IntN(60), 0, 0, now.Location())
			minutes := 15 + rng.IntN(76)

			session := domain.NewStudySession(
				id.MustGenerate(id.PrefixSession),
				userID,
				subjects[rng.IntN(len(subjects))],
				start,
				minutes,
			)
			if err := backend.CreateSession(ctx, session); err != nil {
				log.Printf("Failed to create session for %s: %v", userID, err)
				continue
			}
			created++
		}
	}
	return created
}
