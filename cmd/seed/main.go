package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/BenjaminMehrez/ChallengeWithYari/config"
	"github.com/BenjaminMehrez/ChallengeWithYari/pkg/helpers"
)

// Seeds a superuser and a demo account for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.Env == "production" {
		log.Fatal("refusing to seed in production")
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	seed := []struct {
		email     string
		username  string
		password  string
		superuser bool
	}{
		{"admin@example.com", "admin", "admin12345", true},
		{"demo@example.com", "demoUser", "password123", false},
	}

	for _, s := range seed {
		hash, err := helpers.HashPassword(s.password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		var id string
		err = db.QueryRow(`
			INSERT INTO users (email, username, password_hash, is_superuser)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
			RETURNING id
		`, s.email, s.username, hash, s.superuser).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", s.email, err)
		}
		fmt.Printf("seeded user: id=%s email=%s username=%s password=%s superuser=%v\n",
			id, s.email, s.username, s.password, s.superuser)
	}
}
