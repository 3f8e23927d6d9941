package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/medisched/backend/internal/infrastructure/clients/postgres"
	"github.com/medisched/backend/pkg/config"
)

// Run from the repo root: go run ./scripts
const migrationPath = "migrations/001_initial_schema.sql"

type seedProvider struct {
	name       string
	speciality string
	email      string
	start      string
	end        string
	offDays    string
}

var seedProviders = []seedProvider{
	{"Dr. Adaeze Okafor", "General Practice", "adaeze.okafor@medisched.example", "09:00", "17:00", "SUNDAY"},
	{"Dr. Tunde Bakare", "Cardiology", "tunde.bakare@medisched.example", "08:00", "14:00", "SATURDAY,SUNDAY"},
	{"Dr. Chiamaka Eze", "Dermatology", "chiamaka.eze@medisched.example", "10:00", "18:00", "MONDAY"},
	{"Dr. Femi Adeyemi", "Pediatrics", "femi.adeyemi@medisched.example", "09:00", "13:00", "SUNDAY"},
	{"Dr. Ngozi Obi", "General Practice", "ngozi.obi@medisched.example", "13:00", "19:00", "WEDNESDAY,SUNDAY"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			DROP TABLE IF EXISTS
				message_outbox,
				reservations,
				availability_overrides,
				providers
			CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
	}

	schema, err := os.ReadFile(migrationPath)
	if err != nil {
		log.Fatalf("Failed to read migration file: %v", err)
	}
	if _, err := pgClient.DB().ExecContext(ctx, string(schema)); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("Schema applied")

	for _, p := range seedProviders {
		now := time.Now().UTC()
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO providers
				(id, name, speciality, email, consultation_start, consultation_end, off_days, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
			ON CONFLICT (email) DO NOTHING`,
			uuid.New().String(), p.name, p.speciality, p.email, p.start, p.end, p.offDays, now,
		)
		if err != nil {
			log.Fatalf("Failed to seed provider %s: %v", p.name, err)
		}
	}
	log.Printf("Seeded %d providers", len(seedProviders))
}
