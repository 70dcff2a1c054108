package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name        string
	description string
	unitPrice   decimal.Decimal
	stock       int
	imageURL    string
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	products := []seedProduct{
		{"Deep home cleaning", "Full-house cleaning, up to 3 bedrooms", decimal.RequireFromString("350000"), 50, ""},
		{"Window washing", "Per-window exterior and interior wash", decimal.RequireFromString("25000"), 200, ""},
		{"AC service", "Split unit inspection and refill", decimal.RequireFromString("150000"), 80, ""},
		{"Garden maintenance", "Monthly trim and weed removal", decimal.RequireFromString("200000"), 30, ""},
		{"Laundry detergent 1kg", "", decimal.RequireFromString("45000"), 500, ""},
		{"Microfiber cloth pack", "Pack of 10", decimal.RequireFromString("60000"), 300, ""},
	}

	inserted := 0
	for _, p := range products {
		tag, err := pool.Exec(ctx, `
			INSERT INTO products (name, description, unit_price, stock, image_url)
			SELECT $1, NULLIF($2, ''), $3, $4, NULLIF($5, '')
			WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)`,
			p.name, p.description, p.unitPrice.String(), p.stock, p.imageURL)
		if err != nil {
			log.Fatalf("Failed to insert %q: %v", p.name, err)
		}
		inserted += int(tag.RowsAffected())
	}

	log.Printf("Seed complete: %d products inserted", inserted)
}
