package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedMarkupTiers(db)
	seedProducts(db)
	seedCurrencyRates(db)
	seedShippingRates(db)

	log.Println("Seeding completed successfully!")
}

func seedMarkupTiers(db *sql.DB) {
	tiers := []struct {
		name       string
		defaultBps int
	}{
		{"retail", 3500},
		{"wholesale", 2000},
		{"project", 1200},
	}
	for _, t := range tiers {
		var id int64
		err := db.QueryRow(`
			INSERT INTO markup_tiers (name, default_markup_bps)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET default_markup_bps = EXCLUDED.default_markup_bps
			RETURNING id
		`, t.name, t.defaultBps).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to seed tier %s: %v", t.name, err)
		}
		if t.name == "retail" {
			mustExec(db, `
				INSERT INTO tier_brand_markups (tier_id, brand, markup_bps, position)
				VALUES ($1, 'Siemens', 2800, 0), ($1, 'Schneider', 3000, 1)
				ON CONFLICT (tier_id, brand) DO UPDATE SET markup_bps = EXCLUDED.markup_bps
			`, id)
			mustExec(db, `
				INSERT INTO tier_category_markups (tier_id, category, markup_bps, position)
				VALUES ($1, 'Cables', 4000, 0)
				ON CONFLICT (tier_id, category) DO UPDATE SET markup_bps = EXCLUDED.markup_bps
			`, id)
		}
	}
	log.Println("Seeded markup tiers")
}

func seedProducts(db *sql.DB) {
	products := []struct {
		name      string
		brand     string
		category  string
		costCents int64
		listCents int64
		currency  string
	}{
		{"Contactor 3P 32A", "Schneider", "Switchgear", 18500, 26900, "MYR"},
		{"PLC CPU Module", "Siemens", "Automation", 425000, 599000, "MYR"},
		{"Armoured Cable 4C 16mm (100m)", "Universal", "Cables", 210000, 298000, "MYR"},
		{"Proximity Sensor M18", "Omron", "Sensors", 4200, 6500, "USD"},
	}
	for _, p := range products {
		mustExec(db, `
			INSERT INTO products (name, brand, category, cost_cents, list_cents, currency)
			SELECT $1, $2, $3, $4, $5, $6
			WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)
		`, p.name, p.brand, p.category, p.costCents, p.listCents, p.currency)
	}
	log.Println("Seeded products")
}

func seedCurrencyRates(db *sql.DB) {
	rates := []struct {
		from   string
		to     string
		micros int64
	}{
		{"USD", "MYR", 4650000},
		{"EUR", "MYR", 5020000},
		{"SGD", "MYR", 3440000},
		{"RMB", "MYR", 640000},
		{"JPY", "MYR", 31500},
	}
	for _, r := range rates {
		mustExec(db, `
			INSERT INTO currency_rates (from_code, to_code, rate_micros)
			VALUES ($1, $2, $3)
			ON CONFLICT (from_code, to_code) DO UPDATE
			SET rate_micros = EXCLUDED.rate_micros, updated_at = now()
		`, r.from, r.to, r.micros)
	}
	log.Println("Seeded currency rates")
}

func seedShippingRates(db *sql.DB) {
	tiers := []struct {
		method  string
		zone    string
		minG    int64
		maxG    int64
		baseC   int64
		perKgC  int64
	}{
		{"courier", "west-my", 0, 5000, 800, 150},
		{"courier", "west-my", 5000, 30000, 1500, 120},
		{"land", "west-my", 0, 100000, 3000, 60},
		{"air", "intl-sea", 0, 45000, 12000, 2200},
		{"sea", "intl-sea", 0, 1000000, 25000, 45},
	}
	for _, t := range tiers {
		mustExec(db, `
			INSERT INTO shipping_rate_tiers (method, zone_id, min_weight_gram, max_weight_gram, base_rate_cents, per_kg_rate_cents)
			SELECT $1, $2, $3, $4, $5, $6
			WHERE NOT EXISTS (
				SELECT 1 FROM shipping_rate_tiers
				WHERE method = $1 AND zone_id = $2 AND min_weight_gram = $3
			)
		`, t.method, t.zone, t.minG, t.maxG, t.baseC, t.perKgC)
	}
	log.Println("Seeded shipping rate tiers")
}

func mustExec(db *sql.DB, query string, args ...any) {
	if _, err := db.Exec(query, args...); err != nil {
		log.Fatalf("Seed query failed: %v", err)
	}
}
