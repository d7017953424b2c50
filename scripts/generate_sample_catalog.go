//go:build ignore

// generate_sample_catalog writes a gzipped discount catalogue together with
// the SQL seeding the clubs, athletes and events it refers to.
//
//	go run scripts/generate_sample_catalog.go
//	psql -f data/catalog/seed.sql
//	go run ./cmd/discount-import data/catalog/discounts.yaml.gz
package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fedkart/internal/model"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var (
	harbourClub  = uuid.MustParse("0b8e2a44-7c1d-4e0f-8a5b-6c7d8e9f0a01")
	valleyClub   = uuid.MustParse("0b8e2a44-7c1d-4e0f-8a5b-6c7d8e9f0a02")
	annaAthlete  = uuid.MustParse("9c1d2e3f-4a5b-4c6d-8e7f-0a1b2c3d4e01")
	brunoAthlete = uuid.MustParse("9c1d2e3f-4a5b-4c6d-8e7f-0a1b2c3d4e02")
	springOpen   = uuid.MustParse("1e2f3a4b-5c6d-4e7f-8a9b-0c1d2e3f4a01")
	relay        = uuid.MustParse("1e2f3a4b-5c6d-4e7f-8a9b-0c1d2e3f4a02")
	sprint       = uuid.MustParse("1e2f3a4b-5c6d-4e7f-8a9b-0c1d2e3f4a03")
	valleyCup    = uuid.MustParse("1e2f3a4b-5c6d-4e7f-8a9b-0c1d2e3f4a04")
)

type seedEvent struct {
	id     uuid.UUID
	club   uuid.UUID
	title  string
	price  string
	starts string
}

func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	validUntil := time.Date(time.Now().Year()+1, time.December, 31, 23, 59, 59, 0, time.UTC)
	discounts := []model.Discount{
		{
			ID:         uuid.MustParse("5a0f6c1e-3f0e-4d6b-9a4b-1d2f3e4a5b01"),
			Kind:       model.DiscountPersonal,
			Percentage: 95,
			ClubID:     harbourClub,
			ValidUntil: validUntil,
			AthleteID:  &annaAthlete,
			EventIDs:   []uuid.UUID{springOpen},
		},
		{
			ID:         uuid.MustParse("5a0f6c1e-3f0e-4d6b-9a4b-1d2f3e4a5b02"),
			Kind:       model.DiscountClub,
			Percentage: 10,
			ClubID:     harbourClub,
			ValidUntil: validUntil,
			EventIDs:   []uuid.UUID{springOpen, relay, sprint},
		},
		{
			ID:         uuid.MustParse("5a0f6c1e-3f0e-4d6b-9a4b-1d2f3e4a5b03"),
			Kind:       model.DiscountCombo,
			Percentage: 50,
			ClubID:     harbourClub,
			ValidUntil: validUntil,
			EventIDs:   []uuid.UUID{relay, sprint},
		},
		{
			ID:         uuid.MustParse("5a0f6c1e-3f0e-4d6b-9a4b-1d2f3e4a5b04"),
			Kind:       model.DiscountClub,
			Percentage: 20,
			ClubID:     valleyClub,
			ValidUntil: validUntil,
			EventIDs:   []uuid.UUID{valleyCup},
		},
	}

	catalogPath := filepath.Join(dataDir, "discounts.yaml.gz")
	if err := writeCatalogue(catalogPath, discounts); err != nil {
		log.Fatalf("Failed to create %s: %v", catalogPath, err)
	}
	fmt.Printf("Created %s with %d discounts\n", catalogPath, len(discounts))

	seedPath := filepath.Join(dataDir, "seed.sql")
	if err := os.WriteFile(seedPath, []byte(seedSQL()), 0644); err != nil {
		log.Fatalf("Failed to create %s: %v", seedPath, err)
	}
	fmt.Printf("Created %s\n", seedPath)

	fmt.Println("\nExpected discounts:")
	fmt.Println("  - Anna, Spring Open:      personal 95% beats club 10%")
	fmt.Println("  - Bruno, Relay + Sprint:  combo 50% beats club 10% on both")
	fmt.Println("  - Bruno, Valley Cup:      club 20% only for Valley members (none seeded)")
}

func writeCatalogue(filePath string, discounts []model.Discount) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := yaml.NewEncoder(gzipWriter)
	encoder.SetIndent(2)
	if err := encoder.Encode(map[string][]model.Discount{"discounts": discounts}); err != nil {
		return fmt.Errorf("failed to write catalogue: %w", err)
	}

	return encoder.Close()
}

func seedSQL() string {
	events := []seedEvent{
		{springOpen, harbourClub, "Spring Open", "25.00", "2026-04-12T09:00:00Z"},
		{relay, harbourClub, "Relay", "20.00", "2026-05-03T09:00:00Z"},
		{sprint, harbourClub, "Sprint", "30.00", "2026-05-03T14:00:00Z"},
		{valleyCup, valleyClub, "Valley Cup", "40.00", "2026-06-21T10:00:00Z"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO clubs (id, name) VALUES\n\t('%s', 'Harbour AC'),\n\t('%s', 'Valley Runners')\nON CONFLICT (id) DO NOTHING;\n\n", harbourClub, valleyClub)
	fmt.Fprintf(&b, "INSERT INTO athletes (id, name, club_id) VALUES\n\t('%s', 'Anna', '%s'),\n\t('%s', 'Bruno', '%s')\nON CONFLICT (id) DO NOTHING;\n\n", annaAthlete, harbourClub, brunoAthlete, harbourClub)

	b.WriteString("INSERT INTO events (id, club_id, title, price, starts_at) VALUES\n")
	for i, e := range events {
		sep := ","
		if i == len(events)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "\t('%s', '%s', '%s', %s, '%s')%s\n", e.id, e.club, e.title, e.price, e.starts, sep)
	}
	b.WriteString("ON CONFLICT (id) DO NOTHING;\n")

	return b.String()
}
