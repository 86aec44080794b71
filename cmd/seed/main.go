package main

import (
	"flag"
	"log"

	"github.com/oggyb/vidrec/internal/config"
	"github.com/oggyb/vidrec/internal/db"
)

func main() {
	seed := flag.Int64("seed", 1, "random seed for generated data")
	flag.Parse()

	// Load configuration
	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	if err := db.SeedTestData(database, *seed); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("Seeding completed.")
}
