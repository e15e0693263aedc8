package main

import (
	"context"
	"flag"
	"log"
	"os"

	"ai-storefront/internal/pkg/logger"
	"ai-storefront/internal/repository/filesystem"
	"ai-storefront/internal/repository/implementation"
	"ai-storefront/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	importRoot := flag.String("import", "", "content root to copy into the database after migrating")
	strict := flag.Bool("strict", false, "reject page folders without a numeric prefix")
	flag.Parse()

	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, false)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	log.Println("Step 2: Running AutoMigrate for content tables...")
	if err := implementation.AutoMigrate(db); err != nil {
		log.Fatal("Error: AutoMigrate failed:", err)
	}

	if *importRoot == "" {
		log.Println("Migration finished.")
		return
	}

	log.Printf("Step 3: Importing content from %s...", *importRoot)
	src := filesystem.NewContentRepository(*importRoot, *strict, logger.NewZapLogger("logs/migrate.log", false))
	stats, err := implementation.NewContentRepository(db).Import(context.Background(), src)
	if err != nil {
		log.Fatal("Error: Import failed:", err)
	}

	log.Printf("Imported %d pages, %d products, %d product descriptions, %d system assets",
		stats.Pages, stats.Products, stats.Descriptions, stats.Assets)
}
