package seeds

import (
	"fmt"
	"log"
	"path/filepath"

	"gorm.io/gorm"

	"ilmhub_backend/internals/configs"
	"ilmhub_backend/internals/seeds/categories"
)

// RunAllSeeds loads every JSON fixture under SEED_DIR. Seeds only insert
// missing rows, so running it twice is harmless.
func RunAllSeeds(db *gorm.DB) error {
	dir := configs.GetEnv("SEED_DIR", "internals/seeds")

	n, err := categories.SeedCategoriesFromJSON(db, filepath.Join(dir, "categories", "data_categories.json"))
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	log.Printf("✅ categories: %d inserted", n)
	return nil
}
