package categories

import (
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ilmhub_backend/internals/features/library/categories/model"
	helper "ilmhub_backend/internals/helpers"
)

type CategorySeed struct {
	CategoryName        string `json:"category_name"`
	CategoryKind        string `json:"category_kind"`
	CategoryDescription string `json:"category_description"`
}

// SeedCategoriesFromJSON inserts the categories that are not there yet; (kind, slug) is the key.
func SeedCategoriesFromJSON(db *gorm.DB, filePath string) (int, error) {
	log.Println("📥 Reading file:", filePath)
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return 0, err
	}
	var seeds []CategorySeed
	if err := sonic.Unmarshal(raw, &seeds); err != nil {
		return 0, err
	}
	return SeedCategories(db, seeds)
}

func SeedCategories(db *gorm.DB, seeds []CategorySeed) (int, error) {
	rows := make([]model.CategoryModel, 0, len(seeds))
	for _, s := range seeds {
		rows = append(rows, model.CategoryModel{
			CategoryName:        s.CategoryName,
			CategorySlug:        helper.Slugify(s.CategoryName, 140),
			CategoryKind:        s.CategoryKind,
			CategoryDescription: s.CategoryDescription,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category_kind"}, {Name: "category_slug"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	log.Printf("✅ %d categories seeded (%d skipped)", res.RowsAffected, int64(len(rows))-res.RowsAffected)
	return int(res.RowsAffected), nil
}
