package db

import (
	"fmt"

	"gorm.io/gorm"
)

// EnsureLikeSetIndex создает составной уникальный индекс на post_likes.
// AutoMigrate его тоже создает по тегам модели, но индекс критичен для
// корректности toggle (атомарный INSERT ... ON CONFLICT), поэтому
// проверяем его наличие отдельной миграцией.
func EnsureLikeSetIndex(db *gorm.DB) error {
	name := "post_likes_post_user_key"

	applied, err := isMigrationApplied(db, name)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	createIndexSQL := fmt.Sprintf(`
		CREATE UNIQUE INDEX IF NOT EXISTS %s ON post_likes (post_id, user_id);
	`, name)
	if err := db.Exec(createIndexSQL).Error; err != nil {
		return fmt.Errorf("failed to create index %s: %w", name, err)
	}

	return markMigrationApplied(db, name)
}

func isMigrationApplied(db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.Table("migrations").Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func markMigrationApplied(db *gorm.DB, name string) error {
	return db.Exec("INSERT INTO migrations (name, applied_at) VALUES (?, CURRENT_TIMESTAMP)", name).Error
}
