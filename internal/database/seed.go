// internal/database/seed.go
package database

import (
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
)

// SeedDemoData loads a small demo dataset: two creators, an original
// piece and a remix of it. Safe to run repeatedly, it skips seeding
// when any user already exists.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if count > 0 {
		logrus.Info("Database already has users, skipping demo seed")
		return nil
	}

	alice := models.User{
		Username:      "alice_creates",
		Email:         "alice@example.com",
		WalletAddress: "0x1111111111111111111111111111111111111111",
		UserType:      models.UserTypeCreator,
		Status:        models.UserStatusActive,
	}
	bob := models.User{
		Username:      "bob_remixes",
		Email:         "bob@example.com",
		WalletAddress: "0x2222222222222222222222222222222222222222",
		UserType:      models.UserTypeCreator,
		Status:        models.UserStatusActive,
	}
	if err := alice.SetPassword("demo1234!"); err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	if err := bob.SetPassword("demo1234!"); err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&alice).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}
		if err := tx.Create(&bob).Error; err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		original := models.ContentItem{
			CreatorID:     alice.ID,
			AuthorAddress: alice.WalletAddress,
			Title:         "Sunset over the harbor",
			Description:   "Original photograph, open for remixing",
			ContentType:   models.ContentTypeImage,
			LicenseID:     "remix",
			Status:        models.ContentStatusActive,
			Tags:          pq.StringArray{"photography", "sunset"},
		}
		if err := tx.Create(&original).Error; err != nil {
			return fmt.Errorf("failed to seed content: %w", err)
		}

		remix := models.ContentItem{
			CreatorID:     bob.ID,
			AuthorAddress: bob.WalletAddress,
			ParentID:      &original.ID,
			Title:         "Sunset over the harbor (glitch edit)",
			Description:   "Glitch-art rework of the harbor sunset",
			ContentType:   models.ContentTypeImage,
			LicenseID:     "remix",
			Status:        models.ContentStatusActive,
			Tags:          pq.StringArray{"glitch", "remix"},
		}
		if err := tx.Create(&remix).Error; err != nil {
			return fmt.Errorf("failed to seed content: %w", err)
		}

		if err := tx.Model(&original).UpdateColumn("remix_count", 1).Error; err != nil {
			return fmt.Errorf("failed to update remix count: %w", err)
		}

		logrus.Info("Demo data seeded")
		return nil
	})
}
