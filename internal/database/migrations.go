package database

import (
	"github.com/freightfloo/freightfloo-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Shipment{},
		&models.Bid{},
		&models.Payment{},
		&models.Refund{},
		&models.Review{},
		&models.Document{},
		&models.Truck{},
		&models.Driver{},
		&models.Trip{},
		&models.Notification{},
		&models.NotificationPreference{},
		&models.OTP{},
	)
	if err != nil {
		return err
	}

	// Update users table for accounts created before the company fields existed
	if db.Migrator().HasTable(&models.User{}) {
		columns := []string{
			"ADD COLUMN IF NOT EXISTS company_name text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS company_phone text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS mc_number text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS dot_number text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS equipment_types text DEFAULT ''",
			"ADD COLUMN IF NOT EXISTS role text DEFAULT 'SHIPPER'",
		}

		for _, column := range columns {
			if err := db.Exec("ALTER TABLE users " + column).Error; err != nil {
				return err
			}
		}

		// Update constraint
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('SHIPPER', 'CARRIER', 'ADMIN', 'BOTH'))`)
	}

	// Shipments created before tracking sub-states shipped need the POD columns
	if db.Migrator().HasTable(&models.Shipment{}) {
		var columnExists bool
		err := db.Raw(`
			SELECT EXISTS (
				SELECT 1
				FROM information_schema.columns
				WHERE table_name = 'shipments'
				AND column_name = 'pod_received'
			)`).Scan(&columnExists).Error
		if err != nil {
			return err
		}

		if !columnExists {
			if err := db.Exec(`ALTER TABLE shipments ADD COLUMN pod_received boolean DEFAULT false`).Error; err != nil {
				return err
			}
			if err := db.Exec(`ALTER TABLE shipments ADD COLUMN IF NOT EXISTS pod_image text DEFAULT ''`).Error; err != nil {
				return err
			}
			if err := db.Exec(`ALTER TABLE shipments ADD COLUMN IF NOT EXISTS pod_notes text DEFAULT ''`).Error; err != nil {
				return err
			}
		}

		db.Exec(`ALTER TABLE shipments DROP CONSTRAINT IF EXISTS shipments_pricing_type_check`)
		db.Exec(`ALTER TABLE shipments ADD CONSTRAINT shipments_pricing_type_check CHECK (pricing_type IN ('auction', 'offer'))`)
	}

	return nil
}
