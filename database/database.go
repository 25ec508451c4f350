package database

import (
	"fmt"

	"tenanthub/internal/domain/billing"
	"tenanthub/internal/domain/identity"
	"tenanthub/internal/domain/orgs"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and migrates the schema. TranslateError is
// on so unique-constraint violations surface as gorm.ErrDuplicatedKey
// and can be mapped to conflicts instead of generic failures.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return nil, fmt.Errorf("enable pgcrypto extension: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates all domain tables. Shared with the test
// suites, which run it against an in-memory store.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		// identity
		&identity.UserAccount{},
		&identity.UserProfile{},
		&identity.UserPassword{},

		// tenancy
		&orgs.Organization{},
		&orgs.Membership{},

		// billing
		&billing.Plan{},
		&billing.Subscription{},
		&billing.PaymentProfile{},
		&billing.Invoice{},
		&billing.InvoiceLineItem{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
