package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"foodsafety-backend/entities"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a private in-memory sqlite database with every entity
// migrated. One connection is kept so the in-memory database survives for the
// whole test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Product{},
		&entities.Review{},
		&entities.Complaint{},
		&entities.Incident{},
		&entities.FSSAIRegistration{},
	))
	return db
}

// SeedUser inserts a user with the given role and returns it.
func SeedUser(t *testing.T, db *gorm.DB, username, role string) *entities.User {
	t.Helper()
	user := &entities.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Role:     role,
		Company:  username + " Foods",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// SeedProduct inserts an active product with a far-future license expiry.
func SeedProduct(t *testing.T, db *gorm.DB, name, license string) *entities.Product {
	t.Helper()
	product := &entities.Product{
		Name:          name,
		FSSAILicense:  license,
		Category:      "packaged-foods",
		Status:        "active",
		Establishment: entities.Establishment{Name: name + " Pvt Ltd", Type: "manufacturer"},
		RegulatoryCompliance: entities.RegulatoryCompliance{
			FSSAIExpiryDate: time.Now().AddDate(1, 0, 0),
		},
	}
	require.NoError(t, db.Create(product).Error)
	return product
}
