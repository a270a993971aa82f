package migration

import (
	"foodsafety-backend/entities"
	"foodsafety-backend/internal/utils/logger"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB, log *logger.Logger) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	models := []struct {
		name  string
		model interface{}
	}{
		{"user", &entities.User{}},
		{"product", &entities.Product{}},
		{"review", &entities.Review{}},
		{"complaint", &entities.Complaint{}},
		{"incident", &entities.Incident{}},
		{"fssai registration", &entities.FSSAIRegistration{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			log.Error("error migrating table", "table", m.name, "error", err)
			return err
		}
	}

	log.Info("database migration complete")
	return nil
}
