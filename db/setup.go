package db

import (
	"strings"

	"github.com/askbox/askbox/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDatabase opens the connection described by dsn. A "sqlite://" prefix
// selects the embedded driver for local development and tests; anything else
// is handed to the Postgres driver.
func ConnectDatabase(dsn string) error {
	var dialector gorm.Dialector

	if strings.HasPrefix(dsn, "sqlite://") {
		dialector = sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	} else {
		dialector = postgres.Open(dsn)
	}

	var err error

	DB, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	if strings.HasPrefix(dsn, "sqlite://") {
		// A single connection keeps in-memory databases coherent.
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return nil
}

func MigrateDatabase() error {
	entities := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Question{},
		&models.Like{},
		&models.Comment{},
	}

	migrator := DB.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := DB.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}
