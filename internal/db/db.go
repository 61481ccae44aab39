package db

import (
	"tipstock/internal/config"
	"tipstock/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := config.Get().DatabaseURL
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=tipstock port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	zap.L().Info("Database connection established")

	if err := Migrate(DB); err != nil {
		zap.L().Fatal("Failed to migrate database", zap.Error(err))
	}
	zap.L().Info("Database migration completed")
}

// Migrate applies the schema to the given connection. Split out so the
// test suite can run it against an in-memory database.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.EmailVerification{},
		&models.Tag{},
		&models.Tip{},
		&models.Code{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
	)
}
