package infra

import (
	"time"

	"digitask/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the PostgreSQL connection pool and runs migrations.
func NewDatabase(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Region{},
		&model.Warehouse{},
		&model.Product{},
		&model.InventoryBalance{},
		&model.StockMovement{},
		&model.UserLocation{},
		&model.LocationHistory{},
		&model.Task{},
		&model.TaskProduct{},
		&model.Notification{},
		&model.ChatGroup{},
		&model.ChatMember{},
		&model.ChatMessage{},
	)
}
