package persistence

import (
	"context"
	"fmt"

	"github.com/orderfeed/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Migrate creates the shipping info table the feed owns. With storeTables set it
// also creates the commerce store tables, for local development and tests.
func Migrate(ctx context.Context, db *gorm.DB, storeTables bool) error {
	tables := []any{&models.ShippingInfoModel{}}
	if storeTables {
		tables = models.All()
	}
	if err := db.WithContext(ctx).AutoMigrate(tables...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// EnsureOrderStatus inserts the status when no status with handle exists
func EnsureOrderStatus(ctx context.Context, db *gorm.DB, handle, name string) error {
	row := models.OrderStatusModel{Handle: handle, Name: name}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "handle"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("ensure order status %q: %w", handle, err)
	}
	return nil
}
