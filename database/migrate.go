package database

import (
	"fmt"
	"os"
	"strings"

	"github.com/yeremiapane/dinein/models"
	"github.com/yeremiapane/dinein/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service needs.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Info("AutoMigrate completed")
	return nil
}

// ExecuteSQLFile runs the ';'-separated statements of a SQL file, e.g.
// store-specific indexes that AutoMigrate cannot express. It stops at the
// first failing statement.
func ExecuteSQLFile(db *gorm.DB, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	executed := 0
	for _, stmt := range strings.Split(string(raw), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "--") {
			continue
		}
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("statement %d: %w", executed+1, err)
		}
		executed++
	}
	utils.InfoLogger.WithField("statements", executed).Infof("executed %s", path)
	return nil
}
