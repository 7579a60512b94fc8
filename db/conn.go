// Package db contains things related to SQlite
package db

import (
	"fmt"
	"os"

	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/pkg/util"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	// If running in a docker container don't allow the sqlite file to be created.
	// The host should instead mount it using volumes
	if util.IsRunningInDocker() {
		if _, err := os.Stat("downloads.db"); err != nil {
			if err == os.ErrNotExist {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to /app/downloads.db")
			}
		}
	}

	db, err := gorm.Open(sqlite.Open("downloads.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}

	err = db.AutoMigrate(model.Download{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
