package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	pgstore "github.com/dwarvesf/justthetip/internal/store/postgres"
	"github.com/dwarvesf/justthetip/internal/utils/config"
	"github.com/dwarvesf/justthetip/internal/utils/logger"
)

// runMigrations applies migrations/schema. direction "down" rolls back one step.
func runMigrations(db *gorm.DB, direction string, logger *logger.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "get database connection")
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return errors.Wrap(err, "create postgres driver")
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+filepath.Join("migrations", "schema"),
		"postgres", driver)
	if err != nil {
		return errors.Wrap(err, "create migrate instance")
	}

	if direction == "down" {
		err = m.Steps(-1)
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrapf(err, "migrate %s", direction)
	}

	version, dirty, _ := m.Version()
	logger.Info("[runMigrations] migrations completed", map[string]string{
		"direction": direction,
		"version":   formatVersion(version, dirty),
	})
	return nil
}

func formatVersion(version uint, dirty bool) string {
	v := strconv.FormatUint(uint64(version), 10)
	if dirty {
		return v + " (dirty)"
	}
	return v
}

func main() {
	appConfig := config.New()
	logger := logger.New(appConfig.Environment)

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	db := pgstore.New(appConfig, logger)

	if err := runMigrations(db, direction, logger); err != nil {
		logger.Error("[main][runMigrations] failed to run migrations", map[string]string{
			"error": err.Error(),
		})
		os.Exit(1)
	}
}
