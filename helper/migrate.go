package helper

//nolint:revive
import (
	"errors"
	"fmt"

	"travel/config"
	"travel/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	DirectionUp     = "up"
	DirectionDown   = "down"
	DirectionStepUp = "step-up"
	DirectionDrop   = "drop"

	migrationSource = "file://migrations/postgres"
)

var ErrUnknownDirection = errors.New("invalid direction, use 'up', 'down', 'drop' or 'step-up'")

// migrationURL points golang-migrate at the primary with the configured history table.
func migrationURL(cfg *config.Config) string {
	url := postgres.WriteDSN(cfg)

	if cfg.DB.Postgres.MigrationTable != "" {
		url += "&x-migrations-table=" + cfg.DB.Postgres.MigrationTable
	}

	return url
}

func apply(mig *migrate.Migrate, direction string) error {
	switch direction {
	case DirectionUp:
		return mig.Up()
	case DirectionDown:
		return mig.Steps(-1)
	case DirectionStepUp:
		return mig.Steps(1)
	case DirectionDrop:
		return mig.Down()
	}

	return ErrUnknownDirection
}

// Migrate runs the postgres migrations in the given direction. Having nothing to apply is not an error.
func Migrate(cfg *config.Config, direction string) error {
	mig, err := migrate.New(migrationSource, migrationURL(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err := apply(mig, direction); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migrations: %w", direction, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Str("direction", direction).Uint("version", version).Bool("dirty", dirty).Msg("Database migrations completed successfully")

	return nil
}
