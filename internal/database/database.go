package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rhwbclub/pulse-backend/internal/config"
	"github.com/rhwbclub/pulse-backend/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate for all models.
func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.RoleEntry{},
		&models.CoachAssignment{},
		&models.RosterAssignment{},
		&models.RunnerProfile{},
		&models.Season{},
		&models.MesoScore{},
		&models.CumulativeScore{},
		&models.ActivitySummary{},
		&models.CoachFeedback{},
		&models.VeerFeedback{},
		&models.SystemLog{},
	)
}

// EnsureRosterFunction creates the fetch_runners_for_coach SQL function the
// roster fetcher and authorization resolver call. Idempotent and read-only at
// call time.
func EnsureRosterFunction() error {
	const ddl = `
CREATE OR REPLACE FUNCTION fetch_runners_for_coach(p_season_no integer, p_coach_name text)
RETURNS TABLE(email_id text, runner_name text)
LANGUAGE sql STABLE AS $$
    SELECT rp.email_id::text, rp.runner_name::text
    FROM rhwb_rosters r
    JOIN runners_profile rp ON rp.email_id = r.email_id
    WHERE r.season_no = p_season_no
      AND r.coach_name = p_coach_name
$$;`
	return DB.Exec(ddl).Error
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
