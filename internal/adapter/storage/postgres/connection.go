package postgres

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/observability/telemetry"
)

// NewConnection initializes a new PostgreSQL connection using GORM
func NewConnection(url string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := registerLatencyCallbacks(db); err != nil {
		return nil, fmt.Errorf("failed to register query callbacks: %w", err)
	}

	log.Info("Successfully connected to PostgreSQL")
	return db, nil
}

// registerLatencyCallbacks times every statement and feeds the query
// latency histogram.
func registerLatencyCallbacks(db *gorm.DB) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet("crfms:query_start", time.Now())
	}
	after := func(tx *gorm.DB) {
		if v, ok := tx.InstanceGet("crfms:query_start"); ok {
			if start, ok := v.(time.Time); ok {
				telemetry.DatabaseLatency.Observe(time.Since(start).Seconds())
			}
		}
	}

	if err := db.Callback().Create().Before("gorm:create").Register("crfms:before_create", before); err != nil {
		return err
	}
	if err := db.Callback().Create().After("gorm:create").Register("crfms:after_create", after); err != nil {
		return err
	}
	if err := db.Callback().Query().Before("gorm:query").Register("crfms:before_query", before); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register("crfms:after_query", after); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("crfms:before_update", before); err != nil {
		return err
	}
	if err := db.Callback().Update().After("gorm:update").Register("crfms:after_update", after); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("crfms:before_delete", before); err != nil {
		return err
	}
	if err := db.Callback().Delete().After("gorm:delete").Register("crfms:after_delete", after); err != nil {
		return err
	}
	return nil
}

// RunMigrations applies the schema for all CRFMS entities
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Customer{},
		&domain.Vehicle{},
		&domain.MaintenanceRecord{},
		&domain.InsuranceTier{},
		&domain.AddOn{},
		&domain.Reservation{},
		&domain.ReservationAddOn{},
		&domain.Invoice{},
		&domain.Rental{},
		&domain.Payment{},
	)
}

// Close closes the underlying sql.DB pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
