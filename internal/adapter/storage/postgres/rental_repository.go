package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

type RentalRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewRentalRepository(db *gorm.DB, log *zap.Logger) ports.RentalRepository {
	return &RentalRepository{
		db:  db,
		log: log,
	}
}

func (r *RentalRepository) Save(ctx context.Context, rental *domain.Rental) error {
	result := r.db.WithContext(ctx).Save(rental)
	if result.Error != nil {
		r.log.Error("Failed to save rental", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *RentalRepository) FindByID(ctx context.Context, id string) (*domain.Rental, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *RentalRepository) FindByReservationID(ctx context.Context, reservationID string) (*domain.Rental, error) {
	return r.findOne(ctx, "reservation_id = ?", reservationID)
}

func (r *RentalRepository) FindByPickupToken(ctx context.Context, token string) (*domain.Rental, error) {
	return r.findOne(ctx, "pickup_token = ?", token)
}

func (r *RentalRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Rental, error) {
	var rental domain.Rental
	result := r.db.WithContext(ctx).First(&rental, query, arg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &rental, nil
}
