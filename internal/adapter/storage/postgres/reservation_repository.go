package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

// activeStatuses are the statuses in which a reservation still holds its vehicle
var activeStatuses = []domain.ReservationStatus{
	domain.ReservationStatusPending,
	domain.ReservationStatusApproved,
	domain.ReservationStatusPickedUp,
}

type ReservationRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewReservationRepository(db *gorm.DB, log *zap.Logger) ports.ReservationRepository {
	return &ReservationRepository{
		db:  db,
		log: log,
	}
}

func (r *ReservationRepository) Save(ctx context.Context, res *domain.Reservation) error {
	result := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(res)
	if result.Error != nil {
		r.log.Error("Failed to save reservation", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	var res domain.Reservation
	result := r.db.WithContext(ctx).Preload("AddOns").Preload("Invoice").First(&res, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &res, nil
}

func (r *ReservationRepository) FindByCustomerID(ctx context.Context, customerID string, status string, limit, offset int) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	query := r.db.WithContext(ctx).Preload("Invoice").Where("customer_id = ?", customerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	result := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}
	return reservations, nil
}

func (r *ReservationRepository) FindByVehicleID(ctx context.Context, vehicleID string) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	result := r.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID).Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}
	return reservations, nil
}

func (r *ReservationRepository) FindActiveByVehicleID(ctx context.Context, vehicleID string) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	result := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND status IN ?", vehicleID, activeStatuses).
		Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}
	return reservations, nil
}

func (r *ReservationRepository) FindOverlapping(ctx context.Context, vehicleID string, pickup, ret time.Time) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	result := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND status IN ? AND pickup_date < ? AND return_date > ?",
			vehicleID, activeStatuses, ret, pickup).
		Find(&reservations)
	if result.Error != nil {
		return nil, result.Error
	}
	return reservations, nil
}

func (r *ReservationRepository) CountByCustomerAndStatus(ctx context.Context, customerID string, statuses []domain.ReservationStatus) (int, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&domain.Reservation{}).
		Where("customer_id = ? AND status IN ?", customerID, statuses).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(count), nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Reservation{}, "id = ?", id).Error
}
