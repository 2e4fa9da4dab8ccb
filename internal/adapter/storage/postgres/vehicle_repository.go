package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

type VehicleRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewVehicleRepository(db *gorm.DB, log *zap.Logger) ports.VehicleRepository {
	return &VehicleRepository{
		db:  db,
		log: log,
	}
}

func (r *VehicleRepository) Save(ctx context.Context, v *domain.Vehicle) error {
	result := r.db.WithContext(ctx).Save(v)
	if result.Error != nil {
		r.log.Error("Failed to save vehicle", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *VehicleRepository) FindByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	var v domain.Vehicle
	result := r.db.WithContext(ctx).Preload("MaintenanceRecords").First(&v, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &v, nil
}

func (r *VehicleRepository) FindAll(ctx context.Context, filter map[string]interface{}) ([]domain.Vehicle, error) {
	var vehicles []domain.Vehicle
	query := r.db.WithContext(ctx)
	if status, ok := filter["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if branchID, ok := filter["branch_id"]; ok {
		query = query.Where("branch_id = ?", branchID)
	}

	result := query.Find(&vehicles)
	if result.Error != nil {
		return nil, result.Error
	}
	return vehicles, nil
}

func (r *VehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Vehicle{}).Where("id = ?", id).Update("status", status)
	return result.Error
}

func (r *VehicleRepository) SaveMaintenanceRecord(ctx context.Context, rec *domain.MaintenanceRecord) error {
	result := r.db.WithContext(ctx).Save(rec)
	if result.Error != nil {
		r.log.Error("Failed to save maintenance record", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *VehicleRepository) FindMaintenanceRecord(ctx context.Context, vehicleID, recordID string) (*domain.MaintenanceRecord, error) {
	var rec domain.MaintenanceRecord
	result := r.db.WithContext(ctx).First(&rec, "id = ? AND vehicle_id = ?", recordID, vehicleID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &rec, nil
}

func (r *VehicleRepository) FindMaintenanceRecords(ctx context.Context, vehicleID string) ([]domain.MaintenanceRecord, error) {
	var recs []domain.MaintenanceRecord
	result := r.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID).Order("created_at ASC").Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	return recs, nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Vehicle{}, "id = ?", id).Error
}
