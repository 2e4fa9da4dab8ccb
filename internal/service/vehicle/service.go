package vehicle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetops-io/crfms/internal/adapter/queue"
	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

const statusCacheTTL = 30 * time.Second

// Service implements VehicleService: fleet CRUD plus the maintenance rules
// that gate vehicle availability.
type Service struct {
	repo         ports.VehicleRepository
	reservations ports.ReservationRepository
	cache        ports.Cache
	mq           queue.MessageQueue
	log          *zap.Logger
}

// NewService creates a new vehicle service
func NewService(
	repo ports.VehicleRepository,
	reservations ports.ReservationRepository,
	cache ports.Cache,
	mq queue.MessageQueue,
	log *zap.Logger,
) *Service {
	return &Service{
		repo:         repo,
		reservations: reservations,
		cache:        cache,
		mq:           mq,
		log:          log,
	}
}

// Create registers a new vehicle in the fleet
func (s *Service) Create(ctx context.Context, v *domain.Vehicle) (*domain.Vehicle, error) {
	if v.PlateNumber == "" {
		return nil, fmt.Errorf("plate number is required")
	}
	if v.PricePerDay <= 0 {
		return nil, fmt.Errorf("price per day must be positive")
	}

	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.Status == "" {
		v.Status = domain.VehicleStatusAvailable
	}
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now

	if err := s.repo.Save(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to save vehicle: %w", err)
	}

	s.log.Info("Vehicle registered",
		zap.String("vehicle_id", v.ID),
		zap.String("plate", v.PlateNumber),
	)
	return v, nil
}

// Get retrieves a vehicle by ID, consulting the status cache first
func (s *Service) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, vehicleCacheKey(id)); err == nil && cached != "" {
			var v domain.Vehicle
			if err := json.Unmarshal([]byte(cached), &v); err == nil {
				return &v, nil
			}
		}
	}

	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	if v == nil {
		return nil, nil
	}

	if s.cache != nil {
		if data, err := json.Marshal(v); err == nil {
			if err := s.cache.Set(ctx, vehicleCacheKey(id), string(data), statusCacheTTL); err != nil {
				s.log.Debug("Failed to cache vehicle", zap.String("vehicle_id", id), zap.Error(err))
			}
		}
	}
	return v, nil
}

// List retrieves vehicles matching the filter
func (s *Service) List(ctx context.Context, filter map[string]interface{}) ([]domain.Vehicle, error) {
	return s.repo.FindAll(ctx, filter)
}

// AddMaintenanceRecord schedules maintenance on a vehicle. Scheduling never
// changes vehicle status; only approval removes the vehicle from the
// available pool, so a pending record cannot block a reservation attempt.
func (s *Service) AddMaintenanceRecord(ctx context.Context, vehicleID, agentID, description string) (*domain.MaintenanceRecord, error) {
	v, err := s.repo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	if v == nil {
		return nil, &domain.NotFoundError{Kind: "vehicle", ID: vehicleID}
	}

	now := time.Now()
	rec := &domain.MaintenanceRecord{
		ID:          uuid.New().String(),
		VehicleID:   vehicleID,
		Description: description,
		Odometer:    v.Odometer,
		ServiceDate: now,
		CreatedBy:   agentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.SaveMaintenanceRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save maintenance record: %w", err)
	}

	s.log.Info("Maintenance record created",
		zap.String("vehicle_id", vehicleID),
		zap.String("record_id", rec.ID),
		zap.String("agent_id", agentID),
	)
	return rec, nil
}

// ApproveMaintenance marks a pending record approved and takes the vehicle
// out of service. Approval is refused while the vehicle has an active
// reservation so maintenance cannot pull a car out from under a customer.
func (s *Service) ApproveMaintenance(ctx context.Context, vehicleID, recordID, managerID string) (*domain.Vehicle, error) {
	v, err := s.repo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to find vehicle: %w", err)
	}
	if v == nil {
		return nil, &domain.NotFoundError{Kind: "vehicle", ID: vehicleID}
	}

	rec, err := s.repo.FindMaintenanceRecord(ctx, vehicleID, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to find maintenance record: %w", err)
	}
	if rec == nil || rec.Approved {
		return nil, &domain.MaintenanceNotFoundError{VehicleID: vehicleID, RecordID: recordID}
	}

	active, err := s.reservations.FindActiveByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active reservations: %w", err)
	}
	if len(active) > 0 {
		return nil, fmt.Errorf("vehicle %s has %d active reservation(s); maintenance cannot be approved", vehicleID, len(active))
	}

	now := time.Now()
	rec.Approved = true
	rec.ApprovedBy = managerID
	rec.ApprovedAt = &now
	rec.UpdatedAt = now

	if err := s.repo.SaveMaintenanceRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update maintenance record: %w", err)
	}

	if err := s.repo.UpdateStatus(ctx, vehicleID, domain.VehicleStatusOutOfService); err != nil {
		return nil, fmt.Errorf("failed to take vehicle out of service: %w", err)
	}
	v.Status = domain.VehicleStatusOutOfService

	if s.cache != nil {
		if err := s.cache.Delete(ctx, vehicleCacheKey(vehicleID)); err != nil {
			s.log.Debug("Failed to invalidate vehicle cache", zap.String("vehicle_id", vehicleID), zap.Error(err))
		}
	}

	s.log.Info("Maintenance approved, vehicle out of service",
		zap.String("vehicle_id", vehicleID),
		zap.String("record_id", recordID),
		zap.String("manager_id", managerID),
	)

	if s.mq != nil {
		event := domain.Event{
			Type:       domain.EventMaintenanceApproved,
			VehicleID:  vehicleID,
			Actor:      domain.RoleManager,
			OccurredAt: now,
		}
		if data, err := json.Marshal(event); err == nil {
			if err := s.mq.Publish(event.Type, data); err != nil {
				s.log.Error("Failed to publish maintenance event", zap.Error(err))
			}
		}
	}

	return v, nil
}

func vehicleCacheKey(id string) string {
	return "vehicle:" + id
}
