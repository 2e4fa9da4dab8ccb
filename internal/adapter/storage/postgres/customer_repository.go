package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

type CustomerRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCustomerRepository(db *gorm.DB, log *zap.Logger) ports.CustomerRepository {
	return &CustomerRepository{
		db:  db,
		log: log,
	}
}

func (r *CustomerRepository) Save(ctx context.Context, c *domain.Customer) error {
	result := r.db.WithContext(ctx).Save(c)
	if result.Error != nil {
		r.log.Error("Failed to save customer", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	result := r.db.WithContext(ctx).First(&c, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &c, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var c domain.Customer
	result := r.db.WithContext(ctx).First(&c, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &c, nil
}
