package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

// CatalogRepository serves the pricing catalog: insurance tiers and
// add-ons. Managers write it; quotes read it.
type CatalogRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCatalogRepository(db *gorm.DB, log *zap.Logger) ports.CatalogRepository {
	return &CatalogRepository{
		db:  db,
		log: log,
	}
}

func (r *CatalogRepository) FindInsuranceTierByID(ctx context.Context, id string) (*domain.InsuranceTier, error) {
	var tier domain.InsuranceTier
	result := r.db.WithContext(ctx).First(&tier, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &tier, nil
}

func (r *CatalogRepository) FindAddOnsByIDs(ctx context.Context, ids []string) ([]domain.AddOn, error) {
	var addOns []domain.AddOn
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&addOns)
	if result.Error != nil {
		return nil, result.Error
	}
	return addOns, nil
}

func (r *CatalogRepository) SaveInsuranceTier(ctx context.Context, tier *domain.InsuranceTier) error {
	return r.db.WithContext(ctx).Save(tier).Error
}

func (r *CatalogRepository) FindAllInsuranceTiers(ctx context.Context) ([]domain.InsuranceTier, error) {
	var tiers []domain.InsuranceTier
	result := r.db.WithContext(ctx).Order("price_per_day ASC").Find(&tiers)
	if result.Error != nil {
		return nil, result.Error
	}
	return tiers, nil
}

func (r *CatalogRepository) SaveAddOn(ctx context.Context, addOn *domain.AddOn) error {
	return r.db.WithContext(ctx).Save(addOn).Error
}

func (r *CatalogRepository) FindAllAddOns(ctx context.Context) ([]domain.AddOn, error) {
	var addOns []domain.AddOn
	result := r.db.WithContext(ctx).Order("name ASC").Find(&addOns)
	if result.Error != nil {
		return nil, result.Error
	}
	return addOns, nil
}
