package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetops-io/crfms/internal/domain"
	"github.com/fleetops-io/crfms/internal/ports"
)

type PaymentRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPaymentRepository(db *gorm.DB, log *zap.Logger) ports.PaymentRepository {
	return &PaymentRepository{
		db:  db,
		log: log,
	}
}

func (r *PaymentRepository) SavePayment(ctx context.Context, p *domain.Payment) error {
	result := r.db.WithContext(ctx).Save(p)
	if result.Error != nil {
		r.log.Error("Failed to save payment", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *PaymentRepository) FindPaymentsByReservation(ctx context.Context, reservationID string) ([]domain.Payment, error) {
	var payments []domain.Payment
	result := r.db.WithContext(ctx).Where("reservation_id = ?", reservationID).Order("created_at ASC").Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}
	return payments, nil
}

func (r *PaymentRepository) SaveInvoice(ctx context.Context, inv *domain.Invoice) error {
	result := r.db.WithContext(ctx).Save(inv)
	if result.Error != nil {
		r.log.Error("Failed to save invoice", zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *PaymentRepository) FindInvoiceByReservation(ctx context.Context, reservationID string) (*domain.Invoice, error) {
	var inv domain.Invoice
	result := r.db.WithContext(ctx).First(&inv, "reservation_id = ?", reservationID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &inv, nil
}
