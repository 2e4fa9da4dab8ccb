package mocks

import (
	"context"
	"time"

	"github.com/fleetops-io/crfms/internal/domain"
)

// Func-field mocks for the repository ports. Each method delegates to its
// func field when set and otherwise falls back to an in-memory map, so tests
// only override what they assert on.

type MockVehicleRepository struct {
	Vehicles map[string]*domain.Vehicle
	Records  map[string]*domain.MaintenanceRecord

	SaveFunc                   func(ctx context.Context, v *domain.Vehicle) error
	FindByIDFunc               func(ctx context.Context, id string) (*domain.Vehicle, error)
	FindAllFunc                func(ctx context.Context, filter map[string]interface{}) ([]domain.Vehicle, error)
	UpdateStatusFunc           func(ctx context.Context, id string, status domain.VehicleStatus) error
	SaveMaintenanceRecordFunc  func(ctx context.Context, rec *domain.MaintenanceRecord) error
	FindMaintenanceRecordFunc  func(ctx context.Context, vehicleID, recordID string) (*domain.MaintenanceRecord, error)
	FindMaintenanceRecordsFunc func(ctx context.Context, vehicleID string) ([]domain.MaintenanceRecord, error)
	DeleteFunc                 func(ctx context.Context, id string) error
}

func NewMockVehicleRepository() *MockVehicleRepository {
	return &MockVehicleRepository{
		Vehicles: make(map[string]*domain.Vehicle),
		Records:  make(map[string]*domain.MaintenanceRecord),
	}
}

func (m *MockVehicleRepository) Save(ctx context.Context, v *domain.Vehicle) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, v)
	}
	m.Vehicles[v.ID] = v
	return nil
}

func (m *MockVehicleRepository) FindByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return m.Vehicles[id], nil
}

func (m *MockVehicleRepository) FindAll(ctx context.Context, filter map[string]interface{}) ([]domain.Vehicle, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, filter)
	}
	var out []domain.Vehicle
	for _, v := range m.Vehicles {
		out = append(out, *v)
	}
	return out, nil
}

func (m *MockVehicleRepository) UpdateStatus(ctx context.Context, id string, status domain.VehicleStatus) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	if v, ok := m.Vehicles[id]; ok {
		v.Status = status
	}
	return nil
}

func (m *MockVehicleRepository) SaveMaintenanceRecord(ctx context.Context, rec *domain.MaintenanceRecord) error {
	if m.SaveMaintenanceRecordFunc != nil {
		return m.SaveMaintenanceRecordFunc(ctx, rec)
	}
	m.Records[rec.ID] = rec
	return nil
}

func (m *MockVehicleRepository) FindMaintenanceRecord(ctx context.Context, vehicleID, recordID string) (*domain.MaintenanceRecord, error) {
	if m.FindMaintenanceRecordFunc != nil {
		return m.FindMaintenanceRecordFunc(ctx, vehicleID, recordID)
	}
	rec, ok := m.Records[recordID]
	if !ok || rec.VehicleID != vehicleID {
		return nil, nil
	}
	return rec, nil
}

func (m *MockVehicleRepository) FindMaintenanceRecords(ctx context.Context, vehicleID string) ([]domain.MaintenanceRecord, error) {
	if m.FindMaintenanceRecordsFunc != nil {
		return m.FindMaintenanceRecordsFunc(ctx, vehicleID)
	}
	var out []domain.MaintenanceRecord
	for _, rec := range m.Records {
		if rec.VehicleID == vehicleID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	delete(m.Vehicles, id)
	return nil
}

type MockCustomerRepository struct {
	Customers map[string]*domain.Customer

	SaveFunc        func(ctx context.Context, c *domain.Customer) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.Customer, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.Customer, error)
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		Customers: make(map[string]*domain.Customer),
	}
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *domain.Customer) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, c)
	}
	m.Customers[c.ID] = c
	return nil
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return m.Customers[id], nil
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	for _, c := range m.Customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, nil
}

type MockReservationRepository struct {
	Reservations map[string]*domain.Reservation

	SaveFunc                     func(ctx context.Context, r *domain.Reservation) error
	FindByIDFunc                 func(ctx context.Context, id string) (*domain.Reservation, error)
	FindByCustomerIDFunc         func(ctx context.Context, customerID string, status string, limit, offset int) ([]domain.Reservation, error)
	FindByVehicleIDFunc          func(ctx context.Context, vehicleID string) ([]domain.Reservation, error)
	FindActiveByVehicleIDFunc    func(ctx context.Context, vehicleID string) ([]domain.Reservation, error)
	FindOverlappingFunc          func(ctx context.Context, vehicleID string, pickup, ret time.Time) ([]domain.Reservation, error)
	CountByCustomerAndStatusFunc func(ctx context.Context, customerID string, statuses []domain.ReservationStatus) (int, error)
	DeleteFunc                   func(ctx context.Context, id string) error
}

func NewMockReservationRepository() *MockReservationRepository {
	return &MockReservationRepository{
		Reservations: make(map[string]*domain.Reservation),
	}
}

func (m *MockReservationRepository) Save(ctx context.Context, r *domain.Reservation) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, r)
	}
	m.Reservations[r.ID] = r
	return nil
}

func (m *MockReservationRepository) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return m.Reservations[id], nil
}

func (m *MockReservationRepository) FindByCustomerID(ctx context.Context, customerID string, status string, limit, offset int) ([]domain.Reservation, error) {
	if m.FindByCustomerIDFunc != nil {
		return m.FindByCustomerIDFunc(ctx, customerID, status, limit, offset)
	}
	var out []domain.Reservation
	for _, r := range m.Reservations {
		if r.CustomerID != customerID {
			continue
		}
		if status != "" && string(r.Status) != status {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (m *MockReservationRepository) FindByVehicleID(ctx context.Context, vehicleID string) ([]domain.Reservation, error) {
	if m.FindByVehicleIDFunc != nil {
		return m.FindByVehicleIDFunc(ctx, vehicleID)
	}
	var out []domain.Reservation
	for _, r := range m.Reservations {
		if r.VehicleID == vehicleID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *MockReservationRepository) FindActiveByVehicleID(ctx context.Context, vehicleID string) ([]domain.Reservation, error) {
	if m.FindActiveByVehicleIDFunc != nil {
		return m.FindActiveByVehicleIDFunc(ctx, vehicleID)
	}
	var out []domain.Reservation
	for _, r := range m.Reservations {
		if r.VehicleID == vehicleID && r.IsActive() {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *MockReservationRepository) FindOverlapping(ctx context.Context, vehicleID string, pickup, ret time.Time) ([]domain.Reservation, error) {
	if m.FindOverlappingFunc != nil {
		return m.FindOverlappingFunc(ctx, vehicleID, pickup, ret)
	}
	var out []domain.Reservation
	for _, r := range m.Reservations {
		if r.VehicleID != vehicleID || !r.IsActive() {
			continue
		}
		if r.PickupDate.Before(ret) && pickup.Before(r.ReturnDate) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *MockReservationRepository) CountByCustomerAndStatus(ctx context.Context, customerID string, statuses []domain.ReservationStatus) (int, error) {
	if m.CountByCustomerAndStatusFunc != nil {
		return m.CountByCustomerAndStatusFunc(ctx, customerID, statuses)
	}
	count := 0
	for _, r := range m.Reservations {
		if r.CustomerID != customerID {
			continue
		}
		for _, s := range statuses {
			if r.Status == s {
				count++
				break
			}
		}
	}
	return count, nil
}

func (m *MockReservationRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	delete(m.Reservations, id)
	return nil
}

type MockRentalRepository struct {
	Rentals map[string]*domain.Rental

	SaveFunc              func(ctx context.Context, r *domain.Rental) error
	FindByIDFunc          func(ctx context.Context, id string) (*domain.Rental, error)
	FindByReservationFunc func(ctx context.Context, reservationID string) (*domain.Rental, error)
	FindByPickupTokenFunc func(ctx context.Context, token string) (*domain.Rental, error)
}

func NewMockRentalRepository() *MockRentalRepository {
	return &MockRentalRepository{
		Rentals: make(map[string]*domain.Rental),
	}
}

func (m *MockRentalRepository) Save(ctx context.Context, r *domain.Rental) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, r)
	}
	m.Rentals[r.ID] = r
	return nil
}

func (m *MockRentalRepository) FindByID(ctx context.Context, id string) (*domain.Rental, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return m.Rentals[id], nil
}

func (m *MockRentalRepository) FindByReservationID(ctx context.Context, reservationID string) (*domain.Rental, error) {
	if m.FindByReservationFunc != nil {
		return m.FindByReservationFunc(ctx, reservationID)
	}
	for _, r := range m.Rentals {
		if r.ReservationID == reservationID {
			return r, nil
		}
	}
	return nil, nil
}

func (m *MockRentalRepository) FindByPickupToken(ctx context.Context, token string) (*domain.Rental, error) {
	if m.FindByPickupTokenFunc != nil {
		return m.FindByPickupTokenFunc(ctx, token)
	}
	for _, r := range m.Rentals {
		if r.PickupToken == token {
			return r, nil
		}
	}
	return nil, nil
}

type MockPaymentRepository struct {
	Payments []domain.Payment
	Invoices map[string]*domain.Invoice

	SavePaymentFunc              func(ctx context.Context, p *domain.Payment) error
	FindPaymentsFunc             func(ctx context.Context, reservationID string) ([]domain.Payment, error)
	SaveInvoiceFunc              func(ctx context.Context, inv *domain.Invoice) error
	FindInvoiceByReservationFunc func(ctx context.Context, reservationID string) (*domain.Invoice, error)
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		Invoices: make(map[string]*domain.Invoice),
	}
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, p *domain.Payment) error {
	if m.SavePaymentFunc != nil {
		return m.SavePaymentFunc(ctx, p)
	}
	m.Payments = append(m.Payments, *p)
	return nil
}

func (m *MockPaymentRepository) FindPaymentsByReservation(ctx context.Context, reservationID string) ([]domain.Payment, error) {
	if m.FindPaymentsFunc != nil {
		return m.FindPaymentsFunc(ctx, reservationID)
	}
	var out []domain.Payment
	for _, p := range m.Payments {
		if p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockPaymentRepository) SaveInvoice(ctx context.Context, inv *domain.Invoice) error {
	if m.SaveInvoiceFunc != nil {
		return m.SaveInvoiceFunc(ctx, inv)
	}
	m.Invoices[inv.ReservationID] = inv
	return nil
}

func (m *MockPaymentRepository) FindInvoiceByReservation(ctx context.Context, reservationID string) (*domain.Invoice, error) {
	if m.FindInvoiceByReservationFunc != nil {
		return m.FindInvoiceByReservationFunc(ctx, reservationID)
	}
	return m.Invoices[reservationID], nil
}

type MockUserRepository struct {
	Users map[string]*domain.User

	SaveFunc        func(ctx context.Context, u *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
	}
}

func (m *MockUserRepository) Save(ctx context.Context, u *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, u)
	}
	m.Users[u.ID] = u
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return m.Users[id], nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	for _, u := range m.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type MockCatalogRepository struct {
	Tiers  map[string]*domain.InsuranceTier
	AddOns map[string]*domain.AddOn

	SaveInsuranceTierFunc func(ctx context.Context, tier *domain.InsuranceTier) error
	FindInsuranceTierFunc func(ctx context.Context, id string) (*domain.InsuranceTier, error)
	FindAllTiersFunc      func(ctx context.Context) ([]domain.InsuranceTier, error)
	SaveAddOnFunc         func(ctx context.Context, addOn *domain.AddOn) error
	FindAddOnsFunc        func(ctx context.Context, ids []string) ([]domain.AddOn, error)
	FindAllAddOnsFunc     func(ctx context.Context) ([]domain.AddOn, error)
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		Tiers:  make(map[string]*domain.InsuranceTier),
		AddOns: make(map[string]*domain.AddOn),
	}
}

func (m *MockCatalogRepository) FindInsuranceTierByID(ctx context.Context, id string) (*domain.InsuranceTier, error) {
	if m.FindInsuranceTierFunc != nil {
		return m.FindInsuranceTierFunc(ctx, id)
	}
	return m.Tiers[id], nil
}

func (m *MockCatalogRepository) FindAddOnsByIDs(ctx context.Context, ids []string) ([]domain.AddOn, error) {
	if m.FindAddOnsFunc != nil {
		return m.FindAddOnsFunc(ctx, ids)
	}
	var out []domain.AddOn
	for _, id := range ids {
		if a, ok := m.AddOns[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *MockCatalogRepository) SaveInsuranceTier(ctx context.Context, tier *domain.InsuranceTier) error {
	if m.SaveInsuranceTierFunc != nil {
		return m.SaveInsuranceTierFunc(ctx, tier)
	}
	m.Tiers[tier.ID] = tier
	return nil
}

func (m *MockCatalogRepository) FindAllInsuranceTiers(ctx context.Context) ([]domain.InsuranceTier, error) {
	if m.FindAllTiersFunc != nil {
		return m.FindAllTiersFunc(ctx)
	}
	var out []domain.InsuranceTier
	for _, t := range m.Tiers {
		out = append(out, *t)
	}
	return out, nil
}

func (m *MockCatalogRepository) SaveAddOn(ctx context.Context, addOn *domain.AddOn) error {
	if m.SaveAddOnFunc != nil {
		return m.SaveAddOnFunc(ctx, addOn)
	}
	m.AddOns[addOn.ID] = addOn
	return nil
}

func (m *MockCatalogRepository) FindAllAddOns(ctx context.Context) ([]domain.AddOn, error) {
	if m.FindAllAddOnsFunc != nil {
		return m.FindAllAddOnsFunc(ctx)
	}
	var out []domain.AddOn
	for _, a := range m.AddOns {
		out = append(out, *a)
	}
	return out, nil
}
