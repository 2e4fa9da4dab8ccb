package domain

import (
	"time"
)

// UserRole mirrors ActorRole for persisted accounts
const (
	UserRoleCustomer = "customer"
	UserRoleAgent    = "agent"
	UserRoleManager  = "manager"
)

// User is an authenticated account. The core trusts the resolved role and
// performs no authentication itself.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role" gorm:"index"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Customer is the read-side view used by pricing: identity plus reservation
// history. The history feeds completed-order counting only; the core never
// mutates it.
type Customer struct {
	ID           string        `json:"id" gorm:"primaryKey"`
	UserID       string        `json:"user_id" gorm:"index"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone,omitempty"`
	Reservations []Reservation `json:"reservations,omitempty" gorm:"foreignKey:CustomerID"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
