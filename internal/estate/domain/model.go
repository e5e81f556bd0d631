// Package domain holds the stored entities. JSON names are the field names
// in the document store.
package domain

import (
	"time"

	"github.com/skyproperties/sky-backend/internal/access"
)

type Property struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required"`
	City        string    `json:"city" validate:"required"`
	Description string    `json:"description"`
	ManagerID   string    `json:"managerId,omitempty"`
	ModelURL    string    `json:"modelUrl"`
	Thumbnail   string    `json:"thumbnail"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Coordinates place a unit inside its property's 3D model.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Unit struct {
	ID          string      `json:"id"`
	UnitNumber  string      `json:"unitNumber" validate:"required"`
	PropertyID  string      `json:"propertyId" validate:"required"`
	Floor       int         `json:"floor"`
	Type        UnitType    `json:"type" validate:"required,unit_type"`
	Area        float64     `json:"area" validate:"gt=0"`
	RentValue   float64     `json:"rentValue" validate:"gte=0"`
	SaleValue   float64     `json:"saleValue" validate:"gte=0"`
	Status      UnitStatus  `json:"status" validate:"required,unit_status"`
	OwnerID     string      `json:"ownerId,omitempty"`
	TenantID    string      `json:"tenantId,omitempty"`
	Media       []string    `json:"media"`
	Coordinates Coordinates `json:"coordinates"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type Ticket struct {
	ID          string       `json:"id"`
	Category    string       `json:"category" validate:"required"`
	Description string       `json:"description"`
	Status      TicketStatus `json:"status" validate:"required,ticket_status"`
	UnitID      string       `json:"unitId,omitempty"`
	CreatedBy   string       `json:"createdBy,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Payment records are append-only.
type Payment struct {
	ID        string    `json:"id"`
	Type      string    `json:"type" validate:"required"`
	Amount    float64   `json:"amount" validate:"gt=0"`
	Method    string    `json:"method" validate:"required"`
	UnitID    string    `json:"unitId,omitempty"`
	PayerID   string    `json:"payerId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type GuestRequest struct {
	ID          string             `json:"id"`
	GuestName   string             `json:"guestName,omitempty"`
	GuestEmail  string             `json:"guestEmail" validate:"required,email"`
	GuestPhone  string             `json:"guestPhone"`
	RequestType string             `json:"requestType" validate:"required"`
	Message     string             `json:"message"`
	PropertyID  string             `json:"propertyId,omitempty"`
	Status      GuestRequestStatus `json:"status" validate:"required,guest_status"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// User is the profile document of a principal; ID is the principal id.
type User struct {
	ID               string      `json:"id"`
	Email            string      `json:"email" validate:"required,email"`
	Name             string      `json:"name"`
	Phone            string      `json:"phone"`
	Role             access.Role `json:"role" validate:"required,role"`
	LinkedProperties []string    `json:"linkedProperties"`
	Favorites        []string    `json:"favorites"`
	Language         string      `json:"language" validate:"oneof=en ar"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// ProfileRole lets a profile stand in for access.Profile.
func (u *User) ProfileRole() access.Role {
	if u == nil {
		return ""
	}
	return u.Role
}

// Settings are the system-wide fees and contact details.
type Settings struct {
	CommissionRate    float64   `json:"commissionRate" validate:"gte=0,lte=100"`
	RentCollectionFee float64   `json:"rentCollectionFee" validate:"gte=0,lte=100"`
	MaintenanceFee    float64   `json:"maintenanceFee" validate:"gte=0"`
	SystemEmail       string    `json:"systemEmail" validate:"omitempty,email"`
	SystemPhone       string    `json:"systemPhone"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// DefaultSettings is returned until settings are saved for the first time.
func DefaultSettings() Settings {
	return Settings{
		CommissionRate:    5,
		RentCollectionFee: 2,
		MaintenanceFee:    10,
		SystemEmail:       "admin@skyproperties.com",
		SystemPhone:       "+1234567890",
	}
}
