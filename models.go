package vecino

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Building is a managed property
type Building struct {
	bun.BaseModel `bun:"table:buildings,alias:bld"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Address       string     `bun:"address,notnull" json:"address,omitempty"`
	Floors        int        `bun:"floors" json:"floors,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// UnitOwnership describes how a unit is held
type UnitOwnership string

const (
	OwnershipOwned  UnitOwnership = "owned"
	OwnershipRented UnitOwnership = "rented"
	OwnershipVacant UnitOwnership = "vacant"
)

// Unit is an apartment inside a building. The (building, number) pair
// is unique; the database enforces it and the repository surfaces the
// violation as a conflict.
type Unit struct {
	bun.BaseModel `bun:"table:units,alias:unt"`
	ID            uuid.UUID     `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	BuildingID    uuid.UUID     `bun:"building_id,notnull,type:uuid,unique:units_building_number" json:"building_id,omitempty"`
	Building      *Building     `bun:"rel:belongs-to,join:building_id=id" json:"building,omitempty"`
	Number        string        `bun:"number,notnull,unique:units_building_number" json:"number,omitempty"`
	SizeM2        float64       `bun:"size_m2" json:"size_m2,omitempty"`
	Layout        string        `bun:"layout" json:"layout,omitempty"`
	Ownership     UnitOwnership `bun:"ownership" json:"ownership,omitempty"`
	CreatedAt     *time.Time    `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	DeletedAt     *time.Time    `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// VisitStatus is a visitor registration lifecycle status
type VisitStatus string

const (
	// VisitPending is a registration waiting for the visitor to arrive
	VisitPending VisitStatus = "pending"
	// VisitActive means the visitor checked in at the gate
	VisitActive VisitStatus = "active"
	// VisitCancelled means the resident withdrew the registration
	VisitCancelled VisitStatus = "cancelled"
	// VisitCompleted means the visit finished
	VisitCompleted VisitStatus = "completed"
)

// VisitorPreregistration is a resident's notice that a visitor is
// expected. The gate code is stored only as a bcrypt hash; the clear
// value leaves the system once, in the response to the resident.
type VisitorPreregistration struct {
	bun.BaseModel `bun:"table:visitor_preregistrations,alias:vpr"`
	ID            uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	ResidentID    uuid.UUID   `bun:"resident_user_id,notnull,type:uuid" json:"resident_user_id,omitempty"`
	VisitorName   string      `bun:"visitor_name,notnull" json:"visitor_name,omitempty"`
	VisitorPhone  string      `bun:"visitor_phone" json:"visitor_phone,omitempty"`
	ExpectedDate  string      `bun:"expected_date,notnull" json:"expected_date,omitempty"`
	ExpectedTime  string      `bun:"expected_time" json:"expected_time,omitempty"`
	VehiclePlate  string      `bun:"vehicle_plate" json:"vehicle_plate,omitempty"`
	Status        VisitStatus `bun:"status,notnull" json:"status,omitempty"`
	GateCodeHash  string      `bun:"gate_code_hash" json:"-"`
	CheckedInAt   *time.Time  `bun:"checked_in_at,nullzero" json:"checked_in_at,omitempty"`
	CreatedAt     *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time  `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// OwnedBy reports whether the registration belongs to the resident.
func (v *VisitorPreregistration) OwnedBy(residentID uuid.UUID) bool {
	return v.ResidentID == residentID
}

// Dates travel as strings in the YYYY-MM-DD wire format.
const DateLayout = "2006-01-02"

// ParseVisitDate parses a YYYY-MM-DD date, falling back to today when
// the input is absent or invalid.
func ParseVisitDate(raw string, now time.Time) string {
	if raw == "" {
		return now.Format(DateLayout)
	}
	if _, err := time.Parse(DateLayout, raw); err != nil {
		return now.Format(DateLayout)
	}
	return raw
}
