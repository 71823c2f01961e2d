package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"bimeh/internal/cascade"
)

// LocationNode is one node of the administrative hierarchy above the
// school level: state, city, county, region or district. The tier
// determines what the parent is; the root tier has a nil parent.
type LocationNode struct {
	ID         uuid.UUID    // The unique identifier for this node.
	Tier       cascade.Tier // Which level of the hierarchy the node sits at.
	ParentID   uuid.UUID    // The node one tier up; uuid.Nil for states.
	Name       string       // The Persian display name.
	Code       string       // The administrative code, unique among siblings.
	OrderIndex int          // Display ordering within the parent; used by states.
	CreatedAt  time.Time    // Timestamp of when this node was created.
}

// SchoolType categorizes a school by the grades it teaches.
type SchoolType string

const (
	SchoolElementary SchoolType = "elementary"
	SchoolMiddle     SchoolType = "middle"
	SchoolHigh       SchoolType = "high"
	SchoolCombined   SchoolType = "combined"
)

// String returns the string representation of the SchoolType.
func (s SchoolType) String() string {
	return string(s)
}

// IsValid checks if the SchoolType is a valid value.
func (s SchoolType) IsValid() bool {
	switch s {
	case SchoolElementary, SchoolMiddle, SchoolHigh, SchoolCombined:
		return true
	default:
		return false
	}
}

// Label returns the Persian display label for the school type.
func (s SchoolType) Label() string {
	switch s {
	case SchoolElementary:
		return "ابتدایی"
	case SchoolMiddle:
		return "متوسطه اول"
	case SchoolHigh:
		return "متوسطه دوم"
	case SchoolCombined:
		return "ترکیبی"
	default:
		return "نامشخص"
	}
}

// School is the leaf of the location hierarchy and the anchor of an
// insurance registration.
type School struct {
	ID         uuid.UUID  // The unique identifier for the school.
	DistrictID uuid.UUID  // The district this school belongs to.
	Name       string     // The Persian display name.
	Code       string     // The school code, unique across all schools.
	SchoolType SchoolType // The grade category of the school.
	Address    string     // Optional street address.
	Phone      string     // Optional contact phone.
	CreatedAt  time.Time  // Timestamp of when this school was created.
}

// LocationChain is the fully resolved path from a school up to its
// state, ordered root to leaf.
type LocationChain struct {
	State    LocationNode
	City     LocationNode
	County   LocationNode
	Region   LocationNode
	District LocationNode
	School   School
}

// Nodes returns the non-school tiers in root-to-leaf order.
func (c *LocationChain) Nodes() []LocationNode {
	return []LocationNode{c.State, c.City, c.County, c.Region, c.District}
}

// FullLocation renders the chain leaf-first as shown on insurance
// documents, e.g. "school - district - region - county - city - state".
func (c *LocationChain) FullLocation() string {
	parts := []string{
		c.School.Name,
		c.District.Name,
		c.Region.Name,
		c.County.Name,
		c.City.Name,
		c.State.Name,
	}

	return strings.Join(parts, " - ")
}
