package usecase

import (
	"context"

	"bimeh/internal/cascade"
	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

// NodeInput defines the data for creating or updating a hierarchy node.
type NodeInput struct {
	ParentID   uuid.UUID // uuid.Nil for states.
	Name       string
	Code       string
	OrderIndex int
}

// SchoolInput defines the data for creating or updating a school.
type SchoolInput struct {
	DistrictID uuid.UUID
	Name       string
	Code       string
	SchoolType entity.SchoolType
	Address    string
	Phone      string
}

// SchoolsInput narrows the public school listing.
type SchoolsInput struct {
	DistrictID uuid.UUID
	SchoolType entity.SchoolType
	Search     string
}

// LocationUsecase serves the cascade data source and the admin mirror
// of the six-tier hierarchy.
type LocationUsecase interface {
	// Children lists the options of one tier under a parent, the data
	// source behind each cascade dropdown.
	Children(ctx context.Context, tier cascade.Tier, parentID uuid.UUID) ([]*entity.LocationNode, error)

	// Schools lists schools for the final cascade tier.
	Schools(ctx context.Context, input *SchoolsInput) ([]*entity.School, error)

	// SchoolChain resolves the full State→School path of a school, used
	// to prefill the cascade when editing.
	SchoolChain(ctx context.Context, schoolID uuid.UUID) (*entity.LocationChain, error)

	// CreateNode adds a hierarchy node. Admin only.
	CreateNode(ctx context.Context, tier cascade.Tier, input *NodeInput) (*entity.LocationNode, error)

	// UpdateNode modifies a hierarchy node. Admin only.
	UpdateNode(ctx context.Context, tier cascade.Tier, id uuid.UUID, input *NodeInput) (*entity.LocationNode, error)

	// DeleteNode removes a childless hierarchy node. Admin only.
	DeleteNode(ctx context.Context, tier cascade.Tier, id uuid.UUID) error

	// CreateSchool adds a school under a district. Admin only.
	CreateSchool(ctx context.Context, input *SchoolInput) (*entity.School, error)

	// UpdateSchool modifies a school. Admin only.
	UpdateSchool(ctx context.Context, id uuid.UUID, input *SchoolInput) (*entity.School, error)

	// DeleteSchool removes a school. Admin only.
	DeleteSchool(ctx context.Context, id uuid.UUID) error
}
