package repository

import (
	"context"
	"errors"

	"bimeh/internal/cascade"
	"bimeh/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrLocationNotFound is returned when a hierarchy node does not exist.
	ErrLocationNotFound = errors.New("location not found")

	// ErrSchoolNotFound is returned when a school does not exist.
	ErrSchoolNotFound = errors.New("school not found")
)

// SchoolFilter narrows school listings below a district.
type SchoolFilter struct {
	DistrictID uuid.UUID
	SchoolType entity.SchoolType // Empty means all types.
	Search     string            // Matches name or code.
}

// LocationRepository persists the six-tier location hierarchy. The five
// tiers above schools share one generic node shape; schools carry extra
// attributes and get dedicated operations.
type LocationRepository interface {
	// Children lists the nodes of tier under parentID, ordered for
	// display. The root tier ignores parentID.
	Children(ctx context.Context, tier cascade.Tier, parentID uuid.UUID) ([]*entity.LocationNode, error)

	// FindNode retrieves a single hierarchy node.
	FindNode(ctx context.Context, tier cascade.Tier, id uuid.UUID) (*entity.LocationNode, error)

	// CreateNode persists a new hierarchy node.
	CreateNode(ctx context.Context, node *entity.LocationNode) error

	// UpdateNode modifies an existing hierarchy node.
	UpdateNode(ctx context.Context, node *entity.LocationNode) error

	// DeleteNode removes a hierarchy node.
	DeleteNode(ctx context.Context, tier cascade.Tier, id uuid.UUID) error

	// HasChildren reports whether any node or school sits directly under this node.
	HasChildren(ctx context.Context, tier cascade.Tier, id uuid.UUID) (bool, error)

	// Schools lists schools matching the filter.
	Schools(ctx context.Context, filter SchoolFilter) ([]*entity.School, error)

	// FindSchool retrieves a single school.
	FindSchool(ctx context.Context, id uuid.UUID) (*entity.School, error)

	// CreateSchool persists a new school.
	CreateSchool(ctx context.Context, school *entity.School) error

	// UpdateSchool modifies an existing school.
	UpdateSchool(ctx context.Context, school *entity.School) error

	// DeleteSchool removes a school.
	DeleteSchool(ctx context.Context, id uuid.UUID) error

	// Chain resolves the full path from a school up to its state.
	Chain(ctx context.Context, schoolID uuid.UUID) (*entity.LocationChain, error)
}
