package postgres

import (
	"context"

	"bimeh/internal/cascade"
	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	"bimeh/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// tierTables maps each non-school tier to its physical table. All five
// tables share the LocationNodeModel shape.
var tierTables = map[cascade.Tier]string{
	cascade.TierState:    "states",
	cascade.TierCity:     "cities",
	cascade.TierCounty:   "counties",
	cascade.TierRegion:   "regions",
	cascade.TierDistrict: "districts",
}

// locationRepository implements the domain.LocationRepository interface.
type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository is the constructor for locationRepository.
func NewLocationRepository(db *gorm.DB) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (repo *locationRepository) tierTable(tier cascade.Tier) (string, error) {
	table, ok := tierTables[tier]
	if !ok {
		return "", errors.Errorf("no node table for tier %s", tier)
	}

	return table, nil
}

// Children lists the nodes of tier under parentID, ordered for display.
func (repo *locationRepository) Children(ctx context.Context, tier cascade.Tier, parentID uuid.UUID) ([]*entity.LocationNode, error) {
	table, err := repo.tierTable(tier)
	if err != nil {
		return nil, err
	}

	query := repo.db.WithContext(ctx).Table(table)
	if tier == cascade.TierState {
		// States are roots; parentID is ignored.
		query = query.Order("order_index ASC, name ASC")
	} else {
		query = query.Where("parent_id = ?", parentID).Order("name ASC")
	}

	var nodeModels []model.LocationNodeModel
	if err := query.Find(&nodeModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	nodes := make([]*entity.LocationNode, 0, len(nodeModels))
	for i := range nodeModels {
		nodes = append(nodes, toLocationNodeDomain(tier, &nodeModels[i]))
	}

	return nodes, nil
}

// FindNode retrieves a single hierarchy node.
func (repo *locationRepository) FindNode(ctx context.Context, tier cascade.Tier, id uuid.UUID) (*entity.LocationNode, error) {
	table, err := repo.tierTable(tier)
	if err != nil {
		return nil, err
	}

	var nodeM model.LocationNodeModel
	if err := repo.db.WithContext(ctx).Table(table).
		Where("id = ?", id).
		First(&nodeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLocationNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toLocationNodeDomain(tier, &nodeM), nil
}

// CreateNode persists a new hierarchy node.
func (repo *locationRepository) CreateNode(ctx context.Context, node *entity.LocationNode) error {
	table, err := repo.tierTable(node.Tier)
	if err != nil {
		return err
	}

	nodeM := fromLocationNodeDomain(node)

	if err := repo.db.WithContext(ctx).Table(table).Create(nodeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrLocationCodeConflict.WrapMessage("node code already in use")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrLocationNotFound.WrapMessage("parent node does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create location node")
	}

	node.ID = nodeM.ID
	node.CreatedAt = nodeM.CreatedAt

	return nil
}

// UpdateNode modifies an existing hierarchy node.
func (repo *locationRepository) UpdateNode(ctx context.Context, node *entity.LocationNode) error {
	table, err := repo.tierTable(node.Tier)
	if err != nil {
		return err
	}

	result := repo.db.WithContext(ctx).Table(table).
		Where("id = ?", node.ID).
		Updates(map[string]any{
			"name":        node.Name,
			"code":        node.Code,
			"order_index": node.OrderIndex,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrLocationCodeConflict.WrapMessage("node code already in use")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update location node")
	}
	if result.RowsAffected == 0 {
		return repository.ErrLocationNotFound
	}

	return nil
}

// DeleteNode removes a hierarchy node.
func (repo *locationRepository) DeleteNode(ctx context.Context, tier cascade.Tier, id uuid.UUID) error {
	table, err := repo.tierTable(tier)
	if err != nil {
		return err
	}

	result := repo.db.WithContext(ctx).Table(table).
		Where("id = ?", id).
		Delete(&model.LocationNodeModel{})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrLocationHasChildren.WrapMessage("node still has children")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete location node")
	}
	if result.RowsAffected == 0 {
		return repository.ErrLocationNotFound
	}

	return nil
}

// HasChildren reports whether any node or school sits directly under this node.
func (repo *locationRepository) HasChildren(ctx context.Context, tier cascade.Tier, id uuid.UUID) (bool, error) {
	var count int64

	if tier == cascade.TierDistrict {
		if err := repo.db.WithContext(ctx).Model(&model.SchoolModel{}).
			Where("district_id = ?", id).
			Count(&count).Error; err != nil {
			return false, errors.WithStack(err)
		}

		return count > 0, nil
	}

	childTier, ok := tier.Next()
	if !ok {
		return false, errors.Errorf("tier %s has no child tier", tier)
	}

	table, err := repo.tierTable(childTier)
	if err != nil {
		return false, err
	}

	if err := repo.db.WithContext(ctx).Table(table).
		Where("parent_id = ?", id).
		Count(&count).Error; err != nil {
		return false, errors.WithStack(err)
	}

	return count > 0, nil
}

// Schools lists schools matching the filter.
func (repo *locationRepository) Schools(ctx context.Context, filter repository.SchoolFilter) ([]*entity.School, error) {
	query := repo.db.WithContext(ctx).Model(&model.SchoolModel{})

	if filter.DistrictID != uuid.Nil {
		query = query.Where("district_id = ?", filter.DistrictID)
	}
	if filter.SchoolType != "" {
		query = query.Where("school_type = ?", filter.SchoolType.String())
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}

	var schoolModels []model.SchoolModel
	if err := query.Order("name ASC").Find(&schoolModels).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	schools := make([]*entity.School, 0, len(schoolModels))
	for i := range schoolModels {
		schools = append(schools, toSchoolDomain(&schoolModels[i]))
	}

	return schools, nil
}

// FindSchool retrieves a single school.
func (repo *locationRepository) FindSchool(ctx context.Context, id uuid.UUID) (*entity.School, error) {
	var schoolM model.SchoolModel
	if err := repo.db.WithContext(ctx).First(&schoolM, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSchoolNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toSchoolDomain(&schoolM), nil
}

// CreateSchool persists a new school.
func (repo *locationRepository) CreateSchool(ctx context.Context, school *entity.School) error {
	schoolM := fromSchoolDomain(school)

	if err := repo.db.WithContext(ctx).Create(schoolM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrLocationCodeConflict.WrapMessage("school code already in use")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrLocationNotFound.WrapMessage("district does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create school")
	}

	school.ID = schoolM.ID
	school.CreatedAt = schoolM.CreatedAt

	return nil
}

// UpdateSchool modifies an existing school.
func (repo *locationRepository) UpdateSchool(ctx context.Context, school *entity.School) error {
	result := repo.db.WithContext(ctx).Model(&model.SchoolModel{}).
		Where("id = ?", school.ID).
		Updates(map[string]any{
			"district_id": school.DistrictID,
			"name":        school.Name,
			"code":        school.Code,
			"school_type": school.SchoolType.String(),
			"address":     school.Address,
			"phone":       school.Phone,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return domainerrors.ErrLocationCodeConflict.WrapMessage("school code already in use")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update school")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSchoolNotFound
	}

	return nil
}

// DeleteSchool removes a school.
func (repo *locationRepository) DeleteSchool(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.SchoolModel{})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return domainerrors.ErrConflict.WrapMessage("school still has registrations")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete school")
	}
	if result.RowsAffected == 0 {
		return repository.ErrSchoolNotFound
	}

	return nil
}

// Chain resolves the full path from a school up to its state by walking
// parent references one tier at a time.
func (repo *locationRepository) Chain(ctx context.Context, schoolID uuid.UUID) (*entity.LocationChain, error) {
	school, err := repo.FindSchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	chain := &entity.LocationChain{School: *school}

	parentID := school.DistrictID
	for tier := cascade.TierDistrict; ; tier-- {
		node, err := repo.FindNode(ctx, tier, parentID)
		if err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return nil, errors.Wrapf(err, "broken location chain at tier %s", tier)
			}

			return nil, err
		}

		switch tier {
		case cascade.TierDistrict:
			chain.District = *node
		case cascade.TierRegion:
			chain.Region = *node
		case cascade.TierCounty:
			chain.County = *node
		case cascade.TierCity:
			chain.City = *node
		case cascade.TierState:
			chain.State = *node
		}

		if tier == cascade.TierState {
			break
		}
		parentID = node.ParentID
	}

	return chain, nil
}

// --- Mapper Functions ---

// toLocationNodeDomain converts a GORM LocationNodeModel to a domain LocationNode entity.
func toLocationNodeDomain(tier cascade.Tier, data *model.LocationNodeModel) *entity.LocationNode {
	if data == nil {
		return nil
	}

	node := &entity.LocationNode{
		ID:         data.ID,
		Tier:       tier,
		Name:       data.Name,
		Code:       data.Code,
		OrderIndex: data.OrderIndex,
		CreatedAt:  data.CreatedAt,
	}
	if data.ParentID != nil {
		node.ParentID = *data.ParentID
	}

	return node
}

// fromLocationNodeDomain converts a domain LocationNode entity to a GORM LocationNodeModel.
func fromLocationNodeDomain(data *entity.LocationNode) *model.LocationNodeModel {
	if data == nil {
		return nil
	}

	nodeM := &model.LocationNodeModel{
		ID:         data.ID,
		Name:       data.Name,
		Code:       data.Code,
		OrderIndex: data.OrderIndex,
		CreatedAt:  data.CreatedAt,
	}
	if data.ParentID != uuid.Nil {
		parentID := data.ParentID
		nodeM.ParentID = &parentID
	}

	return nodeM
}

// toSchoolDomain converts a GORM SchoolModel to a domain School entity.
func toSchoolDomain(data *model.SchoolModel) *entity.School {
	if data == nil {
		return nil
	}

	return &entity.School{
		ID:         data.ID,
		DistrictID: data.DistrictID,
		Name:       data.Name,
		Code:       data.Code,
		SchoolType: entity.SchoolType(data.SchoolType),
		Address:    data.Address,
		Phone:      data.Phone,
		CreatedAt:  data.CreatedAt,
	}
}

// fromSchoolDomain converts a domain School entity to a GORM SchoolModel.
func fromSchoolDomain(data *entity.School) *model.SchoolModel {
	if data == nil {
		return nil
	}

	return &model.SchoolModel{
		ID:         data.ID,
		DistrictID: data.DistrictID,
		Name:       data.Name,
		Code:       data.Code,
		SchoolType: data.SchoolType.String(),
		Address:    data.Address,
		Phone:      data.Phone,
		CreatedAt:  data.CreatedAt,
	}
}
