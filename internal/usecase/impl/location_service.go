package impl

import (
	"context"
	"log/slog"

	"bimeh/internal/cascade"
	deliverycontext "bimeh/internal/delivery/context"
	"bimeh/internal/domain/entity"
	domainerrors "bimeh/internal/domain/errors"
	"bimeh/internal/domain/repository"
	"bimeh/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// locationService implements the LocationUsecase interface.
type locationService struct {
	txManager    repository.TransactionManager
	locationRepo repository.LocationRepository
	logger       *slog.Logger
}

// LocationServiceParams holds dependencies for locationService, injected by Fx.
type LocationServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	LocationRepo repository.LocationRepository
	Logger       *slog.Logger
}

// NewLocationService is the constructor for locationService.
func NewLocationService(params LocationServiceParams) usecase.LocationUsecase {
	return &locationService{
		txManager:    params.TxManager,
		locationRepo: params.LocationRepo,
		logger:       params.Logger,
	}
}

func (srv *locationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Children lists the options of one tier under a parent.
func (srv *locationService) Children(ctx context.Context, tier cascade.Tier, parentID uuid.UUID) ([]*entity.LocationNode, error) {
	if !tier.Valid() || tier == cascade.TierSchool {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown hierarchy tier")
	}
	if tier != cascade.TierState && parentID == uuid.Nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "parent id is required below the state tier")
	}

	nodes, err := srv.locationRepo.Children(ctx, tier, parentID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s children", tier)
	}

	return nodes, nil
}

// Schools lists schools for the final cascade tier.
func (srv *locationService) Schools(ctx context.Context, input *usecase.SchoolsInput) ([]*entity.School, error) {
	if input.SchoolType != "" && !input.SchoolType.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown school type")
	}

	schools, err := srv.locationRepo.Schools(ctx, repository.SchoolFilter{
		DistrictID: input.DistrictID,
		SchoolType: input.SchoolType,
		Search:     input.Search,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list schools")
	}

	return schools, nil
}

// SchoolChain resolves the full State→School path of a school.
func (srv *locationService) SchoolChain(ctx context.Context, schoolID uuid.UUID) (*entity.LocationChain, error) {
	chain, err := srv.locationRepo.Chain(ctx, schoolID)
	if err != nil {
		if errors.Is(err, repository.ErrSchoolNotFound) {
			return nil, errors.Wrap(domainerrors.ErrSchoolNotFound, "school not found")
		}
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil, errors.Wrap(domainerrors.ErrLocationNotFound, "hierarchy above school is broken")
		}

		return nil, errors.Wrap(err, "failed to resolve school chain")
	}

	return chain, nil
}

// CreateNode adds a hierarchy node after validating its parent lives
// one tier above.
func (srv *locationService) CreateNode(ctx context.Context, tier cascade.Tier, input *usecase.NodeInput) (*entity.LocationNode, error) {
	if err := validateNodeInput(tier, input); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Creating hierarchy node", slog.String("tier", tier.String()), slog.String("name", input.Name))

	var created *entity.LocationNode
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		locationRepo := repoFactory.NewLocationRepository()

		if tier != cascade.TierState {
			if _, err := locationRepo.FindNode(ctx, tier-1, input.ParentID); err != nil {
				if errors.Is(err, repository.ErrLocationNotFound) {
					return errors.Wrapf(domainerrors.ErrLocationNotFound, "parent %s not found", tier-1)
				}

				return errors.Wrap(err, "failed to find parent node")
			}
		}

		node := &entity.LocationNode{
			Tier:       tier,
			ParentID:   input.ParentID,
			Name:       input.Name,
			Code:       input.Code,
			OrderIndex: input.OrderIndex,
		}
		if err := locationRepo.CreateNode(ctx, node); err != nil {
			return errors.Wrap(err, "failed to create node")
		}
		created = node

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create hierarchy node", slog.String("tier", tier.String()), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute node creation transaction")
	}

	return created, nil
}

// UpdateNode modifies a hierarchy node. The parent cannot be changed.
func (srv *locationService) UpdateNode(ctx context.Context, tier cascade.Tier, id uuid.UUID, input *usecase.NodeInput) (*entity.LocationNode, error) {
	if !tier.Valid() || tier == cascade.TierSchool {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "unknown hierarchy tier")
	}
	if input.Name == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "node name is required")
	}

	var updated *entity.LocationNode
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		locationRepo := repoFactory.NewLocationRepository()

		node, err := locationRepo.FindNode(ctx, tier, id)
		if err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return errors.Wrap(domainerrors.ErrLocationNotFound, "node not found")
			}

			return errors.Wrap(err, "failed to find node")
		}

		node.Name = input.Name
		node.Code = input.Code
		node.OrderIndex = input.OrderIndex
		if err := locationRepo.UpdateNode(ctx, node); err != nil {
			return errors.Wrap(err, "failed to update node")
		}
		updated = node

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update hierarchy node", slog.String("tier", tier.String()), slog.Any("nodeID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute node update transaction")
	}

	return updated, nil
}

// DeleteNode removes a hierarchy node unless anything still hangs
// under it.
func (srv *locationService) DeleteNode(ctx context.Context, tier cascade.Tier, id uuid.UUID) error {
	if !tier.Valid() || tier == cascade.TierSchool {
		return errors.Wrap(domainerrors.ErrValidationFailed, "unknown hierarchy tier")
	}

	srv.log(ctx).Info("Deleting hierarchy node", slog.String("tier", tier.String()), slog.Any("nodeID", id))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		locationRepo := repoFactory.NewLocationRepository()

		hasChildren, err := locationRepo.HasChildren(ctx, tier, id)
		if err != nil {
			return errors.Wrap(err, "failed to check for children")
		}
		if hasChildren {
			return errors.Wrap(domainerrors.ErrLocationHasChildren, "node still has children")
		}

		if err := locationRepo.DeleteNode(ctx, tier, id); err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return errors.Wrap(domainerrors.ErrLocationNotFound, "node not found")
			}

			return errors.Wrap(err, "failed to delete node")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete hierarchy node", slog.String("tier", tier.String()), slog.Any("nodeID", id), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute node deletion transaction")
	}

	return nil
}

// CreateSchool adds a school under an existing district.
func (srv *locationService) CreateSchool(ctx context.Context, input *usecase.SchoolInput) (*entity.School, error) {
	if err := validateSchoolInput(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Creating school", slog.String("name", input.Name), slog.Any("districtID", input.DistrictID))

	var created *entity.School
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		locationRepo := repoFactory.NewLocationRepository()

		if _, err := locationRepo.FindNode(ctx, cascade.TierDistrict, input.DistrictID); err != nil {
			if errors.Is(err, repository.ErrLocationNotFound) {
				return errors.Wrap(domainerrors.ErrLocationNotFound, "district not found")
			}

			return errors.Wrap(err, "failed to find district")
		}

		school := &entity.School{
			DistrictID: input.DistrictID,
			Name:       input.Name,
			Code:       input.Code,
			SchoolType: input.SchoolType,
			Address:    input.Address,
			Phone:      input.Phone,
		}
		if err := locationRepo.CreateSchool(ctx, school); err != nil {
			return errors.Wrap(err, "failed to create school")
		}
		created = school

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to create school", slog.String("name", input.Name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute school creation transaction")
	}

	return created, nil
}

// UpdateSchool modifies a school, allowing it to move between districts.
func (srv *locationService) UpdateSchool(ctx context.Context, id uuid.UUID, input *usecase.SchoolInput) (*entity.School, error) {
	if err := validateSchoolInput(input); err != nil {
		return nil, err
	}

	var updated *entity.School
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		locationRepo := repoFactory.NewLocationRepository()

		school, err := locationRepo.FindSchool(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrSchoolNotFound) {
				return errors.Wrap(domainerrors.ErrSchoolNotFound, "school not found")
			}

			return errors.Wrap(err, "failed to find school")
		}

		if input.DistrictID != school.DistrictID {
			if _, err := locationRepo.FindNode(ctx, cascade.TierDistrict, input.DistrictID); err != nil {
				if errors.Is(err, repository.ErrLocationNotFound) {
					return errors.Wrap(domainerrors.ErrLocationNotFound, "district not found")
				}

				return errors.Wrap(err, "failed to find district")
			}
		}

		school.DistrictID = input.DistrictID
		school.Name = input.Name
		school.Code = input.Code
		school.SchoolType = input.SchoolType
		school.Address = input.Address
		school.Phone = input.Phone
		if err := locationRepo.UpdateSchool(ctx, school); err != nil {
			return errors.Wrap(err, "failed to update school")
		}
		updated = school

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update school", slog.Any("schoolID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute school update transaction")
	}

	return updated, nil
}

// DeleteSchool removes a school. Schools referenced by registrations
// are protected by the database and surface as a conflict.
func (srv *locationService) DeleteSchool(ctx context.Context, id uuid.UUID) error {
	srv.log(ctx).Info("Deleting school", slog.Any("schoolID", id))

	err := srv.locationRepo.DeleteSchool(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSchoolNotFound) {
			return errors.Wrap(domainerrors.ErrSchoolNotFound, "school not found")
		}

		return errors.Wrap(err, "failed to delete school")
	}

	return nil
}

func validateNodeInput(tier cascade.Tier, input *usecase.NodeInput) error {
	if !tier.Valid() || tier == cascade.TierSchool {
		return errors.Wrap(domainerrors.ErrValidationFailed, "unknown hierarchy tier")
	}
	if input.Name == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "node name is required")
	}
	if tier == cascade.TierState && input.ParentID != uuid.Nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, "states cannot have a parent")
	}
	if tier != cascade.TierState && input.ParentID == uuid.Nil {
		return errors.Wrapf(domainerrors.ErrValidationFailed, "%s requires a parent", tier)
	}

	return nil
}

func validateSchoolInput(input *usecase.SchoolInput) error {
	if input.Name == "" {
		return errors.Wrap(domainerrors.ErrValidationFailed, "school name is required")
	}
	if input.DistrictID == uuid.Nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, "district id is required")
	}
	if !input.SchoolType.IsValid() {
		return errors.Wrap(domainerrors.ErrValidationFailed, "unknown school type")
	}

	return nil
}
