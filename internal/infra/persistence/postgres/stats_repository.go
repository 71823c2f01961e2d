package postgres

import (
	"context"
	"time"

	"bimeh/internal/domain/entity"
	"bimeh/internal/domain/repository"
	"bimeh/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// statsRepository implements the domain.StatsRepository interface with
// read-only aggregate queries. It stays outside the transaction factory.
type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository is the constructor for statsRepository.
func NewStatsRepository(db *gorm.DB) repository.StatsRepository {
	return &statsRepository{db: db}
}

// keyCount is the scan target for single-column group-by queries.
type keyCount struct {
	Key   string
	Count int64
}

// CountUsers returns the total and admin account counts.
func (repo *statsRepository) CountUsers(ctx context.Context) (total, admins int64, err error) {
	if err := repo.db.WithContext(ctx).Model(&model.UserModel{}).
		Count(&total).Error; err != nil {
		return 0, 0, errors.WithStack(err)
	}
	if err := repo.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("is_admin = ?", true).
		Count(&admins).Error; err != nil {
		return 0, 0, errors.WithStack(err)
	}

	return total, admins, nil
}

// CountUsersCreatedSince counts accounts created at or after since.
func (repo *statsRepository) CountUsersCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.UserModel{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// CountUsersWithRegistrations counts distinct accounts holding at least one registration.
func (repo *statsRepository) CountUsersWithRegistrations(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.InsuranceRegistrationModel{}).
		Distinct("user_id").
		Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// CountUsersWithPersons counts distinct accounts with at least one covered person.
func (repo *statsRepository) CountUsersWithPersons(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.PersonModel{}).
		Distinct("user_id").
		Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// CountPersons counts covered persons, optionally scoped to a user.
func (repo *statsRepository) CountPersons(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.PersonModel{})
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// PersonRelationCounts groups covered persons by relation.
func (repo *statsRepository) PersonRelationCounts(ctx context.Context, userID uuid.UUID) (map[entity.Relation]int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.PersonModel{}).
		Select("relation AS key, COUNT(*) AS count").
		Group("relation")
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	var rows []keyCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make(map[entity.Relation]int64, len(rows))
	for _, row := range rows {
		counts[entity.Relation(row.Key)] = row.Count
	}

	return counts, nil
}

// PersonBirthDates lists birth dates for age-distribution buckets.
func (repo *statsRepository) PersonBirthDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	query := repo.db.WithContext(ctx).Model(&model.PersonModel{}).
		Select("birth_date")
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	var birthDates []time.Time
	if err := query.Scan(&birthDates).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	return birthDates, nil
}

// CountRegistrations counts registrations, optionally scoped to a user.
func (repo *statsRepository) CountRegistrations(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.InsuranceRegistrationModel{})
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// RegistrationStatusCounts groups registrations by status.
func (repo *statsRepository) RegistrationStatusCounts(ctx context.Context, userID uuid.UUID) (map[entity.RegistrationStatus]int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.InsuranceRegistrationModel{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status")
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	var rows []keyCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make(map[entity.RegistrationStatus]int64, len(rows))
	for _, row := range rows {
		counts[entity.RegistrationStatus(row.Key)] = row.Count
	}

	return counts, nil
}

// RegistrationsByPlan counts registrations per plan, most popular first.
func (repo *statsRepository) RegistrationsByPlan(ctx context.Context) ([]repository.PlanRegistrationCount, error) {
	var rows []struct {
		PlanID         uuid.UUID
		PlanName       string
		PlanType       string
		MonthlyPremium int64
		Count          int64
	}

	if err := repo.db.WithContext(ctx).Model(&model.InsuranceRegistrationModel{}).
		Select(`insurance_plans.id AS plan_id,
			insurance_plans.name AS plan_name,
			insurance_plans.plan_type AS plan_type,
			insurance_plans.monthly_premium AS monthly_premium,
			COUNT(*) AS count`).
		Joins("JOIN insurance_plans ON insurance_plans.id = insurance_registrations.plan_id").
		Group("insurance_plans.id, insurance_plans.name, insurance_plans.plan_type, insurance_plans.monthly_premium").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make([]repository.PlanRegistrationCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, repository.PlanRegistrationCount{
			PlanID:         row.PlanID,
			PlanName:       row.PlanName,
			PlanType:       entity.PlanType(row.PlanType),
			MonthlyPremium: row.MonthlyPremium,
			Count:          row.Count,
		})
	}

	return counts, nil
}

// RegistrationsByMonth counts registrations per calendar month over the
// trailing months window, oldest first. Months without registrations
// are filled with zero so charts stay continuous.
func (repo *statsRepository) RegistrationsByMonth(ctx context.Context, months int) ([]repository.MonthCount, error) {
	if months <= 0 {
		return nil, nil
	}

	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(months - 1), 0)

	var rows []keyCount
	if err := repo.db.WithContext(ctx).Model(&model.InsuranceRegistrationModel{}).
		Select("to_char(registration_date, 'YYYY-MM') AS key, COUNT(*) AS count").
		Where("registration_date >= ?", from).
		Group("key").
		Order("key ASC").
		Scan(&rows).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	byMonth := make(map[string]int64, len(rows))
	for _, row := range rows {
		byMonth[row.Key] = row.Count
	}

	counts := make([]repository.MonthCount, 0, months)
	for i := 0; i < months; i++ {
		month := from.AddDate(0, i, 0).Format("2006-01")
		counts = append(counts, repository.MonthCount{Month: month, Count: byMonth[month]})
	}

	return counts, nil
}

// CountRegistrationsSince counts registrations submitted at or after since.
func (repo *statsRepository) CountRegistrationsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.InsuranceRegistrationModel{}).
		Where("registration_date >= ?", since).
		Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// CountSchools returns the total school count.
func (repo *statsRepository) CountSchools(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&model.SchoolModel{}).
		Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// SchoolTypeCounts groups schools by type.
func (repo *statsRepository) SchoolTypeCounts(ctx context.Context) (map[entity.SchoolType]int64, error) {
	var rows []keyCount
	if err := repo.db.WithContext(ctx).Model(&model.SchoolModel{}).
		Select("school_type AS key, COUNT(*) AS count").
		Group("school_type").
		Scan(&rows).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make(map[entity.SchoolType]int64, len(rows))
	for _, row := range rows {
		counts[entity.SchoolType(row.Key)] = row.Count
	}

	return counts, nil
}

// SchoolsByState counts schools per state, largest first, limited. The
// join walks the full hierarchy since schools only reference districts.
func (repo *statsRepository) SchoolsByState(ctx context.Context, limit int) ([]repository.StateSchoolCount, error) {
	var rows []struct {
		StateID   uuid.UUID
		StateName string
		Count     int64
	}

	query := repo.db.WithContext(ctx).Model(&model.SchoolModel{}).
		Select("states.id AS state_id, states.name AS state_name, COUNT(*) AS count").
		Joins("JOIN districts ON districts.id = schools.district_id").
		Joins("JOIN regions ON regions.id = districts.parent_id").
		Joins("JOIN counties ON counties.id = regions.parent_id").
		Joins("JOIN cities ON cities.id = counties.parent_id").
		Joins("JOIN states ON states.id = cities.parent_id").
		Group("states.id, states.name").
		Order("count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make([]repository.StateSchoolCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, repository.StateSchoolCount{
			StateID:   row.StateID,
			StateName: row.StateName,
			Count:     row.Count,
		})
	}

	return counts, nil
}

// TopSchools lists schools with the most registrations, limited.
func (repo *statsRepository) TopSchools(ctx context.Context, limit int) ([]repository.SchoolRegistrationCount, error) {
	var rows []struct {
		SchoolID   uuid.UUID
		SchoolName string
		SchoolType string
		Count      int64
	}

	query := repo.db.WithContext(ctx).Model(&model.InsuranceRegistrationModel{}).
		Select(`schools.id AS school_id,
			schools.name AS school_name,
			schools.school_type AS school_type,
			COUNT(*) AS count`).
		Joins("JOIN schools ON schools.id = insurance_registrations.school_id").
		Group("schools.id, schools.name, schools.school_type").
		Order("count DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make([]repository.SchoolRegistrationCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, repository.SchoolRegistrationCount{
			SchoolID:   row.SchoolID,
			SchoolName: row.SchoolName,
			SchoolType: entity.SchoolType(row.SchoolType),
			Count:      row.Count,
		})
	}

	return counts, nil
}

// CountPlans returns the total and active plan counts.
func (repo *statsRepository) CountPlans(ctx context.Context) (total, active int64, err error) {
	if err := repo.db.WithContext(ctx).Model(&model.InsurancePlanModel{}).
		Count(&total).Error; err != nil {
		return 0, 0, errors.WithStack(err)
	}
	if err := repo.db.WithContext(ctx).Model(&model.InsurancePlanModel{}).
		Where("is_active = ?", true).
		Count(&active).Error; err != nil {
		return 0, 0, errors.WithStack(err)
	}

	return total, active, nil
}

// PlanTypeCounts groups plans by type.
func (repo *statsRepository) PlanTypeCounts(ctx context.Context) (map[entity.PlanType]int64, error) {
	var rows []keyCount
	if err := repo.db.WithContext(ctx).Model(&model.InsurancePlanModel{}).
		Select("plan_type AS key, COUNT(*) AS count").
		Group("plan_type").
		Scan(&rows).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	counts := make(map[entity.PlanType]int64, len(rows))
	for _, row := range rows {
		counts[entity.PlanType(row.Key)] = row.Count
	}

	return counts, nil
}

// AveragePremium returns the mean monthly premium across plans.
func (repo *statsRepository) AveragePremium(ctx context.Context) (float64, error) {
	var avg *float64
	if err := repo.db.WithContext(ctx).Model(&model.InsurancePlanModel{}).
		Select("AVG(monthly_premium)").
		Scan(&avg).Error; err != nil {
		return 0, errors.WithStack(err)
	}
	if avg == nil {
		return 0, nil
	}

	return *avg, nil
}

// CountDocuments returns total and verified document counts.
func (repo *statsRepository) CountDocuments(ctx context.Context) (total, verified int64, err error) {
	if err := repo.db.WithContext(ctx).Model(&model.DocumentModel{}).
		Count(&total).Error; err != nil {
		return 0, 0, errors.WithStack(err)
	}
	if err := repo.db.WithContext(ctx).Model(&model.DocumentModel{}).
		Where("is_verified = ?", true).
		Count(&verified).Error; err != nil {
		return 0, 0, errors.WithStack(err)
	}

	return total, verified, nil
}
