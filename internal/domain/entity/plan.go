package entity

import (
	"time"

	"github.com/google/uuid"
)

// PlanType is the pricing tier of an insurance plan.
type PlanType string

const (
	PlanBasic    PlanType = "basic"
	PlanStandard PlanType = "standard"
	PlanPremium  PlanType = "premium"
)

// String returns the string representation of the PlanType.
func (p PlanType) String() string {
	return string(p)
}

// IsValid checks if the PlanType is a valid value.
func (p PlanType) IsValid() bool {
	switch p {
	case PlanBasic, PlanStandard, PlanPremium:
		return true
	default:
		return false
	}
}

// Label returns the Persian display label for the plan type.
func (p PlanType) Label() string {
	switch p {
	case PlanBasic:
		return "پایه"
	case PlanStandard:
		return "استاندارد"
	case PlanPremium:
		return "ویژه"
	default:
		return "نامشخص"
	}
}

// CoverageType identifies a category of medical service a plan covers.
type CoverageType string

const (
	CoverageOutpatient      CoverageType = "outpatient"
	CoverageHospitalization CoverageType = "hospitalization"
	CoverageMedication      CoverageType = "medication"
	CoverageLaboratory      CoverageType = "laboratory"
	CoverageImaging         CoverageType = "imaging"
	CoverageDental          CoverageType = "dental"
	CoverageOphthalmology   CoverageType = "ophthalmology"
	CoveragePhysiotherapy   CoverageType = "physiotherapy"
)

// String returns the string representation of the CoverageType.
func (c CoverageType) String() string {
	return string(c)
}

// IsValid checks if the CoverageType is a valid value.
func (c CoverageType) IsValid() bool {
	switch c {
	case CoverageOutpatient, CoverageHospitalization, CoverageMedication,
		CoverageLaboratory, CoverageImaging, CoverageDental,
		CoverageOphthalmology, CoveragePhysiotherapy:
		return true
	default:
		return false
	}
}

// Label returns the Persian display label for the coverage type.
func (c CoverageType) Label() string {
	switch c {
	case CoverageOutpatient:
		return "درمان سرپایی"
	case CoverageHospitalization:
		return "بستری"
	case CoverageMedication:
		return "دارو"
	case CoverageLaboratory:
		return "آزمایش"
	case CoverageImaging:
		return "تصویربرداری"
	case CoverageDental:
		return "دندانپزشکی"
	case CoverageOphthalmology:
		return "چشم‌پزشکی"
	case CoveragePhysiotherapy:
		return "فیزیوتراپی"
	default:
		return "نامشخص"
	}
}

// InsurancePlan is a purchasable supplemental insurance product.
// Monetary amounts are in whole rials.
type InsurancePlan struct {
	ID             uuid.UUID      // The unique identifier for the plan.
	Name           string         // The Persian plan name, unique across plans.
	PlanType       PlanType       // The pricing tier.
	Description    string         // The Persian marketing description.
	MonthlyPremium int64          // Monthly premium in rials.
	IsActive       bool           // Whether the plan can receive new registrations.
	Coverages      []PlanCoverage // The plan's coverage items, one per coverage type.
	CreatedAt      time.Time      // Timestamp of when this plan was created.
	UpdatedAt      time.Time      // Timestamp of the last modification.
}

// PlanCoverage is one coverage item of a plan. A plan carries at most
// one coverage per coverage type.
type PlanCoverage struct {
	ID                 uuid.UUID    // The unique identifier for this coverage.
	PlanID             uuid.UUID    // The plan this coverage belongs to.
	CoverageType       CoverageType // The covered service category.
	Title              string       // The Persian display title.
	Description        string       // The Persian description of terms.
	CoverageAmount     int64        // Annual payout ceiling in rials.
	CoveragePercentage int          // Percentage of each expense covered, 0-100.
	MaxUsageCount      *int         // Optional per-year usage limit; nil means unlimited.
	IsActive           bool         // Whether this coverage currently applies.
	CreatedAt          time.Time    // Timestamp of when this coverage was created.
}
