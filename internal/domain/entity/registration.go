package entity

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationStatus is the lifecycle state of an insurance registration.
//
// The forward path is pending -> approved -> active, with rejected,
// expired and cancelled as terminal exits:
//
//	pending  -> approved | rejected
//	approved -> active   | cancelled
//	active   -> expired  | cancelled
//
// Administrators may move a registration to any status regardless of
// the forward path; such moves are recorded as irregular in the audit
// trail rather than rejected.
type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "pending"
	StatusApproved  RegistrationStatus = "approved"
	StatusRejected  RegistrationStatus = "rejected"
	StatusActive    RegistrationStatus = "active"
	StatusExpired   RegistrationStatus = "expired"
	StatusCancelled RegistrationStatus = "cancelled"
)

// AllStatuses lists every registration status, in lifecycle order.
func AllStatuses() []RegistrationStatus {
	return []RegistrationStatus{
		StatusPending, StatusApproved, StatusRejected,
		StatusActive, StatusExpired, StatusCancelled,
	}
}

// String returns the string representation of the RegistrationStatus.
func (s RegistrationStatus) String() string {
	return string(s)
}

// IsValid checks if the RegistrationStatus is a valid value.
func (s RegistrationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected,
		StatusActive, StatusExpired, StatusCancelled:
		return true
	default:
		return false
	}
}

// Label returns the Persian display label for the status.
func (s RegistrationStatus) Label() string {
	switch s {
	case StatusPending:
		return "در انتظار بررسی"
	case StatusApproved:
		return "تایید شده"
	case StatusRejected:
		return "رد شده"
	case StatusActive:
		return "فعال"
	case StatusExpired:
		return "منقضی شده"
	case StatusCancelled:
		return "لغو شده"
	default:
		return "نامشخص"
	}
}

// Description returns the Persian explanation shown to the policyholder.
func (s RegistrationStatus) Description() string {
	switch s {
	case StatusPending:
		return "ثبت‌نام شما در حال بررسی توسط مدیر سیستم است. لطفاً منتظر بمانید."
	case StatusApproved:
		return "ثبت‌نام شما تایید شده است. منتظر فعال‌سازی بیمه باشید."
	case StatusRejected:
		return "متأسفانه ثبت‌نام شما رد شده است. برای اطلاعات بیشتر با پشتیبانی تماس بگیرید."
	case StatusActive:
		return "بیمه شما فعال است و می‌توانید از خدمات بیمه‌ای استفاده کنید."
	case StatusExpired:
		return "بیمه شما منقضی شده است. برای تمدید با پشتیبانی تماس بگیرید."
	case StatusCancelled:
		return "ثبت‌نام شما لغو شده است."
	default:
		return "وضعیت نامشخص"
	}
}

// NextStatuses returns the statuses reachable from s along the forward
// path. Terminal statuses return nil.
func (s RegistrationStatus) NextStatuses() []RegistrationStatus {
	switch s {
	case StatusPending:
		return []RegistrationStatus{StatusApproved, StatusRejected}
	case StatusApproved:
		return []RegistrationStatus{StatusActive, StatusCancelled}
	case StatusActive:
		return []RegistrationStatus{StatusExpired, StatusCancelled}
	default:
		return nil
	}
}

// CanTransition reports whether moving from s to target follows the
// forward path.
func (s RegistrationStatus) CanTransition(target RegistrationStatus) bool {
	for _, next := range s.NextStatuses() {
		if next == target {
			return true
		}
	}

	return false
}

// IsTerminal reports whether s has no forward transitions.
func (s RegistrationStatus) IsTerminal() bool {
	return len(s.NextStatuses()) == 0
}

// Registration is an application for supplemental insurance coverage,
// tying an account to a plan and a school plus the covered persons.
type Registration struct {
	ID               uuid.UUID          // The unique identifier for this registration.
	UserID           uuid.UUID          // The account that submitted the registration.
	PlanID           uuid.UUID          // The selected insurance plan.
	SchoolID         uuid.UUID          // The affiliated school, leaf of the location chain.
	PersonIDs        []uuid.UUID        // The covered family members.
	Status           RegistrationStatus // The current lifecycle state.
	RegistrationDate time.Time          // When the registration was submitted.
	StartDate        *time.Time         // Coverage start, set on activation; date precision.
	EndDate          *time.Time         // Coverage end; date precision.
	AdditionalInfo   map[string]any     // Free-form extras captured at submission.
	CreatedAt        time.Time          // Timestamp of when this record was created.
	UpdatedAt        time.Time          // Timestamp of the last modification.
}

// IsOwnedBy reports whether the registration belongs to the given account.
func (r *Registration) IsOwnedBy(userID uuid.UUID) bool {
	return r.UserID == userID
}
