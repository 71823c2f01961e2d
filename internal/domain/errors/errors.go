package errors

import (
	"net/http"

	"bimeh/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types. User-facing messages are Persian, matching
// the product's locale.
var (
	// User-related errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"کاربر یافت نشد",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"کاربری با این کد ملی یا ایمیل قبلاً ثبت شده است",
		"",
	)

	ErrUserInactive = NewBaseError(
		http.StatusForbidden,
		"USER_INACTIVE",
		"حساب کاربری غیرفعال است",
		"",
	)

	ErrInvalidNationalID = NewBaseError(
		http.StatusBadRequest,
		"INVALID_NATIONAL_ID",
		"کد ملی نامعتبر است",
		"",
	)

	// Authentication-related errors
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"کد ملی یا رمز عبور اشتباه است",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"نشست نامعتبر یا منقضی شده است",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"خطا در پردازش رمز عبور",
		"",
	)

	ErrPasswordStrength = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_STRENGTH",
		"رمز عبور به اندازه کافی قوی نیست",
		"",
	)

	// Location-related errors
	ErrLocationNotFound = NewBaseError(
		http.StatusNotFound,
		"LOCATION_NOT_FOUND",
		"موقعیت مکانی یافت نشد",
		"",
	)

	ErrSchoolNotFound = NewBaseError(
		http.StatusNotFound,
		"SCHOOL_NOT_FOUND",
		"مدرسه یافت نشد",
		"",
	)

	ErrLocationHasChildren = NewBaseError(
		http.StatusConflict,
		"LOCATION_HAS_CHILDREN",
		"این موقعیت دارای زیرمجموعه است و قابل حذف نیست",
		"",
	)

	ErrLocationCodeConflict = NewBaseError(
		http.StatusConflict,
		"LOCATION_CODE_CONFLICT",
		"کد موقعیت تکراری است",
		"",
	)

	// Plan-related errors
	ErrPlanNotFound = NewBaseError(
		http.StatusNotFound,
		"PLAN_NOT_FOUND",
		"طرح بیمه یافت نشد",
		"",
	)

	ErrPlanInactive = NewBaseError(
		http.StatusBadRequest,
		"PLAN_INACTIVE",
		"این طرح بیمه غیرفعال است",
		"",
	)

	ErrCoverageConflict = NewBaseError(
		http.StatusConflict,
		"COVERAGE_CONFLICT",
		"این طرح قبلاً پوششی از این نوع دارد",
		"",
	)

	// Registration-related errors
	ErrRegistrationNotFound = NewBaseError(
		http.StatusNotFound,
		"REGISTRATION_NOT_FOUND",
		"ثبت‌نام یافت نشد",
		"",
	)

	ErrDuplicateRegistration = NewBaseError(
		http.StatusConflict,
		"DUPLICATE_REGISTRATION",
		"شما یک ثبت‌نام در جریان برای این طرح دارید",
		"",
	)

	ErrInvalidStatusTransition = NewBaseError(
		http.StatusBadRequest,
		"INVALID_STATUS_TRANSITION",
		"تغییر وضعیت درخواستی مجاز نیست",
		"",
	)

	ErrRegistrationNotActive = NewBaseError(
		http.StatusBadRequest,
		"REGISTRATION_NOT_ACTIVE",
		"این ثبت‌نام فعال نیست",
		"",
	)

	// Person-related errors
	ErrPersonNotFound = NewBaseError(
		http.StatusNotFound,
		"PERSON_NOT_FOUND",
		"شخص یافت نشد",
		"",
	)

	ErrPersonAlreadyExists = NewBaseError(
		http.StatusBadRequest,
		"PERSON_ALREADY_EXISTS",
		"شخص با این کد ملی قبلاً ثبت شده است",
		"",
	)

	// Document-related errors
	ErrDocumentNotFound = NewBaseError(
		http.StatusNotFound,
		"DOCUMENT_NOT_FOUND",
		"مدرک یافت نشد",
		"",
	)

	ErrDocumentTooLarge = NewBaseError(
		http.StatusRequestEntityTooLarge,
		"DOCUMENT_TOO_LARGE",
		"حجم فایل بیش از حد مجاز (۱۰ مگابایت) است",
		"",
	)

	ErrDocumentTypeNotAllowed = NewBaseError(
		http.StatusBadRequest,
		"DOCUMENT_TYPE_NOT_ALLOWED",
		"فرمت فایل مجاز نیست",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"اطلاعات ورودی نامعتبر است",
		"",
	)

	// Transaction-related errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"خطا در تراکنش پایگاه داده",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"خطای داخلی سیستم",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"دسترسی غیرمجاز",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"منبع مورد نظر یافت نشد",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"تداخل در منابع",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "خطا در اجرای عملیات پایگاه داده"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
