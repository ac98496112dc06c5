package attendance

import "github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"

var (
	ErrFutureDate       = apperror.New(apperror.ErrValidation, "attendance cannot be marked for a future date")
	ErrBeforeEpoch      = apperror.New(apperror.ErrValidation, "attendance cannot be marked before the payroll epoch")
	ErrInvalidDateRange = apperror.New(apperror.ErrValidation, "end_date must not precede start_date")
)
