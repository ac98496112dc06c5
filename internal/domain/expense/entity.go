package expense

import "time"

const (
	CategorySalary = "salary"

	ReferencePayslip = "payslip"
)

// Entry is an append-only audit record of money paid out.
type Entry struct {
	ID            string
	Category      string
	Amount        int64
	Description   string
	EmployeeID    *string
	ReferenceType *string
	ReferenceID   *string
	RecordedBy    string
	RecordedAt    time.Time
}
