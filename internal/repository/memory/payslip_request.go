package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
	"github.com/google/uuid"
)

type payslipRequestRepositoryImpl struct {
	s *Store
}

func NewPayslipRequestRepository(s *Store) payroll.PayslipRequestRepository {
	return &payslipRequestRepositoryImpl{s: s}
}

func (r *payslipRequestRepositoryImpl) Create(ctx context.Context, req payroll.PayslipRequest) (payroll.PayslipRequest, error) {
	err := r.s.do(ctx, "payslip_request.create", func(st *state) error {
		req.PeriodStart = dateutil.Normalize(req.PeriodStart)
		req.PeriodEnd = dateutil.Normalize(req.PeriodEnd)
		if req.Status == payroll.RequestStatusPending && pendingWindowExists(st, req.EmployeeID, req.PeriodStart, req.PeriodEnd) {
			return payroll.ErrDuplicatePendingRequest
		}
		if req.ID == "" {
			req.ID = uuid.Must(uuid.NewV7()).String()
		}
		now := time.Now()
		req.CreatedAt = now
		req.UpdatedAt = now
		st.requests[req.ID] = req
		return nil
	})
	return req, err
}

func (r *payslipRequestRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.PayslipRequest, error) {
	var req payroll.PayslipRequest
	err := r.s.do(ctx, "payslip_request.get", func(st *state) error {
		found, ok := st.requests[id]
		if !ok {
			return payroll.ErrRequestNotFound
		}
		req = withRequesterName(st, found)
		return nil
	})
	return req, err
}

func (r *payslipRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (payroll.PayslipRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *payslipRequestRepositoryImpl) ExistsPending(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (bool, error) {
	exists := false
	err := r.s.do(ctx, "payslip_request.exists_pending", func(st *state) error {
		exists = pendingWindowExists(st, employeeID, dateutil.Normalize(periodStart), dateutil.Normalize(periodEnd))
		return nil
	})
	return exists, err
}

func (r *payslipRequestRepositoryImpl) List(ctx context.Context, filter payroll.RequestFilter) ([]payroll.PayslipRequest, error) {
	items := []payroll.PayslipRequest{}
	err := r.s.do(ctx, "payslip_request.list", func(st *state) error {
		for _, req := range st.requests {
			if filter.Status != nil && string(req.Status) != *filter.Status {
				continue
			}
			if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
				continue
			}
			items = append(items, withRequesterName(st, req))
		}
		return nil
	})
	sort.Slice(items, func(i, j int) bool {
		if !items[i].RequestedAt.Equal(items[j].RequestedAt) {
			return items[i].RequestedAt.After(items[j].RequestedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, err
}

func (r *payslipRequestRepositoryImpl) UpdateStatus(ctx context.Context, req payroll.PayslipRequest) error {
	return r.s.do(ctx, "payslip_request.update_status", func(st *state) error {
		stored, ok := st.requests[req.ID]
		if !ok {
			return payroll.ErrRequestNotFound
		}
		if stored.Status != payroll.RequestStatusPending {
			return payroll.ErrRequestNotPending
		}
		stored.Status = req.Status
		stored.Notes = req.Notes
		stored.PayslipID = req.PayslipID
		stored.ProcessedBy = req.ProcessedBy
		stored.ProcessedAt = req.ProcessedAt
		stored.UpdatedAt = time.Now()
		st.requests[req.ID] = stored
		return nil
	})
}

func pendingWindowExists(st *state, employeeID string, start, end time.Time) bool {
	for _, req := range st.requests {
		if req.EmployeeID == employeeID &&
			req.Status == payroll.RequestStatusPending &&
			req.PeriodStart.Equal(start) &&
			req.PeriodEnd.Equal(end) {
			return true
		}
	}
	return false
}

func withRequesterName(st *state, req payroll.PayslipRequest) payroll.PayslipRequest {
	if emp, ok := st.employees[req.EmployeeID]; ok {
		name := emp.FullName
		req.EmployeeName = &name
	}
	return req
}
