package memory

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/dateutil"
	"github.com/google/uuid"
)

type payslipRepositoryImpl struct {
	s *Store
}

func NewPayslipRepository(s *Store) payroll.PayslipRepository {
	return &payslipRepositoryImpl{s: s}
}

func (r *payslipRepositoryImpl) Create(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	err := r.s.do(ctx, "payslip.create", func(st *state) error {
		p.PeriodStart = dateutil.Normalize(p.PeriodStart)
		p.PeriodEnd = dateutil.Normalize(p.PeriodEnd)
		for _, existing := range st.payslips {
			if existing.EmployeeID == p.EmployeeID &&
				existing.PeriodStart.Equal(p.PeriodStart) &&
				existing.PeriodEnd.Equal(p.PeriodEnd) {
				return payroll.ErrPayslipAlreadyExists
			}
		}
		if p.ID == "" {
			p.ID = uuid.Must(uuid.NewV7()).String()
		}
		now := time.Now()
		p.CreatedAt = now
		p.UpdatedAt = now
		st.payslips[p.ID] = p
		return nil
	})
	return p, err
}

func (r *payslipRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.Payslip, error) {
	var p payroll.Payslip
	err := r.s.do(ctx, "payslip.get", func(st *state) error {
		found, ok := st.payslips[id]
		if !ok {
			return payroll.ErrPayslipNotFound
		}
		p = withEmployeeName(st, found)
		return nil
	})
	return p, err
}

func (r *payslipRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (payroll.Payslip, error) {
	return r.GetByID(ctx, id)
}

func (r *payslipRepositoryImpl) LatestReleased(ctx context.Context, employeeID string, endingBefore *time.Time) (*payroll.Payslip, error) {
	var latest *payroll.Payslip
	err := r.s.do(ctx, "payslip.latest_released", func(st *state) error {
		for _, p := range st.payslips {
			if p.EmployeeID != employeeID || p.Status != payroll.PayslipStatusReleased {
				continue
			}
			if endingBefore != nil && !p.PeriodEnd.Before(dateutil.Normalize(*endingBefore)) {
				continue
			}
			if latest == nil || p.PeriodEnd.After(latest.PeriodEnd) {
				found := p
				latest = &found
			}
		}
		return nil
	})
	return latest, err
}

func (r *payslipRepositoryImpl) HasPending(ctx context.Context, employeeID string) (bool, error) {
	pending := false
	err := r.s.do(ctx, "payslip.has_pending", func(st *state) error {
		for _, p := range st.payslips {
			if p.EmployeeID == employeeID && p.Status == payroll.PayslipStatusPending {
				pending = true
				return nil
			}
		}
		return nil
	})
	return pending, err
}

func (r *payslipRepositoryImpl) List(ctx context.Context, filter payroll.PayslipFilter) ([]payroll.Payslip, int64, error) {
	var matched []payroll.Payslip
	err := r.s.do(ctx, "payslip.list", func(st *state) error {
		for _, p := range st.payslips {
			if filter.Status != nil && string(p.Status) != *filter.Status {
				continue
			}
			if filter.EmployeeID != nil && p.EmployeeID != *filter.EmployeeID {
				continue
			}
			matched = append(matched, withEmployeeName(st, p))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	sortPayslips(matched)
	total := int64(len(matched))

	offset := filter.Offset()
	if offset >= len(matched) {
		return []payroll.Payslip{}, total, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *payslipRepositoryImpl) MarkReleased(ctx context.Context, id string, releasedAt time.Time, releasedBy string) error {
	return r.s.do(ctx, "payslip.mark_released", func(st *state) error {
		p, ok := st.payslips[id]
		if !ok {
			return payroll.ErrPayslipNotFound
		}
		if err := p.Release(releasedAt, releasedBy); err != nil {
			return err
		}
		st.payslips[id] = p
		return nil
	})
}

func (r *payslipRepositoryImpl) UpdateAdjustments(ctx context.Context, updated payroll.Payslip) error {
	return r.s.do(ctx, "payslip.update_adjustments", func(st *state) error {
		p, ok := st.payslips[updated.ID]
		if !ok {
			return payroll.ErrPayslipNotFound
		}
		if p.Status != payroll.PayslipStatusPending {
			return payroll.ErrPayslipNotPending
		}
		p.TotalBonuses = updated.TotalBonuses
		p.TotalDeductions = updated.TotalDeductions
		p.NetPay = updated.NetPay
		p.Notes = updated.Notes
		p.UpdatedAt = time.Now()
		st.payslips[p.ID] = p
		return nil
	})
}

func withEmployeeName(st *state, p payroll.Payslip) payroll.Payslip {
	if emp, ok := st.employees[p.EmployeeID]; ok {
		name := emp.FullName
		p.EmployeeName = &name
	}
	return p
}
