// Package memory is an in-process implementation of the repositories. A
// single mutex serializes transactions; a failed transaction restores the
// snapshot taken when it began.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/commission"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/expense"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/notification"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/apperror"
)

type txKey struct{}

type state struct {
	employees     map[string]employee.Employee
	attendance    map[attendanceKey]attendance.Record
	workItems     map[string]commission.WorkItem
	payslips      map[string]payroll.Payslip
	requests      map[string]payroll.PayslipRequest
	expenses      []expense.Entry
	notifications []*notification.Notification
}

type attendanceKey struct {
	employeeID string
	date       string
}

func newState() state {
	return state{
		employees:  make(map[string]employee.Employee),
		attendance: make(map[attendanceKey]attendance.Record),
		workItems:  make(map[string]commission.WorkItem),
		payslips:   make(map[string]payroll.Payslip),
		requests:   make(map[string]payroll.PayslipRequest),
	}
}

func (s state) clone() state {
	c := newState()
	for k, v := range s.employees {
		c.employees[k] = v
	}
	for k, v := range s.attendance {
		c.attendance[k] = v
	}
	for k, v := range s.workItems {
		c.workItems[k] = v
	}
	for k, v := range s.payslips {
		c.payslips[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	c.expenses = append([]expense.Entry(nil), s.expenses...)
	c.notifications = append([]*notification.Notification(nil), s.notifications...)
	return c
}

// Store holds every table and implements database.Transactor.
type Store struct {
	mu       sync.Mutex
	timeout  time.Duration
	data     state
	failures map[string]error
}

func NewStore(txTimeout time.Duration) *Store {
	return &Store{
		timeout:  txTimeout,
		data:     newState(),
		failures: make(map[string]error),
	}
}

// WithinTransaction runs fn with exclusive access to the store. Any error,
// including an expired deadline, discards every write fn made.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	snapshot := s.data.clone()
	txCtx := context.WithValue(ctx, txKey{}, s)

	err := fn(txCtx)
	if err == nil {
		err = txCtx.Err()
	}
	if err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// FailOn makes the named operation return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// do runs fn against the live tables, joining the caller's transaction when
// there is one.
func (s *Store) do(ctx context.Context, op string, fn func(st *state) error) error {
	if !s.inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	if err := ctx.Err(); err != nil {
		return apperror.Persistence(op, err)
	}
	if err, ok := s.failures[op]; ok {
		return apperror.Persistence(op, err)
	}
	return fn(&s.data)
}

// AddWorkItem seeds a completed work item as the transaction subsystem would.
func (s *Store) AddWorkItem(item commission.WorkItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.workItems[item.ID] = item
}

// AddEmployee seeds an employee record.
func (s *Store) AddEmployee(emp employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.employees[emp.ID] = emp
}

// Expenses returns a copy of the audit entries written so far.
func (s *Store) Expenses() []expense.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]expense.Entry(nil), s.data.expenses...)
}

// Notifications returns a copy of the persisted notifications.
func (s *Store) Notifications() []*notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*notification.Notification(nil), s.data.notifications...)
}

func sortPayslips(items []payroll.Payslip) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].PeriodEnd.Equal(items[j].PeriodEnd) {
			return items[i].PeriodEnd.After(items[j].PeriodEnd)
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
