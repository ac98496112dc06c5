package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalanceDelta(t *testing.T) {
	present, absent := true, false
	const rate = int64(500)

	cases := []struct {
		name     string
		previous *bool
		now      bool
		locked   bool
		want     int64
	}{
		{"new present day", nil, true, false, rate},
		{"new absent day", nil, false, false, 0},
		{"absent to present", &absent, true, false, rate},
		{"present to absent", &present, false, false, -rate},
		{"present to absent in locked period", &present, false, true, 0},
		{"absent to present in locked period", &absent, true, true, rate},
		{"present again", &present, true, false, 0},
		{"absent again", &absent, false, true, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, BalanceDelta(c.previous, c.now, c.locked, rate))
		})
	}
}

func TestMarkAttendanceRequestValidate(t *testing.T) {
	present := true
	ok := MarkAttendanceRequest{EmployeeID: "e1", Date: "2024-03-01", IsPresent: &present}
	assert.NoError(t, ok.Validate())

	bad := MarkAttendanceRequest{Date: "03/01/2024"}
	err := bad.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "employee_id")
	assert.Contains(t, err.Error(), "date must be in YYYY-MM-DD format")
	assert.Contains(t, err.Error(), "is_present")
}

func TestAttendanceFilterValidate(t *testing.T) {
	f := AttendanceFilter{StartDate: "2024-03-10", EndDate: "2024-03-01"}
	assert.ErrorContains(t, f.Validate(), "end_date")

	f = AttendanceFilter{StartDate: "2024-03-01", EndDate: "2024-03-01"}
	assert.NoError(t, f.Validate())
}
