package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateRange(t *testing.T, start, end string, loc *time.Location) (*time.Time, *time.Time) {
	t.Helper()
	s, err := time.Parse("2006-01-02", start)
	require.NoError(t, err)
	e, err := time.Parse("2006-01-02", end)
	require.NoError(t, err)
	s, e = s.In(loc), e.In(loc)
	return &s, &e
}

func TestCovers(t *testing.T) {
	start, end := dateRange(t, "2024-03-01", "2024-03-02", time.UTC)
	request := LeaveRequest{Type: TypeCasual, StartDate: start, EndDate: end}

	cases := []struct {
		date string
		want bool
	}{
		{"2024-02-29", false},
		{"2024-03-01", true},
		{"2024-03-02", true},
		{"2024-03-03", false},
	}
	for _, c := range cases {
		t.Run(c.date, func(t *testing.T) {
			assert.Equal(t, c.want, request.Covers(c.date))
		})
	}
}

func TestCovers_PermissionNeverCovers(t *testing.T) {
	start, end := dateRange(t, "2024-03-01", "2024-03-02", time.UTC)
	request := LeaveRequest{Type: TypePermission, StartDate: start, EndDate: end}

	assert.False(t, request.Covers("2024-03-01"))
}

func TestLeaveDates_IgnoreValueLocation(t *testing.T) {
	// Midnight UTC carried in a zone west of UTC still names the same calendar day.
	west := time.FixedZone("EST", -5*3600)
	start, end := dateRange(t, "2024-03-01", "2024-03-02", west)
	request := LeaveRequest{Type: TypeSick, StartDate: start, EndDate: end}

	assert.True(t, request.Covers("2024-03-02"))
	assert.False(t, request.Covers("2024-02-29"))

	resp := NewLeaveRequestResponse(request)
	require.NotNil(t, resp.StartDate)
	require.NotNil(t, resp.EndDate)
	assert.Equal(t, "2024-03-01", *resp.StartDate)
	assert.Equal(t, "2024-03-02", *resp.EndDate)
}

func TestBalances_Normalized(t *testing.T) {
	b := Balances{TypeCasual: 3, Type("XL"): 9}

	got := b.Normalized()
	assert.Len(t, got, len(Types))
	assert.Equal(t, 3, got[TypeCasual])
	assert.Equal(t, 0, got[TypeEarned])
	_, ok := got[Type("XL")]
	assert.False(t, ok)
}
