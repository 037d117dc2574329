package attendance

import (
	"testing"

	"github.com/cmlabs-hris/faculty-portal-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestMarkPresentRequest_Validate(t *testing.T) {
	cases := []struct {
		name    string
		req     MarkPresentRequest
		wantErr []string
	}{
		{"campus fix", MarkPresentRequest{Latitude: ptr(17.7407), Longitude: ptr(83.2540)}, nil},
		{"no fix", MarkPresentRequest{GeolocationError: "denied"}, nil},
		{"latitude out of range", MarkPresentRequest{Latitude: ptr(91), Longitude: ptr(83.25)}, []string{"latitude"}},
		{"longitude out of range", MarkPresentRequest{Latitude: ptr(17.74), Longitude: ptr(-181)}, []string{"longitude"}},
		{"both out of range", MarkPresentRequest{Latitude: ptr(-90.5), Longitude: ptr(180.1)}, []string{"latitude", "longitude"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.req.Validate()
			if c.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			fields := make([]string, 0, len(verrs))
			for _, e := range verrs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, c.wantErr, fields)
		})
	}
}
