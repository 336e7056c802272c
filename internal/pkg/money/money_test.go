// internal/pkg/money/money_test.go
package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"whole", "45", 4500, false},
		{"two_places", "45.00", 4500, false},
		{"one_place", "9.5", 950, false},
		{"zero", "0", 0, false},
		{"negative", "-1.00", 0, true},
		{"three_places", "1.005", 0, true},
		{"not_a_number", "abc", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "45.00", FormatAmount(4500))
	assert.Equal(t, "0.05", FormatAmount(5))
	assert.Equal(t, "0.00", FormatAmount(0))
}

func TestParseFormatRoundTrip(t *testing.T) {
	got, err := ParseAmount(FormatAmount(12345))
	require.NoError(t, err)
	assert.Equal(t, int64(12345), got)
}
