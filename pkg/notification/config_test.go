package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuietHours_Contains(t *testing.T) {
	quiet := QuietHours{Start: 22, End: 8}

	tests := []struct {
		hour int
		want bool
	}{
		{hour: 23, want: true},
		{hour: 22, want: true},
		{hour: 0, want: true},
		{hour: 5, want: true},
		{hour: 7, want: true},
		{hour: 8, want: false},
		{hour: 12, want: false},
		{hour: 21, want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, quiet.Contains(tt.hour), "hour %d", tt.hour)
	}
}

func TestQuietHours_Validate(t *testing.T) {
	tests := []struct {
		name    string
		quiet   QuietHours
		wantErr error
	}{
		{name: "wrapping window", quiet: QuietHours{Start: 22, End: 8}},
		{name: "non-wrapping rejected", quiet: QuietHours{Start: 8, End: 22}, wantErr: ErrInvalidQuietHours},
		{name: "equal rejected", quiet: QuietHours{Start: 8, End: 8}, wantErr: ErrInvalidQuietHours},
		{name: "hour out of range", quiet: QuietHours{Start: 24, End: 8}, wantErr: ErrInvalidHour},
		{name: "negative hour", quiet: QuietHours{Start: 22, End: -1}, wantErr: ErrInvalidHour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.quiet.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDeliveryConfig_Validate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		assert.NoError(t, DefaultDeliveryConfig().Validate())
	})

	t.Run("unsupported channel rejected", func(t *testing.T) {
		cfg := DeliveryConfig{EnabledChannels: []Channel{"carrier-pigeon"}}
		assert.ErrorIs(t, cfg.Validate(), ErrUnsupportedChannel)
	})

	t.Run("malformed quiet hours rejected at write time", func(t *testing.T) {
		cfg := DefaultDeliveryConfig()
		cfg.QuietHours = &QuietHours{Start: 9, End: 17}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidQuietHours)
	})
}

func TestActivityPattern_Location(t *testing.T) {
	require.Equal(t, "UTC", ActivityPattern{}.Location().String())
	require.Equal(t, "UTC", ActivityPattern{TimeZone: "Mars/Olympus"}.Location().String())

	loc := ActivityPattern{TimeZone: "Europe/Berlin"}.Location()
	assert.Equal(t, "Europe/Berlin", loc.String())
}
