package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{MaxRequests: 1, Window: time.Millisecond}.Validate())
	assert.ErrorIs(t, Config{MaxRequests: 0, Window: time.Second}.Validate(), ErrInvalidMaxRequests)
	assert.ErrorIs(t, Config{MaxRequests: -3, Window: time.Second}.Validate(), ErrInvalidMaxRequests)
	assert.ErrorIs(t, Config{MaxRequests: 5, Window: 0}.Validate(), ErrInvalidWindow)
	assert.ErrorIs(t, Config{MaxRequests: 5, Window: -time.Second}.Validate(), ErrInvalidWindow)
}

func TestGetPreset(t *testing.T) {
	tests := []struct {
		name        string
		maxRequests int
		window      time.Duration
	}{
		{PresetStrict, 10, time.Minute},
		{PresetModerate, 100, time.Minute},
		{PresetLoose, 1000, time.Minute},
		{PresetAuth, 5, 15 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := GetPreset(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.maxRequests, cfg.MaxRequests)
			assert.Equal(t, tt.window, cfg.Window)
			assert.NoError(t, cfg.Validate())
		})
	}

	_, err := GetPreset("burst")
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Equal(t, []string{"auth", "loose", "moderate", "strict"}, PresetNames())
}
