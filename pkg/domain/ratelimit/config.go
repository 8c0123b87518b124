package ratelimit

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	ErrInvalidMaxRequests = errors.New("max requests must be greater than zero")
	ErrInvalidWindow      = errors.New("window must be greater than zero")
	ErrUnknownPreset      = errors.New("unknown rate limit preset")
)

type Config struct {
	MaxRequests int
	Window      time.Duration
	// SkipSuccessfulRequests and SkipFailedRequests are carried for
	// configuration parity only. Admission is decided before the handler
	// runs, so outcomes are never discounted after the fact.
	SkipSuccessfulRequests bool
	SkipFailedRequests     bool
}

func (c Config) Validate() error {
	if c.MaxRequests <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxRequests, c.MaxRequests)
	}
	if c.Window <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidWindow, c.Window)
	}
	return nil
}

const (
	PresetStrict   = "strict"
	PresetModerate = "moderate"
	PresetLoose    = "loose"
	PresetAuth     = "auth"
)

var presets = map[string]Config{
	PresetStrict:   {MaxRequests: 10, Window: time.Minute},
	PresetModerate: {MaxRequests: 100, Window: time.Minute},
	PresetLoose:    {MaxRequests: 1000, Window: time.Minute},
	PresetAuth:     {MaxRequests: 5, Window: 15 * time.Minute},
}

func GetPreset(name string) (Config, error) {
	cfg, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return cfg, nil
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
