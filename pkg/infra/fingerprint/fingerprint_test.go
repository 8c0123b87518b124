package fingerprint_test

import (
	"testing"

	"github.com/asca-arts/gatekeeper/pkg/infra/fingerprint"
	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestKey_CombinesIPAndUserAgentHash(t *testing.T) {
	req := types.StaticRequest{
		Headers: map[string]string{
			"X-Forwarded-For": "198.51.100.1",
			"User-Agent":      "Mozilla/5.0",
		},
	}

	key := fingerprint.KeyFor(req)

	assert.Equal(t, "198.51.100.1:"+fingerprint.HashUserAgent("mozilla/5.0"), key)
}

func TestKey_DistinctUserAgentsBehindSameIP(t *testing.T) {
	a := types.StaticRequest{Headers: map[string]string{"X-Real-IP": "10.1.1.1", "User-Agent": "Firefox"}}
	b := types.StaticRequest{Headers: map[string]string{"X-Real-IP": "10.1.1.1", "User-Agent": "Safari"}}

	assert.NotEqual(t, fingerprint.KeyFor(a), fingerprint.KeyFor(b))
}

func TestKey_IsDeterministicAndNormalized(t *testing.T) {
	a := types.StaticRequest{Headers: map[string]string{"X-Real-IP": "10.1.1.1", "User-Agent": "  Firefox "}}
	b := types.StaticRequest{Headers: map[string]string{"X-Real-IP": "10.1.1.1", "User-Agent": "firefox"}}

	assert.Equal(t, fingerprint.KeyFor(a), fingerprint.KeyFor(b))
}

func TestKey_UnknownAddressPoolsClients(t *testing.T) {
	a := types.StaticRequest{Headers: map[string]string{"User-Agent": "Firefox"}}
	b := types.StaticRequest{Headers: map[string]string{"User-Agent": "Safari"}}

	assert.Equal(t, "unknown", fingerprint.KeyFor(a))
	assert.Equal(t, fingerprint.KeyFor(a), fingerprint.KeyFor(b))
}
