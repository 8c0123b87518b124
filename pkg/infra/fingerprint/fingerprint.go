package fingerprint

import (
	"strconv"
	"strings"

	"github.com/asca-arts/gatekeeper/pkg/infra/clientip"
	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies a client by address and browser signature, so that
// distinct clients sharing one NAT address get separate rate limit buckets.
type Fingerprint struct {
	IP        string
	UserAgent string
}

func New(req types.Request) Fingerprint {
	return Fingerprint{
		IP:        clientip.Extract(req),
		UserAgent: strings.ToLower(strings.TrimSpace(req.Header("User-Agent"))),
	}
}

// Key returns "<ip>:<ua-hash>". Clients without any address share the single
// "unknown" bucket regardless of their user agent.
func (f Fingerprint) Key() string {
	if f.IP == "" || f.IP == clientip.Unknown {
		return clientip.Unknown
	}
	return f.IP + ":" + HashUserAgent(f.UserAgent)
}

func HashUserAgent(ua string) string {
	return strconv.FormatUint(xxhash.Sum64String(ua), 16)
}

// KeyFor is the default rate limit key generator.
func KeyFor(req types.Request) string {
	return New(req).Key()
}
