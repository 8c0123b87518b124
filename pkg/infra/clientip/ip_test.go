package clientip

import (
	"testing"

	"github.com/asca-arts/gatekeeper/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestExtract_Precedence(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		peer    string
		want    string
	}{
		{
			name: "cdn header wins over forwarded-for",
			headers: map[string]string{
				"cf-connecting-ip": "203.0.113.7",
				"x-forwarded-for":  "198.51.100.1, 10.0.0.1",
				"x-real-ip":        "198.51.100.2",
			},
			peer: "10.0.0.254",
			want: "203.0.113.7",
		},
		{
			name:    "first forwarded-for entry, trimmed",
			headers: map[string]string{"x-forwarded-for": "  198.51.100.1 , 10.0.0.1"},
			peer:    "10.0.0.254",
			want:    "198.51.100.1",
		},
		{
			name:    "real ip after forwarded-for",
			headers: map[string]string{"x-real-ip": "198.51.100.2"},
			peer:    "10.0.0.254",
			want:    "198.51.100.2",
		},
		{
			name: "peer address",
			peer: "10.0.0.254",
			want: "10.0.0.254",
		},
		{
			name: "nothing available",
			want: Unknown,
		},
		{
			name:    "empty forwarded-for entry falls through",
			headers: map[string]string{"x-forwarded-for": " , 10.0.0.1"},
			peer:    "10.0.0.254",
			want:    "10.0.0.254",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := types.StaticRequest{Headers: tt.headers, PeerIP: tt.peer}
			assert.Equal(t, tt.want, Extract(req))
		})
	}
}

func TestExtract_NilRequest(t *testing.T) {
	assert.Equal(t, Unknown, Extract(nil))
}
