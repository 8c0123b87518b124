package cache

import (
	"testing"

	"github.com/asca-arts/gatekeeper/pkg/config"
	"github.com/asca-arts/gatekeeper/pkg/infra/logger"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisClient_UnreachableServer(t *testing.T) {
	// port 1 is reserved and never serves redis
	client, err := NewRedisClient(config.RedisConfig{Host: "127.0.0.1", Port: 1}, logger.Discard())
	assert.Error(t, err)
	assert.Nil(t, client)
}
