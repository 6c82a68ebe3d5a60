package dedup

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/config"
)

func redisConfig(t *testing.T, addr string) config.RedisConfig {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return config.RedisConfig{Host: host, Port: p, PoolSize: 2, Timeout: time.Second}
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := OpenRedis(context.Background(), redisConfig(t, mr.Addr()))
	require.NoError(t, err)
	defer rdb.Close()

	d := NewRedisDeduper(rdb, time.Minute)
	ok, err := d.Claim(context.Background(), Key("conv_open", ""), "fp")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists(Key("conv_open", "")))
}

func TestOpenRedis_RequiresHost(t *testing.T) {
	_, err := OpenRedis(context.Background(), config.RedisConfig{Timeout: time.Second})
	assert.Error(t, err)
}

func TestOpenRedis_PingFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr.Addr())
	mr.Close()

	_, err := OpenRedis(context.Background(), cfg)
	assert.Error(t, err)
}
