package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/task-service/internal/config"
)

func TestRedisPing(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	t.Cleanup(r.Close)

	require.NoError(t, r.Ping(context.Background()))

	mr.Close()
	assert.Error(t, r.Ping(context.Background()))
}

func TestNilWrappersReportUnconfigured(t *testing.T) {
	var r *Redis
	assert.EqualError(t, r.Ping(context.Background()), "redis client not configured")

	var pg *Postgres
	assert.EqualError(t, pg.Ping(context.Background()), "postgres pool not configured")

	var m *Mongo
	assert.EqualError(t, m.Ping(context.Background()), "mongo client not configured")
}
