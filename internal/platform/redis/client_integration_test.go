//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dcucoch/Gift-checking-App/internal/platform/redis"
	"github.com/dcucoch/Gift-checking-App/pkg/testutil/containers"
)

func TestClient_AgainstContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)
	ctx := context.Background()

	client, err := redis.New(ctx, rc.Config())
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	require.NoError(t, client.Health(ctx))
	require.NoError(t, rc.Platform().Health(ctx))
}
