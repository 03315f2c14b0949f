package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{ServiceName: "employee-details"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitWithEndpoint(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Init(ctx, Config{
		Endpoint:    "localhost:4318",
		ServiceName: "employee-details",
		Environment: "test",
	})
	require.NoError(t, err)

	// nothing was exported, so shutdown does not need the collector
	assert.NoError(t, shutdown(ctx))
}
