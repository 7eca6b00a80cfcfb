package minecraft

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"mcmonitor/models"
)

// MockMinecraftClient implements the clients.MinecraftClient interface for testing
type MockMinecraftClient struct {
	mock.Mock
}

func (m *MockMinecraftClient) Query(
	ctx context.Context,
	target models.ServerTarget,
	timeout time.Duration,
) models.QueryResult {
	args := m.Called(ctx, target, timeout)
	return args.Get(0).(models.QueryResult)
}
