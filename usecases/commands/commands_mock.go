package commands

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mcmonitor/models"
)

// MockAcknowledger implements the Acknowledger interface for testing
type MockAcknowledger struct {
	mock.Mock
}

func (m *MockAcknowledger) Acknowledge(ctx context.Context, kind models.DeferKind) error {
	args := m.Called(ctx, kind)
	return args.Error(0)
}
