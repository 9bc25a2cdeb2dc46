package services

import (
	"github.com/stretchr/testify/mock"
)

// MockWebSocketHub is a mock for the ClientCounter interface
type MockWebSocketHub struct {
	mock.Mock
}

func (m *MockWebSocketHub) ClientCount() int {
	args := m.Called()
	return args.Int(0)
}
