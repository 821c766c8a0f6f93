package core

import (
	"github.com/stretchr/testify/mock"
)

// --- SignalConnection ---

type MockConn struct {
	mock.Mock
}

func (m *MockConn) TrySend(f Frame) error {
	args := m.Called(f)
	return args.Error(0)
}

func (m *MockConn) Close() {
	m.Called()
}

// nopConn is for tests that only care about room state.
type nopConn struct{}

func (nopConn) TrySend(Frame) error { return nil }
func (nopConn) Close()              {}
