// Doubles for the interfaces in internal/usecase/commands/outbox.go.

package commandsmock

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"
	"mentor-booking/internal/usecase/commands"
)

// MockOutboxCommands is a mock of OutboxCommands interface.
type MockOutboxCommands struct {
	ctrl     *gomock.Controller
	recorder *MockOutboxCommandsMockRecorder
	isgomock struct{}
}

// MockOutboxCommandsMockRecorder is the mock recorder for MockOutboxCommands.
type MockOutboxCommandsMockRecorder struct {
	mock *MockOutboxCommands
}

// NewMockOutboxCommands creates a new mock instance.
func NewMockOutboxCommands(ctrl *gomock.Controller) *MockOutboxCommands {
	mock := &MockOutboxCommands{ctrl: ctrl}
	mock.recorder = &MockOutboxCommandsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockOutboxCommands) EXPECT() *MockOutboxCommandsMockRecorder {
	return m.recorder
}

// DispatchDue mocks base method.
func (m *MockOutboxCommands) DispatchDue(ctx context.Context) (commands.DispatchResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DispatchDue", ctx)
	ret0, _ := ret[0].(commands.DispatchResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DispatchDue indicates an expected call of DispatchDue.
func (mr *MockOutboxCommandsMockRecorder) DispatchDue(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DispatchDue", reflect.TypeOf((*MockOutboxCommands)(nil).DispatchDue), ctx)
}
