// Doubles for the interfaces in internal/usecase/commands/sweep.go.

package commandsmock

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"
	"mentor-booking/internal/usecase/shared"
)

// MockSweepCommands is a mock of SweepCommands interface.
type MockSweepCommands struct {
	ctrl     *gomock.Controller
	recorder *MockSweepCommandsMockRecorder
	isgomock struct{}
}

// MockSweepCommandsMockRecorder is the mock recorder for MockSweepCommands.
type MockSweepCommandsMockRecorder struct {
	mock *MockSweepCommands
}

// NewMockSweepCommands creates a new mock instance.
func NewMockSweepCommands(ctrl *gomock.Controller) *MockSweepCommands {
	mock := &MockSweepCommands{ctrl: ctrl}
	mock.recorder = &MockSweepCommandsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSweepCommands) EXPECT() *MockSweepCommandsMockRecorder {
	return m.recorder
}

// Sweep mocks base method.
func (m *MockSweepCommands) Sweep(ctx context.Context) (shared.SweepResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Sweep", ctx)
	ret0, _ := ret[0].(shared.SweepResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Sweep indicates an expected call of Sweep.
func (mr *MockSweepCommandsMockRecorder) Sweep(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Sweep", reflect.TypeOf((*MockSweepCommands)(nil).Sweep), ctx)
}
