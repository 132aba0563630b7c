// Doubles for the interfaces in internal/usecase/queries/availability.go.

package queriesmock

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
	"mentor-booking/internal/usecase/shared"
)

// MockAvailabilityQueries is a mock of AvailabilityQueries interface.
type MockAvailabilityQueries struct {
	ctrl     *gomock.Controller
	recorder *MockAvailabilityQueriesMockRecorder
	isgomock struct{}
}

// MockAvailabilityQueriesMockRecorder is the mock recorder for MockAvailabilityQueries.
type MockAvailabilityQueriesMockRecorder struct {
	mock *MockAvailabilityQueries
}

// NewMockAvailabilityQueries creates a new mock instance.
func NewMockAvailabilityQueries(ctrl *gomock.Controller) *MockAvailabilityQueries {
	mock := &MockAvailabilityQueries{ctrl: ctrl}
	mock.recorder = &MockAvailabilityQueriesMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAvailabilityQueries) EXPECT() *MockAvailabilityQueriesMockRecorder {
	return m.recorder
}

// IsAvailable mocks base method.
func (m *MockAvailabilityQueries) IsAvailable(ctx context.Context, mentorID uuid.UUID, date string, startTime string, endTime string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "IsAvailable", ctx, mentorID, date, startTime, endTime)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// IsAvailable indicates an expected call of IsAvailable.
func (mr *MockAvailabilityQueriesMockRecorder) IsAvailable(ctx, mentorID, date, startTime, endTime any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "IsAvailable", reflect.TypeOf((*MockAvailabilityQueries)(nil).IsAvailable), ctx, mentorID, date, startTime, endTime)
}

// MockExpiredHoldSweeper is a mock of ExpiredHoldSweeper interface.
type MockExpiredHoldSweeper struct {
	ctrl     *gomock.Controller
	recorder *MockExpiredHoldSweeperMockRecorder
	isgomock struct{}
}

// MockExpiredHoldSweeperMockRecorder is the mock recorder for MockExpiredHoldSweeper.
type MockExpiredHoldSweeperMockRecorder struct {
	mock *MockExpiredHoldSweeper
}

// NewMockExpiredHoldSweeper creates a new mock instance.
func NewMockExpiredHoldSweeper(ctrl *gomock.Controller) *MockExpiredHoldSweeper {
	mock := &MockExpiredHoldSweeper{ctrl: ctrl}
	mock.recorder = &MockExpiredHoldSweeperMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockExpiredHoldSweeper) EXPECT() *MockExpiredHoldSweeperMockRecorder {
	return m.recorder
}

// Sweep mocks base method.
func (m *MockExpiredHoldSweeper) Sweep(ctx context.Context) (shared.SweepResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Sweep", ctx)
	ret0, _ := ret[0].(shared.SweepResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Sweep indicates an expected call of Sweep.
func (mr *MockExpiredHoldSweeperMockRecorder) Sweep(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Sweep", reflect.TypeOf((*MockExpiredHoldSweeper)(nil).Sweep), ctx)
}
