// Doubles for the interfaces in internal/usecase/commands/subscription.go.

package commandsmock

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
	"mentor-booking/internal/usecase/commands"
)

// MockSubscriptionCommands is a mock of SubscriptionCommands interface.
type MockSubscriptionCommands struct {
	ctrl     *gomock.Controller
	recorder *MockSubscriptionCommandsMockRecorder
	isgomock struct{}
}

// MockSubscriptionCommandsMockRecorder is the mock recorder for MockSubscriptionCommands.
type MockSubscriptionCommandsMockRecorder struct {
	mock *MockSubscriptionCommands
}

// NewMockSubscriptionCommands creates a new mock instance.
func NewMockSubscriptionCommands(ctrl *gomock.Controller) *MockSubscriptionCommands {
	mock := &MockSubscriptionCommands{ctrl: ctrl}
	mock.recorder = &MockSubscriptionCommandsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSubscriptionCommands) EXPECT() *MockSubscriptionCommandsMockRecorder {
	return m.recorder
}

// Subscribe mocks base method.
func (m *MockSubscriptionCommands) Subscribe(ctx context.Context, userID uuid.UUID, p commands.PushSubscriptionParams) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Subscribe", ctx, userID, p)
	ret0, _ := ret[0].(error)
	return ret0
}

// Subscribe indicates an expected call of Subscribe.
func (mr *MockSubscriptionCommandsMockRecorder) Subscribe(ctx, userID, p any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Subscribe", reflect.TypeOf((*MockSubscriptionCommands)(nil).Subscribe), ctx, userID, p)
}

// Unsubscribe mocks base method.
func (m *MockSubscriptionCommands) Unsubscribe(ctx context.Context, userID uuid.UUID, endpoint string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Unsubscribe", ctx, userID, endpoint)
	ret0, _ := ret[0].(error)
	return ret0
}

// Unsubscribe indicates an expected call of Unsubscribe.
func (mr *MockSubscriptionCommandsMockRecorder) Unsubscribe(ctx, userID, endpoint any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Unsubscribe", reflect.TypeOf((*MockSubscriptionCommands)(nil).Unsubscribe), ctx, userID, endpoint)
}
