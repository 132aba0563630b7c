// Doubles for the interfaces in internal/usecase/queries/reservation.go.

package queriesmock

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
	"mentor-booking/internal/usecase/queries"
)

// MockReservationReadStore is a mock of ReservationReadStore interface.
type MockReservationReadStore struct {
	ctrl     *gomock.Controller
	recorder *MockReservationReadStoreMockRecorder
	isgomock struct{}
}

// MockReservationReadStoreMockRecorder is the mock recorder for MockReservationReadStore.
type MockReservationReadStoreMockRecorder struct {
	mock *MockReservationReadStore
}

// NewMockReservationReadStore creates a new mock instance.
func NewMockReservationReadStore(ctrl *gomock.Controller) *MockReservationReadStore {
	mock := &MockReservationReadStore{ctrl: ctrl}
	mock.recorder = &MockReservationReadStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockReservationReadStore) EXPECT() *MockReservationReadStoreMockRecorder {
	return m.recorder
}

// FindByID mocks base method.
func (m *MockReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FindByID", ctx, id)
	ret0, _ := ret[0].(*queries.ReservationView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FindByID indicates an expected call of FindByID.
func (mr *MockReservationReadStoreMockRecorder) FindByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindByID", reflect.TypeOf((*MockReservationReadStore)(nil).FindByID), ctx, id)
}

// FindForUserFirstPage mocks base method.
func (m *MockReservationReadStore) FindForUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FindForUserFirstPage", ctx, userID, limit)
	ret0, _ := ret[0].([]*queries.ReservationView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FindForUserFirstPage indicates an expected call of FindForUserFirstPage.
func (mr *MockReservationReadStoreMockRecorder) FindForUserFirstPage(ctx, userID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindForUserFirstPage", reflect.TypeOf((*MockReservationReadStore)(nil).FindForUserFirstPage), ctx, userID, limit)
}

// FindForUserKeyset mocks base method.
func (m *MockReservationReadStore) FindForUserKeyset(ctx context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FindForUserKeyset", ctx, userID, lastCreatedAt, lastID, limit)
	ret0, _ := ret[0].([]*queries.ReservationView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// FindForUserKeyset indicates an expected call of FindForUserKeyset.
func (mr *MockReservationReadStoreMockRecorder) FindForUserKeyset(ctx, userID, lastCreatedAt, lastID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FindForUserKeyset", reflect.TypeOf((*MockReservationReadStore)(nil).FindForUserKeyset), ctx, userID, lastCreatedAt, lastID, limit)
}

// HasActiveOverlap mocks base method.
func (m *MockReservationReadStore) HasActiveOverlap(ctx context.Context, mentorID uuid.UUID, start time.Time, end time.Time, now time.Time) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HasActiveOverlap", ctx, mentorID, start, end, now)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// HasActiveOverlap indicates an expected call of HasActiveOverlap.
func (mr *MockReservationReadStoreMockRecorder) HasActiveOverlap(ctx, mentorID, start, end, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HasActiveOverlap", reflect.TypeOf((*MockReservationReadStore)(nil).HasActiveOverlap), ctx, mentorID, start, end, now)
}

// MockReservationQueries is a mock of ReservationQueries interface.
type MockReservationQueries struct {
	ctrl     *gomock.Controller
	recorder *MockReservationQueriesMockRecorder
	isgomock struct{}
}

// MockReservationQueriesMockRecorder is the mock recorder for MockReservationQueries.
type MockReservationQueriesMockRecorder struct {
	mock *MockReservationQueries
}

// NewMockReservationQueries creates a new mock instance.
func NewMockReservationQueries(ctrl *gomock.Controller) *MockReservationQueries {
	mock := &MockReservationQueries{ctrl: ctrl}
	mock.recorder = &MockReservationQueriesMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockReservationQueries) EXPECT() *MockReservationQueriesMockRecorder {
	return m.recorder
}

// GetByID mocks base method.
func (m *MockReservationQueries) GetByID(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*queries.ReservationView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id, requesterID)
	ret0, _ := ret[0].(*queries.ReservationView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockReservationQueriesMockRecorder) GetByID(ctx, id, requesterID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockReservationQueries)(nil).GetByID), ctx, id, requesterID)
}

// GetStatus mocks base method.
func (m *MockReservationQueries) GetStatus(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) (*queries.ReservationStatusView, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetStatus", ctx, id, requesterID)
	ret0, _ := ret[0].(*queries.ReservationStatusView)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetStatus indicates an expected call of GetStatus.
func (mr *MockReservationQueriesMockRecorder) GetStatus(ctx, id, requesterID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetStatus", reflect.TypeOf((*MockReservationQueries)(nil).GetStatus), ctx, id, requesterID)
}

// ListForUser mocks base method.
func (m *MockReservationQueries) ListForUser(ctx context.Context, userID uuid.UUID, cursor *queries.Cursor, limit int) ([]*queries.ReservationView, *queries.Cursor, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListForUser", ctx, userID, cursor, limit)
	ret0, _ := ret[0].([]*queries.ReservationView)
	ret1, _ := ret[1].(*queries.Cursor)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// ListForUser indicates an expected call of ListForUser.
func (mr *MockReservationQueriesMockRecorder) ListForUser(ctx, userID, cursor, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListForUser", reflect.TypeOf((*MockReservationQueries)(nil).ListForUser), ctx, userID, cursor, limit)
}
