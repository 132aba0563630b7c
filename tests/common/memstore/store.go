//go:build unit

// Package memstore is an in-memory stand-in for the PostgreSQL unit of work
// and read stores. Transactions are serialized and roll back on error.
package memstore

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/notification"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/usecase/queries"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserRow struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	LastLogin    *time.Time
}

type SessionRow struct {
	ID                 uuid.UUID
	MentorID           uuid.UUID
	MenteeID           uuid.UUID
	Date               string
	StartTime          string
	EndTime            string
	Start              time.Time
	End                time.Time
	MeetingType        string
	Status             string
	PriceCents         int64
	ReservationExpires *time.Time
	PaymentID          *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type JobRow struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	Payload   []byte
	RunAt     time.Time
	Attempts  int32
	Status    string
	LastError string
	CreatedAt time.Time
}

type SubscriptionRow struct {
	UserID   uuid.UUID
	Endpoint string
	P256dh   string
	Auth     string
}

type state struct {
	users    map[uuid.UUID]UserRow
	sessions map[uuid.UUID]SessionRow
	jobs     []JobRow
	subs     map[string]SubscriptionRow
}

func (s state) clone() state {
	return state{
		users:    maps.Clone(s.users),
		sessions: maps.Clone(s.sessions),
		jobs:     slices.Clone(s.jobs),
		subs:     maps.Clone(s.subs),
	}
}

// Store implements shared.UnitOfWork together with the reservation and user
// read stores over the same data.
type Store struct {
	mu sync.Mutex
	st state

	// DeleteLapsedErr fails DeleteLapsed for the listed reservations.
	DeleteLapsedErr map[uuid.UUID]error
	// LapsedIDsErr fails every LapsedSessionIDs call.
	LapsedIDsErr error
	// CreateJobErr fails every outbox insert.
	CreateJobErr error
	// LapsedIDsCalls counts listing passes.
	LapsedIDsCalls int
}

var (
	_ shared.UnitOfWork            = (*Store)(nil)
	_ queries.ReservationReadStore = (*Store)(nil)
	_ queries.UserReadStore        = UserStore{}
)

func New() *Store {
	return &Store{
		st: state{
			users:    map[uuid.UUID]UserRow{},
			sessions: map[uuid.UUID]SessionRow{},
			subs:     map[string]SubscriptionRow{},
		},
		DeleteLapsedErr: map[uuid.UUID]error{},
	}
}

// Fixtures

func (s *Store) AddUser(u UserRow) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.st.users[u.ID] = u
	return u.ID
}

func (s *Store) AddMentor() uuid.UUID {
	id := uuid.New()
	return s.AddUser(UserRow{ID: id, Email: id.String() + "@mentor.test", Role: "mentor", IsActive: true})
}

func (s *Store) AddMentee() uuid.UUID {
	id := uuid.New()
	return s.AddUser(UserRow{ID: id, Email: id.String() + "@mentee.test", Role: "mentee", IsActive: true})
}

func (s *Store) PutSession(row SessionRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.sessions[row.ID] = row
}

func (s *Store) Session(id uuid.UUID) (SessionRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.st.sessions[id]
	return row, ok
}

func (s *Store) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.st.sessions)
}

func (s *Store) Jobs() []JobRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.jobs)
}

// JobKinds lists outbox kinds in insertion order for one reservation.
func (s *Store) JobKinds(reservationID uuid.UUID) []string {
	var kinds []string
	for _, j := range s.Jobs() {
		if j.Topic == reservationID.String() {
			kinds = append(kinds, j.Kind)
		}
	}
	return kinds
}

func (s *Store) AddJob(kind, topic string, payload []byte, runAt time.Time) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.st.jobs = append(s.st.jobs, JobRow{ID: id, Kind: kind, Topic: topic, Payload: payload, RunAt: runAt, Status: string(notification.JobQueued), CreatedAt: runAt})
	return id
}

func (s *Store) Subscriptions() []SubscriptionRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(maps.Values(s.st.subs))
}

func (s *Store) User(id uuid.UUID) (UserRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.st.users[id]
	return u, ok
}

// UnitOfWork

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.st.clone()
	if err := fn(ctx, &txn{s: s}); err != nil {
		s.st = saved
		return err
	}
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(ctx, nil)
}

func (s *Store) CommandReads() shared.CommandReads {
	return lockedReads{s: s}
}

type txn struct{ s *Store }

func (t *txn) Sessions() shared.SessionRepository                   { return sessionRepo{t.s} }
func (t *txn) Notifications() shared.NotificationRepository         { return notificationRepo{t.s} }
func (t *txn) Users() shared.UserRepository                         { return userRepo{t.s} }
func (t *txn) PushSubscriptions() shared.PushSubscriptionRepository { return subscriptionRepo{t.s} }
func (t *txn) Reads() shared.CommandReads                           { return reads{t.s} }
func (t *txn) DB() db.DBTX                                          { return nil }

// reads assumes the caller holds s.mu.
type reads struct{ s *Store }

func (r reads) SessionByID(_ context.Context, id uuid.UUID) (*shared.SessionSnapshot, error) {
	row, ok := r.s.st.sessions[id]
	if !ok {
		return nil, infra.NotFound("session not found")
	}
	snap := snapshot(row)
	return &snap, nil
}

func (r reads) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, infra.NotFound("user not found")
	}
	return &shared.UserSnapshot{ID: u.ID, Role: u.Role, IsActive: u.IsActive}, nil
}

func (r reads) LapsedSessionIDs(_ context.Context, now time.Time, limit int32) ([]uuid.UUID, error) {
	r.s.LapsedIDsCalls++
	if r.s.LapsedIDsErr != nil {
		return nil, r.s.LapsedIDsErr
	}
	var lapsed []SessionRow
	for _, row := range r.s.st.sessions {
		if isLapsed(row, now) {
			lapsed = append(lapsed, row)
		}
	}
	sort.Slice(lapsed, func(i, j int) bool {
		if lapsed[i].ReservationExpires.Equal(*lapsed[j].ReservationExpires) {
			return lapsed[i].ID.String() < lapsed[j].ID.String()
		}
		return lapsed[i].ReservationExpires.Before(*lapsed[j].ReservationExpires)
	})
	ids := make([]uuid.UUID, 0, len(lapsed))
	for i, row := range lapsed {
		if int32(i) >= limit {
			break
		}
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r reads) ReclaimedHold(_ context.Context, id uuid.UUID) (*shared.ReclaimedHold, error) {
	for i := len(r.s.st.jobs) - 1; i >= 0; i-- {
		job := r.s.st.jobs[i]
		if job.Topic != id.String() || job.Kind != string(notification.JobReservationExpired) {
			continue
		}
		var ev notification.ReservationEvent
		if err := json.Unmarshal(job.Payload, &ev); err != nil {
			return nil, err
		}
		return &shared.ReclaimedHold{ID: id, MentorID: ev.MentorID, MenteeID: ev.MenteeID, ReclaimedAt: job.CreatedAt}, nil
	}
	return nil, nil
}

type lockedReads struct{ s *Store }

func (r lockedReads) SessionByID(ctx context.Context, id uuid.UUID) (*shared.SessionSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reads(r).SessionByID(ctx, id)
}

func (r lockedReads) UserByID(ctx context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reads(r).UserByID(ctx, id)
}

func (r lockedReads) ReclaimedHold(ctx context.Context, id uuid.UUID) (*shared.ReclaimedHold, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reads(r).ReclaimedHold(ctx, id)
}

func (r lockedReads) LapsedSessionIDs(ctx context.Context, now time.Time, limit int32) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return reads(r).LapsedSessionIDs(ctx, now, limit)
}

type sessionRepo struct{ s *Store }

// Create enforces the same no-overlap rule as the exclusion constraint: any
// reserved or confirmed row blocks, lapsed or not.
func (r sessionRepo) Create(_ context.Context, _ db.DBTX, sess *booking.Session) error {
	w := sess.Window()
	for _, row := range r.s.st.sessions {
		if row.MentorID != sess.MentorID() || !isLive(row.Status) {
			continue
		}
		if row.Start.Before(w.End()) && w.Start().Before(row.End) {
			return infra.WrapRepoErr("failed to create session", nil, infra.KindConflict)
		}
	}
	var expires *time.Time
	if e := sess.ReservationExpires(); e != nil {
		t := *e
		expires = &t
	}
	r.s.st.sessions[sess.ID()] = SessionRow{
		ID:                 sess.ID(),
		MentorID:           sess.MentorID(),
		MenteeID:           sess.MenteeID(),
		Date:               w.DateString(),
		StartTime:          w.StartClock().String(),
		EndTime:            w.EndClock().String(),
		Start:              w.Start(),
		End:                w.End(),
		MeetingType:        sess.MeetingType().String(),
		Status:             sess.Status().String(),
		PriceCents:         sess.Price().Cents(),
		ReservationExpires: expires,
		CreatedAt:          sess.CreatedAt(),
		UpdatedAt:          sess.UpdatedAt(),
	}
	return nil
}

func (r sessionRepo) PurgeLapsedOverlapping(_ context.Context, _ db.DBTX, mentorID uuid.UUID, start, end, now time.Time) ([]shared.SessionSnapshot, error) {
	var purged []shared.SessionSnapshot
	for id, row := range r.s.st.sessions {
		if row.MentorID != mentorID || !isLapsed(row, now) {
			continue
		}
		if row.Start.Before(end) && start.Before(row.End) {
			purged = append(purged, snapshot(row))
			delete(r.s.st.sessions, id)
		}
	}
	return purged, nil
}

func (r sessionRepo) ConfirmReserved(_ context.Context, _ db.DBTX, id uuid.UUID, paymentID string, now time.Time) (bool, error) {
	row, ok := r.s.st.sessions[id]
	if !ok || row.Status != booking.StatusReserved.String() || row.ReservationExpires == nil || !row.ReservationExpires.After(now) {
		return false, nil
	}
	row.Status = booking.StatusConfirmed.String()
	row.ReservationExpires = nil
	row.PaymentID = &paymentID
	row.UpdatedAt = now
	r.s.st.sessions[id] = row
	return true, nil
}

func (r sessionRepo) DeleteLapsed(_ context.Context, _ db.DBTX, id uuid.UUID, now time.Time) (*shared.SessionSnapshot, error) {
	if err := r.s.DeleteLapsedErr[id]; err != nil {
		return nil, err
	}
	row, ok := r.s.st.sessions[id]
	if !ok || !isLapsed(row, now) {
		return nil, nil
	}
	delete(r.s.st.sessions, id)
	snap := snapshot(row)
	return &snap, nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	if r.s.CreateJobErr != nil {
		return r.s.CreateJobErr
	}
	r.s.st.jobs = append(r.s.st.jobs, JobRow{
		ID:        uuid.New(),
		Kind:      kind,
		Topic:     topic,
		Payload:   payload,
		RunAt:     runAt,
		Status:    string(notification.JobQueued),
		CreatedAt: runAt,
	})
	return nil
}

func (r notificationRepo) ClaimDue(_ context.Context, _ db.DBTX, now time.Time, limit int32) ([]shared.NotificationJob, error) {
	var due []shared.NotificationJob
	for _, j := range r.s.st.jobs {
		if int32(len(due)) >= limit {
			break
		}
		if j.Status == string(notification.JobQueued) && !j.RunAt.After(now) {
			due = append(due, shared.NotificationJob{ID: j.ID, Kind: j.Kind, Topic: j.Topic, Payload: j.Payload, Attempts: j.Attempts})
		}
	}
	return due, nil
}

func (r notificationRepo) MarkSent(_ context.Context, _ db.DBTX, id uuid.UUID, _ time.Time) error {
	return r.update(id, func(j *JobRow) {
		j.Status = string(notification.JobSent)
	})
}

func (r notificationRepo) MarkFailed(_ context.Context, _ db.DBTX, id uuid.UUID, lastError string, retryAt *time.Time, _ time.Time) error {
	return r.update(id, func(j *JobRow) {
		j.Attempts++
		j.LastError = lastError
		if retryAt != nil {
			j.Status = string(notification.JobQueued)
			j.RunAt = *retryAt
			return
		}
		j.Status = string(notification.JobFailed)
	})
}

func (r notificationRepo) update(id uuid.UUID, fn func(*JobRow)) error {
	for i := range r.s.st.jobs {
		if r.s.st.jobs[i].ID == id {
			fn(&r.s.st.jobs[i])
			return nil
		}
	}
	return infra.NotFound("notification job not found")
}

type userRepo struct{ s *Store }

func (r userRepo) UpdateLastLogin(_ context.Context, _ db.DBTX, userID uuid.UUID, at time.Time) error {
	u, ok := r.s.st.users[userID]
	if !ok {
		return infra.NotFound("user not found")
	}
	u.LastLogin = &at
	r.s.st.users[userID] = u
	return nil
}

type subscriptionRepo struct{ s *Store }

func (r subscriptionRepo) Upsert(_ context.Context, _ db.DBTX, sub *notification.PushSubscription) error {
	r.s.st.subs[sub.Endpoint()] = SubscriptionRow{
		UserID:   sub.UserID(),
		Endpoint: sub.Endpoint(),
		P256dh:   sub.P256dh(),
		Auth:     sub.Auth(),
	}
	return nil
}

func (r subscriptionRepo) Delete(_ context.Context, _ db.DBTX, userID uuid.UUID, endpoint string) (bool, error) {
	row, ok := r.s.st.subs[endpoint]
	if !ok || row.UserID != userID {
		return false, nil
	}
	delete(r.s.st.subs, endpoint)
	return true, nil
}

// ReservationReadStore

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.st.sessions[id]
	if !ok {
		return nil, infra.NotFound("reservation not found")
	}
	return s.view(row), nil
}

func (s *Store) FindForUserFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	return s.FindForUserKeyset(ctx, userID, time.Time{}, uuid.Nil, limit)
}

func (s *Store) FindForUserKeyset(_ context.Context, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ReservationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []SessionRow
	for _, row := range s.st.sessions {
		if row.MenteeID != userID && row.MentorID != userID {
			continue
		}
		if lastID != uuid.Nil && !before(row, lastCreatedAt, lastID) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return before(rows[j], rows[i].CreatedAt, rows[i].ID)
	})
	if int32(len(rows)) > limit {
		rows = rows[:limit]
	}
	views := make([]*queries.ReservationView, len(rows))
	for i, row := range rows {
		views[i] = s.view(row)
	}
	return views, nil
}

func (s *Store) HasActiveOverlap(_ context.Context, mentorID uuid.UUID, start, end, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.st.sessions {
		if row.MentorID != mentorID || !isLive(row.Status) || isLapsed(row, now) {
			continue
		}
		if row.Start.Before(end) && start.Before(row.End) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) view(row SessionRow) *queries.ReservationView {
	return &queries.ReservationView{
		ID:                 row.ID,
		MentorID:           row.MentorID,
		MentorEmail:        s.st.users[row.MentorID].Email,
		MenteeID:           row.MenteeID,
		MenteeEmail:        s.st.users[row.MenteeID].Email,
		Date:               row.Date,
		StartTime:          row.StartTime,
		EndTime:            row.EndTime,
		MeetingType:        row.MeetingType,
		Status:             row.Status,
		PriceCents:         row.PriceCents,
		ReservationExpires: row.ReservationExpires,
		PaymentID:          row.PaymentID,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
}

// UserStore exposes the user read side of a Store.
type UserStore struct{ S *Store }

func (s *Store) Users() UserStore { return UserStore{S: s} }

func (u UserStore) FindByID(_ context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	u.S.mu.Lock()
	defer u.S.mu.Unlock()
	row, ok := u.S.st.users[id]
	if !ok {
		return nil, infra.NotFound("user not found")
	}
	return userView(row), nil
}

func (u UserStore) FindByEmail(_ context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	u.S.mu.Lock()
	defer u.S.mu.Unlock()
	var found *UserRow
	for _, row := range u.S.st.users {
		if row.Email != email {
			continue
		}
		if found == nil || row.IsActive {
			found = &row
		}
	}
	if found == nil {
		return nil, "", infra.NotFound("user not found")
	}
	return userView(*found), found.PasswordHash, nil
}

func userView(row UserRow) *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{ID: row.ID, Email: row.Email, Role: row.Role, IsActive: row.IsActive}
}

func snapshot(row SessionRow) shared.SessionSnapshot {
	return shared.SessionSnapshot{
		ID:                 row.ID,
		MentorID:           row.MentorID,
		MenteeID:           row.MenteeID,
		Date:               row.Date,
		StartTime:          row.StartTime,
		EndTime:            row.EndTime,
		MeetingType:        row.MeetingType,
		Status:             row.Status,
		ReservationExpires: row.ReservationExpires,
	}
}

func isLive(status string) bool {
	return status == booking.StatusReserved.String() || status == booking.StatusConfirmed.String()
}

func isLapsed(row SessionRow, now time.Time) bool {
	return row.Status == booking.StatusReserved.String() && row.ReservationExpires != nil && !row.ReservationExpires.After(now)
}

// before orders rows by (created_at, id) descending, matching the keyset index.
func before(row SessionRow, createdAt time.Time, id uuid.UUID) bool {
	if row.CreatedAt.Equal(createdAt) {
		return row.ID.String() < id.String()
	}
	return row.CreatedAt.Before(createdAt)
}
