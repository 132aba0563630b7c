package booking

type Status string

const (
	StatusReserved  Status = "reserved"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusReserved, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsActive reports whether a session in this status occupies its slot.
func (s Status) IsActive() bool {
	return s == StatusReserved || s == StatusConfirmed
}

func NewStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// Expiry is not persisted: a lapsed hold is deleted, so there is no
// StatusExpired. The lazy read view reports it as ViewExpired instead.
var transitions = map[Status][]Status{
	StatusReserved:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ViewStatus is what callers see, which may differ from the stored Status
// when a hold has lapsed but has not been swept yet.
type ViewStatus string

const (
	ViewReserved  ViewStatus = "reserved"
	ViewConfirmed ViewStatus = "confirmed"
	ViewCancelled ViewStatus = "cancelled"
	ViewCompleted ViewStatus = "completed"
	ViewExpired   ViewStatus = "expired"
)

func (v ViewStatus) String() string {
	return string(v)
}

type MeetingType string

const (
	MeetingChat  MeetingType = "chat"
	MeetingVideo MeetingType = "video"
	MeetingCall  MeetingType = "call"
)

func (m MeetingType) String() string {
	return string(m)
}

func (m MeetingType) IsValid() bool {
	switch m {
	case MeetingChat, MeetingVideo, MeetingCall:
		return true
	default:
		return false
	}
}

func NewMeetingType(s string) (MeetingType, error) {
	mt := MeetingType(s)
	if !mt.IsValid() {
		return "", ErrInvalidMeetingType
	}
	return mt, nil
}
