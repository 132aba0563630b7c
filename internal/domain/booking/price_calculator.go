package booking

type PriceCalculator interface {
	CalculatePriceCents(meetingType MeetingType, window TimeWindow) int64
}

// HourlyRateCalculator prices a session by meeting type, prorated by the minute.
type HourlyRateCalculator struct {
	HourlyRateCents map[MeetingType]int64
}

func NewHourlyRateCalculator(chat, video, call int64) *HourlyRateCalculator {
	return &HourlyRateCalculator{
		HourlyRateCents: map[MeetingType]int64{
			MeetingChat:  chat,
			MeetingVideo: video,
			MeetingCall:  call,
		},
	}
}

func (pc *HourlyRateCalculator) CalculatePriceCents(meetingType MeetingType, window TimeWindow) int64 {
	rate := pc.HourlyRateCents[meetingType]
	minutes := int64(window.Duration().Minutes())
	return rate * minutes / 60
}
