//go:build unit

package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"mentor-booking/internal/domain/user"
	"mentor-booking/internal/handler/api"
	reqdto "mentor-booking/internal/handler/dto/request"
	resdto "mentor-booking/internal/handler/dto/response"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/commands"
	"mentor-booking/internal/usecase/queries"
	"mentor-booking/internal/usecase/shared"
	"mentor-booking/tests/common/builder"
	"mentor-booking/tests/common/httptest"
	"mentor-booking/tests/common/testutil"
	commandsmock "mentor-booking/tests/mock/commands"
	queriesmock "mentor-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockCtrl         *gomock.Controller
	mockCommands     *commandsmock.MockReservationCommands
	mockQueries      *queriesmock.MockReservationQueries
	mockAvailability *queriesmock.MockAvailabilityQueries
	mockSweep        *commandsmock.MockSweepCommands
	menteeID         uuid.UUID
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockReservationCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.mockAvailability = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.mockSweep = commandsmock.NewMockSweepCommands(s.mockCtrl)
	s.menteeID = uuid.New()

	handler := api.NewReservationHandler(s.mockCommands, s.mockQueries)
	availability := api.NewAvailabilityHandler(s.mockAvailability)
	sweep := api.NewSweepHandler(s.mockSweep, nil)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.menteeID)
		c.Set("user_role", user.RoleMentee)
		c.Next()
	}

	s.router.POST("/reservations", authMiddleware, handler.Create)
	s.router.GET("/reservations", authMiddleware, handler.List)
	s.router.GET("/reservations/:id", authMiddleware, handler.Get)
	s.router.GET("/reservations/:id/status", authMiddleware, handler.Status)
	s.router.POST("/reservations/:id/confirm", authMiddleware, handler.Confirm)
	s.router.GET("/mentors/:id/availability", authMiddleware, availability.Check)
	s.router.POST("/cron/sweep", sweep.Sweep)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func sampleView(menteeID uuid.UUID) *queries.ReservationView {
	expires := builder.FixedNow.Add(15 * time.Minute)
	return &queries.ReservationView{
		ID:                 uuid.New(),
		MentorID:           uuid.New(),
		MentorEmail:        "mentor@example.com",
		MenteeID:           menteeID,
		MenteeEmail:        "mentee@example.com",
		Date:               "2024-01-10",
		StartTime:          "14:00",
		EndTime:            "15:00",
		MeetingType:        "video",
		Status:             "reserved",
		PriceCents:         100000,
		ReservationExpires: &expires,
		CreatedAt:          builder.FixedNow,
		UpdatedAt:          builder.FixedNow,
	}
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreate() {
	url := "/reservations"
	view := sampleView(s.menteeID)
	reqBody := reqdto.CreateReservationRequest{
		MentorID:    view.MentorID,
		Date:        "2024-01-10",
		StartTime:   "14:00",
		EndTime:     "15:00",
		MeetingType: "video",
	}

	s.Run("success: returns 201 with the hold", func() {
		want := commands.ReserveParams{
			MentorID:    view.MentorID,
			MenteeID:    s.menteeID,
			Date:        "2024-01-10",
			StartTime:   "14:00",
			EndTime:     "15:00",
			MeetingType: "video",
		}
		s.mockCommands.EXPECT().Reserve(gomock.Any(), want).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		if diff := cmp.Diff(resdto.FromReservationView(view), &body); diff != "" {
			s.T().Errorf("response mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("success: ttl minutes become a duration", func() {
		s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p commands.ReserveParams) (*queries.ReservationView, error) {
				s.Equal(45*time.Minute, p.TTL)
				return view, nil
			}).Times(1)

		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("ttlMinutes", 45))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: mentorId", mutate: testutil.Field("mentorId", nil)},
			{name: "missing field: date", mutate: testutil.Field("date", nil)},
			{name: "missing field: startTime", mutate: testutil.Field("startTime", nil)},
			{name: "missing field: endTime", mutate: testutil.Field("endTime", nil)},
			{name: "unknown meeting type", mutate: testutil.Field("meetingType", "in_person")},
			{name: "negative price", mutate: testutil.Field("priceCents", -1)},
			{name: "mentorId not a uuid", mutate: testutil.Field("mentorId", "abc")},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "slot conflict",
				commandsError:  errs.Mark(errors.New("exclusion violation"), errs.ErrSlotConflict),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "slot no longer available",
			},
			{
				name:           "ttl too long",
				commandsError:  errs.Mark(commands.ErrTTLTooLong, errs.ErrValidation),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "reservation ttl exceeds the allowed maximum",
			},
			{
				name:           "unknown mentor",
				commandsError:  errs.Mark(commands.ErrMentorNotFound, errs.ErrNotFound),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "mentor not found",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestConfirm
// ================================================================================

func (s *ReservationHandlerTestSuite) TestConfirm() {
	id := uuid.New()
	url := fmt.Sprintf("/reservations/%s/confirm", id)
	reqBody := reqdto.ConfirmReservationRequest{OrderID: "order_1", PaymentID: "pay_1", Signature: "abc123"}

	s.Run("success: returns the confirmed session", func() {
		view := sampleView(s.menteeID)
		view.ID = id
		view.Status = "confirmed"
		view.ReservationExpires = nil
		paymentID := "pay_1"
		view.PaymentID = &paymentID

		s.mockCommands.EXPECT().Confirm(gomock.Any(), commands.ConfirmParams{
			ReservationID: id,
			RequesterID:   s.menteeID,
			OrderID:       "order_1",
			PaymentID:     "pay_1",
			Signature:     "abc123",
		}).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("confirmed", body.Status)
		s.Nil(body.ExpiresAt)
	})

	s.Run("error: invalid id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/not-a-uuid/confirm", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: missing signature", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("signature", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
		}{
			{name: "expired", commandsError: errs.ErrExpired, expectedStatus: http.StatusGone},
			{name: "already confirmed", commandsError: errs.ErrAlreadyConfirmed, expectedStatus: http.StatusConflict},
			{name: "cancelled", commandsError: errs.ErrInvalidTransition, expectedStatus: http.StatusConflict},
			{name: "payment unverified", commandsError: errs.Mark(errors.New("bad signature"), errs.ErrPaymentNotVerified), expectedStatus: http.StatusPaymentRequired},
			{name: "not the owner", commandsError: errs.Mark(commands.ErrNotSessionOwner, errs.ErrUnauthorized), expectedStatus: http.StatusForbidden},
			{name: "not found", commandsError: errs.Mark(commands.ErrSessionNotFound, errs.ErrNotFound), expectedStatus: http.StatusNotFound},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Confirm(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

// ================================================================================
// TestStatus / TestGet / TestList
// ================================================================================

func (s *ReservationHandlerTestSuite) TestStatus() {
	id := uuid.New()
	url := fmt.Sprintf("/reservations/%s/status", id)

	s.Run("success: expired view", func() {
		s.mockQueries.EXPECT().GetStatus(gomock.Any(), id, s.menteeID).
			Return(&queries.ReservationStatusView{Status: "expired"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(map[string]any{"status": "expired"}, body)
	})

	s.Run("error: outsider", func() {
		s.mockQueries.EXPECT().GetStatus(gomock.Any(), id, s.menteeID).
			Return(nil, errs.Mark(queries.ErrReservationAccess, errs.ErrUnauthorized)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Forbidden")
	})
}

func (s *ReservationHandlerTestSuite) TestGet() {
	view := sampleView(s.menteeID)

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID, s.menteeID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil, "bearer-token")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID.String(), body.ID)
		s.Equal("mentor@example.com", body.MentorEmail)
	})

	s.Run("error: not found", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID, s.menteeID).Return(nil, errs.Mark(queries.ErrReservationNotFound, errs.ErrNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "reservation not found")
	})
}

func (s *ReservationHandlerTestSuite) TestList() {
	s.Run("success: passes cursor and limit through", func() {
		views := []*queries.ReservationView{sampleView(s.menteeID)}
		s.mockQueries.EXPECT().ListForUser(gomock.Any(), s.menteeID, &queries.Cursor{After: "abc"}, 5).
			Return(views, &queries.Cursor{After: "next"}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?after=abc&limit=5", nil, "bearer-token")

		var body resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 1)
		s.Equal("next", body.NextCursor)
	})

	s.Run("error: invalid cursor", func() {
		s.mockQueries.EXPECT().ListForUser(gomock.Any(), s.menteeID, gomock.Any(), 0).
			Return(nil, nil, errs.Mark(queries.ErrInvalidCursor, errs.ErrValidation)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations?after=zzz", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid cursor")
	})
}

// ================================================================================
// TestAvailability / TestSweep
// ================================================================================

func (s *ReservationHandlerTestSuite) TestAvailability() {
	mentorID := uuid.New()

	s.Run("success", func() {
		s.mockAvailability.EXPECT().IsAvailable(gomock.Any(), mentorID, "2024-01-10", "14:00", "15:00").
			Return(false, nil).Times(1)

		url := fmt.Sprintf("/mentors/%s/availability?date=2024-01-10&startTime=14:00&endTime=15:00", mentorID)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.False(body.Available)
	})

	s.Run("error: missing query parameter", func() {
		url := fmt.Sprintf("/mentors/%s/availability?date=2024-01-10&startTime=14:00", mentorID)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
	})
}

func (s *ReservationHandlerTestSuite) TestSweep() {
	s.Run("success: reports the deleted count", func() {
		s.mockSweep.EXPECT().Sweep(gomock.Any()).Return(shared.SweepResult{DeletedCount: 3}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cron/sweep", nil, "")

		var body map[string]int
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(map[string]int{"deletedCount": 3, "extendedCount": 0}, body)
	})

	s.Run("error: listing failure is a 500", func() {
		s.mockSweep.EXPECT().Sweep(gomock.Any()).Return(shared.SweepResult{}, errors.New("db down")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/cron/sweep", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Sweep failed")
	})
}
