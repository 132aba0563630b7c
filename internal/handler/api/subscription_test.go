//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"mentor-booking/internal/handler/api"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/commands"
	"mentor-booking/tests/common/httptest"
	"mentor-booking/tests/common/testutil"
	commandsmock "mentor-booking/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SubscriptionHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockSubscriptionCommands
	userID       uuid.UUID
}

func (s *SubscriptionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockSubscriptionCommands(s.mockCtrl)
	s.userID = uuid.New()

	handler := api.NewSubscriptionHandler(s.mockCommands)
	authMiddleware := func(c *gin.Context) {
		c.Set("user_id", s.userID)
		c.Next()
	}
	s.router.POST("/notifications/subscriptions", authMiddleware, handler.Subscribe)
	s.router.DELETE("/notifications/subscriptions", authMiddleware, handler.Unsubscribe)
}

func (s *SubscriptionHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSubscriptionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionHandlerTestSuite))
}

func (s *SubscriptionHandlerTestSuite) TestSubscribe() {
	url := "/notifications/subscriptions"
	reqBody := map[string]any{
		"endpoint": "https://push.example.com/send/abc",
		"keys": map[string]any{
			"p256dh": "BNcRdreALRFXTkOOUHK1EtK2wtaz5Ry4YfYCA_0QTpQtUbVlUls0VJXg7A8u-Ts1XbjhazAkj7I99e8QcYP7DkM",
			"auth":   "tBHItJI5svbpez7KI4CCXg",
		},
	}

	s.Run("success: 201", func() {
		s.mockCommands.EXPECT().Subscribe(gomock.Any(), s.userID, commands.PushSubscriptionParams{
			Endpoint: "https://push.example.com/send/abc",
			P256dh:   "BNcRdreALRFXTkOOUHK1EtK2wtaz5Ry4YfYCA_0QTpQtUbVlUls0VJXg7A8u-Ts1XbjhazAkj7I99e8QcYP7DkM",
			Auth:     "tBHItJI5svbpez7KI4CCXg",
		}).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing endpoint", mutate: testutil.Field("endpoint", nil)},
			{name: "endpoint not a url", mutate: testutil.Field("endpoint", "push-service")},
			{name: "missing keys", mutate: testutil.Field("keys", nil)},
			{name: "missing auth key", mutate: testutil.Field("keys", map[string]any{"p256dh": "abc"})},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: malformed keys rejected by the usecase", func() {
		s.mockCommands.EXPECT().Subscribe(gomock.Any(), s.userID, gomock.Any()).
			Return(errs.Mark(errs.New("invalid p256dh key"), errs.ErrValidation)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid p256dh key")
	})

	s.Run("error: storage failure is a 500", func() {
		s.mockCommands.EXPECT().Subscribe(gomock.Any(), s.userID, gomock.Any()).
			Return(errors.New("db down")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

func (s *SubscriptionHandlerTestSuite) TestUnsubscribe() {
	url := "/notifications/subscriptions"
	endpoint := "https://push.example.com/send/abc"

	s.Run("success: 204", func() {
		s.mockCommands.EXPECT().Unsubscribe(gomock.Any(), s.userID, endpoint).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, map[string]any{"endpoint": endpoint}, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: unknown endpoint", func() {
		s.mockCommands.EXPECT().Unsubscribe(gomock.Any(), s.userID, endpoint).
			Return(errs.Mark(commands.ErrSubscriptionNotFound, errs.ErrNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, map[string]any{"endpoint": endpoint}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "push subscription not found")
	})

	s.Run("error: missing endpoint", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}
