package components

import (
	"mentor-booking/internal/handler"
	"mentor-booking/internal/handler/api"
	"mentor-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

// HandlerModule mounts the booking API on the engine once every handler it
// routes to can be built.
var HandlerModule = fx.Module("handler",
	handlerAccessOption,
	handlerBookingOption,
	handlerOperationsOption,
	fx.Invoke(handler.NewRouter),
)

// Login, refresh and the bearer/cookie guard in front of everything else.
var handlerAccessOption = fx.Provide(
	api.NewAuthHandler,
	middleware.NewAuthMiddleware,
)

// Mentee and mentor facing: free slots, holds, confirmation and push devices.
var handlerBookingOption = fx.Provide(
	api.NewAvailabilityHandler,
	api.NewReservationHandler,
	api.NewSubscriptionHandler,
)

// Called by the platform scheduler rather than by users.
var handlerOperationsOption = fx.Provide(
	api.NewSweepHandler,
)
