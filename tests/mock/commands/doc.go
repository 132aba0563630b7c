// Package commandsmock holds gomock doubles for the command use cases.
// They follow mockgen's layout; go generate rewrites them from the interfaces.
package commandsmock

//go:generate mockgen -source=../../../internal/usecase/commands/auth.go -destination=auth.go -package=commandsmock
//go:generate mockgen -source=../../../internal/usecase/commands/outbox.go -destination=outbox.go -package=commandsmock
//go:generate mockgen -source=../../../internal/usecase/commands/reservation.go -destination=reservation.go -package=commandsmock
//go:generate mockgen -source=../../../internal/usecase/commands/subscription.go -destination=subscription.go -package=commandsmock
//go:generate mockgen -source=../../../internal/usecase/commands/sweep.go -destination=sweep.go -package=commandsmock
