// Package queriesmock holds gomock doubles for the query use cases.
// They follow mockgen's layout; go generate rewrites them from the interfaces.
package queriesmock

//go:generate mockgen -source=../../../internal/usecase/queries/availability.go -destination=availability.go -package=queriesmock
//go:generate mockgen -source=../../../internal/usecase/queries/reservation.go -destination=reservation.go -package=queriesmock
//go:generate mockgen -source=../../../internal/usecase/queries/user.go -destination=user.go -package=queriesmock
