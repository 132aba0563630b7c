package commands

import (
	"context"
	"log/slog"

	"mentor-booking/internal/domain/user"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/pkg/jwt"
	"mentor-booking/internal/pkg/password"
	"mentor-booking/internal/usecase/queries"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
)

// unauthorized classifies a specific auth failure for the HTTP layer while
// keeping the sentinel itself distinguishable from its siblings.
func unauthorized(err error) error {
	return errs.Mark(err, errs.ErrUnauthorized)
}

type LoginResult struct {
	UserID    uuid.UUID
	TokenPair *TokenPair
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Login(ctx context.Context, email, plaintext string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.UserReadStore
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.UserReadStore, jwtService *jwt.Service, clk clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
		clock:      clk,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, email, plaintext string) (*LoginResult, error) {
	credentials, err := user.NewCredentials(email, plaintext)
	if err != nil {
		return nil, unauthorized(errs.Mark(err, ErrAuthenticationFailed))
	}

	account, err := a.validateUser(ctx, credentials)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(account.Role)
	if err != nil {
		return nil, unauthorized(errs.Mark(err, ErrAuthenticationFailed))
	}

	pair, err := a.issue(account.ID, role)
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, tx.DB(), account.ID, a.clock.Now())
	})
	if err != nil {
		// login already succeeded; last_login is bookkeeping
		slog.WarnContext(ctx, "failed to update last login", "user_id", account.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID:    account.ID,
		TokenPair: pair,
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, unauthorized(errs.Mark(err, ErrTokenValidation))
	}

	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, unauthorized(ErrTokenValidation)
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, unauthorized(errs.Mark(err, ErrTokenValidation))
	}

	// Validate user still exists and is active
	account, err := a.readStore.FindByID(ctx, claims.UserID)
	if err != nil || account == nil {
		return nil, unauthorized(ErrUserNotFound)
	}

	if !account.IsActive {
		return nil, unauthorized(ErrUserInactive)
	}

	return a.issue(claims.UserID, role)
}

func (a *authCommandsImpl) issue(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	refreshToken, err := a.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *authCommandsImpl) validateUser(ctx context.Context, credentials user.Credentials) (*queries.AuthorizedUserView, error) {
	account, hashedPassword, err := a.readStore.FindByEmail(ctx, credentials.Email().Value())
	if err != nil {
		// Return same error as password mismatch to prevent user enumeration attacks
		return nil, unauthorized(ErrInvalidCredentials)
	}

	if account == nil {
		password.BurnAbsent(credentials.Password().Value())
		return nil, unauthorized(ErrUserNotFound)
	}

	if !account.IsActive {
		return nil, unauthorized(ErrUserInactive)
	}

	err = password.Verify(hashedPassword, credentials.Password().Value())
	if err != nil {
		return nil, unauthorized(ErrInvalidCredentials)
	}

	return account, nil
}
