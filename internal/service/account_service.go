package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/commerce-service/internal/auth"
	"github.com/spec-kit/commerce-service/internal/config"
	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/events"
	"github.com/spec-kit/commerce-service/internal/repository"
	apperrors "github.com/spec-kit/commerce-service/pkg/util"
)

// TokenPair is the access/refresh credential pair returned by login and
// refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AccountService drives the account lifecycle (register, verify, login) and
// session issuance.
type AccountService struct {
	accounts   repository.AccountRepository
	tokens     *auth.TokenService
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewAccountService builds the service.
func NewAccountService(cfg config.AuthConfig, accounts repository.AccountRepository, tokens *auth.TokenService, dispatcher events.Dispatcher) *AccountService {
	return &AccountService{
		accounts:   accounts,
		tokens:     tokens,
		dispatcher: dispatcher,
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new unverified account and triggers the verification
// email. Email delivery is fire-and-forget: registration is complete once
// the record is persisted.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (*domain.Account, error) {
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateAccount()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	token, expiry, err := s.tokens.IssueVerificationToken()
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	account := &domain.Account{
		Name:                    name,
		Email:                   email,
		PasswordHash:            hash,
		Role:                    domain.RoleCustomer,
		Verified:                false,
		VerificationToken:       &token,
		VerificationTokenExpiry: &expiry,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// A concurrent registration can slip past the lookup above and
		// land on the unique email constraint instead.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewDuplicateAccount()
		}
		return nil, apperrors.MapError(err)
	}

	s.publishAsync(events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAccountRegistered,
		AccountID: account.ID,
		Timestamp: time.Now(),
		Payload: events.AccountRegisteredPayload{
			Email:             account.Email,
			Name:              account.Name,
			VerificationToken: token,
		},
	})

	return account, nil
}

// VerifyEmail consumes a verification token, flipping the account to
// verified. Wrong and expired tokens are indistinguishable to the caller.
// The token is single use: success clears it so a replay fails.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	account, err := s.accounts.GetByVerificationToken(ctx, token, time.Now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewInvalidOrExpiredToken()
		}
		return apperrors.MapError(err)
	}

	account.Verified = true
	account.VerificationToken = nil
	account.VerificationTokenExpiry = nil
	if err := s.accounts.Update(ctx, account); err != nil {
		return apperrors.MapError(err)
	}

	s.publishAsync(events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAccountVerified,
		AccountID: account.ID,
		Timestamp: time.Now(),
	})
	return nil
}

// Login authenticates a verified account and mints a fresh token pair.
// Unknown email and wrong password produce the same error.
func (s *AccountService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}

	if !account.Verified {
		return nil, apperrors.NewNotVerified()
	}

	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	return s.issuePair(account.ID)
}

// Refresh validates the presented refresh token and rotates the pair. The
// superseded refresh token is not tracked server-side; it stays valid until
// its natural expiry.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	accountID, err := s.tokens.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperrors.NewTokenExpired()
		}
		return nil, apperrors.NewTokenInvalid()
	}

	if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account")
		}
		return nil, apperrors.MapError(err)
	}

	return s.issuePair(accountID)
}

// GetProfile returns the account for the resolved identity.
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

func (s *AccountService) issuePair(accountID string) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(accountID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	refresh, err := s.tokens.IssueRefreshToken(accountID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// publishAsync detaches event delivery from the request lifecycle; a
// subscriber failure never affects the triggering operation.
func (s *AccountService) publishAsync(event events.Event) {
	if s.dispatcher == nil {
		return
	}
	go func() {
		_ = s.dispatcher.Publish(context.Background(), event)
	}()
}
