package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/app/models/dto"
	"github.com/yigit/activityhub/internal/app/repositories"
	"github.com/yigit/activityhub/internal/pkg/apperrors"
	"github.com/yigit/activityhub/internal/pkg/validation"
)

// AuthService signs users in from identities verified by an external provider
type AuthService interface {
	OAuthSignIn(ctx context.Context, req *dto.OAuthSignInRequest) (*dto.AuthResponse, error)
}

// authServiceImpl implements AuthService
type authServiceImpl struct {
	users     UserStore
	tokens    TokenIssuer
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens TokenIssuer, validator *validation.Validator, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		users:     users,
		tokens:    tokens,
		validator: validator,
		logger:    logger,
	}
}

// OAuthSignIn applies the account linking policy and issues a session token.
// An email seen for the first time creates a user with the identity linked.
// An existing user may only sign in through a provider already linked to it.
func (s *authServiceImpl) OAuthSignIn(ctx context.Context, req *dto.OAuthSignInRequest) (*dto.AuthResponse, error) {
	if req == nil {
		return nil, apperrors.NewValidationError("Request body is required", nil)
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrNoEmail, "The identity provider did not share an email address").
			WithCode(string(dto.ErrorCodeNoEmail))
	}

	user, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		user, err = s.createUser(ctx, email, req)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, storageFailure(s.logger, "get user by email", err)
	default:
		if err := s.checkLinked(ctx, user, req.Provider); err != nil {
			return nil, err
		}
	}

	token, expiresAt, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		s.logger.Error().Err(err).Str("userId", user.ID.String()).Msg("Failed to issue access token")
		return nil, apperrors.NewStorageError("issue access token", err)
	}

	s.logger.Info().
		Str("userId", user.ID.String()).
		Str("provider", req.Provider).
		Msg("User signed in")

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		IsNewUser:   user.IsNewUser(),
		User:        dto.FromUser(user),
	}, nil
}

// createUser registers a new user with the identity as its first account. A
// concurrent sign-up for the same email wins the race and is re-read.
func (s *authServiceImpl) createUser(ctx context.Context, email string, req *dto.OAuthSignInRequest) (*models.User, error) {
	name := email[:strings.Index(email, "@")]
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		name = strings.TrimSpace(*req.Name)
	}

	user := &models.User{
		Name:  name,
		Email: email,
		Image: req.Image,
	}
	account := &models.Account{
		Provider:          req.Provider,
		ProviderAccountID: req.ProviderAccountID,
	}

	err := s.users.CreateWithAccount(ctx, user, account)
	if err == nil {
		s.logger.Info().
			Str("userId", user.ID.String()).
			Str("provider", req.Provider).
			Msg("User created from identity provider")
		return user, nil
	}
	if !errors.Is(err, repositories.ErrDuplicate) {
		return nil, storageFailure(s.logger, "create user", err)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storageFailure(s.logger, "get user by email", err)
	}
	if err := s.checkLinked(ctx, existing, req.Provider); err != nil {
		return nil, err
	}
	return existing, nil
}

// checkLinked rejects sign-ins through a provider the user never linked
func (s *authServiceImpl) checkLinked(ctx context.Context, user *models.User, provider string) error {
	accounts, err := s.users.ListAccounts(ctx, user.ID)
	if err != nil {
		return storageFailure(s.logger, "list accounts", err)
	}

	for _, a := range accounts {
		if a.Provider == provider {
			return nil
		}
	}

	details := map[string]interface{}{}
	if len(accounts) > 0 {
		details["provider"] = accounts[0].Provider
	}

	s.logger.Debug().
		Str("userId", user.ID.String()).
		Str("provider", provider).
		Msg("Sign-in through an unlinked provider")

	return apperrors.NewCustomError(apperrors.ErrAccountNotLinked, "This email is already linked to another sign-in method").
		WithCode(string(dto.ErrorCodeOAuthAccountNotLinked)).
		WithDetails(details)
}
