package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kruxfinance/support-chat/internal/auth"
	"github.com/kruxfinance/support-chat/internal/domain"
	"github.com/kruxfinance/support-chat/internal/roster"
	"github.com/kruxfinance/support-chat/internal/store"
	apperrors "github.com/kruxfinance/support-chat/pkg/util/errorutil"
)

// AuthService resolves identifiers against the roster and issues session tokens.
type AuthService struct {
	directory *roster.Directory
	store     *store.Store
	tokens    *auth.TokenManager
	logger    *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(directory *roster.Directory, st *store.Store, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{directory: directory, store: st, tokens: tokens, logger: logger}
}

// Login looks up a customer by phone or an agent by username and records them as
// the current user.
func (s *AuthService) Login(ctx context.Context, identifier string) (domain.User, string, time.Time, error) {
	user, ok := s.directory.Lookup(identifier)
	if !ok {
		return domain.User{}, "", time.Time{}, apperrors.NewUnauthorized(InvalidCredentialsMessage)
	}
	token, exp, err := s.tokens.GenerateToken(user)
	if err != nil {
		return domain.User{}, "", time.Time{}, apperrors.NewInternalError(err)
	}
	if err := s.store.Dispatch(ctx, store.Login{User: user}); err != nil {
		return domain.User{}, "", time.Time{}, mapStoreError(err)
	}
	s.logger.Info("user logged in", zap.String("user_id", user.ID()), zap.String("user_type", string(user.Type)))
	return user, token, exp, nil
}

// Logout clears the current user. Tokens are stateless and simply expire.
func (s *AuthService) Logout(ctx context.Context, user domain.User) error {
	if err := s.store.Dispatch(ctx, store.Logout{}); err != nil {
		return mapStoreError(err)
	}
	s.logger.Info("user logged out", zap.String("user_id", user.ID()))
	return nil
}

// CurrentUser returns the user recorded by the most recent login.
func (s *AuthService) CurrentUser() (domain.User, bool) {
	return s.store.CurrentUser()
}
