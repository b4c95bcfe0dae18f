package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kruxfinance/support-chat/internal/auth"
	"github.com/kruxfinance/support-chat/internal/domain"
	"github.com/kruxfinance/support-chat/internal/roster"
	apperrors "github.com/kruxfinance/support-chat/pkg/util/errorutil"
)

func TestLogin(t *testing.T) {
	st, _ := newTestStore(t)
	tokens := auth.NewTokenManager("secret", 10*time.Minute)
	svc := NewAuthService(roster.Default(), st, tokens, nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		identifier string
		wantType   domain.UserType
		wantID     string
	}{
		{name: "customer by phone", identifier: " +919876543210 ", wantType: domain.UserTypeCustomer, wantID: "cust-1"},
		{name: "agent by username", identifier: "amit.kumar", wantType: domain.UserTypeAgent, wantID: "agent-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, token, _, err := svc.Login(ctx, tt.identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, user.Type)
			assert.Equal(t, tt.wantID, user.ID())

			claims, err := tokens.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, claims.UserID)

			current, ok := svc.CurrentUser()
			require.True(t, ok)
			assert.Equal(t, tt.wantID, current.ID())
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	st, _ := newTestStore(t)
	svc := NewAuthService(roster.Default(), st, auth.NewTokenManager("secret", 10*time.Minute), nil)

	_, _, _, err := svc.Login(context.Background(), "nobody")
	requireCode(t, err, "UNAUTHORIZED")
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "Invalid credentials. Please try again.", domainErr.Message)
	_, ok := svc.CurrentUser()
	assert.False(t, ok)
}

func TestLogoutClearsCurrentUser(t *testing.T) {
	st, _ := newTestStore(t)
	svc := NewAuthService(roster.Default(), st, auth.NewTokenManager("secret", 10*time.Minute), nil)
	ctx := context.Background()

	user, _, _, err := svc.Login(ctx, "sneha.singh")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, user))
	_, ok := svc.CurrentUser()
	assert.False(t, ok)
}
