package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kruxfinance/support-chat/internal/domain"
	"github.com/kruxfinance/support-chat/internal/roster"
	apperrors "github.com/kruxfinance/support-chat/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User domain.User
}

// IsCustomer reports whether the caller is a customer.
func (p *Principal) IsCustomer() bool {
	return p.User.Type == domain.UserTypeCustomer && p.User.Customer != nil
}

// IsAgent reports whether the caller is an agent.
func (p *Principal) IsAgent() bool {
	return p.User.Type == domain.UserTypeAgent && p.User.Agent != nil
}

// AuthMiddleware validates bearer tokens and loads principals from the roster.
type AuthMiddleware struct {
	tokens    *TokenManager
	directory *roster.Directory
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, directory *roster.Directory) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, directory: directory}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, ok := m.directory.Resolve(claims.UserType, claims.UserID)
	if !ok {
		return apperrors.NewUnauthorized("unknown user")
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
