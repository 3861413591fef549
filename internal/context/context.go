package context

import (
	"context"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"

	"mycloud-go/internal/auth"
)

type contextKey string

const principalContextKey contextKey = "principal"

// PrincipalFromContext resolves the requester's identity from the request
// context. Returns nil for anonymous requests.
func PrincipalFromContext(ctx context.Context) *auth.Principal {
	if p, ok := ctx.Value(principalContextKey).(*auth.Principal); ok {
		return p
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil
	}

	return principalFromClaims(claims)
}

// principalFromClaims creates a Principal from JWT claims
func principalFromClaims(claims map[string]interface{}) *auth.Principal {
	userID, _ := claims["user_id"].(string)
	username, _ := claims["username"].(string)
	if userID == "" || username == "" {
		return nil
	}

	parsedID, err := uuid.Parse(userID)
	if err != nil {
		return nil
	}

	isSuperuser, _ := claims["is_superuser"].(bool)

	return &auth.Principal{
		ID:          parsedID,
		Username:    username,
		IsSuperuser: isSuperuser,
	}
}

// WithPrincipal adds a resolved principal to the context
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}
