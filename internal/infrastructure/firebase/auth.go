package firebase

import (
	"context"

	"vinemarket-backend/internal/domain"

	"firebase.google.com/go/v4/auth"
)

// TokenVerifier checks Firebase ID tokens with the Admin SDK.
type TokenVerifier struct {
	Client *auth.Client
}

func (v *TokenVerifier) Verify(ctx context.Context, idToken string) (*domain.Identity, error) {
	tok, err := v.Client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return IdentityFromClaims(tok.UID, tok.Claims), nil
}

// IdentityFromClaims reads the email claim and the boolean admin custom claim.
func IdentityFromClaims(uid string, claims map[string]interface{}) *domain.Identity {
	id := &domain.Identity{UID: uid}
	if e, ok := claims["email"].(string); ok {
		id.Email = e
	}
	if a, ok := claims["admin"].(bool); ok {
		id.Admin = a
	}
	return id
}
