package oauth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// Profile is the identity an OAuth provider vouches for.
type Profile struct {
	Email     string
	FirstName string
	LastName  string
	Picture   string
	Provider  string
}

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleVerifier checks Google ID tokens issued for clientID.
type GoogleVerifier struct {
	clientID string
	validate validateFunc
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Profile, error) {
	if v.clientID == "" {
		return nil, errors.New("google sign-in is not configured")
	}
	payload, err := v.validate(ctx, token, v.clientID)
	if err != nil {
		return nil, fmt.Errorf("invalid google id token: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google id token carries no email")
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return nil, errors.New("google email is not verified")
	}
	firstName, _ := payload.Claims["given_name"].(string)
	lastName, _ := payload.Claims["family_name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	return &Profile{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Picture:   picture,
		Provider:  ProviderGoogle,
	}, nil
}
