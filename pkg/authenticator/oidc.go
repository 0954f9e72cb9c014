package authenticator

import (
	"context"
	"errors"

	"github.com/coreos/go-oidc/v3/oidc"
)

type Identity struct {
	Subject    string
	Name       string
	PictureURL string
}

type IDVerifier interface {
	VerifyIDToken(ctx context.Context, rawIDToken string) (Identity, error)
}

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*oidcVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}

	return &oidcVerifier{verifier: provider.Verifier(&oidc.Config{ClientID: clientID})}, nil
}

func (v *oidcVerifier) VerifyIDToken(ctx context.Context, rawIDToken string) (Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Identity{}, err
	}

	var profile struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&profile); err != nil {
		return Identity{}, errors.New("invalid id token claims")
	}

	return Identity{
		Subject:    idToken.Subject,
		Name:       profile.Name,
		PictureURL: profile.Picture,
	}, nil
}
