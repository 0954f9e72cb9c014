package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/pkg/authenticator"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/router"
	"github.com/questx-lab/campaign/pkg/xcontext"
)

// WithAccessToken resolves the requesting user from the access token in the
// Authorization header or the access token cookie. Requests without a valid
// token continue anonymously.
func WithAccessToken(tokenEngine authenticator.TokenEngine[model.AccessToken]) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := accessTokenOf(ctx)
		if token == "" {
			return nil, nil
		}

		accessToken, err := tokenEngine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, nil
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func Authenticate(ctx context.Context) (context.Context, error) {
	if xcontext.RequestUserID(ctx) == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	return nil, nil
}

func accessTokenOf(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	if auth := req.Header.Get("Authorization"); auth != "" {
		scheme, token, found := strings.Cut(auth, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}

		return ""
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil || cookie.Value == "" {
		if err != nil && err != http.ErrNoCookie {
			xcontext.Logger(ctx).Debugf("Cannot read access token cookie: %v", err)
		}

		return ""
	}

	return cookie.Value
}
