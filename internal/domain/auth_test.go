package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/authenticator"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/testutil"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestAuthDomain(ctx context.Context, identity authenticator.Identity) (*authDomain, authenticator.TokenEngine[model.AccessToken]) {
	cfg := xcontext.Configs(ctx).Auth
	tokenEngine := authenticator.NewTokenEngine[model.AccessToken](cfg.TokenSecret, cfg.AccessToken.Expiration)
	return NewAuthDomain(
		repository.NewUserRepository(),
		newTestLedger(),
		&testutil.MockIDVerifier{
			VerifyIDTokenFunc: func(ctx context.Context, rawIDToken string) (authenticator.Identity, error) {
				if rawIDToken != "valid" {
					return authenticator.Identity{}, errors.New("invalid signature")
				}
				return identity, nil
			},
		},
		tokenEngine,
	), tokenEngine
}

func Test_authDomain_Login_EarlyBonus(t *testing.T) {
	ctx := testutil.MockContext()
	cfg := xcontext.Configs(ctx)
	cfg.Campaign.EarlyLoginDeadline = time.Now().Add(time.Hour)
	ctx = xcontext.WithConfigs(ctx, cfg)

	identity := authenticator.Identity{Subject: "U123", Name: "Alice", PictureURL: "https://x/a.png"}
	d, tokenEngine := newTestAuthDomain(ctx, identity)

	resp, err := d.Login(ctx, &model.LoginRequest{IDToken: "valid"})
	require.NoError(t, err)
	require.True(t, resp.IsNewUser)
	require.Equal(t, int64(3), resp.EarlyLoginPoints)
	require.Equal(t, int64(3), resp.User.TotalPoints)
	require.Equal(t, "Alice", resp.User.DisplayName)

	token, err := tokenEngine.Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, token.ID)
	require.Equal(t, string(entity.RoleUser), token.Role)

	transactions, err := repository.NewPointTransactionRepository().GetListByUserID(ctx, resp.User.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	require.Equal(t, entity.PointEarlyLogin, transactions[0].Type)
	require.Equal(t, resp.User.ID, transactions[0].ReferenceID.String)

	// The bonus is only for the first login.
	resp, err = d.Login(ctx, &model.LoginRequest{IDToken: "valid"})
	require.NoError(t, err)
	require.False(t, resp.IsNewUser)
	require.Zero(t, resp.EarlyLoginPoints)
	require.Equal(t, int64(3), resp.User.TotalPoints)
}

func Test_authDomain_Login_AfterDeadline(t *testing.T) {
	ctx := testutil.MockContext()
	cfg := xcontext.Configs(ctx)
	cfg.Campaign.EarlyLoginDeadline = time.Now().Add(-time.Hour)
	ctx = xcontext.WithConfigs(ctx, cfg)

	d, _ := newTestAuthDomain(ctx, authenticator.Identity{Subject: "U456", Name: "Bob"})
	resp, err := d.Login(ctx, &model.LoginRequest{IDToken: "valid"})
	require.NoError(t, err)
	require.True(t, resp.IsNewUser)
	require.Zero(t, resp.EarlyLoginPoints)
	require.Zero(t, resp.User.TotalPoints)
}

func Test_authDomain_Login_RefreshProfile(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, &entity.User{SubjectID: "U789", DisplayName: "Old"})
	require.NoError(t, err)

	d, _ := newTestAuthDomain(ctx, authenticator.Identity{Subject: "U789", Name: "New", PictureURL: "p"})
	resp, err := d.Login(ctx, &model.LoginRequest{IDToken: "valid"})
	require.NoError(t, err)
	require.Equal(t, user.ID, resp.User.ID)
	require.Equal(t, "New", resp.User.DisplayName)

	stored, err := repository.NewUserRepository().GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "New", stored.DisplayName)
	require.Equal(t, "p", stored.PictureURL)
}

func Test_authDomain_Login_EmptyDisplayName(t *testing.T) {
	ctx := testutil.MockContext()

	d, _ := newTestAuthDomain(ctx, authenticator.Identity{Subject: "U900"})
	resp, err := d.Login(ctx, &model.LoginRequest{IDToken: "valid"})
	require.NoError(t, err)
	require.True(t, resp.IsNewUser)
	require.Equal(t, "LINE User", resp.User.DisplayName)

	user, err := testutil.SampleUser(ctx, &entity.User{SubjectID: "U901", DisplayName: "Old"})
	require.NoError(t, err)

	d, _ = newTestAuthDomain(ctx, authenticator.Identity{Subject: "U901", Name: "  "})
	resp, err = d.Login(ctx, &model.LoginRequest{IDToken: "valid"})
	require.NoError(t, err)
	require.Equal(t, "LINE User", resp.User.DisplayName)

	stored, err := repository.NewUserRepository().GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "LINE User", stored.DisplayName)
}

func Test_authDomain_Login_InvalidToken(t *testing.T) {
	ctx := testutil.MockContext()
	d, _ := newTestAuthDomain(ctx, authenticator.Identity{Subject: "U1"})

	_, err := d.Login(ctx, &model.LoginRequest{IDToken: ""})
	requireCode(t, err, errorx.InvalidInput)

	_, err = d.Login(ctx, &model.LoginRequest{IDToken: "forged"})
	requireCode(t, err, errorx.Unauthenticated)
}
