package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/campaign/internal/domain/ledger"
	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/authenticator"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

// defaultDisplayName names users whose LINE profile has no display name.
const defaultDisplayName = "LINE User"

type AuthDomain interface {
	Login(context.Context, *model.LoginRequest) (*model.LoginResponse, error)
}

type authDomain struct {
	userRepo    repository.UserRepository
	ledger      ledger.Ledger
	idVerifier  authenticator.IDVerifier
	tokenEngine authenticator.TokenEngine[model.AccessToken]
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	ledger ledger.Ledger,
	idVerifier authenticator.IDVerifier,
	tokenEngine authenticator.TokenEngine[model.AccessToken],
) *authDomain {
	return &authDomain{
		userRepo:    userRepo,
		ledger:      ledger,
		idVerifier:  idVerifier,
		tokenEngine: tokenEngine,
	}
}

func (d *authDomain) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if req.IDToken == "" {
		return nil, errorx.New(errorx.InvalidInput, "Require id token")
	}

	identity, err := d.idVerifier.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify id token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid id token")
	}

	if identity.Subject == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid id token")
	}

	user, isNew, bonus, err := d.resolveOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}

	token, err := d.tokenEngine.Generate(user.ID, model.AccessToken{
		ID:   user.ID,
		Name: user.DisplayName,
		Role: string(user.Role),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LoginResponse{
		AccessToken:      token,
		User:             convertUser(user, true),
		IsNewUser:        isNew,
		EarlyLoginPoints: bonus,
	}, nil
}

// resolveOrCreate returns the user of the identity. Known users get their
// profile refreshed, new users before the early deadline get a bonus.
func (d *authDomain) resolveOrCreate(
	ctx context.Context, identity authenticator.Identity,
) (*entity.User, bool, int64, error) {
	displayName := strings.TrimSpace(identity.Name)
	if displayName == "" {
		displayName = defaultDisplayName
	}

	user, err := d.userRepo.GetBySubjectID(ctx, identity.Subject)
	if err == nil {
		if user.DisplayName != displayName || user.PictureURL != identity.PictureURL {
			err := d.userRepo.UpdateProfile(ctx, user.ID, displayName, identity.PictureURL)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot update profile: %v", err)
				return nil, false, 0, errorx.Unknown
			}

			user.DisplayName = displayName
			user.PictureURL = identity.PictureURL
		}

		return user, false, 0, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by subject: %v", err)
		return nil, false, 0, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	user = &entity.User{
		Base:        entity.Base{ID: uuid.NewString()},
		SubjectID:   identity.Subject,
		DisplayName: displayName,
		PictureURL:  identity.PictureURL,
		Role:        entity.RoleUser,
	}
	if err := d.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, 0, errorx.New(errorx.Conflict, "Login is in progress, please retry")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, false, 0, errorx.Unknown
	}

	cfg := xcontext.Configs(ctx).Campaign
	var bonus int64
	if cfg.EarlyLoginPoints > 0 && time.Now().Before(cfg.EarlyLoginDeadline) {
		result, err := d.ledger.AddPoints(ctx, ledger.Entry{
			UserID:      user.ID,
			Amount:      cfg.EarlyLoginPoints,
			Type:        entity.PointEarlyLogin,
			ReferenceID: user.ID,
			Description: "Early login bonus",
		})
		if err != nil {
			return nil, false, 0, err
		}

		user = result.User
		bonus = cfg.EarlyLoginPoints
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit new user: %v", err)
		return nil, false, 0, errorx.Unknown
	}

	return user, true, bonus, nil
}
