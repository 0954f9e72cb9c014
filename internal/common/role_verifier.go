package common

import (
	"context"
	"errors"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// GlobalRoleVerifier checks the stored role of the requesting user, so a
// demoted admin loses access before the access token expires.
type GlobalRoleVerifier struct {
	userRepo repository.UserRepository
}

func NewGlobalRoleVerifier(userRepo repository.UserRepository) *GlobalRoleVerifier {
	return &GlobalRoleVerifier{userRepo: userRepo}
}

func (verifier *GlobalRoleVerifier) Verify(ctx context.Context, requiredRoles ...entity.GlobalRole) error {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	u, err := verifier.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.Unauthenticated, "User is not valid")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return errorx.Unknown
	}

	if !slices.Contains(requiredRoles, u.Role) {
		return errorx.New(errorx.Forbidden, "User role does not have permission")
	}

	return nil
}
