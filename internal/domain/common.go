package domain

import (
	"context"
	"database/sql"
	"errors"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func normalizePage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}

	if limit <= 0 {
		limit = defaultPageLimit
	}

	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return offset, limit
}

func getTaskByDay(ctx context.Context, taskRepo repository.TaskRepository, day int) (*entity.DailyTask, error) {
	task, err := taskRepo.GetByDay(ctx, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found task of day %d", day)
		}

		xcontext.Logger(ctx).Errorf("Cannot get task of day %d: %v", day, err)
		return nil, errorx.Unknown
	}

	return task, nil
}

func getUser(ctx context.Context, userRepo repository.UserRepository, userID string) (*entity.User, error) {
	user, err := userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

// requireClosedTask returns the task of day if it has been closed, draws over
// a day are only allowed after that.
func requireClosedTask(ctx context.Context, taskRepo repository.TaskRepository, day int) (*entity.DailyTask, error) {
	task, err := getTaskByDay(ctx, taskRepo, day)
	if err != nil {
		return nil, err
	}

	if !task.IsClosed {
		return nil, errorx.New(errorx.Forbidden, "Task of day %d is not closed yet", day)
	}

	return task, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
