package statistic

import (
	"context"
	"errors"

	"github.com/questx-lab/campaign/internal/entity"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/questx-lab/campaign/pkg/xredis"
	"gorm.io/gorm"
)

const defaultTopN = 50

type Leaderboard interface {
	GetTop(ctx context.Context) ([]model.LeaderboardEntry, error)
	GetRank(ctx context.Context, userID string, top []model.LeaderboardEntry) (*model.LeaderboardEntry, error)

	// OnPointsChanged drops the cached ranking.
	OnPointsChanged(ctx context.Context)
}

type leaderboard struct {
	userRepo    repository.UserRepository
	redisClient xredis.Client
}

func New(userRepo repository.UserRepository, redisClient xredis.Client) *leaderboard {
	return &leaderboard{userRepo: userRepo, redisClient: redisClient}
}

// GetTop returns the first N users ordered by points, earlier sign up first on
// ties. The redis copy is only a cache, any failure on it falls back to the
// database.
func (l *leaderboard) GetTop(ctx context.Context) ([]model.LeaderboardEntry, error) {
	entries := []model.LeaderboardEntry{}
	err := l.redisClient.GetObj(ctx, redisKeyTopLeaderboard, &entries)
	if err == nil {
		return entries, nil
	}

	if !errors.Is(err, xredis.ErrNil) {
		xcontext.Logger(ctx).Warnf("Cannot get leaderboard from redis: %v", err)
	}

	entries, err = l.loadFromDB(ctx)
	if err != nil {
		return nil, err
	}

	ttl := xcontext.Configs(ctx).Leaderboard.CacheTTL
	if err := l.redisClient.SetObj(ctx, redisKeyTopLeaderboard, entries, ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache leaderboard: %v", err)
	}

	return entries, nil
}

// GetRank returns the entry of userID. The top list is consulted first, a user
// outside of it is ranked by counting who is ahead.
func (l *leaderboard) GetRank(
	ctx context.Context, userID string, top []model.LeaderboardEntry,
) (*model.LeaderboardEntry, error) {
	for i := range top {
		if top[i].User.ID == userID {
			entry := top[i]
			return &entry, nil
		}
	}

	user, err := l.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	ahead, err := l.userRepo.CountAhead(ctx, user)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count users ahead of %s: %v", userID, err)
		return nil, errorx.Unknown
	}

	entry := convertEntry(ahead+1, user)
	return &entry, nil
}

func (l *leaderboard) OnPointsChanged(ctx context.Context) {
	if err := l.redisClient.Del(ctx, redisKeyTopLeaderboard); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate leaderboard cache: %v", err)
	}
}

func (l *leaderboard) loadFromDB(ctx context.Context) ([]model.LeaderboardEntry, error) {
	topN := xcontext.Configs(ctx).Leaderboard.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	users, err := l.userRepo.GetTopByPoints(ctx, topN)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.LeaderboardEntry{}
	for i := range users {
		entries = append(entries, convertEntry(int64(i+1), &users[i]))
	}

	return entries, nil
}

func convertEntry(rank int64, user *entity.User) model.LeaderboardEntry {
	return model.LeaderboardEntry{
		Rank: rank,
		User: model.ShortUser{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			PictureURL:  user.PictureURL,
		},
		TotalPoints: user.TotalPoints,
	}
}
