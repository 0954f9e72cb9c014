package main

import (
	"context"
	"net/http"

	"github.com/questx-lab/campaign/internal/domain"
	"github.com/questx-lab/campaign/internal/domain/ledger"
	"github.com/questx-lab/campaign/internal/domain/notification"
	"github.com/questx-lab/campaign/internal/domain/statistic"
	"github.com/questx-lab/campaign/internal/model"
	"github.com/questx-lab/campaign/internal/repository"
	"github.com/questx-lab/campaign/pkg/authenticator"
	"github.com/questx-lab/campaign/pkg/pubsub"
	"github.com/questx-lab/campaign/pkg/router"
	"github.com/questx-lab/campaign/pkg/storage"
	"github.com/questx-lab/campaign/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context
	db  *gorm.DB

	server *http.Server
	router *router.Router

	redisClient xredis.Client
	publisher   pubsub.Publisher
	storage     storage.Storage
	idVerifier  authenticator.IDVerifier
	tokenEngine authenticator.TokenEngine[model.AccessToken]

	userRepo         repository.UserRepository
	taskRepo         repository.TaskRepository
	completionRepo   repository.TaskCompletionRepository
	pointRepo        repository.PointTransactionRepository
	lotteryRepo      repository.LotteryRepository
	scratchCardRepo  repository.ScratchCardRepository
	bonusDrawRepo    repository.BonusDrawRepository
	photoRepo        repository.PhotoRepository
	photoCommentRepo repository.PhotoCommentRepository
	notificationRepo repository.NotificationRepository

	leaderboard statistic.Leaderboard
	ledger      ledger.Ledger
	notifier    notification.Notifier

	authDomain           domain.AuthDomain
	userDomain           domain.UserDomain
	taskDomain           domain.TaskDomain
	taskCompletionDomain domain.TaskCompletionDomain
	pointDomain          domain.PointDomain
	lotteryDomain        domain.LotteryDomain
	scratchCardDomain    domain.ScratchCardDomain
	bonusDrawDomain      domain.BonusDrawDomain
	photoDomain          domain.PhotoDomain
	notificationDomain   domain.NotificationDomain
	statisticDomain      domain.StatisticDomain
}
