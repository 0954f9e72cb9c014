package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/campaign/internal/common"
	"github.com/questx-lab/campaign/internal/middleware"
	"github.com/questx-lab/campaign/pkg/prometheus"
	"github.com/questx-lab/campaign/pkg/router"
	"github.com/questx-lab/campaign/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func (s *srv) startApi(*cli.Context) error {
	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := s.loadRedisClient(); err != nil {
		return err
	}

	if err := s.loadPublisher(); err != nil {
		return err
	}

	if err := s.loadStorage(); err != nil {
		return err
	}

	if err := s.loadAuthenticator(); err != nil {
		return err
	}

	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:              cfg.ApiServer.Address(),
		Handler:           middleware.CORS(cfg.ApiServer.AllowCORS, s.router.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		termSignal := make(chan os.Signal, 1)
		signal.Notify(termSignal, syscall.SIGINT, syscall.SIGTERM)
		sig := <-termSignal
		xcontext.Logger(s.ctx).Infof("Got a signal of %s, shutting down", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server gracefully: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", cfg.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	log := xcontext.Logger(s.ctx)
	s.router = router.New(func(ctx context.Context) context.Context {
		return xcontext.NewContext(ctx, cfg, log, s.db)
	})

	s.router.Handle(http.MethodGet, "/metrics", prometheus.NewHandler(common.PromCounters, common.PromHistograms))

	s.router.Before(middleware.WithStartTime())
	s.router.Before(middleware.WithAccessToken(s.tokenEngine))
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	api := s.router.Group("/api")

	// Public API, the requesting user is optional.
	{
		router.POST(api, "/auth/login", s.authDomain.Login)
		router.GET(api, "/tasks", s.taskDomain.GetList)
		router.GET(api, "/tasks/:day", s.taskDomain.Get)
		router.GET(api, "/leaderboard", s.statisticDomain.GetLeaderboard)
		router.GET(api, "/photos", s.photoDomain.GetList)
		router.GET(api, "/photos/:id", s.photoDomain.Get)
		router.GET(api, "/bonus-draws/:day", s.bonusDrawDomain.Get)
	}

	// These following APIs need an authenticated user.
	authRouter := api.Branch()
	authRouter.Before(middleware.Authenticate)
	{
		router.GET(authRouter, "/me", s.userDomain.GetMe)
		router.POST(authRouter, "/tasks/:day/complete", s.taskCompletionDomain.Complete)
		router.POST(authRouter, "/photos/upload-url", s.photoDomain.GetUploadURL)
		router.POST(authRouter, "/photos", s.photoDomain.Create)
		router.GET(authRouter, "/photos/:id/comments", s.photoDomain.GetComments)
		router.POST(authRouter, "/photos/:id/comments", s.photoDomain.CreateComment)
		router.GET(authRouter, "/scratch-cards/:day", s.scratchCardDomain.Get)
		router.POST(authRouter, "/scratch-cards/:day/scratch", s.scratchCardDomain.Scratch)
		router.GET(authRouter, "/notifications", s.notificationDomain.GetList)
		router.POST(authRouter, "/notifications/read", s.notificationDomain.Read)
	}

	// Admin API.
	adminRouter := api.Group("/admin")
	adminRouter.Before(middleware.Authenticate)
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	{
		router.PATCH(adminRouter, "/tasks/:day", s.taskDomain.Update)

		router.GET(adminRouter, "/users", s.userDomain.GetList)
		router.PATCH(adminRouter, "/users/:id", s.userDomain.Update)
		router.GET(adminRouter, "/users/:id/transactions", s.pointDomain.GetTransactions)
		router.DELETE(adminRouter, "/transactions/:id", s.pointDomain.DeleteTransaction)

		router.GET(adminRouter, "/prizes", s.lotteryDomain.GetPrizes)
		router.POST(adminRouter, "/prizes", s.lotteryDomain.CreatePrize)
		router.POST(adminRouter, "/lottery/draw", s.lotteryDomain.Draw)

		router.POST(adminRouter, "/scratch-cards/:day", s.scratchCardDomain.Generate)
		router.GET(adminRouter, "/scratch-cards/:day", s.scratchCardDomain.GetSummary)

		router.GET(adminRouter, "/bonus-draws/:day", s.bonusDrawDomain.GetAdmin)
		router.POST(adminRouter, "/bonus-draws/:day/preview", s.bonusDrawDomain.Preview)
		router.POST(adminRouter, "/bonus-draws/:day/confirm", s.bonusDrawDomain.Confirm)
		router.POST(adminRouter, "/bonus-draws/:day/donate", s.bonusDrawDomain.Donate)

		router.GET(adminRouter, "/stats", s.statisticDomain.GetStats)
	}
}
