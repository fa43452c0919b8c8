package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	httpadp "billit-client/internal/adapter/http"
	mw "billit-client/internal/adapter/middleware"
	"billit-client/internal/adapter/repository/kv"
	"billit-client/internal/adapter/repository/tokens"
	"billit-client/internal/config"
	"billit-client/internal/gateway"
	"billit-client/internal/infrastructure/cache"
	"billit-client/internal/infrastructure/db"
	"billit-client/internal/usecase/accounts"
	"billit-client/internal/usecase/investwizard"
	"billit-client/internal/usecase/loanwizard"
	"billit-client/internal/usecase/portfolio"
	"billit-client/internal/usecase/session"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		gdb *gorm.DB
		err error
	)
	switch cfg.StoreDriver {
	case "mysql":
		gdb, err = db.OpenMySQL(cfg.MySQLDSN())
	default:
		gdb, err = db.OpenSQLite(cfg.SQLitePath)
	}
	if err != nil {
		log.Fatalf("open state db: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}

	stateStore, err := kv.NewStore(gdb)
	if err != nil {
		log.Fatalf("migrate state store: %v", err)
	}
	tokenStore := tokens.NewStore(rdb)
	gw := gateway.New(cfg.BackendBaseURL)

	sessionUC := session.NewUsecase(gw, stateStore, tokenStore, time.Duration(cfg.ReverifyTTLSecs)*time.Second)
	loanUC := loanwizard.NewUsecase(gw, stateStore)
	investUC := investwizard.NewUsecase(gw, stateStore)
	portfolioUC := portfolio.NewUsecase(gw)
	accountsUC := accounts.NewUsecase(gw, sessionUC)

	h := httpadp.NewHandler()
	sessionH := httpadp.NewSessionHandler(sessionUC)
	loanH := httpadp.NewLoanHandler(loanUC, sessionUC)
	investH := httpadp.NewInvestHandler(investUC, sessionUC)
	portfolioH := httpadp.NewPortfolioHandler(portfolioUC, sessionUC)
	accountsH := httpadp.NewAccountsHandler(accountsUC, sessionUC)
	uploadH := httpadp.NewUploadHandler(gw, sessionUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	api := e.Group("", mw.ClientContext())

	api.POST("/session/login", sessionH.Login)
	api.POST("/session/social", sessionH.SocialLogin)
	api.GET("/session", sessionH.Me)
	api.DELETE("/session", sessionH.Logout)
	api.POST("/session/reverify", sessionH.Reverify)

	// Commit endpoints also hold a cross-instance lock per client.
	guard := mw.SingleFlight(rdb, time.Duration(cfg.InFlightTTLSecs)*time.Second)

	api.POST("/loans/wizard/input", loanH.Input, guard)
	api.POST("/loans/wizard/confirm", loanH.Confirm, guard)
	api.POST("/loans/wizard/assign-group", loanH.AssignGroup, guard)
	api.POST("/loans/wizard/cancel", loanH.Cancel, guard)
	api.GET("/loans/wizard", loanH.Get)
	api.GET("/loans/history", portfolioH.LoanHistory)

	api.POST("/investments/wizard/input", investH.Input)
	api.GET("/investments/wizard/groups", investH.Groups)
	api.PUT("/investments/wizard/amount", investH.SetAmount)
	api.POST("/investments/wizard/review", investH.Review)
	api.POST("/investments/wizard/confirm", investH.Confirm, guard)
	api.POST("/investments/wizard/cancel", investH.Cancel)
	api.GET("/investments/wizard", investH.Get)

	api.GET("/portfolio", portfolioH.Portfolio)
	api.GET("/investments/:investment_id", portfolioH.InvestmentDetail)
	api.GET("/investments/:investment_id/settlements", portfolioH.Settlements)
	api.GET("/repayments", portfolioH.Repayments)
	api.POST("/repayments", portfolioH.CreateRepayment, guard)

	api.GET("/accounts", accountsH.List)
	api.POST("/accounts", accountsH.Register, guard)

	api.POST("/upload", uploadH.Upload)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
