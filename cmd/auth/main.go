package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dmarchuk/auth-service/internal/config"
	"github.com/dmarchuk/auth-service/internal/events"
	"github.com/dmarchuk/auth-service/internal/httpserver"
	"github.com/dmarchuk/auth-service/internal/middleware"
	"github.com/dmarchuk/auth-service/internal/models"
	"github.com/dmarchuk/auth-service/internal/repo"
	"github.com/dmarchuk/auth-service/internal/service"
	"github.com/dmarchuk/auth-service/pkg/db"
	"github.com/dmarchuk/auth-service/pkg/logging"
	loggingmw "github.com/dmarchuk/auth-service/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(loggingmw.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := gormDB.AutoMigrate(&models.User{}, &models.RevokedToken{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	store := repo.New(gormDB)

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	tokenSvc := &service.TokenService{
		Repo:          store,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}
	authSvc := &service.AuthService{
		Repo:           store,
		Tokens:         tokenSvc,
		Producer:       producer,
		StaffUsernames: cfg.StaffUsernames,
	}
	userSvc := &service.UserService{Repo: store}

	cookieMode := cfg.TokenTransport == config.TransportCookie

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc:             authSvc,
			Tokens:          tokenSvc,
			CookieTransport: cookieMode,
		},
		Users: &httpserver.UserHTTP{Svc: userSvc},
		Guard: &middleware.TokenGuard{
			Tokens:          tokenSvc,
			CookieTransport: cookieMode,
		},
		StaffGating: cfg.StaffGating,
	})

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	janitor := &service.Janitor{
		Repo:      store,
		Retention: cfg.RefreshTTL,
		Interval:  time.Hour,
	}
	go janitor.Run(janitorCtx, logger)

	go func() {
		if err := e.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	stopJanitor()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
