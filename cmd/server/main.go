package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/dartz_league/internal/authz"
	"github.com/Skotchmaster/dartz_league/internal/config"
	"github.com/Skotchmaster/dartz_league/internal/db"
	"github.com/Skotchmaster/dartz_league/internal/events"
	"github.com/Skotchmaster/dartz_league/internal/httpserver"
	"github.com/Skotchmaster/dartz_league/internal/logging"
	"github.com/Skotchmaster/dartz_league/internal/middleware/csrf"
	"github.com/Skotchmaster/dartz_league/internal/repo"
	"github.com/Skotchmaster/dartz_league/internal/revocation"
	"github.com/Skotchmaster/dartz_league/internal/search"
	"github.com/Skotchmaster/dartz_league/internal/service"
	"github.com/Skotchmaster/dartz_league/internal/session"
	"github.com/Skotchmaster/dartz_league/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "dartz_league")
	slog.SetDefault(logger)
	ctx := logging.IntoContext(context.Background(), logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(openCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	rdb, err := revocation.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		publisher = prod
	}

	var players *search.Players
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(ctx, search.ClientConfig{URL: cfg.ESURL, Username: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		players = search.NewPlayers(esClient)
	}

	r := repo.New(gdb)
	codec := tokens.NewCodec()
	store := revocation.NewStore(rdb, codec)
	roles := authz.DefaultHierarchy()

	sessions := session.NewManager(r, codec, store, session.ConfigFrom(cfg))
	sessions.SetPublisher(publisher)

	accounts := &service.AccountService{Repo: r, Roles: roles, Events: publisher}
	playersHTTP := &httpserver.PlayersHTTP{}
	if players != nil {
		accounts.Players = players
		playersHTTP.Search = players
	}

	deps := &httpserver.Deps{
		Auth:        &httpserver.AuthHTTP{Sessions: sessions, Accounts: accounts},
		Users:       &httpserver.UsersHTTP{Accounts: accounts},
		Tournaments: &httpserver.TournamentHTTP{Svc: &service.TournamentService{Repo: r}},
		Players:     playersHTTP,
		Gate:        authz.NewGate(sessions, roles),
		Ready: []httpserver.ReadyCheck{
			{Name: "db", Check: func(ctx context.Context) error { return db.Ping(ctx, gdb) }},
			{Name: "redis", Check: store.Ping},
		},
	}
	if cfg.CSRFEnabled {
		csrfCfg := csrf.DefaultConfig()
		csrfCfg.Secure = cfg.Production()
		deps.CSRF = &csrfCfg
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(httpserver.Common(logger, cfg.CORSOrigins)...)

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("dartz_league listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := db.Close(gdb); err != nil {
		log.Printf("db close error: %v", err)
	}
	if err := rdb.Close(); err != nil {
		log.Printf("redis close error: %v", err)
	}
	if err := publisher.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
