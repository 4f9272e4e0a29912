package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	figure "github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scribeav/go-transcribe-server/cache"
	"github.com/scribeav/go-transcribe-server/googleauth"
	"github.com/scribeav/go-transcribe-server/internal/config"
	"github.com/scribeav/go-transcribe-server/internal/sqlitedb"
	"github.com/scribeav/go-transcribe-server/payments"
	paymentsrepo "github.com/scribeav/go-transcribe-server/payments/sqliterepo"
	"github.com/scribeav/go-transcribe-server/server"
	"github.com/scribeav/go-transcribe-server/token"
	usersrepo "github.com/scribeav/go-transcribe-server/users/sqliterepo"
	workflowsrepo "github.com/scribeav/go-transcribe-server/workflows/sqliterepo"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on the environment")
	}
	setupLogging()

	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	pool, err := sqlitedb.Open(sqlitedb.Config{
		Path:     c.GetSQLitePath(),
		PoolSize: c.GetSQLitePoolSize(),
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer pool.Close()

	store := cache.New(c.GetCacheDefaultTTL(), time.Minute)
	defer store.Close()

	tokens := token.NewManager(
		token.NewHMACSigner(c.GetJWTSecret()),
		store,
		c.GetAuthTokenExpiry(),
		c.GetAccessTokenExpiry(),
	)

	google, err := googleauth.New(context.Background(),
		c.GetGoogleClientID(), c.GetGoogleClientSecret(), c.GetGoogleRedirectURL())
	if err != nil {
		return fmt.Errorf("setting up google auth: %w", err)
	}

	var checkout payments.CheckoutClient
	if c.GetStripeAPIKey() != "" {
		checkout = payments.NewStripeCheckout(c.GetStripeAPIKey(), c.GetStripePriceID())
	} else {
		log.Warn().Msg("no stripe api key configured, payment checkout is disabled")
	}

	handler, err := server.New(c, server.Deps{
		Users:     usersrepo.New(pool),
		Workflows: workflowsrepo.New(pool),
		Payments:  paymentsrepo.New(pool),
		Tokens:    tokens,
		State:     store,
		Google:    google,
		Checkout:  checkout,
	})
	if err != nil {
		return fmt.Errorf("building server: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func setupLogging() {
	level := zerolog.InfoLevel
	if config.GetEnv("ENV", "DEV") == "DEV" {
		level = zerolog.DebugLevel
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}
	zerolog.SetGlobalLevel(level)
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
