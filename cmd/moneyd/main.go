// Command moneyd serves the money API: amount arithmetic, the
// in-memory ledger and its webhook notifications.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/oklog/run"
	"github.com/paykit/go-money/config"
	"github.com/paykit/go-money/httpapi"
	"github.com/paykit/go-money/httpserver"
	"github.com/paykit/go-money/ledger"
	"github.com/paykit/go-money/logger"
	"github.com/paykit/go-money/money"
	psinmem "github.com/paykit/go-money/pubsub/inmem"
	"github.com/paykit/go-money/webhook"
	"github.com/paykit/go-money/worker"
	"github.com/paykit/go-money/worker/amqpw"
	winmem "github.com/paykit/go-money/worker/inmem"
	"go.uber.org/zap"
)

const (
	serviceName = "moneyd"

	shutdownTimeout = 30 * time.Second

	// worker handler names.
	jobDeposit  = "ledger.deposit"
	jobWithdraw = "ledger.withdraw"
)

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func realMain() error {
	configPath := flag.String(
		"config",
		"moneyd.yaml",
		"path to the configuration file",
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(serviceName, cfg.Environment, cfg.Log.Level)
	if err != nil {
		return err
	}

	defer func() { _ = log.Sync() }()

	if cfg.Sentry.DSN != "" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Environment,
		})
		if err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}

		defer sentry.Flush(2 * time.Second)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := psinmem.NewPubSub[ledger.BalanceChange](64)

	book := ledger.New(ledger.WithPublisher(events))

	jobs, err := newWorker(cfg, log)
	if err != nil {
		return err
	}

	if err := jobs.Start(ctx); err != nil {
		return fmt.Errorf("start worker: %w", err)
	}

	defer func() {
		if err := jobs.Stop(); err != nil {
			log.Error("stopping worker", zap.Error(err))
		}
	}()

	if err := registerHandlers(jobs, book); err != nil {
		return fmt.Errorf("register handlers: %w", err)
	}

	api := httpapi.New(
		log,
		book,
		httpapi.WithDefaultCurrency(cfg.Currency()),
	)

	srv := httpserver.New(
		log,
		api.Router(),
		httpserver.WithAddress(cfg.Server.Address),
		httpserver.WithBaseContext(ctx, true),
	)

	var g run.Group

	g.Add(
		func() error {
			return srv.ListenAndServe()
		},
		func(error) {
			if err := srv.Shutdown(shutdownTimeout); err != nil {
				log.Error("server shutdown", zap.Error(err))
			}
		},
	)

	if cfg.Webhook.URL != "" {
		sub, err := events.Subscribe(ledger.ChannelBalances)
		if err != nil {
			return fmt.Errorf("subscribe webhook: %w", err)
		}

		notifier := webhook.NewNotifier(cfg.Webhook.URL, log)

		g.Add(
			func() error {
				return notifier.Run(ctx, sub)
			},
			func(error) {
				_ = sub.Close()
				cancel()
			},
		)
	}

	g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	log.Info(
		"starting moneyd",
		zap.String("environment", cfg.Environment),
		zap.String("address", cfg.Server.Address),
	)

	err = g.Run()

	var signalErr run.SignalError

	switch {
	case errors.As(err, &signalErr):
		log.Info("shut down by signal", zap.String("signal", signalErr.Signal.String()))

		return nil

	case errors.Is(err, context.Canceled):
		return nil

	default:
		return err
	}
}

// newWorker picks the AMQP adapter when a broker is configured and
// the in-memory adapter otherwise.
func newWorker(cfg *config.Config, log *zap.Logger) (worker.Worker, error) {
	if cfg.AMQP.URL == "" {
		return winmem.New(winmem.Options{Logger: log}), nil
	}

	conn, err := amqpw.Dial(cfg.AMQP.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	return amqpw.New(amqpw.Options{
		Connection: conn,
		Logger:     log,
		Name:       serviceName,
	})
}

// registerHandlers binds the ledger jobs the worker can perform.
func registerHandlers(jobs worker.Worker, book *ledger.Ledger) error {
	deposit := func(args worker.Args) error {
		id, amount, err := parseJobArgs(args)
		if err != nil {
			return err
		}

		_, err = book.Deposit(id, amount)

		return err
	}

	withdraw := func(args worker.Args) error {
		id, amount, err := parseJobArgs(args)
		if err != nil {
			return err
		}

		_, err = book.Withdraw(id, amount)

		return err
	}

	if err := jobs.Register(jobDeposit, deposit); err != nil {
		return err
	}

	return jobs.Register(jobWithdraw, withdraw)
}

func parseJobArgs(args worker.Args) (uuid.UUID, money.Money, error) {
	rawID, ok := args["account_id"].(string)
	if !ok {
		return uuid.Nil, money.Money{}, errors.New("job missing account_id")
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, money.Money{}, fmt.Errorf("job account_id: %w", err)
	}

	rawAmount, ok := args["amount"].(string)
	if !ok {
		return uuid.Nil, money.Money{}, errors.New("job missing amount")
	}

	amount, err := money.Parse(rawAmount)
	if err != nil {
		return uuid.Nil, money.Money{}, fmt.Errorf("job amount: %w", err)
	}

	return id, amount, nil
}
