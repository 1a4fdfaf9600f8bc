package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/google/uuid"
	"github.com/minichain/ledger/business/core/scenario"
	"github.com/minichain/ledger/business/sys/display"
	"github.com/minichain/ledger/foundation/blockchain/chain"
	"github.com/minichain/ledger/foundation/blockchain/genesis"
	"github.com/minichain/ledger/foundation/events"
	"github.com/minichain/ledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("LEDGER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Chain struct {
			Difficulty   uint          `conf:"default:0,help:overrides the genesis difficulty when not 0"`
			Workers      int           `conf:"default:1"`
			MaxNonce     uint64        `conf:"default:0,help:largest nonce tried per block, 0 is unbounded"`
			MineTimeout  time.Duration `conf:"default:5m"`
			GenesisFile  string
			ScenarioFile string
		}
		Log struct {
			File       string
			MaxSizeMB  int `conf:"default:10"`
			MaxBackups int `conf:"default:3"`
			MaxAgeDays int `conf:"default:7"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "in-memory proof of work ledger",
		},
	}

	const prefix = "LEDGER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// Replace the console logger with one that also writes a rolling file.
	if cfg.Log.File != "" {
		log, err = logger.NewWithFile("LEDGER", logger.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
		})
		if err != nil {
			return fmt.Errorf("constructing file logger: %w", err)
		}
		defer log.Sync()
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	gen := genesis.Default()
	if cfg.Chain.GenesisFile != "" {
		if gen, err = genesis.Load(cfg.Chain.GenesisFile); err != nil {
			return fmt.Errorf("loading genesis: %w", err)
		}
	}
	if cfg.Chain.Difficulty != 0 {
		gen.Difficulty = cfg.Chain.Difficulty
	}

	sc := scenario.Default()
	if cfg.Chain.ScenarioFile != "" {
		if sc, err = scenario.Load(cfg.Chain.ScenarioFile); err != nil {
			return fmt.Errorf("loading scenario: %w", err)
		}
	}

	// The chain packages accept a function of this signature to allow the
	// application to log. The raw messages are also fanned out to any
	// subscriber through the events package.
	traceID := uuid.NewString()
	evts := events.New()
	defer evts.Shutdown()

	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", traceID)
		evts.Send(s)
	}

	// Mining milestones and rejected transfers are printed as they happen.
	id, ch := evts.Acquire()
	received := make(chan int, 1)
	go func() {
		received <- display.Events(os.Stdout, ch, false)
	}()

	// Cancel any in-flight mining on an interrupt or terminate signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, cfg.Chain.MineTimeout)
	defer cancel()

	c, err := chain.New(ctx, chain.Config{
		Genesis:   gen,
		Workers:   cfg.Chain.Workers,
		MaxNonce:  cfg.Chain.MaxNonce,
		EvHandler: ev,
	})
	if err != nil {
		return fmt.Errorf("starting chain: %w", err)
	}

	g := c.Genesis()
	log.Infow("startup", "status", "running scenario", "name", sc.Name, "steps", len(sc.Steps), "difficulty", c.Difficulty(), "genesis", fmt.Sprintf("%s:%d", g.Recipient, g.Amount))

	res, err := scenario.Run(ctx, c, sc)
	if err != nil {
		return fmt.Errorf("running scenario: %w", err)
	}

	for _, rej := range res.Rejected {
		log.Infow("scenario", "status", "transfer rejected", "step", rej.Step, "ERROR", rej.Err)
	}

	if err := evts.Release(id); err != nil {
		return fmt.Errorf("releasing event subscriber: %w", err)
	}
	log.Infow("scenario", "status", "completed", "accepted", res.Accepted, "rejected", len(res.Rejected), "sealed", len(res.Sealed), "events", <-received)

	// =========================================================================
	// Display

	chainTable, err := display.Chain(c.Blocks())
	if err != nil {
		return fmt.Errorf("rendering chain: %w", err)
	}
	fmt.Println(chainTable)

	fmt.Println(display.Validity(res.ChainValid))

	latest := c.LatestBlock()
	log.Infow("scenario", "status", "latest block", "number", latest.Header.Number, "hash", latest.Header.Hash)

	balanceTable, err := display.Balances(c.Balances(), nil)
	if err != nil {
		return fmt.Errorf("rendering balances: %w", err)
	}
	fmt.Println(balanceTable)

	return nil
}
