package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/number571/unionledger/kernel"
)

func serve(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	log, err := cfg.newLogger()
	if err != nil {
		return err
	}

	ledger, err := cfg.newLedger(log)
	if err != nil {
		return err
	}
	defer ledger.Close()

	if len(cfg.Genesis) != 0 {
		receivers := make(map[kernel.Address]uint64, len(cfg.Genesis))
		for addr, amount := range cfg.Genesis {
			receivers[kernel.Address(addr)] = amount
		}
		if _, err := ledger.Mint(receivers); err != nil {
			return errors.Wrap(err, "genesis")
		}
		ledger.Commit()
	}

	srv := &server{ledger: ledger, log: log}
	node := srv.node()

	errc := make(chan error, 1)
	go func() {
		errc <- node.Listen(cfg.Node.Listen)
	}()

	interval := time.Duration(cfg.Node.CommitInterval) * time.Second
	if interval <= 0 {
		interval = IntervalTime * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	for {
		select {
		case <-ticker.C:
			srv.tryCommit()
		case err := <-errc:
			return err
		case sig := <-sigc:
			log.Info("SHUTDOWN", "signal=%s", sig)
			if block := srv.tryCommit(); block != nil {
				log.Info("SHUTDOWN", "final block=%d", block.Index())
			}
			return node.Close()
		}
	}
}
