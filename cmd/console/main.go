// Package main запускает консоль управления складом.
//
// Использование:
//
//	console [флаги] nav
//	console [флаги] dashboard [-xlsx файл]
//	console [флаги] po list
//	console [флаги] po approve <id> [email поставщика]
//	console [флаги] po decline <id>
//	console [флаги] po receive <id>
//	console [флаги] notifications [read <id>]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mmeshcher/inventory-console/internal/config"
	"github.com/mmeshcher/inventory-console/internal/console"
	"github.com/mmeshcher/inventory-console/internal/gateway"
	"github.com/mmeshcher/inventory-console/internal/purchaseorder"
	"github.com/mmeshcher/inventory-console/internal/store"
)

const (
	exitFailure = 1
	exitSession = 2
)

func main() {
	cfg, err := config.ParseConsole()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(exitFailure)
	}

	logger := zap.NewNop()
	if cfg.Debug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	policy, err := purchaseorder.ParsePolicy(cfg.StockPolicy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(exitFailure)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := gateway.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	st := store.New()

	a := &app{
		actions: console.New(client, st, logger),
		engine: purchaseorder.NewEngine(client, st, logger, purchaseorder.Options{
			Policy: policy,
			Atomic: cfg.AtomicReceive,
		}),
		out: os.Stdout,
	}

	if err := a.run(ctx, cfg.Email, cfg.Password, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, gateway.ErrUnauthorized) {
			os.Exit(exitSession)
		}
		os.Exit(exitFailure)
	}
}
