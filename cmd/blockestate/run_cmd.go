package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ramcharan1706/BlockEstate/internal/config"

	"github.com/joho/godotenv"
)

func runTransfer() int {
	godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockestate: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wf, _, err := buildWorkflow(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockestate: %v\n", err)
		return 1
	}

	run, err := wf.Execute(ctx, "")
	report, encErr := json.MarshalIndent(run, "", "  ")
	if encErr == nil {
		fmt.Println(string(report))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockestate: run failed: %v\n", err)
		return 1
	}
	return 0
}
