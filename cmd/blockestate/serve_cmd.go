package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Ramcharan1706/BlockEstate/internal/config"
	httpinfra "github.com/Ramcharan1706/BlockEstate/internal/infra/http"

	"github.com/joho/godotenv"
)

func runServe() int {
	godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockestate: %v\n", err)
		return 1
	}

	wf, runs, err := buildWorkflow(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "blockestate: %v\n", err)
		return 1
	}

	srv := httpinfra.NewServer(cfg, httpinfra.ServerDeps{
		Workflow: wf,
		Runs:     runs,
	})
	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "blockestate: server exited: %v\n", err)
		return 1
	}
	return 0
}
