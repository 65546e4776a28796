package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/Ramcharan1706/BlockEstate/internal/config"
	"github.com/Ramcharan1706/BlockEstate/internal/domain"
	"github.com/Ramcharan1706/BlockEstate/internal/infra/db"
	"github.com/Ramcharan1706/BlockEstate/internal/infra/identity"
	"github.com/Ramcharan1706/BlockEstate/internal/infra/ledger"
	"github.com/Ramcharan1706/BlockEstate/internal/infra/locker"
	"github.com/Ramcharan1706/BlockEstate/internal/infra/policy"
	"github.com/Ramcharan1706/BlockEstate/internal/infra/runmem"
	"github.com/Ramcharan1706/BlockEstate/internal/usecase"
)

// runStore is what both persistence backends provide: the workflow's
// write side plus the API's read side.
type runStore interface {
	CreateRun(ctx context.Context, run domain.TransferRun) error
	AppendOutcome(ctx context.Context, runID string, outcome domain.DocumentOutcome) error
	FinishRun(ctx context.Context, runID, status, errorCode string, documentCount int) error
	GetRun(ctx context.Context, runID string) (domain.TransferRun, error)
	ListRuns(ctx context.Context, limit int) ([]domain.TransferRun, error)
}

func buildWorkflow(ctx context.Context, cfg config.Config) (*usecase.TransferWorkflow, runStore, error) {
	buyer, err := ledger.NewSigner(cfg.BuyerPrivateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("buyer key: %w", err)
	}
	seller, err := ledger.NewSigner(cfg.SellerPrivateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("seller key: %w", err)
	}
	if buyer.Address() != cfg.BuyerAddress {
		return nil, nil, fmt.Errorf("%w: BUYER_PRIVATE_KEY does not belong to BUYER_ADDRESS", domain.ErrConfiguration)
	}
	if seller.Address() != cfg.SellerAddress {
		return nil, nil, fmt.Errorf("%w: SELLER_PRIVATE_KEY does not belong to SELLER_ADDRESS", domain.ErrConfiguration)
	}

	node, err := ledger.Dial(cfg.AlgodAddress, cfg.AlgodToken)
	if err != nil {
		return nil, nil, fmt.Errorf("algod client: %w", err)
	}
	waiter := ledger.NewConfirmationWaiter(node, cfg.ConfirmMaxRetries, cfg.ConfirmDelay)
	gateway := ledger.NewGateway(node, waiter, buyer, seller)

	var policyEngine usecase.PolicyEngine
	if cfg.PolicyBundlePath != "" {
		engine, err := policy.NewEngineFromBundlePath(ctx, cfg.PolicyBundlePath, filepath.Base(cfg.PolicyBundlePath))
		if err != nil {
			return nil, nil, fmt.Errorf("policy bundle: %w", err)
		}
		policyEngine = engine
	}

	store, err := db.NewStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}
	var runs runStore
	if store.DB != nil {
		runs = db.NewRunRepository(store.DB)
	} else {
		runs = runmem.New()
	}

	wf := &usecase.TransferWorkflow{
		Identity:    identity.New(cfg.TokenURL),
		Documents:   locker.New(cfg.APIURL),
		Ledger:      gateway,
		Policy:      policyEngine,
		Runs:        runs,
		LandTokenID: cfg.LandTokenID,
		Workers:     cfg.Workers,
	}
	log.Printf("land token %d, buyer %s, seller %s", cfg.LandTokenID, buyer.Address(), seller.Address())
	return wf, runs, nil
}
