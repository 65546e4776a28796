//go:build integration
// +build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	if err := gdb.AutoMigrate(&TransferRunModel{}, &DocumentOutcomeModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func resetDB(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	if err := gdb.Exec("TRUNCATE document_outcomes, transfer_runs").Error; err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func TestRunRepository_CreateFinishGet(t *testing.T) {
	gdb := setupTestDB(t)
	resetDB(t, gdb)

	repo := NewRunRepository(gdb)
	run := domain.TransferRun{
		ID:        "11111111-1111-4111-8111-111111111111",
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := repo.CreateRun(context.Background(), run); err != nil {
		t.Fatalf("create run: %v", err)
	}

	outcomes := []domain.DocumentOutcome{
		{DocumentHash: "a1", Status: domain.OutcomeTransferred, AssetTxID: "c1", AssetRound: 100, TransferTxID: "t1", TransferRound: 101},
		{DocumentHash: "b2", Status: domain.OutcomeCreateFailed, ErrorCode: domain.ErrorCodeLedgerSubmission},
	}
	for _, o := range outcomes {
		if err := repo.AppendOutcome(context.Background(), run.ID, o); err != nil {
			t.Fatalf("append outcome: %v", err)
		}
	}
	if err := repo.FinishRun(context.Background(), run.ID, domain.RunStatusCompleted, "", 2); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	got, err := repo.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Status != domain.RunStatusCompleted || got.DocumentCount != 2 {
		t.Fatalf("unexpected run: %+v", got)
	}
	if got.FinishedAt == nil {
		t.Fatal("expected finished_at to be set")
	}
	if len(got.Outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(got.Outcomes))
	}
	if got.Outcomes[0].DocumentHash != "a1" || got.Outcomes[0].TransferRound != 101 {
		t.Fatalf("unexpected first outcome: %+v", got.Outcomes[0])
	}
	if got.Outcomes[1].Status != domain.OutcomeCreateFailed {
		t.Fatalf("unexpected second outcome: %+v", got.Outcomes[1])
	}
}

func TestRunRepository_GetMissing(t *testing.T) {
	gdb := setupTestDB(t)
	resetDB(t, gdb)

	repo := NewRunRepository(gdb)
	_, err := repo.GetRun(context.Background(), "22222222-2222-4222-8222-222222222222")
	if err != domain.ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
