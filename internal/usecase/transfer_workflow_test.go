package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

type stubIdentity struct {
	token string
	err   error
	calls int
}

func (s *stubIdentity) AccessToken(ctx context.Context) (string, error) {
	s.calls++
	return s.token, s.err
}

type stubDocuments struct {
	docs  []domain.Document
	err   error
	calls int
	token string
}

func (s *stubDocuments) FetchDocuments(ctx context.Context, token string) ([]domain.Document, error) {
	s.calls++
	s.token = token
	return s.docs, s.err
}

type stubLedger struct {
	mu        sync.Mutex
	created   []string
	transfers []uint64

	createErrFor map[string]error
	createRound  uint64
	transferErr  error
	round        uint64
}

func (s *stubLedger) CreateVerificationAsset(ctx context.Context, documentHash string) (domain.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, documentHash)
	if err, ok := s.createErrFor[documentHash]; ok {
		return domain.Confirmation{}, err
	}
	return domain.Confirmation{TxID: "create-" + documentHash, Round: s.createRound}, nil
}

func (s *stubLedger) TransferOwnership(ctx context.Context, assetID uint64) (domain.Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers = append(s.transfers, assetID)
	if s.transferErr != nil {
		return domain.Confirmation{}, s.transferErr
	}
	return domain.Confirmation{TxID: fmt.Sprintf("transfer-%d", len(s.transfers)), Round: s.round}, nil
}

type stubPolicy struct {
	denyHashes map[string]bool
	err        error
}

func (s *stubPolicy) Evaluate(ctx context.Context, input domain.PolicyInput) (domain.PolicyEvaluation, error) {
	if s.err != nil {
		return domain.PolicyEvaluation{}, s.err
	}
	if s.denyHashes[input.Document.Hash] {
		return domain.PolicyEvaluation{Result: domain.PolicyResult{Deny: []domain.PolicyDeny{{Code: "TEST_DENY"}}}}, nil
	}
	return domain.PolicyEvaluation{Result: domain.PolicyResult{Allow: true}}, nil
}

type recordingRuns struct {
	mu       sync.Mutex
	created  []domain.TransferRun
	outcomes []domain.DocumentOutcome
	finished []string
}

func (r *recordingRuns) CreateRun(ctx context.Context, run domain.TransferRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, run)
	return nil
}

func (r *recordingRuns) AppendOutcome(ctx context.Context, runID string, outcome domain.DocumentOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
	return nil
}

func (r *recordingRuns) FinishRun(ctx context.Context, runID, status, errorCode string, documentCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, status)
	return nil
}

func newWorkflow(identity *stubIdentity, documents *stubDocuments, ledger *stubLedger) *TransferWorkflow {
	return &TransferWorkflow{
		Identity:    identity,
		Documents:   documents,
		Ledger:      ledger,
		LandTokenID: 777,
	}
}

func TestAuthFailureStopsRun(t *testing.T) {
	identity := &stubIdentity{err: fmt.Errorf("%w: status 401", domain.ErrAuthentication)}
	documents := &stubDocuments{}
	wf := newWorkflow(identity, documents, &stubLedger{})

	run, err := wf.Execute(context.Background(), "")
	if !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if documents.calls != 0 {
		t.Fatal("expected no document fetch after auth failure")
	}
	if run.Status != domain.RunStatusFailed || run.ErrorCode != domain.ErrorCodeAuthentication {
		t.Fatalf("unexpected run state: %+v", run)
	}
}

func TestDocumentFetchFailureStopsRun(t *testing.T) {
	identity := &stubIdentity{token: "tok"}
	documents := &stubDocuments{err: fmt.Errorf("%w: status 500", domain.ErrDocumentRetrieval)}
	ledger := &stubLedger{}
	wf := newWorkflow(identity, documents, ledger)

	run, err := wf.Execute(context.Background(), "")
	if !errors.Is(err, domain.ErrDocumentRetrieval) {
		t.Fatalf("expected document retrieval error, got %v", err)
	}
	if len(ledger.created) != 0 {
		t.Fatal("expected no ledger calls after fetch failure")
	}
	if run.Status != domain.RunStatusFailed {
		t.Fatalf("unexpected run state: %+v", run)
	}
}

func TestEmptyDocumentListCompletesQuietly(t *testing.T) {
	identity := &stubIdentity{token: "tok"}
	documents := &stubDocuments{docs: []domain.Document{}}
	ledger := &stubLedger{}
	wf := newWorkflow(identity, documents, ledger)

	run, err := wf.Execute(context.Background(), "")
	if err != nil {
		t.Fatalf("expected no error for empty list, got %v", err)
	}
	if run.Status != domain.RunStatusCompleted || run.DocumentCount != 0 {
		t.Fatalf("unexpected run state: %+v", run)
	}
	if len(ledger.created) != 0 {
		t.Fatal("expected no per-document processing")
	}
}

func TestTokenIsForwardedToDocumentFetch(t *testing.T) {
	identity := &stubIdentity{token: "tok-42"}
	documents := &stubDocuments{}
	wf := newWorkflow(identity, documents, &stubLedger{})

	if _, err := wf.Execute(context.Background(), ""); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if documents.token != "tok-42" {
		t.Fatalf("expected bearer token forwarded, got %q", documents.token)
	}
}

func TestPerDocumentIsolation(t *testing.T) {
	identity := &stubIdentity{token: "tok"}
	documents := &stubDocuments{docs: []domain.Document{
		{Hash: "a1"}, {Hash: "b2"}, {Hash: "c3"},
	}}
	ledger := &stubLedger{
		createErrFor: map[string]error{"b2": fmt.Errorf("%w: rejected", domain.ErrLedgerSubmission)},
		createRound:  100,
		round:        101,
	}
	wf := newWorkflow(identity, documents, ledger)

	run, err := wf.Execute(context.Background(), "")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(ledger.created) != 3 {
		t.Fatalf("expected creation attempted for every document, got %v", ledger.created)
	}
	// No transfer for the document whose creation failed.
	if len(ledger.transfers) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(ledger.transfers))
	}
	if run.Outcomes[1].Status != domain.OutcomeCreateFailed {
		t.Fatalf("expected b2 creation failure, got %+v", run.Outcomes[1])
	}
	if run.Outcomes[0].Status != domain.OutcomeTransferred || run.Outcomes[2].Status != domain.OutcomeTransferred {
		t.Fatalf("expected a1 and c3 transferred: %+v", run.Outcomes)
	}
}

func TestNoTransferAfterCreationTimeout(t *testing.T) {
	identity := &stubIdentity{token: "tok"}
	documents := &stubDocuments{docs: []domain.Document{{Hash: "a1"}}}
	ledger := &stubLedger{
		createErrFor: map[string]error{"a1": fmt.Errorf("%w: after 10 retries", domain.ErrConfirmationTimeout)},
	}
	wf := newWorkflow(identity, documents, ledger)

	run, err := wf.Execute(context.Background(), "")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(ledger.transfers) != 0 {
		t.Fatal("expected no transfer after creation timeout")
	}
	if run.Outcomes[0].ErrorCode != domain.ErrorCodeConfirmationTimeout {
		t.Fatalf("expected timeout error code, got %+v", run.Outcomes[0])
	}
}

func TestTwoDocumentScenario(t *testing.T) {
	identity := &stubIdentity{token: "tok"}
	documents := &stubDocuments{docs: []domain.Document{{Hash: "a1"}, {Hash: "b2"}}}
	ledger := &stubLedger{
		createErrFor: map[string]error{"b2": fmt.Errorf("%w: rejected", domain.ErrLedgerSubmission)},
		createRound:  100,
		round:        101,
	}
	runs := &recordingRuns{}
	wf := newWorkflow(identity, documents, ledger)
	wf.Runs = runs

	run, err := wf.Execute(context.Background(), "")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	a1 := run.Outcomes[0]
	if a1.Status != domain.OutcomeTransferred || a1.AssetRound != 100 || a1.TransferRound != 101 {
		t.Fatalf("unexpected a1 outcome: %+v", a1)
	}
	b2 := run.Outcomes[1]
	if b2.Status != domain.OutcomeCreateFailed || b2.TransferTxID != "" {
		t.Fatalf("unexpected b2 outcome: %+v", b2)
	}
	// The transferred asset is the fixed land token, never the minted one.
	for _, assetID := range ledger.transfers {
		if assetID != 777 {
			t.Fatalf("expected land token 777 transferred, got %d", assetID)
		}
	}
	if len(runs.outcomes) != 2 || len(runs.finished) != 1 {
		t.Fatalf("expected outcomes and completion recorded: %+v", runs)
	}
}

func TestDocumentWithoutHashIsSkipped(t *testing.T) {
	identity := &stubIdentity{token: "tok"}
	documents := &stubDocuments{docs: []domain.Document{{Name: "no-hash.pdf"}, {Hash: "a1"}}}
	ledger := &stubLedger{createRound: 5, round: 6}
	wf := newWorkflow(identity, documents, ledger)

	run, err := wf.Execute(context.Background(), "")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if run.Outcomes[0].Status != domain.OutcomeSkippedNoHash {
		t.Fatalf("expected skip for hashless document, got %+v", run.Outcomes[0])
	}
	if len(ledger.created) != 1 || ledger.created[0] != "a1" {
		t.Fatalf("expected only a1 to reach the ledger, got %v", ledger.created)
	}
}

func TestPolicyDenialSkipsLedger(t *testing.T) {
	identity := &stubIdentity{token: "tok"}
	documents := &stubDocuments{docs: []domain.Document{{Hash: "a1"}, {Hash: "b2"}}}
	ledger := &stubLedger{createRound: 5, round: 6}
	wf := newWorkflow(identity, documents, ledger)
	wf.Policy = &stubPolicy{denyHashes: map[string]bool{"a1": true}}

	run, err := wf.Execute(context.Background(), "")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if run.Outcomes[0].Status != domain.OutcomeSkippedPolicy {
		t.Fatalf("expected policy skip, got %+v", run.Outcomes[0])
	}
	if len(ledger.created) != 1 || ledger.created[0] != "b2" {
		t.Fatalf("expected only b2 minted, got %v", ledger.created)
	}
}

func TestPolicyErrorFailsClosed(t *testing.T) {
	identity := &stubIdentity{token: "tok"}
	documents := &stubDocuments{docs: []domain.Document{{Hash: "a1"}}}
	ledger := &stubLedger{}
	wf := newWorkflow(identity, documents, ledger)
	wf.Policy = &stubPolicy{err: errors.New("bundle unreadable")}

	run, err := wf.Execute(context.Background(), "")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if run.Outcomes[0].Status != domain.OutcomeSkippedPolicy {
		t.Fatalf("expected fail-closed skip, got %+v", run.Outcomes[0])
	}
	if len(ledger.created) != 0 {
		t.Fatal("expected no minting when policy cannot be evaluated")
	}
}

func TestParallelWorkersPreserveOrderAndIsolation(t *testing.T) {
	identity := &stubIdentity{token: "tok"}
	var docs []domain.Document
	for i := 0; i < 20; i++ {
		docs = append(docs, domain.Document{Hash: fmt.Sprintf("doc-%02d", i)})
	}
	documents := &stubDocuments{docs: docs}
	ledger := &stubLedger{
		createErrFor: map[string]error{"doc-07": fmt.Errorf("%w: rejected", domain.ErrLedgerSubmission)},
		createRound:  1,
		round:        2,
	}
	wf := newWorkflow(identity, documents, ledger)
	wf.Workers = 4

	run, err := wf.Execute(context.Background(), "")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(run.Outcomes) != 20 {
		t.Fatalf("expected 20 outcomes, got %d", len(run.Outcomes))
	}
	for i, outcome := range run.Outcomes {
		want := fmt.Sprintf("doc-%02d", i)
		if outcome.DocumentHash != want {
			t.Fatalf("expected outcome %d for %s, got %s", i, want, outcome.DocumentHash)
		}
	}
	if run.Outcomes[7].Status != domain.OutcomeCreateFailed {
		t.Fatalf("expected doc-07 creation failure, got %+v", run.Outcomes[7])
	}
	if len(ledger.created) != 20 {
		t.Fatalf("expected creation attempted for all documents, got %d", len(ledger.created))
	}
}

func TestProvidedRunIDIsUsed(t *testing.T) {
	identity := &stubIdentity{token: "tok"}
	documents := &stubDocuments{}
	runs := &recordingRuns{}
	wf := newWorkflow(identity, documents, &stubLedger{})
	wf.Runs = runs

	run, err := wf.Execute(context.Background(), "run-42")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if run.ID != "run-42" {
		t.Fatalf("expected run-42, got %s", run.ID)
	}
	if len(runs.created) != 1 || runs.created[0].ID != "run-42" {
		t.Fatalf("expected creation recorded with run-42: %+v", runs.created)
	}
}
