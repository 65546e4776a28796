package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

type IdentityClient interface {
	AccessToken(ctx context.Context) (string, error)
}

type DocumentClient interface {
	FetchDocuments(ctx context.Context, token string) ([]domain.Document, error)
}

type LedgerGateway interface {
	CreateVerificationAsset(ctx context.Context, documentHash string) (domain.Confirmation, error)
	TransferOwnership(ctx context.Context, assetID uint64) (domain.Confirmation, error)
}

type PolicyEngine interface {
	Evaluate(ctx context.Context, input domain.PolicyInput) (domain.PolicyEvaluation, error)
}

type RunRepository interface {
	CreateRun(ctx context.Context, run domain.TransferRun) error
	AppendOutcome(ctx context.Context, runID string, outcome domain.DocumentOutcome) error
	FinishRun(ctx context.Context, runID, status, errorCode string, documentCount int) error
}

// TransferWorkflow drives one run of the land-title pipeline:
// authenticate, fetch documents, then per document mint a verification
// asset and transfer the land token. Documents are independent; one
// failure never aborts the others. The transferred asset is always the
// configured land token, not the per-document verification asset.
type TransferWorkflow struct {
	Identity  IdentityClient
	Documents DocumentClient
	Ledger    LedgerGateway

	// Policy gates minting per document when set.
	Policy PolicyEngine

	// Runs records progress when set; persistence failures are logged
	// and never fail the pipeline.
	Runs RunRepository

	LandTokenID uint64

	// Workers above 1 processes documents through a bounded pool.
	Workers int
}

// Execute runs the pipeline. The returned run always reflects what
// happened; the error is non-nil only for fatal failures that prevented
// any per-document processing.
func (wf *TransferWorkflow) Execute(ctx context.Context, runID string) (*domain.TransferRun, error) {
	if runID == "" {
		runID = NewRunID()
	}
	run := &domain.TransferRun{
		ID:        runID,
		Status:    domain.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	wf.recordCreate(ctx, *run)

	token, err := wf.Identity.AccessToken(ctx)
	if err != nil {
		log.Printf("access token retrieval failed: %v", err)
		wf.finish(ctx, run, domain.RunStatusFailed, domain.ErrorCodeAuthentication)
		return run, err
	}
	log.Printf("access token retrieved")

	documents, err := wf.Documents.FetchDocuments(ctx, token)
	if err != nil {
		log.Printf("document retrieval failed: %v", err)
		wf.finish(ctx, run, domain.RunStatusFailed, domain.ErrorCodeDocumentRetrieval)
		return run, err
	}
	log.Printf("retrieved %d documents", len(documents))
	if len(documents) == 0 {
		log.Printf("no documents available; nothing to process")
		wf.finish(ctx, run, domain.RunStatusCompleted, "")
		return run, nil
	}

	run.Outcomes = wf.processAll(ctx, documents)
	run.DocumentCount = len(documents)
	for _, outcome := range run.Outcomes {
		wf.recordOutcome(ctx, run.ID, outcome)
	}
	wf.finish(ctx, run, domain.RunStatusCompleted, "")
	return run, nil
}

func (wf *TransferWorkflow) processAll(ctx context.Context, documents []domain.Document) []domain.DocumentOutcome {
	outcomes := make([]domain.DocumentOutcome, len(documents))
	workers := wf.Workers
	if workers > len(documents) {
		workers = len(documents)
	}
	if workers <= 1 {
		for i, doc := range documents {
			outcomes[i] = wf.processDocument(ctx, doc)
		}
		return outcomes
	}

	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				outcomes[i] = wf.processDocument(ctx, documents[i])
			}
		}()
	}
	for i := range documents {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return outcomes
}

func (wf *TransferWorkflow) processDocument(ctx context.Context, doc domain.Document) domain.DocumentOutcome {
	outcome := domain.DocumentOutcome{DocumentHash: doc.Hash}

	if doc.Hash == "" {
		log.Printf("warning: document hash missing, skipping")
		outcome.Status = domain.OutcomeSkippedNoHash
		outcome.ErrorCode = domain.ErrorCodeNoHash
		return outcome
	}

	if wf.Policy != nil {
		eval, err := wf.Policy.Evaluate(ctx, domain.PolicyInput{Document: doc, LandTokenID: wf.LandTokenID})
		if err != nil {
			// Fail closed: an unevaluable policy never mints.
			log.Printf("policy evaluation failed for %s: %v", doc.Hash, err)
			outcome.Status = domain.OutcomeSkippedPolicy
			outcome.ErrorCode = domain.ErrorCodePolicyDenied
			return outcome
		}
		if !eval.Result.Allow {
			log.Printf("policy denied minting for %s: %+v", doc.Hash, eval.Result.Deny)
			outcome.Status = domain.OutcomeSkippedPolicy
			outcome.ErrorCode = domain.ErrorCodePolicyDenied
			return outcome
		}
	}

	log.Printf("creating verification asset for document %s", doc.Hash)
	created, err := wf.Ledger.CreateVerificationAsset(ctx, doc.Hash)
	if err != nil {
		log.Printf("failed to create asset for document %s: %v", doc.Hash, err)
		outcome.Status = domain.OutcomeCreateFailed
		outcome.ErrorCode = errorCodeFor(err)
		return outcome
	}
	outcome.AssetTxID = created.TxID
	outcome.AssetRound = created.Round

	log.Printf("asset created, initiating ownership transfer")
	transferred, err := wf.Ledger.TransferOwnership(ctx, wf.LandTokenID)
	if err != nil {
		log.Printf("ownership transfer failed for document %s: %v", doc.Hash, err)
		outcome.Status = domain.OutcomeTransferFailed
		outcome.ErrorCode = errorCodeFor(err)
		return outcome
	}
	log.Printf("ownership transfer confirmed in round %d", transferred.Round)
	outcome.Status = domain.OutcomeTransferred
	outcome.TransferTxID = transferred.TxID
	outcome.TransferRound = transferred.Round
	return outcome
}

func (wf *TransferWorkflow) finish(ctx context.Context, run *domain.TransferRun, status, errorCode string) {
	now := time.Now().UTC()
	run.Status = status
	run.ErrorCode = errorCode
	run.FinishedAt = &now
	if wf.Runs == nil {
		return
	}
	if err := wf.Runs.FinishRun(ctx, run.ID, status, errorCode, run.DocumentCount); err != nil {
		log.Printf("warning: could not record run %s completion: %v", run.ID, err)
	}
}

func (wf *TransferWorkflow) recordCreate(ctx context.Context, run domain.TransferRun) {
	if wf.Runs == nil {
		return
	}
	if err := wf.Runs.CreateRun(ctx, run); err != nil {
		log.Printf("warning: could not record run %s: %v", run.ID, err)
	}
}

func (wf *TransferWorkflow) recordOutcome(ctx context.Context, runID string, outcome domain.DocumentOutcome) {
	if wf.Runs == nil {
		return
	}
	if err := wf.Runs.AppendOutcome(ctx, runID, outcome); err != nil {
		log.Printf("warning: could not record outcome for %s: %v", outcome.DocumentHash, err)
	}
}

func errorCodeFor(err error) string {
	if errors.Is(err, domain.ErrConfirmationTimeout) {
		return domain.ErrorCodeConfirmationTimeout
	}
	return domain.ErrorCodeLedgerSubmission
}

// NewRunID returns a random v4 UUID used to identify a transfer run.
func NewRunID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "00000000-0000-4000-8000-000000000000"
	}
	bytes[6] = (bytes[6] & 0x0f) | 0x40
	bytes[8] = (bytes[8] & 0x3f) | 0x80
	hexStr := hex.EncodeToString(bytes)
	return hexStr[0:8] + "-" + hexStr[8:12] + "-" + hexStr[12:16] + "-" + hexStr[16:20] + "-" + hexStr[20:32]
}
