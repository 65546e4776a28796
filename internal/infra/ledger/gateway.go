package ledger

import (
	"context"
	"fmt"
	"log"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

const (
	verificationAssetName = "Land Verification"
	verificationUnitName  = "LAND"
	verificationURLBase   = "https://your.document.storage/"
)

// Gateway wraps the two ledger-affecting operations. Each one fetches
// fresh suggested parameters, builds and signs the transaction, submits
// it, and hands the transaction id to the confirmation waiter. The buyer
// signer mints verification assets and receives the land token; the
// seller signer sends it.
type Gateway struct {
	node   Node
	waiter *ConfirmationWaiter
	buyer  Signer
	seller Signer
}

func NewGateway(node Node, waiter *ConfirmationWaiter, buyer, seller Signer) *Gateway {
	return &Gateway{node: node, waiter: waiter, buyer: buyer, seller: seller}
}

// CreateVerificationAsset mints a single-unit, zero-decimal asset whose
// URL encodes the document hash. The asset is not frozen on creation.
func (g *Gateway) CreateVerificationAsset(ctx context.Context, documentHash string) (domain.Confirmation, error) {
	params, err := g.node.SuggestedParams(ctx)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("%w: suggested params: %v", domain.ErrLedgerSubmission, err)
	}
	txn, err := transaction.MakeAssetCreateTxn(
		g.buyer.Address(), nil, params,
		1, 0, false,
		"", "", "", "",
		verificationUnitName, verificationAssetName,
		verificationURLBase+documentHash, "",
	)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("%w: build asset creation: %v", domain.ErrLedgerSubmission, err)
	}
	txID, err := g.submit(ctx, g.buyer, txn)
	if err != nil {
		return domain.Confirmation{}, err
	}
	log.Printf("asset creation transaction submitted: %s", txID)
	return g.waiter.Wait(ctx, txID)
}

// TransferOwnership moves exactly 1 unit of assetID from the seller to
// the buyer, signed by the seller.
func (g *Gateway) TransferOwnership(ctx context.Context, assetID uint64) (domain.Confirmation, error) {
	params, err := g.node.SuggestedParams(ctx)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("%w: suggested params: %v", domain.ErrLedgerSubmission, err)
	}
	txn, err := transaction.MakeAssetTransferTxn(
		g.seller.Address(), g.buyer.Address(),
		1, nil, params, "", assetID,
	)
	if err != nil {
		return domain.Confirmation{}, fmt.Errorf("%w: build asset transfer: %v", domain.ErrLedgerSubmission, err)
	}
	txID, err := g.submit(ctx, g.seller, txn)
	if err != nil {
		return domain.Confirmation{}, err
	}
	log.Printf("ownership transfer transaction submitted: %s", txID)
	return g.waiter.Wait(ctx, txID)
}

func (g *Gateway) submit(ctx context.Context, signer Signer, txn types.Transaction) (string, error) {
	txID, raw, err := signer.Sign(txn)
	if err != nil {
		return "", fmt.Errorf("%w: sign: %v", domain.ErrLedgerSubmission, err)
	}
	if _, err := g.node.SubmitRaw(ctx, raw); err != nil {
		return "", fmt.Errorf("%w: submit: %v", domain.ErrLedgerSubmission, err)
	}
	return txID, nil
}
