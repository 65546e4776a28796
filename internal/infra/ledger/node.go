package ledger

import (
	"context"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

// PendingInfo is the subset of pending-transaction state the pipeline
// inspects. A non-zero ConfirmedRound means the transaction is final.
type PendingInfo struct {
	ConfirmedRound uint64
	PoolError      string
}

// Node is the ledger connection the gateway and waiter operate through.
type Node interface {
	SuggestedParams(ctx context.Context) (types.SuggestedParams, error)
	SubmitRaw(ctx context.Context, raw []byte) (string, error)
	PendingInfo(ctx context.Context, txID string) (PendingInfo, error)
}

type algodNode struct {
	client *algod.Client
}

// Dial connects to an algod node at the given address using the given
// API token.
func Dial(address, token string) (Node, error) {
	client, err := algod.MakeClient(address, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerSubmission, err)
	}
	return &algodNode{client: client}, nil
}

func (n *algodNode) SuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	return n.client.SuggestedParams().Do(ctx)
}

func (n *algodNode) SubmitRaw(ctx context.Context, raw []byte) (string, error) {
	return n.client.SendRawTransaction(raw).Do(ctx)
}

func (n *algodNode) PendingInfo(ctx context.Context, txID string) (PendingInfo, error) {
	info, _, err := n.client.PendingTransactionInformation(txID).Do(ctx)
	if err != nil {
		return PendingInfo{}, err
	}
	return PendingInfo{
		ConfirmedRound: info.ConfirmedRound,
		PoolError:      info.PoolError,
	}, nil
}
