package ledger

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Ramcharan1706/BlockEstate/internal/domain"
)

// ConfirmationWaiter polls pending-transaction state until a submitted
// transaction reports a confirmed round, bounded by a fixed retry count.
// The retry count and delay are part of the observable contract.
type ConfirmationWaiter struct {
	node       Node
	maxRetries int
	delay      time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewConfirmationWaiter(node Node, maxRetries int, delay time.Duration) *ConfirmationWaiter {
	if maxRetries <= 0 {
		maxRetries = 10
	}
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &ConfirmationWaiter{
		node:       node,
		maxRetries: maxRetries,
		delay:      delay,
		sleep:      sleepContext,
	}
}

// Wait polls up to maxRetries times, sleeping delay after each
// inconclusive attempt. Transient poll errors are logged and consume one
// attempt. Exhaustion yields ErrConfirmationTimeout, not a crash.
func (w *ConfirmationWaiter) Wait(ctx context.Context, txID string) (domain.Confirmation, error) {
	for attempt := 0; attempt < w.maxRetries; attempt++ {
		info, err := w.node.PendingInfo(ctx, txID)
		switch {
		case err != nil:
			log.Printf("warning: confirmation poll for %s failed: %v", txID, err)
		case info.PoolError != "":
			return domain.Confirmation{}, fmt.Errorf("%w: transaction %s rejected: %s", domain.ErrLedgerSubmission, txID, info.PoolError)
		case info.ConfirmedRound > 0:
			log.Printf("transaction %s confirmed in round %d", txID, info.ConfirmedRound)
			return domain.Confirmation{TxID: txID, Round: info.ConfirmedRound}, nil
		}
		if err := w.sleep(ctx, w.delay); err != nil {
			return domain.Confirmation{}, err
		}
	}
	return domain.Confirmation{}, fmt.Errorf("%w: transaction %s after %d retries", domain.ErrConfirmationTimeout, txID, w.maxRetries)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
