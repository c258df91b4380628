// Package chain is a thin RPC layer used by the CLI to simulate the
// instructions the adapters build. Core adapters never touch it.
package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	probeTimeout      = 5 * time.Second
	defaultMaxElapsed = 15 * time.Second
)

type Client struct {
	rpc *rpc.Client
	log *zap.Logger

	// maxTries bounds each retried RPC call: the first attempt plus the
	// configured number of retries.
	maxTries uint
}

// NewClient probes the endpoints in parallel and connects to the first
// healthy one in list order. retries is the number of additional attempts
// allowed per RPC call.
func NewClient(ctx context.Context, log *zap.Logger, endpoints []string, retries int) (*Client, error) {
	if len(endpoints) == 0 {
		return nil, errors.New("chain: no RPC endpoints configured")
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("chain")

	healthy := make([]bool, len(endpoints))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, endpoint := range endpoints {
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(gctx, probeTimeout)
			defer cancel()

			c := rpc.New(endpoint)
			if _, err := c.GetHealth(probeCtx); err != nil {
				log.Debug("endpoint probe failed",
					zap.String("endpoint", endpoint),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			healthy[i] = true
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, endpoint := range endpoints {
		if healthy[i] {
			log.Info("connected", zap.String("endpoint", endpoint))
			return &Client{rpc: rpc.New(endpoint), log: log, maxTries: maxTries(retries)}, nil
		}
	}
	return nil, errors.New("chain: no healthy RPC endpoint")
}

func maxTries(retries int) uint {
	if retries < 0 {
		retries = 0
	}
	return uint(retries) + 1
}

// LatestBlockhash fetches a recent blockhash, retrying transient failures.
func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	op := func() (solana.Hash, error) {
		out, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
		if err != nil {
			return solana.Hash{}, err
		}
		return out.Value.Blockhash, nil
	}

	return backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithMaxElapsedTime(defaultMaxElapsed),
	)
}

// Simulate builds an unsigned transaction from the instructions and runs it
// through the node's simulator. Signature checks are disabled; the point is
// validating account metas and instruction data, not authority.
func (c *Client) Simulate(ctx context.Context, payer solana.PublicKey, instructions []solana.Instruction) (*rpc.SimulateTransactionResult, error) {
	blockhash, err := c.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain: get blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("chain: build transaction: %w", err)
	}

	op := func() (*rpc.SimulateTransactionResponse, error) {
		out, err := c.rpc.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
			SigVerify:              false,
			ReplaceRecentBlockhash: true,
			Commitment:             rpc.CommitmentConfirmed,
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	out, err := backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithMaxElapsedTime(defaultMaxElapsed),
	)
	if err != nil {
		return nil, fmt.Errorf("chain: simulate: %w", err)
	}

	if out.Value.Err != nil {
		c.log.Warn("simulation failed", zap.Any("err", out.Value.Err))
	}
	return out.Value, nil
}
