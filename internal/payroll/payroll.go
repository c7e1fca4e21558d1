// Package payroll pays a batch of employees one transfer at a time.
package payroll

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/susu3304/wageflow/internal/chain"
)

const DefaultMaxBatchSize = 100

var (
	ErrEmptyBatch    = errors.New("payroll: no payments in batch")
	ErrBatchTooLarge = errors.New("payroll: batch too large")
	ErrWrongNetwork  = errors.New("payroll: wrong network configured")
	ErrRunInProgress = errors.New("payroll: a run is already in progress")
)

// Chain is the part of chain.Client the orchestrator drives.
type Chain interface {
	Address() common.Address
	Network() chain.Network
	ChainID(ctx context.Context) (*big.Int, error)
	TokenBalance(ctx context.Context, cur chain.Currency) (*big.Int, error)
	NativeBalance(ctx context.Context) (*big.Int, error)
	Transfer(ctx context.Context, to common.Address, amount *big.Int, cur chain.Currency) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

type Request struct {
	EmployeeID int64
	Name       string
	Address    string
	Amount     string
	Currency   chain.Currency
}

type Result struct {
	Request
	// RunID identifies the batch this result belongs to.
	RunID   string
	Success bool
	// TxHash is set only for confirmed transfers.
	TxHash string
	// SubmittedHash is the hash of a transaction that was sent but reverted
	// or could not be confirmed. It is never recorded as the payment hash.
	SubmittedHash string
	Error         string
}

type Options struct {
	// Pause runs between items, never after the last one.
	Pause        time.Duration
	Sleep        func(ctx context.Context, d time.Duration) error
	MaxBatchSize int
	GasReserve   decimal.Decimal
	OnResult     func(index, total int, r Result)
}

type Orchestrator struct {
	chain Chain
	opts  Options
	run   sync.Mutex
}

func New(c Chain, opts Options) *Orchestrator {
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = DefaultMaxBatchSize
	}
	return &Orchestrator{chain: c, opts: opts}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run pays every request in order and returns one result per request.
// Per-item failures are reported in the results; only batch-level problems
// are returned as errors. Only one Run may be active at a time.
func (o *Orchestrator) Run(ctx context.Context, reqs []Request) ([]Result, error) {
	return o.RunObserved(ctx, reqs, nil)
}

// RunObserved is Run with an extra per-item callback for this batch only.
func (o *Orchestrator) RunObserved(ctx context.Context, reqs []Request, observe func(index, total int, r Result)) ([]Result, error) {
	if !o.run.TryLock() {
		return nil, ErrRunInProgress
	}
	defer o.run.Unlock()

	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(reqs) > o.opts.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d payments, maximum %d per batch", ErrBatchTooLarge, len(reqs), o.opts.MaxBatchSize)
	}

	network := o.chain.Network()
	chainID, err := o.chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("payroll: could not read chain id: %w", err)
	}
	if chainID.Int64() != network.ChainID {
		return nil, fmt.Errorf("%w: expected chain id %d, got %s", ErrWrongNetwork, network.ChainID, chainID)
	}

	runID := uuid.NewString()
	log.Printf("payroll: run %s started, %d payments on %s", runID, len(reqs), network.Name)

	results := make([]Result, 0, len(reqs))
	for i, req := range reqs {
		res := o.pay(ctx, network, req)
		res.RunID = runID
		results = append(results, res)
		switch {
		case res.Success:
			log.Printf("payroll: run %s [%d/%d] %s paid, tx %s", runID, i+1, len(reqs), req.Name, res.TxHash)
		case res.SubmittedHash != "":
			log.Printf("payroll: run %s [%d/%d] %s failed after submit (tx %s): %s", runID, i+1, len(reqs), req.Name, res.SubmittedHash, res.Error)
		default:
			log.Printf("payroll: run %s [%d/%d] %s failed: %s", runID, i+1, len(reqs), req.Name, res.Error)
		}
		if o.opts.OnResult != nil {
			o.opts.OnResult(i, len(reqs), res)
		}
		if observe != nil {
			observe(i, len(reqs), res)
		}

		if i < len(reqs)-1 {
			if err := o.opts.Sleep(ctx, o.opts.Pause); err != nil {
				for _, rest := range reqs[i+1:] {
					results = append(results, Result{Request: rest, RunID: runID, Error: "Payroll interrupted before this payment"})
				}
				break
			}
		}
	}

	ok := 0
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	log.Printf("payroll: run %s finished, %d/%d succeeded", runID, ok, len(results))
	return results, nil
}

func (o *Orchestrator) pay(ctx context.Context, network chain.Network, req Request) Result {
	res := Result{Request: req}
	fail := func(msg string) Result {
		res.Error = msg
		return res
	}

	if !chain.IsValidAddress(req.Address) {
		return fail("Invalid recipient address")
	}
	if chain.IsZeroAddress(req.Address) {
		return fail("Recipient address is not set")
	}
	to := common.HexToAddress(req.Address)
	if to == o.chain.Address() {
		return fail("Recipient cannot be bot wallet address")
	}

	token, ok := network.Token(req.Currency)
	if !ok {
		return fail(fmt.Sprintf("Unsupported currency %s", req.Currency))
	}
	amount, err := chain.ParseAmount(req.Amount, token.Decimals)
	if err != nil {
		return fail(fmt.Sprintf("Invalid %s amount", req.Currency))
	}

	balance, err := o.chain.TokenBalance(ctx, req.Currency)
	if err != nil {
		return fail(chain.ClassifyError(err))
	}
	if balance.Cmp(amount) < 0 {
		short := new(big.Int).Sub(amount, balance)
		return fail(fmt.Sprintf("Insufficient %s. Have %s, need %s (short %s)",
			req.Currency,
			chain.FormatUnits(balance, token.Decimals),
			chain.FormatUnits(amount, token.Decimals),
			chain.FormatUnits(short, token.Decimals),
		))
	}

	native, err := o.chain.NativeBalance(ctx)
	if err != nil {
		return fail(chain.ClassifyError(err))
	}
	if native.Cmp(o.opts.GasReserve.Shift(chain.NativeDecimals).BigInt()) < 0 {
		return fail("Insufficient CELO for gas fees")
	}

	tx, err := o.chain.Transfer(ctx, to, amount, req.Currency)
	if err != nil {
		return fail(chain.ClassifyError(err))
	}
	res.SubmittedHash = tx.Hash().Hex()

	receipt, err := o.chain.WaitMined(ctx, tx)
	if err != nil {
		return fail(chain.ClassifyError(err))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fail(chain.MsgReverted)
	}

	res.Success = true
	res.TxHash = res.SubmittedHash
	res.SubmittedHash = ""
	return res
}
