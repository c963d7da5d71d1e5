package internal

import (
	"context"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
)

// DefaultMintFee is the price of one token: 0.01 native-currency units
var DefaultMintFee = big.NewInt(10_000_000_000_000_000)

// MintStatus is the lifecycle state of a mint request
type MintStatus string

const (
	StatusIdle       MintStatus = "idle"
	StatusSubmitting MintStatus = "submitting"
	StatusConfirming MintStatus = "confirming"
	StatusDone       MintStatus = "done"
	StatusFailed     MintStatus = "failed"
)

// Terminal reports whether no further transition is possible
func (s MintStatus) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

var allowedTransitions = map[MintStatus][]MintStatus{
	StatusIdle:       {StatusSubmitting, StatusFailed},
	StatusSubmitting: {StatusConfirming, StatusFailed},
	StatusConfirming: {StatusDone, StatusFailed},
}

func canTransition(from, to MintStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// MintRequest is one outbound mint intent
type MintRequest struct {
	ID          string
	Contract    common.Address
	Account     common.Address
	ChainID     int64
	Value       *big.Int
	Status      MintStatus
	TxHash      common.Hash
	BlockNumber uint64
	Err         error
	CreatedAt   time.Time
	UpdatedAt   time.Time
	History     []MintStatus
}

func newMintRequest(contract common.Address, value *big.Int) *MintRequest {
	now := time.Now().UTC()
	return &MintRequest{
		ID:        uuid.NewString(),
		Contract:  contract,
		Value:     new(big.Int).Set(value),
		Status:    StatusIdle,
		CreatedAt: now,
		UpdatedAt: now,
		History:   []MintStatus{StatusIdle},
	}
}

func (r *MintRequest) transition(to MintStatus) {
	if !canTransition(r.Status, to) {
		panic(fmt.Sprintf("mint request %s: invalid transition %s -> %s", r.ID, r.Status, to))
	}
	r.Status = to
	r.UpdatedAt = time.Now().UTC()
	r.History = append(r.History, to)
}

// ErrorKind returns the kind of the failure, KindUnknown if the request did not fail
func (r *MintRequest) ErrorKind() ErrorKind {
	return KindOf(r.Err)
}

// SessionSource hands out connection handles
type SessionSource interface {
	EnsureConnection(ctx context.Context, requireSigning bool) (*Handle, error)
}

// Journal records requests that reached a terminal state
type Journal interface {
	Record(ctx context.Context, req *MintRequest) error
}

// MintOptions tune the orchestrator
type MintOptions struct {
	Fee           *big.Int
	Confirmations uint64
	Journal       Journal
	OnStatus      func(req *MintRequest)
}

// MintOrchestrator runs one mint transaction at a time
type MintOrchestrator struct {
	sessions      SessionSource
	binder        ContractBinder
	contract      common.Address
	notifier      Notifier
	fee           *big.Int
	confirmations uint64
	journal       Journal
	onStatus      func(req *MintRequest)

	inFlight atomic.Bool
	busy     atomic.Bool
}

// NewMintOrchestrator creates an orchestrator minting on contract through binder
func NewMintOrchestrator(sessions SessionSource, binder ContractBinder, contract common.Address, notifier Notifier, opts MintOptions) *MintOrchestrator {
	fee := opts.Fee
	if fee == nil {
		fee = DefaultMintFee
	}
	confirmations := opts.Confirmations
	if confirmations == 0 {
		confirmations = 1
	}
	return &MintOrchestrator{
		sessions:      sessions,
		binder:        binder,
		contract:      contract,
		notifier:      notifier,
		fee:           new(big.Int).Set(fee),
		confirmations: confirmations,
		journal:       opts.Journal,
		onStatus:      opts.OnStatus,
	}
}

// Busy reports whether a submitted transaction is awaiting its outcome
func (o *MintOrchestrator) Busy() bool {
	return o.busy.Load()
}

// InFlight reports whether a PublicMint call currently holds the request slot
func (o *MintOrchestrator) InFlight() bool {
	return o.inFlight.Load()
}

// Fee returns the value attached to each mint call
func (o *MintOrchestrator) Fee() *big.Int {
	return new(big.Int).Set(o.fee)
}

// PublicMint submits one mint transaction and waits for it to be confirmed.
// The returned request is always non-nil and in a terminal state.
func (o *MintOrchestrator) PublicMint(ctx context.Context) (*MintRequest, error) {
	req := newMintRequest(o.contract, o.fee)

	if !o.inFlight.CompareAndSwap(false, true) {
		return req, o.fail(ctx, req, KindRequestInProgress, ErrRequestInProgress)
	}
	defer o.inFlight.Store(false)

	handle, err := o.sessions.EnsureConnection(ctx, true)
	if err != nil {
		return req, o.fail(ctx, req, KindOf(err), err)
	}
	req.Account = handle.Account()
	req.ChainID = handle.ChainID()

	minter, err := o.binder.Bind(handle)
	if err != nil {
		return req, o.fail(ctx, req, KindOf(err), err)
	}
	o.advance(req, StatusSubmitting)

	o.busy.Store(true)
	defer o.busy.Store(false)

	pending, err := minter.Mint(ctx, o.fee)
	if err != nil {
		return req, o.fail(ctx, req, KindOf(err), err)
	}
	req.TxHash = pending.Hash()
	o.advance(req, StatusConfirming)
	LogInfo("Mint %s submitted as %s, waiting for %d confirmation(s)", req.ID, req.TxHash.Hex(), o.confirmations)

	receipt, err := pending.Wait(ctx, o.confirmations)
	if receipt != nil && receipt.BlockNumber != nil {
		req.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if err != nil {
		return req, o.fail(ctx, req, KindOf(err), err)
	}

	o.advance(req, StatusDone)
	o.record(ctx, req)
	if o.notifier != nil {
		o.notifier.Success(fmt.Sprintf("You successfully minted a token (tx %s)", req.TxHash.Hex()))
	}
	return req, nil
}

func (o *MintOrchestrator) advance(req *MintRequest, to MintStatus) {
	req.transition(to)
	if o.onStatus != nil {
		o.onStatus(req)
	}
}

func (o *MintOrchestrator) fail(ctx context.Context, req *MintRequest, kind ErrorKind, err error) error {
	mintErr := &MintError{RequestID: req.ID, Stage: req.Status, Kind: kind, Err: err}
	req.Err = mintErr
	o.advance(req, StatusFailed)
	LogError("Mint %s failed: %v", req.ID, err)
	if kind != KindRequestInProgress {
		o.record(ctx, req)
	}
	return mintErr
}

func (o *MintOrchestrator) record(ctx context.Context, req *MintRequest) {
	if o.journal == nil {
		return
	}
	if err := o.journal.Record(context.WithoutCancel(ctx), req); err != nil {
		LogWarn("Failed to record mint %s: %v", req.ID, err)
	}
}
