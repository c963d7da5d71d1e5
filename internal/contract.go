package internal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jonboulle/clockwork"
)

// PunksABI describes the collection contract functions the tool calls
const PunksABI = `[
	{"type":"function","name":"mint","inputs":[],"outputs":[],"stateMutability":"payable"},
	{"type":"function","name":"tokenIds","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"maxTokenIds","inputs":[],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"function","name":"balanceOf","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"name":"from","type":"address","indexed":true},
		{"name":"to","type":"address","indexed":true},
		{"name":"tokenId","type":"uint256","indexed":true}
	]}
]`

// MaxConfirmations bounds the configurable confirmation depth
const MaxConfirmations = 1024

// DefaultConfirmationPoll is how often block height is polled while waiting for extra confirmations
const DefaultConfirmationPoll = 2 * time.Second

// ContractDescriptor identifies the target contract: a fixed address plus its ABI
type ContractDescriptor struct {
	Address common.Address
	ABI     abi.ABI
}

// NewContractDescriptor parses PunksABI and binds it to address
func NewContractDescriptor(address string) (*ContractDescriptor, error) {
	if !common.IsHexAddress(address) {
		return nil, &ConfigError{Field: "contract.address", Err: fmt.Errorf("not a hex address: %q", address)}
	}
	parsed, err := abi.JSON(strings.NewReader(PunksABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract abi: %w", err)
	}
	return &ContractDescriptor{Address: common.HexToAddress(address), ABI: parsed}, nil
}

// Minter submits the payable mint call
type Minter interface {
	Mint(ctx context.Context, value *big.Int) (PendingTx, error)
}

// PendingTx is a submitted transaction that has not necessarily been mined
type PendingTx interface {
	Hash() common.Hash
	Wait(ctx context.Context, confirmations uint64) (*types.Receipt, error)
}

// ContractBinder builds a Minter for a signing handle
type ContractBinder interface {
	Bind(h *Handle) (Minter, error)
}

// EthBinder binds the descriptor through go-ethereum's BoundContract
type EthBinder struct {
	Descriptor *ContractDescriptor
	PollEvery  time.Duration
	Clock      clockwork.Clock
}

// NewEthBinder creates a binder for descriptor
func NewEthBinder(descriptor *ContractDescriptor) *EthBinder {
	return &EthBinder{Descriptor: descriptor, PollEvery: DefaultConfirmationPoll, Clock: clockwork.NewRealClock()}
}

// Bind returns a Minter that signs with the handle's signer
func (b *EthBinder) Bind(h *Handle) (Minter, error) {
	signer, ok := h.Signer()
	if !ok {
		return nil, &WalletError{Op: "bind", Kind: KindProviderUnavailable, Err: errors.New("handle has no signer")}
	}
	backend := h.Backend()
	bound := bind.NewBoundContract(b.Descriptor.Address, b.Descriptor.ABI, backend, backend, backend)
	clock := b.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &boundMinter{contract: bound, backend: backend, signer: signer, pollEvery: b.PollEvery, clock: clock}, nil
}

type boundMinter struct {
	contract  *bind.BoundContract
	backend   ChainBackend
	signer    Signer
	pollEvery time.Duration
	clock     clockwork.Clock
}

func (m *boundMinter) Mint(ctx context.Context, value *big.Int) (PendingTx, error) {
	opts, err := m.signer.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}
	opts.Value = new(big.Int).Set(value)

	tx, err := m.contract.Transact(opts, "mint")
	if err != nil {
		if KindOf(err) != KindUnknown {
			return nil, err
		}
		return nil, &WalletError{Op: "send", Kind: KindRPCFailure, Err: err}
	}
	LogDebug("Submitted mint tx %s (nonce %d, value %s)", tx.Hash().Hex(), tx.Nonce(), FormatEther(tx.Value()))
	return &pendingTx{tx: tx, backend: m.backend, pollEvery: m.pollEvery, clock: m.clock}, nil
}

type pendingTx struct {
	tx        *types.Transaction
	backend   ChainBackend
	pollEvery time.Duration
	clock     clockwork.Clock
}

func (p *pendingTx) Hash() common.Hash {
	return p.tx.Hash()
}

// Wait blocks until the transaction is mined and, when confirmations > 1,
// until that many blocks include or follow it.
func (p *pendingTx) Wait(ctx context.Context, confirmations uint64) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, p.backend, p.tx)
	if err != nil {
		return nil, &WalletError{Op: "wait", Kind: KindRPCFailure, Err: err}
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return receipt, &WalletError{Op: "wait", Kind: KindTransactionReverted, Err: fmt.Errorf("tx %s reverted in block %s", p.tx.Hash().Hex(), receipt.BlockNumber)}
	}
	if confirmations <= 1 {
		return receipt, nil
	}

	block := receipt.BlockNumber.Uint64()
	target := uint64(math.MaxUint64)
	if confirmations-1 <= math.MaxUint64-block {
		target = block + confirmations - 1
	}
	ticker := p.clock.NewTicker(p.pollEvery)
	defer ticker.Stop()
	for {
		head, err := p.backend.BlockNumber(ctx)
		if err != nil {
			return receipt, &WalletError{Op: "wait", Kind: KindRPCFailure, Err: err}
		}
		if head >= target {
			return receipt, nil
		}
		LogDebug("tx %s has %d/%d confirmations", p.tx.Hash().Hex(), head-block+1, confirmations)
		select {
		case <-ctx.Done():
			return receipt, &WalletError{Op: "wait", Kind: KindRPCFailure, Err: ctx.Err()}
		case <-ticker.Chan():
		}
	}
}

// Supply is the collection's mint counter
type Supply struct {
	Minted *big.Int
	Max    *big.Int
}

// Remaining returns how many tokens can still be minted
func (s Supply) Remaining() *big.Int {
	if s.Minted == nil || s.Max == nil {
		return new(big.Int)
	}
	r := new(big.Int).Sub(s.Max, s.Minted)
	if r.Sign() < 0 {
		return new(big.Int)
	}
	return r
}

// ReadSupply reads tokenIds and maxTokenIds through a read-only handle
func ReadSupply(ctx context.Context, h *Handle, d *ContractDescriptor) (Supply, error) {
	caller := bind.NewBoundContract(d.Address, d.ABI, h.Backend(), nil, nil)
	minted, err := callUint(ctx, caller, "tokenIds")
	if err != nil {
		return Supply{}, err
	}
	limit, err := callUint(ctx, caller, "maxTokenIds")
	if err != nil {
		return Supply{}, err
	}
	return Supply{Minted: minted, Max: limit}, nil
}

// ReadBalance returns how many tokens of the collection the handle's account holds
func ReadBalance(ctx context.Context, h *Handle, d *ContractDescriptor) (*big.Int, error) {
	caller := bind.NewBoundContract(d.Address, d.ABI, h.Backend(), nil, nil)
	return callUint(ctx, caller, "balanceOf", h.Account())
}

func callUint(ctx context.Context, c *bind.BoundContract, method string, args ...interface{}) (*big.Int, error) {
	var out []interface{}
	if err := c.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, &WalletError{Op: "call " + method, Kind: KindRPCFailure, Err: err}
	}
	if len(out) != 1 {
		return nil, &WalletError{Op: "call " + method, Kind: KindRPCFailure, Err: fmt.Errorf("expected 1 output, got %d", len(out))}
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, &WalletError{Op: "call " + method, Kind: KindRPCFailure, Err: fmt.Errorf("unexpected output type %T", out[0])}
	}
	return v, nil
}
