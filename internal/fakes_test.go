package internal

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var testAccount = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
var testContract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

// fakeProvider stands in for the wallet; its chainID can change between calls
type fakeProvider struct {
	mu         sync.Mutex
	chainID    int64
	connectErr error
	signerErr  error
	connects   int
	closed     int
}

func (p *fakeProvider) Connect(ctx context.Context) (Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connects++
	if p.connectErr != nil {
		return nil, p.connectErr
	}
	return &fakeConnection{provider: p}, nil
}

func (p *fakeProvider) setChainID(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chainID = id
}

func (p *fakeProvider) connectCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connects
}

func (p *fakeProvider) factory() (ProviderFactory, *[]ProviderConfig) {
	var built []ProviderConfig
	return func(cfg ProviderConfig) (WalletProvider, error) {
		built = append(built, cfg)
		return p, nil
	}, &built
}

type fakeConnection struct {
	provider *fakeProvider
}

func (c *fakeConnection) ChainID(ctx context.Context) (int64, error) {
	c.provider.mu.Lock()
	defer c.provider.mu.Unlock()
	return c.provider.chainID, nil
}

func (c *fakeConnection) Account() common.Address {
	return testAccount
}

func (c *fakeConnection) Backend() ChainBackend {
	return nil
}

func (c *fakeConnection) Signer(ctx context.Context) (Signer, error) {
	c.provider.mu.Lock()
	defer c.provider.mu.Unlock()
	if c.provider.signerErr != nil {
		return nil, c.provider.signerErr
	}
	return fakeSigner{}, nil
}

func (c *fakeConnection) Close() {
	c.provider.mu.Lock()
	defer c.provider.mu.Unlock()
	c.provider.closed++
}

type fakeSigner struct{}

func (fakeSigner) Address() common.Address {
	return testAccount
}

func (fakeSigner) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	return &bind.TransactOpts{From: testAccount, Context: ctx}, nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	alerts    []string
	successes []string
	infos     []string
}

func (n *fakeNotifier) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, message)
}

func (n *fakeNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *fakeNotifier) Info(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, message)
}

// fakeBinder hands out one minter, or fails
type fakeBinder struct {
	minter  *fakeMinter
	bindErr error
	binds   int
}

func (b *fakeBinder) Bind(h *Handle) (Minter, error) {
	b.binds++
	if b.bindErr != nil {
		return nil, b.bindErr
	}
	if !h.CanSign() {
		return nil, errors.New("fakeBinder: handle cannot sign")
	}
	return b.minter, nil
}

// fakeMinter optionally blocks inside Mint until release is closed
type fakeMinter struct {
	mintErr error
	pending *fakePendingTx
	entered chan struct{}
	release chan struct{}

	mu     sync.Mutex
	calls  int
	values []*big.Int
}

func (m *fakeMinter) Mint(ctx context.Context, value *big.Int) (PendingTx, error) {
	m.mu.Lock()
	m.calls++
	m.values = append(m.values, new(big.Int).Set(value))
	m.mu.Unlock()

	if m.entered != nil {
		close(m.entered)
	}
	if m.release != nil {
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.mintErr != nil {
		return nil, m.mintErr
	}
	return m.pending, nil
}

func (m *fakeMinter) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// fakePendingTx optionally blocks inside Wait until release is closed
type fakePendingTx struct {
	hash    common.Hash
	block   int64
	waitErr error
	entered chan struct{}
	release chan struct{}
	gotConf uint64
}

func (p *fakePendingTx) Hash() common.Hash {
	return p.hash
}

func (p *fakePendingTx) Wait(ctx context.Context, confirmations uint64) (*types.Receipt, error) {
	p.gotConf = confirmations
	if p.entered != nil {
		close(p.entered)
	}
	if p.release != nil {
		select {
		case <-p.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	receipt := &types.Receipt{TxHash: p.hash, BlockNumber: big.NewInt(p.block), Status: types.ReceiptStatusSuccessful}
	if p.waitErr != nil {
		if KindOf(p.waitErr) == KindTransactionReverted {
			receipt.Status = types.ReceiptStatusFailed
			return receipt, p.waitErr
		}
		return nil, p.waitErr
	}
	return receipt, nil
}

// memoryJournal collects recorded requests
type memoryJournal struct {
	mu       sync.Mutex
	recorded []*MintRecord
	err      error
}

func (j *memoryJournal) Record(ctx context.Context, req *MintRequest) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.recorded = append(j.recorded, RecordFromRequest(req))
	return nil
}
