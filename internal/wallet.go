package internal

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ChainBackend is the read-only RPC surface of a connection
type ChainBackend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Signer can authorize transactions for one account
type Signer interface {
	Address() common.Address
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// Connection is a live wallet connection bound to an RPC node
type Connection interface {
	ChainID(ctx context.Context) (int64, error)
	Account() common.Address
	Backend() ChainBackend
	Signer(ctx context.Context) (Signer, error)
	Close()
}

// WalletProvider opens wallet connections
type WalletProvider interface {
	Connect(ctx context.Context) (Connection, error)
}

// ProviderOptions locate the RPC node and the account key
type ProviderOptions struct {
	RPCURL       string
	KeystorePath string
	Passphrase   string
	InjectedKey  string // hex private key supplied by the environment
}

// ProviderConfig configures a wallet provider
type ProviderConfig struct {
	RequiredNetwork int64
	Options         ProviderOptions
	AllowInjected   bool
}

// ProviderFactory builds a wallet provider from its configuration
type ProviderFactory func(cfg ProviderConfig) (WalletProvider, error)

// EthWallet is a WalletProvider backed by a local key and a JSON-RPC node
type EthWallet struct {
	cfg      ProviderConfig
	approver Approver
	dial     func(ctx context.Context, rawurl string) (*ethclient.Client, error)
}

// NewEthWallet creates an EthWallet that asks approver before connecting and signing
func NewEthWallet(cfg ProviderConfig, approver Approver) *EthWallet {
	if approver == nil {
		approver = AutoApprover{}
	}
	return &EthWallet{cfg: cfg, approver: approver, dial: ethclient.DialContext}
}

// EthWalletFactory returns a ProviderFactory producing EthWallets
func EthWalletFactory(approver Approver) ProviderFactory {
	return func(cfg ProviderConfig) (WalletProvider, error) {
		if cfg.Options.RPCURL == "" {
			return nil, &WalletError{Op: "configure", Kind: KindProviderUnavailable, Err: fmt.Errorf("no rpc url configured")}
		}
		return NewEthWallet(cfg, approver), nil
	}
}

// Connect dials the RPC node, unlocks the key and asks the user to approve the connection
func (w *EthWallet) Connect(ctx context.Context) (Connection, error) {
	key, err := w.loadKey()
	if err != nil {
		return nil, &WalletError{Op: "connect", Kind: KindProviderUnavailable, Err: err}
	}

	client, err := w.dial(ctx, w.cfg.Options.RPCURL)
	if err != nil {
		return nil, &WalletError{Op: "connect", Kind: KindProviderUnavailable, Err: fmt.Errorf("dial %s: %w", w.cfg.Options.RPCURL, err)}
	}

	account := crypto.PubkeyToAddress(key.PublicKey)
	ok, err := w.approver.ApproveConnection(ctx, account, w.cfg.Options.RPCURL)
	if err != nil {
		client.Close()
		return nil, &WalletError{Op: "connect", Kind: KindConnectionRejected, Err: err}
	}
	if !ok {
		client.Close()
		return nil, &WalletError{Op: "connect", Kind: KindConnectionRejected, Err: ErrConnectionRejected}
	}

	LogDebug("Connected account %s via %s", account.Hex(), w.cfg.Options.RPCURL)
	return &ethConnection{client: client, key: key, account: account, approver: w.approver}, nil
}

func (w *EthWallet) loadKey() (*ecdsa.PrivateKey, error) {
	opts := w.cfg.Options
	if opts.KeystorePath != "" {
		data, err := os.ReadFile(opts.KeystorePath)
		if err != nil {
			return nil, fmt.Errorf("read keystore: %w", err)
		}
		k, err := keystore.DecryptKey(data, opts.Passphrase)
		if err != nil {
			return nil, fmt.Errorf("decrypt keystore: %w", err)
		}
		return k.PrivateKey, nil
	}
	if opts.InjectedKey != "" {
		if !w.cfg.AllowInjected {
			return nil, fmt.Errorf("injected key present but injected providers are disabled")
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(opts.InjectedKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse injected key: %w", err)
		}
		return key, nil
	}
	return nil, fmt.Errorf("no wallet configured: set a keystore or an injected key")
}

type ethConnection struct {
	client   *ethclient.Client
	key      *ecdsa.PrivateKey
	account  common.Address
	approver Approver
}

func (c *ethConnection) ChainID(ctx context.Context) (int64, error) {
	id, err := c.client.ChainID(ctx)
	if err != nil {
		return 0, &WalletError{Op: "chain_id", Kind: KindRPCFailure, Err: err}
	}
	return id.Int64(), nil
}

func (c *ethConnection) Account() common.Address {
	return c.account
}

func (c *ethConnection) Backend() ChainBackend {
	return c.client
}

func (c *ethConnection) Signer(ctx context.Context) (Signer, error) {
	id, err := c.client.ChainID(ctx)
	if err != nil {
		return nil, &WalletError{Op: "signer", Kind: KindRPCFailure, Err: err}
	}
	return &keySigner{key: c.key, account: c.account, chainID: id, approver: c.approver}, nil
}

func (c *ethConnection) Close() {
	c.client.Close()
}

type keySigner struct {
	key      *ecdsa.PrivateKey
	account  common.Address
	chainID  *big.Int
	approver Approver
}

func (s *keySigner) Address() common.Address {
	return s.account
}

// TransactOpts returns keyed transact options whose signer asks for approval first
func (s *keySigner) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, &WalletError{Op: "signer", Kind: KindProviderUnavailable, Err: err}
	}
	sign := opts.Signer
	opts.Signer = func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		ok, err := s.approver.ApproveTransaction(ctx, tx)
		if err != nil {
			return nil, &WalletError{Op: "sign", Kind: KindTransactionRejected, Err: err}
		}
		if !ok {
			return nil, &WalletError{Op: "sign", Kind: KindTransactionRejected, Err: ErrTransactionRejected}
		}
		return sign(from, tx)
	}
	opts.Context = ctx
	return opts, nil
}
