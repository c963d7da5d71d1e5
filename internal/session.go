package internal

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Handle is what the session manager lends out: a chain view plus, when
// requested, a signing capability. It never exposes the wallet connection.
type Handle struct {
	chainID int64
	account common.Address
	backend ChainBackend
	signer  Signer
}

// ChainID returns the chain the handle was validated against
func (h *Handle) ChainID() int64 {
	return h.chainID
}

// Account returns the connected account
func (h *Handle) Account() common.Address {
	return h.account
}

// Backend returns the read-only RPC surface
func (h *Handle) Backend() ChainBackend {
	return h.backend
}

// Signer returns the signing capability, if the handle carries one
func (h *Handle) Signer() (Signer, bool) {
	return h.signer, h.signer != nil
}

// CanSign reports whether the handle can authorize transactions
func (h *Handle) CanSign() bool {
	return h.signer != nil
}

// Balance returns the native-currency balance of the connected account
func (h *Handle) Balance(ctx context.Context) (*big.Int, error) {
	bal, err := h.backend.BalanceAt(ctx, h.account, nil)
	if err != nil {
		return nil, &WalletError{Op: "balance", Kind: KindRPCFailure, Err: err}
	}
	return bal, nil
}

// SessionManager owns the wallet connection and enforces the required network
type SessionManager struct {
	mu        sync.Mutex
	cfg       ProviderConfig
	factory   ProviderFactory
	notifier  Notifier
	provider  WalletProvider
	conn      Connection
	connected bool
	chainID   int64
}

// NewSessionManager creates a session manager. The provider is built lazily
// by factory on the first connection attempt.
func NewSessionManager(cfg ProviderConfig, factory ProviderFactory, notifier Notifier) *SessionManager {
	return &SessionManager{
		cfg:      cfg,
		factory:  factory,
		notifier: notifier,
	}
}

// RequiredNetwork returns the only chain id the manager accepts
func (m *SessionManager) RequiredNetwork() int64 {
	return m.cfg.RequiredNetwork
}

// Connected reports whether a connection has been validated
func (m *SessionManager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// ChainID returns the chain id seen on the last validation
func (m *SessionManager) ChainID() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chainID
}

// InitializeOnLoad builds the provider and attempts a connection, unless a
// connection was already established.
func (m *SessionManager) InitializeOnLoad(ctx context.Context) error {
	m.mu.Lock()
	if m.connected {
		m.mu.Unlock()
		LogDebug("Session already connected, skipping initialization")
		return nil
	}
	m.cfg.AllowInjected = true
	m.dropLocked()
	m.provider = nil
	m.mu.Unlock()

	_, err := m.EnsureConnection(ctx, false)
	return err
}

// EnsureConnection returns a handle for a connection on the required network.
// With requireSigning the handle also carries a signer.
func (m *SessionManager) EnsureConnection(ctx context.Context, requireSigning bool) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		if err := m.connectLocked(ctx); err != nil {
			return nil, err
		}
	}

	chainID, err := m.conn.ChainID(ctx)
	if err != nil {
		m.dropLocked()
		return nil, err
	}
	m.chainID = chainID

	if chainID != m.cfg.RequiredNetwork {
		netErr := &NetworkError{Want: m.cfg.RequiredNetwork, Got: chainID}
		if m.notifier != nil {
			m.notifier.Alert(fmt.Sprintf("Need to be connected to the %s network", NetworkName(m.cfg.RequiredNetwork)))
		}
		m.dropLocked()
		return nil, netErr
	}

	handle := &Handle{
		chainID: chainID,
		account: m.conn.Account(),
		backend: m.conn.Backend(),
	}
	if requireSigning {
		signer, err := m.conn.Signer(ctx)
		if err != nil {
			return nil, err
		}
		handle.signer = signer
	}

	if !m.connected {
		LogInfo("Wallet connected: %s on %s", handle.account.Hex(), NetworkName(chainID))
	}
	m.connected = true
	return handle, nil
}

// Reset closes the connection and clears the connected flag
func (m *SessionManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropLocked()
}

func (m *SessionManager) connectLocked(ctx context.Context) error {
	if m.provider == nil {
		if m.factory == nil {
			return &WalletError{Op: "connect", Kind: KindProviderUnavailable, Err: fmt.Errorf("no wallet provider configured")}
		}
		provider, err := m.factory(m.cfg)
		if err != nil {
			return err
		}
		m.provider = provider
	}

	conn, err := m.provider.Connect(ctx)
	if err != nil {
		return err
	}
	m.conn = conn
	return nil
}

func (m *SessionManager) dropLocked() {
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.connected = false
}
