package internal

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/iksnae/punks-mint/testutil"
)

// Well-known development key; its address is testAccount.
const testKeyHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

type staticApprover struct {
	connect bool
	sign    bool
	err     error
}

func (a staticApprover) ApproveConnection(context.Context, common.Address, string) (bool, error) {
	return a.connect, a.err
}

func (a staticApprover) ApproveTransaction(context.Context, *types.Transaction) (bool, error) {
	return a.sign, a.err
}

func TestEthWalletFactory_RequiresRPCURL(t *testing.T) {
	_, err := EthWalletFactory(nil)(ProviderConfig{RequiredNetwork: MumbaiChainID})
	if KindOf(err) != KindProviderUnavailable {
		t.Errorf("factory error = %v, want provider_unavailable", err)
	}

	provider, err := EthWalletFactory(nil)(ProviderConfig{Options: ProviderOptions{RPCURL: "http://127.0.0.1:8545"}})
	if err != nil || provider == nil {
		t.Errorf("factory() = %v, %v", provider, err)
	}
}

func TestEthWallet_LoadKey(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(t *testing.T) ProviderConfig
		wantErr bool
	}{
		{
			name: "injected key allowed",
			cfg: func(t *testing.T) ProviderConfig {
				return ProviderConfig{AllowInjected: true, Options: ProviderOptions{InjectedKey: "0x" + testKeyHex}}
			},
		},
		{
			name: "injected key disabled",
			cfg: func(t *testing.T) ProviderConfig {
				return ProviderConfig{Options: ProviderOptions{InjectedKey: testKeyHex}}
			},
			wantErr: true,
		},
		{
			name: "malformed injected key",
			cfg: func(t *testing.T) ProviderConfig {
				return ProviderConfig{AllowInjected: true, Options: ProviderOptions{InjectedKey: "zz"}}
			},
			wantErr: true,
		},
		{
			name: "keystore",
			cfg: func(t *testing.T) ProviderConfig {
				return ProviderConfig{Options: ProviderOptions{KeystorePath: writeTestKeystore(t, "secret"), Passphrase: "secret"}}
			},
		},
		{
			name: "keystore wrong passphrase",
			cfg: func(t *testing.T) ProviderConfig {
				return ProviderConfig{Options: ProviderOptions{KeystorePath: writeTestKeystore(t, "secret"), Passphrase: "nope"}}
			},
			wantErr: true,
		},
		{
			name: "missing keystore file",
			cfg: func(t *testing.T) ProviderConfig {
				return ProviderConfig{Options: ProviderOptions{KeystorePath: filepath.Join(testutil.CreateTempDir(t), "absent.json")}}
			},
			wantErr: true,
		},
		{
			name:    "nothing configured",
			cfg:     func(t *testing.T) ProviderConfig { return ProviderConfig{AllowInjected: true} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewEthWallet(tt.cfg(t), nil)
			key, err := w.loadKey()
			if (err != nil) != tt.wantErr {
				t.Fatalf("loadKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && crypto.PubkeyToAddress(key.PublicKey) != testAccount {
				t.Errorf("loaded key for %s, want %s", crypto.PubkeyToAddress(key.PublicKey).Hex(), testAccount.Hex())
			}
		})
	}
}

func writeTestKeystore(t *testing.T, passphrase string) string {
	t.Helper()
	priv, err := crypto.HexToECDSA(testKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	key := &keystore.Key{Id: uuid.New(), Address: crypto.PubkeyToAddress(priv.PublicKey), PrivateKey: priv}
	data, err := keystore.EncryptKey(key, passphrase, keystore.LightScryptN, keystore.LightScryptP)
	if err != nil {
		t.Fatal(err)
	}
	return testutil.WriteFile(t, testutil.CreateTempDir(t), "key.json", data)
}

func TestEthWallet_ConnectRejected(t *testing.T) {
	cfg := ProviderConfig{
		AllowInjected: true,
		Options:       ProviderOptions{RPCURL: "http://127.0.0.1:8545", InjectedKey: testKeyHex},
	}

	tests := []struct {
		name     string
		approver Approver
	}{
		{"declined", staticApprover{connect: false}},
		{"dialog failed", staticApprover{err: errors.New("dialog closed")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := NewEthWallet(cfg, tt.approver).Connect(context.Background())
			if conn != nil {
				t.Errorf("Connect() returned a connection on rejection")
			}
			if !errors.Is(err, ErrConnectionRejected) {
				t.Errorf("Connect() error = %v, want ErrConnectionRejected", err)
			}
		})
	}
}

func TestEthWallet_ConnectWithoutKey(t *testing.T) {
	w := NewEthWallet(ProviderConfig{Options: ProviderOptions{RPCURL: "http://127.0.0.1:8545"}}, nil)
	_, err := w.Connect(context.Background())
	if KindOf(err) != KindProviderUnavailable {
		t.Errorf("Connect() error = %v, want provider_unavailable", err)
	}
}

func TestKeySigner_TransactOpts(t *testing.T) {
	priv, err := crypto.HexToECDSA(testKeyHex)
	if err != nil {
		t.Fatal(err)
	}
	to := testContract
	tx := types.NewTx(&types.LegacyTx{To: &to, Value: big.NewInt(1), Gas: 21000, GasPrice: big.NewInt(1)})

	tests := []struct {
		name     string
		approver Approver
		wantKind ErrorKind
	}{
		{"approved", staticApprover{sign: true}, KindUnknown},
		{"declined", staticApprover{sign: false}, KindTransactionRejected},
		{"dialog failed", staticApprover{err: errors.New("closed")}, KindTransactionRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &keySigner{key: priv, account: testAccount, chainID: big.NewInt(MumbaiChainID), approver: tt.approver}
			opts, err := s.TransactOpts(context.Background())
			if err != nil {
				t.Fatalf("TransactOpts() error = %v", err)
			}
			if opts.From != testAccount {
				t.Errorf("From = %s, want %s", opts.From.Hex(), testAccount.Hex())
			}

			signed, err := opts.Signer(testAccount, tx)
			if got := KindOf(err); got != tt.wantKind {
				t.Fatalf("Signer() kind = %v (err %v), want %v", got, err, tt.wantKind)
			}
			if err != nil {
				return
			}
			sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(MumbaiChainID)), signed)
			if err != nil || sender != testAccount {
				t.Errorf("signed by %s (%v), want %s", sender.Hex(), err, testAccount.Hex())
			}
		})
	}
}
