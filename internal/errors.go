package internal

import (
	"errors"
	"fmt"
)

// ErrorKind tags a failure so callers can branch on what went wrong
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindConnectionRejected
	KindWrongNetwork
	KindTransactionRejected
	KindTransactionReverted
	KindRPCFailure
	KindRequestInProgress
	KindProviderUnavailable
)

var (
	ErrConnectionRejected  = errors.New("wallet connection rejected")
	ErrWrongNetwork        = errors.New("wrong network")
	ErrTransactionRejected = errors.New("transaction rejected by signer")
	ErrTransactionReverted = errors.New("transaction reverted")
	ErrRPCFailure          = errors.New("rpc failure")
	ErrRequestInProgress   = errors.New("mint request already in progress")
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
)

var kindSentinels = map[ErrorKind]error{
	KindConnectionRejected:  ErrConnectionRejected,
	KindWrongNetwork:        ErrWrongNetwork,
	KindTransactionRejected: ErrTransactionRejected,
	KindTransactionReverted: ErrTransactionReverted,
	KindRPCFailure:          ErrRPCFailure,
	KindRequestInProgress:   ErrRequestInProgress,
	KindProviderUnavailable: ErrProviderUnavailable,
}

// String returns the snake_case name used in logs and the receipt journal
func (k ErrorKind) String() string {
	switch k {
	case KindConnectionRejected:
		return "connection_rejected"
	case KindWrongNetwork:
		return "wrong_network"
	case KindTransactionRejected:
		return "transaction_rejected"
	case KindTransactionReverted:
		return "transaction_reverted"
	case KindRPCFailure:
		return "rpc_failure"
	case KindRequestInProgress:
		return "request_in_progress"
	case KindProviderUnavailable:
		return "provider_unavailable"
	default:
		return "unknown"
	}
}

// KindOf reports the kind of the first tagged error in err's chain
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var kinded interface{ ErrorKind() ErrorKind }
	if errors.As(err, &kinded) {
		if k := kinded.ErrorKind(); k != KindUnknown {
			return k
		}
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindUnknown
}

// WalletError represents a failure talking to the wallet provider
type WalletError struct {
	Op   string // "connect", "chain_id", "signer", "sign"
	Kind ErrorKind
	Err  error
}

func (e *WalletError) Error() string {
	return fmt.Sprintf("wallet error [%s] %s: %v", e.Kind, e.Op, e.Err)
}

func (e *WalletError) Unwrap() error {
	return e.Err
}

// ErrorKind returns the tagged kind
func (e *WalletError) ErrorKind() ErrorKind {
	return e.Kind
}

// Is matches the sentinel of the error's kind
func (e *WalletError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// NetworkError is returned when the wallet is on a different chain than required
type NetworkError struct {
	Want int64
	Got  int64
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("wrong network: connected to %s (%d), need %s (%d)",
		NetworkName(e.Got), e.Got, NetworkName(e.Want), e.Want)
}

// ErrorKind returns KindWrongNetwork
func (e *NetworkError) ErrorKind() ErrorKind {
	return KindWrongNetwork
}

// Is matches ErrWrongNetwork
func (e *NetworkError) Is(target error) bool {
	return target == ErrWrongNetwork
}

// MintError represents a failed mint request
type MintError struct {
	RequestID string
	Stage     MintStatus // status the request was in when it failed
	Kind      ErrorKind
	Err       error
}

func (e *MintError) Error() string {
	return fmt.Sprintf("mint error [%s] %s during %s: %v", e.RequestID, e.Kind, e.Stage, e.Err)
}

func (e *MintError) Unwrap() error {
	return e.Err
}

// ErrorKind returns the tagged kind
func (e *MintError) ErrorKind() ErrorKind {
	return e.Kind
}

// Is matches the sentinel of the error's kind
func (e *MintError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// JournalError represents errors reading or writing the receipt journal
type JournalError struct {
	Path string
	Op   string // "open", "migrate", "record", "list"
	Err  error
}

func (e *JournalError) Error() string {
	return fmt.Sprintf("journal error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *JournalError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
