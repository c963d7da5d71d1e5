package internal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Approver stands in for the wallet's approval dialog
type Approver interface {
	ApproveConnection(ctx context.Context, account common.Address, endpoint string) (bool, error)
	ApproveTransaction(ctx context.Context, tx *types.Transaction) (bool, error)
}

// AutoApprover approves everything (--yes)
type AutoApprover struct{}

func (AutoApprover) ApproveConnection(context.Context, common.Address, string) (bool, error) {
	return true, nil
}

func (AutoApprover) ApproveTransaction(context.Context, *types.Transaction) (bool, error) {
	return true, nil
}

// PromptApprover asks y/N questions on a terminal
type PromptApprover struct {
	mu    sync.Mutex
	in    io.Reader
	out   io.Writer
	once  sync.Once
	lines chan promptLine
}

type promptLine struct {
	text string
	err  error
}

// NewPromptApprover creates an approver reading answers from in and writing prompts to out
func NewPromptApprover(in io.Reader, out io.Writer) *PromptApprover {
	return &PromptApprover{in: in, out: out}
}

// readLines feeds answers to ask until in is exhausted
func (p *PromptApprover) readLines() {
	p.lines = make(chan promptLine)
	go func() {
		defer close(p.lines)
		reader := bufio.NewReader(p.in)
		for {
			line, err := reader.ReadString('\n')
			p.lines <- promptLine{text: line, err: err}
			if err != nil {
				return
			}
		}
	}()
}

// ApproveConnection asks whether account may connect through endpoint
func (p *PromptApprover) ApproveConnection(ctx context.Context, account common.Address, endpoint string) (bool, error) {
	return p.ask(ctx, fmt.Sprintf("Connect account %s via %s?", account.Hex(), endpoint))
}

// ApproveTransaction shows the transaction and asks whether to sign it
func (p *PromptApprover) ApproveTransaction(ctx context.Context, tx *types.Transaction) (bool, error) {
	to := "contract creation"
	if tx.To() != nil {
		to = tx.To().Hex()
	}
	question := fmt.Sprintf("Sign transaction to %s\n  value: %s\n  gas:   %d\nApprove?",
		to, FormatEther(tx.Value()), tx.Gas())
	return p.ask(ctx, question)
}

func (p *PromptApprover) ask(ctx context.Context, question string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(p.out, "%s %s [y/N]: ", warningStyle.Render("?"), question)
	p.once.Do(p.readLines)

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return false, ctx.Err()
	case line, ok := <-p.lines:
		if !ok {
			return false, nil
		}
		if line.err != nil && line.err != io.EOF {
			return false, line.err
		}
		switch strings.ToLower(strings.TrimSpace(line.text)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}
