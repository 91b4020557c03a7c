// Package uow implements the unit of work that scopes one money-movement operation
// to a single storage transaction.
package uow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/bank_core/internal/core/ports/repositories"
)

// State is the lifecycle position of a Coordinator.
type State int

const (
	StateIdle State = iota
	StateActive
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrNotActive is returned by repositories and Commit when no transaction is open.
	ErrNotActive = errors.New("unit of work is not active")
	// ErrFinished is returned when a committed or rolled back Coordinator is reused.
	ErrFinished = errors.New("unit of work already finished")
)

// Coordinator owns one transaction handle and the repositories bound to it.
// Idle -> Active on Begin; Active -> Committed on Commit; Active -> RolledBack on
// Rollback, Close, or a failed Commit. Terminal states are final.
// A Coordinator belongs to one request and is not safe for concurrent use.
type Coordinator struct {
	manager portsrepo.TransactionManager
	state   State
	handle  portsrepo.TxHandle

	accounts guardedAccounts
	cards    guardedCards
	ledger   guardedLedger
}

// New creates an idle Coordinator on top of manager.
func New(manager portsrepo.TransactionManager) *Coordinator {
	c := &Coordinator{manager: manager}
	c.accounts = guardedAccounts{c: c}
	c.cards = guardedCards{c: c}
	c.ledger = guardedLedger{c: c}
	return c
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	return c.state
}

// Begin opens the transaction. Calling Begin while already active is a no-op.
func (c *Coordinator) Begin(ctx context.Context) error {
	switch c.state {
	case StateActive:
		return nil
	case StateCommitted, StateRolledBack:
		return fmt.Errorf("%w: cannot begin from state %s", ErrFinished, c.state)
	}

	handle, err := c.manager.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	c.handle = handle
	c.state = StateActive
	return nil
}

// Commit makes the transaction durable. A cancelled context or a failing commit
// rolls the transaction back and reports the operation as failed.
func (c *Coordinator) Commit(ctx context.Context) error {
	if c.state != StateActive {
		return fmt.Errorf("%w: cannot commit from state %s", ErrNotActive, c.state)
	}

	if err := ctx.Err(); err != nil {
		c.rollback(ctx)
		return fmt.Errorf("transaction cancelled before commit: %w", err)
	}

	if err := c.handle.Commit(ctx); err != nil {
		c.rollback(ctx)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	c.state = StateCommitted
	c.handle = nil
	return nil
}

// Rollback discards the transaction. Rolling back an idle Coordinator just finishes it;
// rolling back twice is a no-op.
func (c *Coordinator) Rollback(ctx context.Context) error {
	switch c.state {
	case StateIdle:
		c.state = StateRolledBack
		return nil
	case StateRolledBack:
		return nil
	case StateCommitted:
		return fmt.Errorf("%w: cannot roll back a committed unit of work", ErrFinished)
	}
	return c.rollback(ctx)
}

// Close releases the Coordinator, rolling back if the transaction is still active.
// It is meant to be deferred right after New.
func (c *Coordinator) Close(ctx context.Context) error {
	if c.state == StateCommitted || c.state == StateRolledBack {
		return nil
	}
	return c.Rollback(ctx)
}

func (c *Coordinator) rollback(ctx context.Context) error {
	handle := c.handle
	c.handle = nil
	c.state = StateRolledBack
	if handle == nil {
		return nil
	}
	// Rollback must reach storage even when the request context is already cancelled.
	if err := handle.Rollback(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Accounts returns the account repository bound to the active transaction.
func (c *Coordinator) Accounts() portsrepo.AccountRepositoryFacade {
	return c.accounts
}

// Cards returns the card repository bound to the active transaction.
func (c *Coordinator) Cards() portsrepo.CardRepositoryFacade {
	return c.cards
}

// Ledger returns the ledger repository bound to the active transaction.
func (c *Coordinator) Ledger() portsrepo.LedgerRepositoryFacade {
	return c.ledger
}

func (c *Coordinator) active() (portsrepo.TxHandle, error) {
	if c.state != StateActive || c.handle == nil {
		return nil, fmt.Errorf("%w: state %s", ErrNotActive, c.state)
	}
	return c.handle, nil
}

var _ portsrepo.Repositories = (*Coordinator)(nil)

// Do runs fn inside a fresh Coordinator: Begin, fn, Commit. Any error or panic
// leaves through the deferred Close, which rolls back unless Commit was reached.
func Do[T any](ctx context.Context, manager portsrepo.TransactionManager, fn func(ctx context.Context, c *Coordinator) (T, error)) (T, error) {
	var zero T
	c := New(manager)
	defer func() {
		if err := c.Close(ctx); err != nil {
			slog.WarnContext(ctx, "Unit of work cleanup failed", slog.String("error", err.Error()))
		}
	}()

	if err := c.Begin(ctx); err != nil {
		return zero, err
	}
	result, err := fn(ctx, c)
	if err != nil {
		return zero, err
	}
	if err := c.Commit(ctx); err != nil {
		return zero, err
	}
	return result, nil
}

// Run is Do for operations without a result value.
func Run(ctx context.Context, manager portsrepo.TransactionManager, fn func(ctx context.Context, c *Coordinator) error) error {
	_, err := Do(ctx, manager, func(ctx context.Context, c *Coordinator) (struct{}, error) {
		return struct{}{}, fn(ctx, c)
	})
	return err
}
