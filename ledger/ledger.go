// Package ledger keeps account balances as money values and records
// an immutable entry for every mutation. The store is in memory;
// every mutation is also published as a balance event for external
// consumers (webhooks, workers).
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paykit/go-money/currency"
	"github.com/paykit/go-money/errors"
	"github.com/paykit/go-money/money"
	"github.com/paykit/go-money/pubsub"
)

// Account holds a balance in a single currency.
type Account struct {
	ID        uuid.UUID         `json:"id"`
	Owner     string            `json:"owner"`
	Currency  currency.Currency `json:"currency"`
	Balance   money.Money       `json:"balance"`
	CreatedAt time.Time         `json:"created_at"`
}

// Entry is the immutable record of a single balance mutation.
type Entry struct {
	ID        uuid.UUID   `json:"id"`
	AccountID uuid.UUID   `json:"account_id"`
	Direction Direction   `json:"direction"`
	Amount    money.Money `json:"amount"`
	// Balance is the account balance after the mutation.
	Balance   money.Money `json:"balance"`
	CreatedAt time.Time   `json:"created_at"`
}

// Ledger is an in-memory account store. Safe for concurrent use.
type Ledger struct {
	mu sync.RWMutex

	accounts map[uuid.UUID]Account
	entries  []Entry

	publisher pubsub.Publisher[BalanceChange]

	now func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher sets the publisher balance events are sent to.
// Without it events are discarded.
func WithPublisher(p pubsub.Publisher[BalanceChange]) Option {
	return func(l *Ledger) {
		l.publisher = p
	}
}

// WithClock overrides the time source. Meant for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New returns an empty Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts: make(map[uuid.UUID]Account),
		now:      time.Now,
	}

	for _, o := range opts {
		o(l)
	}

	return l
}

// CreateAccount registers a new account with a zero balance.
func (l *Ledger) CreateAccount(
	owner string,
	code currency.Currency,
) (Account, error) {
	if owner == "" {
		return Account{}, fmt.Errorf("create account: %w", &errors.Error{
			Type:    errors.ErrorTypeInvalid,
			Code:    errors.ErrorCodeInvalidValue,
			Details: "empty owner",
		})
	}

	if !code.IsKnown() {
		return Account{}, fmt.Errorf("create account: %w", &errors.Error{
			Type:    errors.ErrorTypeInvalid,
			Code:    errors.ErrorCodeUnknownCurrency,
			Details: fmt.Sprintf("unknown currency %q", code),
		})
	}

	account := Account{
		ID:        uuid.New(),
		Owner:     owner,
		Currency:  code,
		Balance:   money.Zero(),
		CreatedAt: l.now().UTC(),
	}

	l.mu.Lock()
	l.accounts[account.ID] = account
	l.mu.Unlock()

	return account, nil
}

// Account returns the account with the given id.
func (l *Ledger) Account(id uuid.UUID) (Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.account(id)
}

// Entries returns the recorded entries for an account,
// oldest first.
func (l *Ledger) Entries(accountID uuid.UUID) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, err := l.account(accountID); err != nil {
		return nil, err
	}

	var entries []Entry

	for _, e := range l.entries {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}

	return entries, nil
}

// Deposit credits an account and returns its new state.
func (l *Ledger) Deposit(
	id uuid.UUID,
	amount money.Money,
) (Account, error) {
	l.mu.Lock()

	account, err := l.account(id)
	if err != nil {
		l.mu.Unlock()

		return Account{}, err
	}

	account.Balance = account.Balance.Add(amount)

	change := l.apply(account, DirectionCredit, amount)

	l.mu.Unlock()

	l.publish(change)

	return account, nil
}

// Withdraw debits an account and returns its new state.
// Withdrawing more than the balance fails with an
// insufficient-funds error.
func (l *Ledger) Withdraw(
	id uuid.UUID,
	amount money.Money,
) (Account, error) {
	l.mu.Lock()

	account, err := l.account(id)
	if err != nil {
		l.mu.Unlock()

		return Account{}, err
	}

	balance, err := account.Balance.Sub(amount)
	if err != nil {
		l.mu.Unlock()

		return Account{}, fmt.Errorf("withdraw: %w", &errors.Error{
			Type: errors.ErrorTypeConflict,
			Code: errors.ErrorCodeInsufficientFunds,
			Details: fmt.Sprintf(
				"balance %s below %s",
				account.Currency.Format(account.Balance),
				account.Currency.Format(amount),
			),
		})
	}

	account.Balance = balance

	change := l.apply(account, DirectionDebit, amount)

	l.mu.Unlock()

	l.publish(change)

	return account, nil
}

// Transfer moves an amount between two accounts of the same
// currency. The mutation is atomic: either both balances move or
// neither does.
func (l *Ledger) Transfer(from, to uuid.UUID, amount money.Money) error {
	if from == to {
		return fmt.Errorf("transfer: %w", &errors.Error{
			Type:    errors.ErrorTypeInvalid,
			Code:    errors.ErrorCodeInvalidValue,
			Details: "cannot transfer an amount to the same account",
		})
	}

	l.mu.Lock()

	src, err := l.account(from)
	if err != nil {
		l.mu.Unlock()

		return err
	}

	dst, err := l.account(to)
	if err != nil {
		l.mu.Unlock()

		return err
	}

	if src.Currency != dst.Currency {
		l.mu.Unlock()

		return fmt.Errorf("transfer: %w", &errors.Error{
			Type: errors.ErrorTypeConflict,
			Code: errors.ErrorCodeCurrencyMismatch,
			Details: fmt.Sprintf(
				"cannot transfer %s to %s",
				src.Currency,
				dst.Currency,
			),
		})
	}

	balance, err := src.Balance.Sub(amount)
	if err != nil {
		l.mu.Unlock()

		return fmt.Errorf("transfer: %w", &errors.Error{
			Type: errors.ErrorTypeConflict,
			Code: errors.ErrorCodeInsufficientFunds,
			Details: fmt.Sprintf(
				"balance %s below %s",
				src.Currency.Format(src.Balance),
				src.Currency.Format(amount),
			),
		})
	}

	src.Balance = balance
	dst.Balance = dst.Balance.Add(amount)

	debit := l.apply(src, DirectionDebit, amount)
	credit := l.apply(dst, DirectionCredit, amount)

	l.mu.Unlock()

	l.publish(debit)
	l.publish(credit)

	return nil
}

// account returns the stored account. Callers must hold l.mu.
func (l *Ledger) account(id uuid.UUID) (Account, error) {
	account, ok := l.accounts[id]
	if !ok {
		return Account{}, fmt.Errorf("account: %w", &errors.Error{
			Type:    errors.ErrorTypeNotFound,
			Code:    errors.ErrorCodeAccountNotFound,
			Details: fmt.Sprintf("account %s does not exist", id),
		})
	}

	return account, nil
}

// apply stores the mutated account, records its entry and builds the
// balance event. Callers must hold l.mu.
func (l *Ledger) apply(
	account Account,
	direction Direction,
	amount money.Money,
) BalanceChange {
	now := l.now().UTC()

	l.accounts[account.ID] = account

	l.entries = append(l.entries, Entry{
		ID:        uuid.New(),
		AccountID: account.ID,
		Direction: direction,
		Amount:    amount,
		Balance:   account.Balance,
		CreatedAt: now,
	})

	return BalanceChange{
		AccountID:  account.ID,
		Direction:  direction,
		Amount:     amount,
		Balance:    account.Balance,
		Currency:   account.Currency,
		OccurredAt: now,
	}
}

// publish sends the balance event on the shared and the per-account
// channels. Publishing is best effort.
func (l *Ledger) publish(change BalanceChange) {
	if l.publisher == nil {
		return
	}

	// inmem publishers only fail on missing channels.
	_ = l.publisher.Publish(
		pubsub.Event[BalanceChange]{
			Type:    EventTypeBalanceChanged,
			Payload: change,
		},
		ChannelBalances,
		change.AccountID.String(),
	)
}
