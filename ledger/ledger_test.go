package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/matryer/is"
	"github.com/paykit/go-money/currency"
	"github.com/paykit/go-money/errors"
	"github.com/paykit/go-money/ledger"
	"github.com/paykit/go-money/money"
	"github.com/paykit/go-money/pubsub/inmem"
)

func TestCreateAccount(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		l := ledger.New()

		account, err := l.CreateAccount("alice", currency.USD)
		i.NoErr(err)

		i.Equal("alice", account.Owner)
		i.Equal(currency.USD, account.Currency)
		i.True(account.Balance.IsZero())

		stored, err := l.Account(account.ID)
		i.NoErr(err)

		i.Equal(account.ID, stored.ID)
	})

	t.Run("EmptyOwner", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		_, err := ledger.New().CreateAccount("", currency.USD)

		i.True(errors.IsErrorType(err, errors.ErrorTypeInvalid))
	})

	t.Run("UnknownCurrency", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		_, err := ledger.New().CreateAccount("alice", "XXX")

		i.True(errors.IsErrorCode(err, errors.ErrorCodeUnknownCurrency))
	})
}

func TestAccountNotFound(t *testing.T) {
	t.Parallel()

	i := is.New(t)

	_, err := ledger.New().Account(uuid.New())

	i.True(errors.IsErrorType(err, errors.ErrorTypeNotFound))
	i.True(errors.IsErrorCode(err, errors.ErrorCodeAccountNotFound))
}

func TestDepositWithdraw(t *testing.T) {
	t.Parallel()

	t.Run("DepositAccumulates", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		l := ledger.New()

		account, err := l.CreateAccount("alice", currency.USD)
		i.NoErr(err)

		account, err = l.Deposit(account.ID, money.Must(money.New(5, 75)))
		i.NoErr(err)

		account, err = l.Deposit(account.ID, money.Must(money.New(3, 50)))
		i.NoErr(err)

		i.True(account.Balance.Equal(money.Must(money.New(9, 25))))
	})

	t.Run("WithdrawReducesBalance", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		l := ledger.New()

		account, err := l.CreateAccount("alice", currency.USD)
		i.NoErr(err)

		_, err = l.Deposit(account.ID, money.Must(money.New(9, 25)))
		i.NoErr(err)

		account, err = l.Withdraw(account.ID, money.Must(money.New(3, 50)))
		i.NoErr(err)

		i.True(account.Balance.Equal(money.Must(money.New(5, 75))))
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		l := ledger.New()

		account, err := l.CreateAccount("alice", currency.USD)
		i.NoErr(err)

		_, err = l.Withdraw(account.ID, money.Must(money.New(0, 1)))

		i.True(errors.IsErrorCode(err, errors.ErrorCodeInsufficientFunds))

		// a failed withdrawal records nothing.
		entries, err := l.Entries(account.ID)
		i.NoErr(err)

		i.Equal(0, len(entries))
	})
}

func TestTransfer(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		l := ledger.New()

		alice, err := l.CreateAccount("alice", currency.USD)
		i.NoErr(err)

		bob, err := l.CreateAccount("bob", currency.USD)
		i.NoErr(err)

		_, err = l.Deposit(alice.ID, money.Must(money.New(9, 25)))
		i.NoErr(err)

		i.NoErr(l.Transfer(alice.ID, bob.ID, money.Must(money.New(3, 50))))

		alice, err = l.Account(alice.ID)
		i.NoErr(err)

		bob, err = l.Account(bob.ID)
		i.NoErr(err)

		i.True(alice.Balance.Equal(money.Must(money.New(5, 75))))
		i.True(bob.Balance.Equal(money.Must(money.New(3, 50))))
	})

	t.Run("CurrencyMismatch", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		l := ledger.New()

		alice, err := l.CreateAccount("alice", currency.USD)
		i.NoErr(err)

		bob, err := l.CreateAccount("bob", currency.EUR)
		i.NoErr(err)

		_, err = l.Deposit(alice.ID, money.Must(money.New(9, 25)))
		i.NoErr(err)

		err = l.Transfer(alice.ID, bob.ID, money.Must(money.New(3, 50)))

		i.True(errors.IsErrorCode(err, errors.ErrorCodeCurrencyMismatch))

		// balances unchanged on failure.
		alice, err = l.Account(alice.ID)
		i.NoErr(err)

		i.True(alice.Balance.Equal(money.Must(money.New(9, 25))))
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		l := ledger.New()

		alice, err := l.CreateAccount("alice", currency.USD)
		i.NoErr(err)

		bob, err := l.CreateAccount("bob", currency.USD)
		i.NoErr(err)

		err = l.Transfer(alice.ID, bob.ID, money.Must(money.New(0, 1)))

		i.True(errors.IsErrorCode(err, errors.ErrorCodeInsufficientFunds))
	})

	t.Run("SameAccount", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		l := ledger.New()

		alice, err := l.CreateAccount("alice", currency.USD)
		i.NoErr(err)

		err = l.Transfer(alice.ID, alice.ID, money.Must(money.New(0, 1)))

		i.True(errors.IsErrorType(err, errors.ErrorTypeInvalid))
	})
}

func TestEntries(t *testing.T) {
	t.Parallel()

	i := is.New(t)

	l := ledger.New()

	account, err := l.CreateAccount("alice", currency.USD)
	i.NoErr(err)

	_, err = l.Deposit(account.ID, money.Must(money.New(5, 75)))
	i.NoErr(err)

	_, err = l.Withdraw(account.ID, money.Must(money.New(3, 50)))
	i.NoErr(err)

	entries, err := l.Entries(account.ID)
	i.NoErr(err)

	i.Equal(2, len(entries))

	i.Equal(ledger.DirectionCredit, entries[0].Direction)
	i.True(entries[0].Balance.Equal(money.Must(money.New(5, 75))))

	i.Equal(ledger.DirectionDebit, entries[1].Direction)
	i.True(entries[1].Balance.Equal(money.Must(money.New(2, 25))))
}

func TestPublishesBalanceEvents(t *testing.T) {
	t.Parallel()

	i := is.New(t)

	ps := inmem.NewPubSub[ledger.BalanceChange](4)

	l := ledger.New(ledger.WithPublisher(ps))

	sub, err := ps.Subscribe(ledger.ChannelBalances)
	i.NoErr(err)

	t.Cleanup(func() {
		i.NoErr(sub.Close())
	})

	account, err := l.CreateAccount("alice", currency.USD)
	i.NoErr(err)

	_, err = l.Deposit(account.ID, money.Must(money.New(5, 75)))
	i.NoErr(err)

	event := <-sub.C()

	i.Equal(ledger.EventTypeBalanceChanged, event.Type)
	i.Equal(account.ID, event.Payload.AccountID)
	i.Equal(ledger.DirectionCredit, event.Payload.Direction)
	i.True(event.Payload.Balance.Equal(money.Must(money.New(5, 75))))
	i.Equal(currency.USD, event.Payload.Currency)
}
