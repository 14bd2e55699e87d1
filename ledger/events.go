package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/paykit/go-money/currency"
	"github.com/paykit/go-money/money"
)

// EventTypeBalanceChanged is the type of the event published after
// every balance mutation.
const EventTypeBalanceChanged = "balance.changed"

// ChannelBalances is the pubsub channel every balance event is
// published on. Events are additionally published on the account id
// channel, so consumers can follow a single account.
const ChannelBalances = "ledger.balances"

// Direction tells whether an entry credits or debits an account.
type Direction string

// Available entry directions.
const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// BalanceChange is the payload of a balance event: the mutation that
// happened and the balance it resulted in.
type BalanceChange struct {
	AccountID  uuid.UUID         `json:"account_id"`
	Direction  Direction         `json:"direction"`
	Amount     money.Money       `json:"amount"`
	Balance    money.Money       `json:"balance"`
	Currency   currency.Currency `json:"currency"`
	OccurredAt time.Time         `json:"occurred_at"`
}
