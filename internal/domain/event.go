package domain

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownEventType = errors.New("unknown event type")

// EventType kind of transaction event.
type EventType int

const (
	EventDeposit EventType = iota + 1
	EventWithdrawal
	EventDispute
	EventResolve
	EventChargeback
)

var eventTypeNames = map[EventType]string{
	EventDeposit:    "deposit",
	EventWithdrawal: "withdrawal",
	EventDispute:    "dispute",
	EventResolve:    "resolve",
	EventChargeback: "chargeback",
}

// ParseEventType parses a type token case-insensitively.
func ParseEventType(s string) (EventType, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	for t, name := range eventTypeNames {
		if name == token {
			return t, nil
		}
	}

	return 0, errors.Wrapf(ErrUnknownEventType, "%q", s)
}

// String returns the string representation.
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event single transaction event of the input stream.
type Event struct {
	Type   EventType
	Client ClientID
	Tx     TxID
	// Amount nil when the record carries no amount.
	Amount *Amount
}

// String returns a human-readable string representation.
func (e *Event) String() string {
	amount := "-"
	if e.Amount != nil {
		amount = e.Amount.String()
	}

	return fmt.Sprintf("%s client: %d tx: %d amount: %s", e.Type, e.Client, e.Tx, amount)
}
