package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventType(t *testing.T) {
	tests := []struct {
		input    string
		expected EventType
	}{
		{"deposit", EventDeposit},
		{"Withdrawal", EventWithdrawal},
		{"DISPUTE", EventDispute},
		{" resolve ", EventResolve},
		{"chargeBack", EventChargeback},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEventType(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseEventType("refund")
	assert.ErrorIs(t, err, ErrUnknownEventType)
}

func TestEvent_String(t *testing.T) {
	amount := Amount(15_000)
	ev := Event{Type: EventDeposit, Client: 1, Tx: 2, Amount: &amount}
	assert.Equal(t, "deposit client: 1 tx: 2 amount: 1.5000", ev.String())

	ev = Event{Type: EventDispute, Client: 1, Tx: 2}
	assert.Equal(t, "dispute client: 1 tx: 2 amount: -", ev.String())
}
