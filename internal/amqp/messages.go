package amqp

import (
	"encoding/json"

	"github.com/igoorcb/finance-control/internal/ledger"
)

// Lifecycle messages are the compact ledger.TransactionEvent payloads; the
// consumer fetches current entity state from the store rather than trusting
// a snapshot that may be stale by delivery time.

func encodeEvent(ev ledger.TransactionEvent) ([]byte, error) {
	return json.Marshal(ev)
}

func decodeEvent(data []byte) (ledger.TransactionEvent, error) {
	var ev ledger.TransactionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ledger.TransactionEvent{}, err
	}
	return ev, nil
}
