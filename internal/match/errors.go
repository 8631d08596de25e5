package match

import (
	"errors"
	"fmt"
)

// ErrProtocolDesync marks fatal disagreements with the dealer: unparseable
// messages, hand ids running backwards, or a score line naming the wrong
// seat. A desynchronized match cannot be scored, so these always abort the
// evaluation.
var ErrProtocolDesync = errors.New("protocol desync")

// ConnectTimeoutError is returned when a seat exhausts its connection
// attempts against the dealer.
type ConnectTimeoutError struct {
	Seat     string
	Port     int
	Attempts int
}

func (e *ConnectTimeoutError) Error() string {
	return fmt.Sprintf("%s could not connect to port %d after %d attempts", e.Seat, e.Port, e.Attempts)
}
