package domain

// ConnectionState is the process-wide state of the single ledger connection.
// Transitions drive the UI connectivity indicator and gate all ledger
// operations.
type ConnectionState int32

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "CONNECTING"
	case Connected:
		return "CONNECTED"
	default:
		return "DISCONNECTED"
	}
}
