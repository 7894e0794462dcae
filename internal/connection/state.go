// Package connection maintains the push socket to a live room.
package connection

// State is the connection lifecycle state.
type State int32

const (
	// StateDisconnected is the initial state before Start.
	StateDisconnected State = iota
	// StateConnecting is the initial connect procedure.
	StateConnecting
	// StateConnected means the socket is up and frames flow.
	StateConnected
	// StateReconnecting means the socket dropped and a retry is pending.
	StateReconnecting
	// StateClosing means Stop has been requested.
	StateClosing
	// StateTerminated is the final state; the frame channel is closed.
	StateTerminated
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosing:
		return "closing"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
