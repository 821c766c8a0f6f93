package core

// Frame is a raw outbound payload, already encoded for the wire.
type Frame []byte

// SessionID identifies one client connection. It is stable for the
// connection's lifetime and doubles as the player id.
type SessionID string

// SignalConnection abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
