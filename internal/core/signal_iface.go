package core

//go:generate mockgen -destination=../mocks/mock_signal.go -package=mocks github.com/dkeye/Radio/internal/core SignalConnection

// Frame is one encoded outbound event.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
// TrySend must never block: a full queue is reported as an error.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
