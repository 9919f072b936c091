package lib

// MessageI is a single operation request against the state machine.
// Check() performs the stateless validation; stateful validation happens in the handler.
type MessageI interface {
	Check() ErrorI
	Name() string
}
