package command

import "fmt"

// UnexpectedError indicates a well-formed packet which is not a command.
type UnexpectedError struct {
	TypeID uint32
}

// Error implements error.
func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected message type: %x", e.TypeID)
}
