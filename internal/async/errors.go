package async

import "fmt"

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("processor panicked: %v", e.value)
}
