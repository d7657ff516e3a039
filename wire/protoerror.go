package wire

import "fmt"

// ProtocolError is a fatal client-visible protocol violation. Dispatch code
// usually gets one from protocol.Client.PostError, which has already sent
// the wl_display.error event; the client's request loop does not post the
// event itself, it tears down the connection on any returned error.
type ProtocolError struct {
	Object  ObjectID
	Code    uint32
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("wire: protocol error on object %d (code %d): %s", e.Object, e.Code, e.Message)
}

// NewProtocolError constructs a ProtocolError for the given resource.
func NewProtocolError(obj ObjectID, code uint32, message string) *ProtocolError {
	return &ProtocolError{Object: obj, Code: code, Message: message}
}
