package core

// MessageDecoder defines the interface for turning raw message bytes into a Message
type MessageDecoder interface {
	// Decode parses a complete internet message. Only a container that cannot be parsed
	// at all returns an error; unreadable parts are skipped.
	Decode(raw []byte) (*Message, error)
}
