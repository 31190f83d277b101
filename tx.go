package barter

// Persistent is a value with a binary form.
type Persistent interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// Msg is the action a transaction asks for: open, settle or cancel an
// escrow. It carries no authentication, that lives in the Tx around it.
type Msg interface {
	Persistent

	// Path routes the message to its handler. It matches
	// [0-9A-Za-z_\-/]+, for example "escrow/open".
	Path() string

	// Validate checks the message content without looking at the state.
	Validate() error
}

// Tx is a message together with whatever authenticates it.
type Tx interface {
	GetMsg() (Msg, error)
}

// GetPath returns the route of the transaction message, "(missing)" when
// the message cannot be loaded. It is meant for logs.
func GetPath(tx Tx) string {
	if tx == nil {
		return "(missing)"
	}
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}
