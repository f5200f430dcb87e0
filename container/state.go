package container

// State is the lifecycle position of a Container.
type State int

const (
	StateUnstarted State = iota
	StateScanned
	StateWired
	StateCallbacksInvoked
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateScanned:
		return "scanned"
	case StateWired:
		return "wired"
	case StateCallbacksInvoked:
		return "callbacks_invoked"
	default:
		return "unknown"
	}
}
