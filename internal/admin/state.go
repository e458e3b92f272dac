// ABOUTME: Tagged list state shared by the admin resource clients
// ABOUTME: A list is loading, loaded, or errored; never partially patched

package admin

// State tags the list lifecycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ListState is the single source of truth for a resource listing. Mutations
// never patch items locally; they re-list on success. A banner error from a
// failed mutation keeps the already-loaded items visible.
type ListState[T any] struct {
	state State
	items []T
	err   error
}

func (l *ListState[T]) beginLoading() {
	l.state = StateLoading
	l.err = nil
}

func (l *ListState[T]) load(items []T) {
	l.state = StateLoaded
	l.items = items
	l.err = nil
}

// fail marks a refresh failure. The stale items are dropped; the list is
// either loaded or errored, not both.
func (l *ListState[T]) fail(err error) {
	l.state = StateError
	l.items = nil
	l.err = err
}

// banner records a mutation failure without disturbing the loaded list.
func (l *ListState[T]) banner(err error) {
	l.err = err
}
