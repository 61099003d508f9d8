package navigation

import "sync"

// Kind tells a soft navigation from a hard redirect
type Kind string

const (
	KindNavigate Kind = "navigate"
	KindRedirect Kind = "redirect"
)

type Event struct {
	Kind  Kind
	Route Route
}

var _ Navigator = (*Recorder)(nil)

// Recorder remembers every navigation and optionally forwards it. The CLI uses
// it to learn where a command left the user; tests use it to assert effects.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	next   Navigator
}

func NewRecorder(next Navigator) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Navigate(route Route) {
	r.record(Event{Kind: KindNavigate, Route: route})
	if r.next != nil {
		r.next.Navigate(route)
	}
}

func (r *Recorder) Redirect(route Route) {
	r.record(Event{Kind: KindRedirect, Route: route})
	if r.next != nil {
		r.next.Redirect(route)
	}
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Last returns the most recent navigation, if any
func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}
