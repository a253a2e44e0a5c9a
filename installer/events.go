package installer

import (
	"fmt"
	"sync"
	"time"
)

type EventType string

const (
	EventTransition EventType = "transition"
	EventProblem    EventType = "problem"
	EventLocation   EventType = "location"
)

// Event is one entry of a session's history
type Event struct {
	Type      EventType
	Timestamp time.Time

	Transition *TransitionEvent
	Problem    *ProblemEvent
	Location   *LocationEvent
}

type TransitionEvent struct {
	From State
	To   State
}

type ProblemEvent struct {
	Error      string
	ErrorStack string
}

type LocationEvent struct {
	Dir string
}

// Session records what happened to an installer since it started
type Session struct {
	mu     sync.Mutex
	events []Event
	state  State
}

func newSession() *Session {
	return &Session{state: StateIdle}
}

// State returns the current session state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// States returns every state the session went through, in order
func (s *Session) States() []State {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := []State{StateIdle}
	for _, ev := range s.events {
		if ev.Transition != nil {
			res = append(res, ev.Transition.To)
		}
	}
	return res
}

// Events returns a copy of the history
func (s *Session) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := make([]Event, len(s.events))
	copy(res, s.events)
	return res
}

// transition moves to a new state if the current one is in from.
// It returns the previous state and whether the move happened.
func (s *Session) transition(to State, from ...State) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	allowed := len(from) == 0
	for _, f := range from {
		if f == prev {
			allowed = true
			break
		}
	}
	if !allowed {
		return prev, false
	}

	s.state = to
	s.postEvent(Event{
		Transition: &TransitionEvent{From: prev, To: to},
	})
	return prev, true
}

func (s *Session) postProblem(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postEvent(Event{
		Problem: &ProblemEvent{
			Error:      fmt.Sprintf("%v", err),
			ErrorStack: fmt.Sprintf("%+v", err),
		},
	})
}

func (s *Session) postLocation(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.postEvent(Event{
		Location: &LocationEvent{Dir: dir},
	})
}

func (s *Session) postEvent(event Event) {
	event.Timestamp = time.Now()
	switch true {
	case event.Transition != nil:
		event.Type = EventTransition
	case event.Problem != nil:
		event.Type = EventProblem
	case event.Location != nil:
		event.Type = EventLocation
	}

	s.events = append(s.events, event)
}
