package screening

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrSessionClosed is returned when answering a scored or abandoned session.
	ErrSessionClosed = errors.New("screening session is closed")

	// ErrInvalidSnapshot is returned by Restore for inconsistent snapshots.
	ErrInvalidSnapshot = errors.New("invalid screening snapshot")
)

// State is the lifecycle state of a Session.
type State string

const (
	StateAwaiting  State = "awaiting_answer"
	StateScored    State = "scored"
	StateAbandoned State = "abandoned"
)

// StepKind says what happened to one submitted answer.
type StepKind string

const (
	StepNext      StepKind = "next"
	StepRetry     StepKind = "retry"
	StepScored    StepKind = "scored"
	StepAbandoned StepKind = "abandoned"
)

// Step is the outcome of Session.Submit. Index and Question describe the item
// now awaiting an answer and are zero for terminal steps. Result is set only
// for StepScored.
type Step struct {
	Kind     StepKind `json:"kind"`
	Index    int      `json:"question_index,omitempty"`
	Question string   `json:"question,omitempty"`
	Message  string   `json:"message,omitempty"`
	Result   *Result  `json:"result,omitempty"`
}

// Result is a completed screening.
type Result struct {
	Total      int    `json:"total"`
	Band       Band   `json:"band"`
	Answers    []int  `json:"answers"`
	Disclaimer string `json:"disclaimer"`
}

// Session walks one person through the nine questions. A Session is not
// safe for concurrent use; each caller owns its own.
type Session struct {
	answers []int
	state   State
}

// NewSession starts a session awaiting the first answer.
func NewSession() *Session {
	return &Session{answers: make([]int, 0, NumQuestions), state: StateAwaiting}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Index returns the 1-based number of the question awaiting an answer, or 0
// once the session has ended.
func (s *Session) Index() int {
	if s.state != StateAwaiting {
		return 0
	}
	return len(s.answers) + 1
}

// CurrentQuestion returns the question awaiting an answer.
func (s *Session) CurrentQuestion() (string, bool) {
	return Question(s.Index())
}

// Total returns the running sum of recorded answers.
func (s *Session) Total() int {
	total := 0
	for _, a := range s.answers {
		total += a
	}
	return total
}

// Submit feeds one raw answer into the session. Exit words abandon it;
// anything that is not an integer 0-3 yields a StepRetry with the session
// unchanged.
func (s *Session) Submit(raw string) (Step, error) {
	if s.state != StateAwaiting {
		return Step{}, ErrSessionClosed
	}

	input := strings.TrimSpace(raw)
	if IsExit(input) {
		s.state = StateAbandoned
		return Step{Kind: StepAbandoned, Message: ExitMessage}, nil
	}

	value, ok := ParseAnswer(input)
	if !ok {
		q, _ := s.CurrentQuestion()
		return Step{Kind: StepRetry, Index: s.Index(), Question: q, Message: RetryPrompt}, nil
	}

	s.answers = append(s.answers, value)
	if len(s.answers) < NumQuestions {
		q, _ := s.CurrentQuestion()
		return Step{Kind: StepNext, Index: s.Index(), Question: q}, nil
	}

	s.state = StateScored
	res, err := s.result()
	if err != nil {
		return Step{}, err
	}
	return Step{Kind: StepScored, Result: &res}, nil
}

// Result returns the scored result. ok is false until all nine answers are
// recorded, and stays false for an abandoned session.
func (s *Session) Result() (Result, bool) {
	if s.state != StateScored {
		return Result{}, false
	}
	res, err := s.result()
	if err != nil {
		return Result{}, false
	}
	return res, true
}

func (s *Session) result() (Result, error) {
	return Score(s.answers)
}

// Score totals a full set of answers and attaches the band and disclaimer.
func Score(answers []int) (Result, error) {
	if len(answers) != NumQuestions {
		return Result{}, fmt.Errorf("expected %d answers, got %d: %w", NumQuestions, len(answers), ErrScoreOutOfRange)
	}
	total := 0
	for i, a := range answers {
		if a < MinAnswer || a > MaxAnswer {
			return Result{}, fmt.Errorf("answer %d is %d: %w", i+1, a, ErrScoreOutOfRange)
		}
		total += a
	}
	band, err := ComputeSeverity(total)
	if err != nil {
		return Result{}, err
	}
	recorded := make([]int, len(answers))
	copy(recorded, answers)
	return Result{Total: total, Band: band, Answers: recorded, Disclaimer: Disclaimer}, nil
}

// IsExit reports whether input is an exit word (exit or quit, any case).
func IsExit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	}
	return false
}

// ParseAnswer parses a trimmed answer and checks it is within 0-3.
func ParseAnswer(input string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || v < MinAnswer || v > MaxAnswer {
		return 0, false
	}
	return v, true
}

// Snapshot is the serialisable form of a Session, used to park in-progress
// screenings in a cache between HTTP requests.
type Snapshot struct {
	Answers []int `json:"answers"`
	State   State `json:"state"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	answers := make([]int, len(s.answers))
	copy(answers, s.answers)
	return Snapshot{Answers: answers, State: s.state}
}

// Restore rebuilds a Session from a snapshot, rejecting impossible states.
func Restore(snap Snapshot) (*Session, error) {
	if len(snap.Answers) > NumQuestions {
		return nil, fmt.Errorf("%d answers: %w", len(snap.Answers), ErrInvalidSnapshot)
	}
	for _, a := range snap.Answers {
		if a < MinAnswer || a > MaxAnswer {
			return nil, fmt.Errorf("answer %d: %w", a, ErrInvalidSnapshot)
		}
	}

	switch snap.State {
	case StateAwaiting:
		if len(snap.Answers) == NumQuestions {
			return nil, fmt.Errorf("awaiting with all answers recorded: %w", ErrInvalidSnapshot)
		}
	case StateScored:
		if len(snap.Answers) != NumQuestions {
			return nil, fmt.Errorf("scored with %d answers: %w", len(snap.Answers), ErrInvalidSnapshot)
		}
	case StateAbandoned:
	default:
		return nil, fmt.Errorf("state %q: %w", snap.State, ErrInvalidSnapshot)
	}

	answers := make([]int, len(snap.Answers), NumQuestions)
	copy(answers, snap.Answers)
	return &Session{answers: answers, state: snap.State}, nil
}
