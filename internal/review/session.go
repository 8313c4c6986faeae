package review

import (
	"errors"
	"time"
)

// State is the lifecycle phase of one review session.
type State string

const (
	StatePrompt   State = "prompt"
	StateActive   State = "active"
	StateComplete State = "complete"
	StateFailed   State = "failed"
	StateSkipped  State = "skipped"
)

// MaxDropAttempts is the per-word placement limit in paid mode. The third
// failed drop forces the session into the failed state.
const MaxDropAttempts = 3

var (
	ErrNotActive      = errors.New("review: session is not active")
	ErrAlreadyStarted = errors.New("review: session already started")
	ErrResetUsed      = errors.New("review: board already reset this session")
	ErrWordLocked     = errors.New("review: word is locked out")
	ErrNotComplete    = errors.New("review: reward only available from a completed session")
)

// Session is the ephemeral state of one verse-reconstruction attempt. It
// is created per review and discarded when the review completes, fails,
// or is skipped; nothing here is persisted except the final completion row.
type Session struct {
	Reference   string
	WordCount   int
	CommonVerse bool
	PaidMode    bool

	State         State
	StartedAt     time.Time
	FreeHintsUsed int
	PaidHintsUsed int
	HintSpend     int
	ResetUsed     bool

	Policy Policy

	dropAttempts map[int]int
}

// DropResult reports the outcome of one word placement.
type DropResult struct {
	Placed bool
	// FinalAttemptWarning is set when the next drop on this word would be
	// the last one allowed.
	FinalAttemptWarning bool
	AttemptsRemaining   int
	// SessionFailed is set when this drop exhausted the word's attempts
	// and forced the session into the failed state.
	SessionFailed bool
}

// NewSession creates a session in the prompt state under the given earn
// policy.
func NewSession(reference string, wordCount int, commonVerse, paidMode bool, policy Policy) *Session {
	return &Session{
		Reference:    reference,
		WordCount:    wordCount,
		CommonVerse:  commonVerse,
		PaidMode:     paidMode,
		State:        StatePrompt,
		Policy:       policy,
		dropAttempts: make(map[int]int),
	}
}

// Begin moves the session from prompt to active and stamps the clock the
// minimum-time check measures against.
func (s *Session) Begin(now time.Time) error {
	if s.State != StatePrompt {
		return ErrAlreadyStarted
	}
	s.State = StateActive
	s.StartedAt = now
	return nil
}

// UseFreeHint records a free hint.
func (s *Session) UseFreeHint() error {
	if s.State != StateActive {
		return ErrNotActive
	}
	s.FreeHintsUsed++
	return nil
}

// NextHintCost prices the session's next paid hint.
func (s *Session) NextHintCost() int {
	return HintCost(s.PaidHintsUsed)
}

// PurchaseHint records a paid hint and returns what it cost. Affordability
// is the caller's problem; the session only tracks the spend.
func (s *Session) PurchaseHint() (int, error) {
	if s.State != StateActive {
		return 0, ErrNotActive
	}
	cost := HintCost(s.PaidHintsUsed)
	s.PaidHintsUsed++
	s.HintSpend += cost
	return cost, nil
}

// RecordDrop registers one placement attempt for the word at wordIndex.
// Failed attempts only count toward lockout in paid mode; the third
// failure on a word ends the session.
func (s *Session) RecordDrop(wordIndex int, placed bool) (DropResult, error) {
	if s.State != StateActive {
		return DropResult{}, ErrNotActive
	}
	if s.PaidMode && s.dropAttempts[wordIndex] >= MaxDropAttempts {
		return DropResult{}, ErrWordLocked
	}

	if placed {
		return DropResult{Placed: true, AttemptsRemaining: s.attemptsRemaining(wordIndex)}, nil
	}

	if !s.PaidMode {
		return DropResult{AttemptsRemaining: MaxDropAttempts}, nil
	}

	s.dropAttempts[wordIndex]++
	remaining := s.attemptsRemaining(wordIndex)
	res := DropResult{
		AttemptsRemaining:   remaining,
		FinalAttemptWarning: remaining == 1,
	}
	if remaining == 0 {
		s.State = StateFailed
		res.SessionFailed = true
	}
	return res, nil
}

func (s *Session) attemptsRemaining(wordIndex int) int {
	r := MaxDropAttempts - s.dropAttempts[wordIndex]
	if r < 0 {
		return 0
	}
	return r
}

// Reset clears the board's drop counters. Paid sessions get one reset;
// practice sessions are unlimited.
func (s *Session) Reset() error {
	if s.State != StateActive {
		return ErrNotActive
	}
	if s.PaidMode {
		if s.ResetUsed {
			return ErrResetUsed
		}
		s.ResetUsed = true
	}
	s.dropAttempts = make(map[int]int)
	return nil
}

// Complete marks every slot matched and ends the session.
func (s *Session) Complete() error {
	if s.State != StateActive {
		return ErrNotActive
	}
	s.State = StateComplete
	return nil
}

// Skip records a voluntary exit from either prompt or active.
func (s *Session) Skip() error {
	if s.State != StatePrompt && s.State != StateActive {
		return ErrNotActive
	}
	s.State = StateSkipped
	return nil
}

// Reward computes the session's payout at the given completion time.
// Every state but complete pays nothing.
func (s *Session) Reward(now time.Time) (int, error) {
	if s.State != StateComplete {
		return 0, ErrNotComplete
	}
	duration := now.Sub(s.StartedAt).Seconds()
	suppressed := s.Policy.CooldownActive || s.Policy.DailyCapReached
	return CalculateReward(s.WordCount, s.CommonVerse, s.FreeHintsUsed, s.PaidHintsUsed, duration, s.Policy.Multiplier, suppressed), nil
}
