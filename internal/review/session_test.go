package review

import (
	"testing"
	"time"
)

var sessionStart = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func activeSession(t *testing.T, paid bool) *Session {
	t.Helper()
	s := NewSession("John 3:16", 15, false, paid, Policy{CanEarn: true, Multiplier: 1.0})
	if err := s.Begin(sessionStart); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	return s
}

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession("John 3:16", 15, false, true, Policy{CanEarn: true, Multiplier: 1.0})
	if s.State != StatePrompt {
		t.Fatalf("new session state = %q, want prompt", s.State)
	}
	if err := s.UseFreeHint(); err != ErrNotActive {
		t.Errorf("hint before begin error = %v, want ErrNotActive", err)
	}

	if err := s.Begin(sessionStart); err != nil {
		t.Fatalf("Begin() error: %v", err)
	}
	if s.State != StateActive {
		t.Fatalf("state after Begin = %q, want active", s.State)
	}
	if err := s.Begin(sessionStart); err != ErrAlreadyStarted {
		t.Errorf("double Begin error = %v, want ErrAlreadyStarted", err)
	}

	if err := s.Complete(); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if err := s.Complete(); err != ErrNotActive {
		t.Errorf("double Complete error = %v, want ErrNotActive", err)
	}
}

func TestSession_RewardOnlyFromComplete(t *testing.T) {
	s := activeSession(t, true)
	if _, err := s.Reward(sessionStart.Add(time.Minute)); err != ErrNotComplete {
		t.Errorf("Reward from active error = %v, want ErrNotComplete", err)
	}

	skipped := activeSession(t, true)
	if err := skipped.Skip(); err != nil {
		t.Fatalf("Skip() error: %v", err)
	}
	if _, err := skipped.Reward(sessionStart.Add(time.Minute)); err != ErrNotComplete {
		t.Errorf("Reward from skipped error = %v, want ErrNotComplete", err)
	}

	done := activeSession(t, true)
	done.Complete()
	got, err := done.Reward(sessionStart.Add(60 * time.Second))
	if err != nil {
		t.Fatalf("Reward() error: %v", err)
	}
	if got != 500 {
		t.Errorf("reward = %d, want 500", got)
	}
}

func TestSession_SuppressedPolicyCutsReward(t *testing.T) {
	s := NewSession("John 3:16", 15, false, true, Policy{CooldownActive: true, Multiplier: 1.0})
	s.Begin(sessionStart)
	s.Complete()
	got, err := s.Reward(sessionStart.Add(60 * time.Second))
	if err != nil {
		t.Fatalf("Reward() error: %v", err)
	}
	if got != 50 {
		t.Errorf("suppressed reward = %d, want 50", got)
	}
}

func TestSession_DropLockout(t *testing.T) {
	s := activeSession(t, true)

	res, err := s.RecordDrop(0, false)
	if err != nil {
		t.Fatalf("first drop error: %v", err)
	}
	if res.AttemptsRemaining != 2 || res.FinalAttemptWarning || res.SessionFailed {
		t.Errorf("first miss = %+v, want 2 remaining, no warning", res)
	}

	res, _ = s.RecordDrop(0, false)
	if !res.FinalAttemptWarning || res.AttemptsRemaining != 1 {
		t.Errorf("second miss = %+v, want final-attempt warning", res)
	}

	res, _ = s.RecordDrop(0, false)
	if !res.SessionFailed || s.State != StateFailed {
		t.Errorf("third miss = %+v state %q, want session failure", res, s.State)
	}

	if _, err := s.RecordDrop(0, false); err != ErrNotActive {
		t.Errorf("drop after failure error = %v, want ErrNotActive", err)
	}
}

func TestSession_AttemptCountersArePerWord(t *testing.T) {
	s := activeSession(t, true)
	s.RecordDrop(0, false)
	s.RecordDrop(0, false)

	res, err := s.RecordDrop(1, false)
	if err != nil {
		t.Fatalf("drop on fresh word error: %v", err)
	}
	if res.AttemptsRemaining != 2 {
		t.Errorf("fresh word remaining = %d, want 2", res.AttemptsRemaining)
	}
	if s.State != StateActive {
		t.Errorf("state = %q, want active", s.State)
	}
}

func TestSession_SuccessfulDropDoesNotCount(t *testing.T) {
	s := activeSession(t, true)
	for i := 0; i < 5; i++ {
		res, err := s.RecordDrop(0, true)
		if err != nil {
			t.Fatalf("correct drop %d error: %v", i, err)
		}
		if res.AttemptsRemaining != MaxDropAttempts {
			t.Errorf("correct drop %d remaining = %d, want %d", i, res.AttemptsRemaining, MaxDropAttempts)
		}
	}
}

func TestSession_PracticeModeNeverLocks(t *testing.T) {
	s := activeSession(t, false)
	for i := 0; i < 10; i++ {
		if _, err := s.RecordDrop(0, false); err != nil {
			t.Fatalf("practice drop %d error: %v", i, err)
		}
	}
	if s.State != StateActive {
		t.Errorf("state = %q, want active after misses in practice mode", s.State)
	}
}

func TestSession_ResetLimit(t *testing.T) {
	s := activeSession(t, true)
	s.RecordDrop(0, false)
	s.RecordDrop(0, false)

	if err := s.Reset(); err != nil {
		t.Fatalf("first Reset() error: %v", err)
	}
	// Counters cleared: the word gets all attempts back.
	res, _ := s.RecordDrop(0, false)
	if res.AttemptsRemaining != 2 {
		t.Errorf("remaining after reset = %d, want 2", res.AttemptsRemaining)
	}

	if err := s.Reset(); err != ErrResetUsed {
		t.Errorf("second paid Reset error = %v, want ErrResetUsed", err)
	}

	practice := activeSession(t, false)
	for i := 0; i < 3; i++ {
		if err := practice.Reset(); err != nil {
			t.Errorf("practice Reset %d error: %v", i, err)
		}
	}
}

func TestSession_HintAccounting(t *testing.T) {
	s := activeSession(t, true)

	wantCosts := []int{30, 50, 100, 200, 350, 500}
	total := 0
	for i, want := range wantCosts {
		if got := s.NextHintCost(); got != want {
			t.Errorf("NextHintCost before purchase %d = %d, want %d", i, got, want)
		}
		cost, err := s.PurchaseHint()
		if err != nil {
			t.Fatalf("PurchaseHint %d error: %v", i, err)
		}
		if cost != want {
			t.Errorf("PurchaseHint %d = %d, want %d", i, cost, want)
		}
		total += cost
	}
	if s.HintSpend != total {
		t.Errorf("HintSpend = %d, want %d", s.HintSpend, total)
	}
	if s.PaidHintsUsed != len(wantCosts) {
		t.Errorf("PaidHintsUsed = %d, want %d", s.PaidHintsUsed, len(wantCosts))
	}

	// Any paid hint pins the reward at the flat rate.
	s.Complete()
	got, _ := s.Reward(sessionStart.Add(60 * time.Second))
	if got != PaidHintReward {
		t.Errorf("reward after paid hints = %d, want %d", got, PaidHintReward)
	}
}
