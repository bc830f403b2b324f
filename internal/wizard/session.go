package wizard

import "sync"

// Step numbers. The wizard has exactly three data-entry steps.
const (
	StepPersonalInfo      = 1
	StepKitchenPreference = 2
	StepCertifications    = 3

	TotalSteps = 3
)

// State labels the wizard-level state machine.
type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateDone       State = "done"
)

// Snapshot is a read-only view of a session for renderers and progress
// indicators. It is derived synchronously on each change notification.
type Snapshot struct {
	Step       int
	TotalSteps int
	State      State
	Draft      Draft
}

// StepComplete reports whether the fields owned by step n have been filled in.
func (s Snapshot) StepComplete(n int) bool {
	d := s.Draft
	switch n {
	case StepPersonalInfo:
		return d.FullName != "" && d.Email != "" && d.Phone != ""
	case StepKitchenPreference:
		return d.KitchenPreference != ""
	case StepCertifications:
		return d.FoodSafetyLicense != "" && d.FoodEstablishmentCert != ""
	default:
		return false
	}
}

// Observer receives a snapshot after every session mutation.
type Observer func(Snapshot)

// Session is the single source of truth for the cursor and draft during one
// wizard run. It merges patches and moves the step pointer; it never
// validates cross-step consistency — validation is the caller's job before
// UpdateFormData.
type Session struct {
	mu        sync.Mutex
	draft     Draft
	step      int
	state     State
	observers []Observer
}

// NewSession creates an empty session positioned at step 1.
func NewSession() *Session {
	return &Session{step: StepPersonalInfo, state: StateEditing}
}

// UpdateFormData shallow-merges the patch into the draft. It does not move
// the cursor.
func (s *Session) UpdateFormData(p Patch) {
	s.mu.Lock()
	s.draft.apply(p)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// GoToNextStep advances the cursor; a no-op at the last step.
func (s *Session) GoToNextStep() {
	s.setStep(func(cur int) int { return cur + 1 })
}

// GoToPreviousStep moves the cursor back; a no-op at the first step.
func (s *Session) GoToPreviousStep() {
	s.setStep(func(cur int) int { return cur - 1 })
}

// SetCurrentStep jumps directly to step n, clamped to [1, TotalSteps].
func (s *Session) SetCurrentStep(n int) {
	s.setStep(func(int) int { return n })
}

func (s *Session) setStep(next func(int) int) {
	s.mu.Lock()
	n := next(s.step)
	if n < StepPersonalInfo {
		n = StepPersonalInfo
	}
	if n > TotalSteps {
		n = TotalSteps
	}
	changed := n != s.step
	s.step = n
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if changed {
		s.notify(snap)
	}
}

// Step returns the current cursor position.
func (s *Session) Step() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Draft returns a copy of the accumulated record.
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.clone()
}

// State returns the wizard-level state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the current read-only view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer notified after every mutation.
func (s *Session) Subscribe(fn Observer) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Reset discards the draft and returns the cursor to step 1.
func (s *Session) Reset() {
	s.mu.Lock()
	s.draft = Draft{}
	s.step = StepPersonalInfo
	s.state = StateEditing
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// beginSubmit flips the session into the submitting state. It reports false
// when a submission is already in flight; the caller must not start another.
func (s *Session) beginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSubmitting {
		return false
	}
	s.state = StateSubmitting
	return true
}

// endSubmit leaves the submitting state. On success the session becomes
// terminal (done) and the draft and cursor are discarded; on failure the
// draft and cursor are retained so the user can retry.
func (s *Session) endSubmit(success bool) {
	s.mu.Lock()
	if success {
		s.draft = Draft{}
		s.step = StepPersonalInfo
		s.state = StateDone
	} else {
		s.state = StateEditing
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Step:       s.step,
		TotalSteps: TotalSteps,
		State:      s.state,
		Draft:      s.draft.clone(),
	}
}

func (s *Session) notify(snap Snapshot) {
	s.mu.Lock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(snap)
	}
}
