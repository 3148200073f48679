// Package selection is the client-resident cascading selection state machine.
// It owns {season, coach, runner, hybrid toggle}, enforces the cascade
// invalidation rules and derives the single (season, subject email) tuple all
// widgets and server calls consume. Asynchronous roster results are tagged
// with the epoch active when they were requested and dropped if stale, so
// independently-triggered auto-selections converge instead of racing.
package selection

import (
	"sync"

	"github.com/rhwbclub/pulse-backend/internal/roles"
)

// Toggle is the hybrid user's view switch.
type Toggle int

const (
	MyScore Toggle = iota
	MyCohorts
)

// RosterEntry mirrors roster.Entry on the client side.
type RosterEntry struct {
	Email       string
	DisplayName string
}

// ResolvedSubject is the derived (season, subject email) tuple. It is always
// a function of the current Selection and role, never stored independently.
type ResolvedSubject struct {
	Season       string
	SubjectEmail string
}

// Selection is the transient per-session selection state.
type Selection struct {
	Season string
	Coach  string
	Runner string
	Toggle Toggle
}

// RosterRequest describes the roster fetch the machine currently needs. The
// epoch must be passed back verbatim to ApplyRoster / RosterFailed.
type RosterRequest struct {
	Epoch  uint64
	Season string
	Coach  string
}

// Snapshot is the externally visible state after one transition. While a
// roster reload is in flight, Subject stays at the last settled tuple so
// widgets never see the intermediate cleared state.
type Snapshot struct {
	Selection  Selection
	Subject    ResolvedSubject
	Epoch      uint64
	Pending    bool // roster reload in flight; Subject is the previous settled tuple
	NoAthletes bool // settled on an empty roster
	RosterErr  bool // last roster fetch failed; Selection preserved for retry
	ShowRunnerPicker bool
}

// Machine is the selection cascade state machine. It is safe for concurrent
// use, though clients are expected to drive it from a single event loop.
type Machine struct {
	mu       sync.Mutex
	role     roles.Role
	self     string
	ownCoach string // coach display name for coach/hybrid roles; "" when degraded

	sel         Selection
	epoch       uint64
	subject     ResolvedSubject
	roster      []RosterEntry
	rosterKnown bool
	rosterErr   bool
}

// New creates a machine with role-dependent defaults: the most recent season,
// self as subject for athletes and hybrid (the hybrid toggle defaults to
// myCohorts), and no subject for admins until a coach is chosen.
func New(role roles.Role, selfEmail, ownCoachName, currentSeason string) *Machine {
	m := &Machine{
		role:     role,
		self:     roles.Normalize(selfEmail),
		ownCoach: ownCoachName,
		sel:      Selection{Season: currentSeason},
	}
	if role == roles.Hybrid {
		m.sel.Toggle = MyCohorts
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publish()
	return m
}

// SetSeason changes the season. The selected runner is cleared and, for
// admins, the selected coach as well; the runner is only re-shown once the
// new season's roster confirms it.
func (m *Machine) SetSeason(label string) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if label == m.sel.Season {
		return m.snapshot()
	}
	m.sel.Season = label
	m.sel.Runner = ""
	if m.role == roles.Admin {
		m.sel.Coach = ""
	}
	m.invalidateRoster()
	return m.publish()
}

// SetCoach selects a coach (admin only; ignored for other roles). The runner
// is cleared and re-selected from the new roster when it arrives.
func (m *Machine) SetCoach(name string) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.role != roles.Admin || name == m.sel.Coach {
		return m.snapshot()
	}
	m.sel.Coach = name
	m.sel.Runner = ""
	m.invalidateRoster()
	return m.publish()
}

// SetToggle switches the hybrid view. myCohorts→myScore resolves to self
// immediately; myScore→myCohorts awaits the roster and auto-selects its first
// entry.
func (m *Machine) SetToggle(t Toggle) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.role != roles.Hybrid || t == m.sel.Toggle {
		return m.snapshot()
	}
	m.sel.Toggle = t
	m.sel.Runner = ""
	if t == MyCohorts {
		m.invalidateRoster()
	}
	return m.publish()
}

// SetRunner selects a runner explicitly. The choice is accepted only when it
// is a member of the current roster; anything else would be a dangling
// selection and is ignored.
func (m *Machine) SetRunner(email string) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	email = roles.Normalize(email)
	if !m.rosterKnown || !m.member(email) {
		return m.snapshot()
	}
	m.sel.Runner = email
	return m.publish()
}

// RosterRequest reports the roster fetch currently needed, if any. The caller
// issues the fetch and hands the result back with the same epoch.
func (m *Machine) RosterRequest() (RosterRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	coach, needed := m.rosterCoach()
	if !needed || m.rosterKnown || m.rosterErr {
		return RosterRequest{}, false
	}
	return RosterRequest{Epoch: m.epoch, Season: m.sel.Season, Coach: coach}, true
}

// ApplyRoster lands an asynchronous roster result. Results tagged with a
// stale epoch are dropped silently; the second return reports whether the
// roster was applied. A selected runner absent from the fresh roster is
// replaced by the first entry, or cleared when the roster is empty.
func (m *Machine) ApplyRoster(epoch uint64, entries []RosterEntry) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch != m.epoch {
		return m.snapshot(), false
	}

	m.roster = entries
	m.rosterKnown = true
	m.rosterErr = false

	if m.sel.Runner == "" || !m.member(m.sel.Runner) {
		if len(entries) > 0 {
			m.sel.Runner = roles.Normalize(entries[0].Email)
		} else {
			m.sel.Runner = ""
		}
	}
	return m.publish(), true
}

// RosterFailed records a roster fetch failure. The existing Selection and the
// last settled subject are preserved; the failure is retryable.
func (m *Machine) RosterFailed(epoch uint64) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch == m.epoch && !m.rosterKnown {
		m.rosterErr = true
	}
	return m.snapshot()
}

// Retry clears a recorded roster failure so RosterRequest re-issues the fetch.
func (m *Machine) Retry() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rosterErr = false
	return m.snapshot()
}

// Snapshot returns the current state without transitioning.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// rosterCoach returns the coach name whose roster the current state depends
// on, and whether a roster applies at all.
func (m *Machine) rosterCoach() (string, bool) {
	switch m.role {
	case roles.Coach:
		return m.ownCoach, m.ownCoach != ""
	case roles.Hybrid:
		if m.sel.Toggle == MyCohorts {
			return m.ownCoach, m.ownCoach != ""
		}
	case roles.Admin:
		return m.sel.Coach, m.sel.Coach != ""
	}
	return "", false
}

func (m *Machine) member(email string) bool {
	for _, e := range m.roster {
		if roles.Normalize(e.Email) == email {
			return true
		}
	}
	return false
}

// invalidateRoster marks the roster stale and bumps the epoch so any roster
// or widget result issued before this transition is dropped on arrival.
func (m *Machine) invalidateRoster() {
	m.roster = nil
	m.rosterKnown = false
	m.rosterErr = false
	m.epoch++
}

// derive computes the resolved subject from Selection + role. settled is
// false while a roster reload is in flight and the tuple must not yet be
// republished.
func (m *Machine) derive() (subj ResolvedSubject, settled, noAthletes bool) {
	switch m.role {
	case roles.Athlete:
		return ResolvedSubject{Season: m.sel.Season, SubjectEmail: m.self}, true, false

	case roles.Hybrid:
		if m.sel.Toggle == MyScore {
			return ResolvedSubject{Season: m.sel.Season, SubjectEmail: m.self}, true, false
		}
		return m.deriveFromRoster()

	case roles.Coach:
		return m.deriveFromRoster()

	case roles.Admin:
		if m.sel.Coach == "" {
			return ResolvedSubject{Season: m.sel.Season}, true, false
		}
		return m.deriveFromRoster()
	}
	return ResolvedSubject{}, false, false
}

func (m *Machine) deriveFromRoster() (ResolvedSubject, bool, bool) {
	if coach, needed := m.rosterCoach(); !needed || coach == "" {
		// Degraded coach name: render the explicit empty-roster state.
		return ResolvedSubject{Season: m.sel.Season}, true, true
	}
	if !m.rosterKnown {
		return ResolvedSubject{}, false, false
	}
	if len(m.roster) == 0 {
		return ResolvedSubject{Season: m.sel.Season}, true, true
	}
	return ResolvedSubject{Season: m.sel.Season, SubjectEmail: m.sel.Runner}, true, false
}

// publish recomputes the resolved subject and bumps the epoch when a settled
// tuple differs from the published one. Exactly one tuple is produced per
// settled transition.
func (m *Machine) publish() Snapshot {
	subj, settled, _ := m.derive()
	if settled && subj != m.subject {
		m.epoch++
		m.subject = subj
	}
	return m.snapshot()
}

func (m *Machine) snapshot() Snapshot {
	_, settled, noAthletes := m.derive()
	showPicker := false
	switch m.role {
	case roles.Coach:
		showPicker = true
	case roles.Hybrid:
		showPicker = m.sel.Toggle == MyCohorts
	case roles.Admin:
		showPicker = m.sel.Coach != ""
	}
	return Snapshot{
		Selection:        m.sel,
		Subject:          m.subject,
		Epoch:            m.epoch,
		Pending:          !settled && !m.rosterErr,
		NoAthletes:       settled && noAthletes,
		RosterErr:        m.rosterErr,
		ShowRunnerPicker: showPicker,
	}
}
