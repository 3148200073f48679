package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhwbclub/pulse-backend/internal/roles"
)

var (
	alice = RosterEntry{Email: "a@x.com", DisplayName: "Alice"}
	bob   = RosterEntry{Email: "b@x.com", DisplayName: "Bob"}
	carl  = RosterEntry{Email: "c@x.com", DisplayName: "Carl"}
)

// applyPendingRoster simulates the async roster fetch landing immediately.
func applyPendingRoster(t *testing.T, m *Machine, entries []RosterEntry) Snapshot {
	t.Helper()
	req, ok := m.RosterRequest()
	require.True(t, ok, "expected a roster request to be pending")
	snap, applied := m.ApplyRoster(req.Epoch, entries)
	require.True(t, applied, "roster tagged with the current epoch must apply")
	return snap
}

func TestAthleteDefaultsToSelf(t *testing.T) {
	m := New(roles.Athlete, "Me@X.com", "", "Season 14")

	snap := m.Snapshot()
	assert.Equal(t, ResolvedSubject{Season: "Season 14", SubjectEmail: "me@x.com"}, snap.Subject)
	assert.False(t, snap.Pending)
	assert.False(t, snap.ShowRunnerPicker)

	_, ok := m.RosterRequest()
	assert.False(t, ok, "athletes have no roster concept")
}

func TestAthleteSeasonChangeResolvesImmediately(t *testing.T) {
	m := New(roles.Athlete, "me@x.com", "", "Season 13")
	before := m.Snapshot().Epoch

	snap := m.SetSeason("Season 14")
	assert.Equal(t, "Season 14", snap.Subject.Season)
	assert.Equal(t, "me@x.com", snap.Subject.SubjectEmail)
	assert.Greater(t, snap.Epoch, before)
}

func TestCoachAutoSelectsFirstRosterEntry(t *testing.T) {
	m := New(roles.Coach, "coach@x.com", "Jane Doe", "Season 14")

	snap := m.Snapshot()
	assert.True(t, snap.Pending, "subject must not settle before the roster arrives")
	assert.True(t, snap.ShowRunnerPicker)

	snap = applyPendingRoster(t, m, []RosterEntry{alice, bob})
	assert.False(t, snap.Pending)
	assert.Equal(t, "a@x.com", snap.Selection.Runner)
	assert.Equal(t, ResolvedSubject{Season: "Season 14", SubjectEmail: "a@x.com"}, snap.Subject)
}

func TestCoachWithoutCoachNameDegradesToNoAthletes(t *testing.T) {
	m := New(roles.Coach, "coach@x.com", "", "Season 14")

	snap := m.Snapshot()
	assert.False(t, snap.Pending)
	assert.True(t, snap.NoAthletes)
	assert.Empty(t, snap.Subject.SubjectEmail)

	_, ok := m.RosterRequest()
	assert.False(t, ok, "no coach name means nothing to fetch")
}

// Season change must never re-display a runner that has not been re-confirmed
// as a member of the new season's roster.
func TestSeasonChangeClearsStaleRunner(t *testing.T) {
	m := New(roles.Coach, "coach@x.com", "Jane Doe", "Season 13")
	applyPendingRoster(t, m, []RosterEntry{alice, bob})
	require.Equal(t, "a@x.com", m.Snapshot().Selection.Runner)

	snap := m.SetSeason("Season 14")
	assert.Empty(t, snap.Selection.Runner)
	assert.True(t, snap.Pending)
	// The previously settled subject remains displayed while the reload runs.
	assert.Equal(t, "a@x.com", snap.Subject.SubjectEmail)

	// Season 14 roster no longer contains Alice.
	snap = applyPendingRoster(t, m, []RosterEntry{bob, carl})
	assert.Equal(t, "b@x.com", snap.Selection.Runner)
	assert.Equal(t, ResolvedSubject{Season: "Season 14", SubjectEmail: "b@x.com"}, snap.Subject)
}

func TestSeasonChangeToEmptyRosterClearsSelection(t *testing.T) {
	m := New(roles.Coach, "coach@x.com", "Jane Doe", "Season 13")
	applyPendingRoster(t, m, []RosterEntry{alice})

	m.SetSeason("Season 14")
	snap := applyPendingRoster(t, m, nil)
	assert.Empty(t, snap.Selection.Runner)
	assert.True(t, snap.NoAthletes)
	assert.Empty(t, snap.Subject.SubjectEmail)
}

// A roster response issued before a newer transition must be dropped, not
// applied over the newer selection.
func TestStaleRosterResponseIsDropped(t *testing.T) {
	m := New(roles.Coach, "coach@x.com", "Jane Doe", "Season 13")

	req13, ok := m.RosterRequest()
	require.True(t, ok)

	m.SetSeason("Season 14")
	req14, ok := m.RosterRequest()
	require.True(t, ok)
	require.NotEqual(t, req13.Epoch, req14.Epoch)

	// The season-13 response arrives late.
	_, applied := m.ApplyRoster(req13.Epoch, []RosterEntry{alice})
	assert.False(t, applied)
	assert.True(t, m.Snapshot().Pending)

	snap, applied := m.ApplyRoster(req14.Epoch, []RosterEntry{carl})
	assert.True(t, applied)
	assert.Equal(t, "c@x.com", snap.Subject.SubjectEmail)
}

// Admin scenario: season, coach Jane (Alice, Bob), then coach John (Carl).
// The runner must follow the newest coach's roster, never a previous one.
func TestAdminCoachCascade(t *testing.T) {
	m := New(roles.Admin, "admin@x.com", "", "Season 14")

	snap := m.Snapshot()
	assert.False(t, snap.Pending)
	assert.Empty(t, snap.Subject.SubjectEmail, "admin has no subject until a coach is chosen")
	assert.False(t, snap.ShowRunnerPicker)

	snap = m.SetCoach("Jane Doe")
	assert.True(t, snap.Pending)
	assert.True(t, snap.ShowRunnerPicker)

	snap = applyPendingRoster(t, m, []RosterEntry{alice, bob})
	assert.Equal(t, "a@x.com", snap.Subject.SubjectEmail)

	janeEpoch := snap.Epoch

	snap = m.SetCoach("John Roe")
	assert.Empty(t, snap.Selection.Runner)

	// A late duplicate of Jane's roster must not resurrect her runners.
	_, applied := m.ApplyRoster(janeEpoch, []RosterEntry{alice, bob})
	assert.False(t, applied)

	snap = applyPendingRoster(t, m, []RosterEntry{carl})
	assert.Equal(t, "c@x.com", snap.Subject.SubjectEmail)
	assert.NotEqual(t, "a@x.com", snap.Subject.SubjectEmail)
	assert.NotEqual(t, "b@x.com", snap.Subject.SubjectEmail)
}

func TestAdminSeasonChangeClearsCoachAndRunner(t *testing.T) {
	m := New(roles.Admin, "admin@x.com", "", "Season 13")
	m.SetCoach("Jane Doe")
	applyPendingRoster(t, m, []RosterEntry{alice})

	snap := m.SetSeason("Season 14")
	assert.Empty(t, snap.Selection.Coach)
	assert.Empty(t, snap.Selection.Runner)
	assert.Equal(t, "Season 14", snap.Subject.Season)
	assert.Empty(t, snap.Subject.SubjectEmail)
	assert.False(t, snap.Pending, "no coach chosen, nothing to await")
}

// Hybrid with an empty roster shows the explicit no-athletes state, not an
// error.
func TestHybridEmptyRosterShowsNoAthletes(t *testing.T) {
	m := New(roles.Hybrid, "hy@x.com", "Jane Doe", "Season 14")
	require.Equal(t, MyCohorts, m.Snapshot().Selection.Toggle)

	snap := applyPendingRoster(t, m, nil)
	assert.True(t, snap.NoAthletes)
	assert.False(t, snap.RosterErr)
	assert.Empty(t, snap.Selection.Runner)
	assert.Empty(t, snap.Subject.SubjectEmail)
}

func TestHybridToggleCascade(t *testing.T) {
	m := New(roles.Hybrid, "hy@x.com", "Jane Doe", "Season 14")
	applyPendingRoster(t, m, []RosterEntry{alice, bob})
	require.Equal(t, "a@x.com", m.Snapshot().Subject.SubjectEmail)

	// myCohorts -> myScore: subject becomes self immediately.
	snap := m.SetToggle(MyScore)
	assert.Empty(t, snap.Selection.Runner)
	assert.Equal(t, "hy@x.com", snap.Subject.SubjectEmail)
	assert.False(t, snap.Pending)
	assert.False(t, snap.ShowRunnerPicker)

	// myScore -> myCohorts: await the roster, then auto-select its head.
	snap = m.SetToggle(MyCohorts)
	assert.True(t, snap.Pending)
	snap = applyPendingRoster(t, m, []RosterEntry{bob})
	assert.Equal(t, "b@x.com", snap.Subject.SubjectEmail)
}

func TestSetRunnerRejectsNonMembers(t *testing.T) {
	m := New(roles.Coach, "coach@x.com", "Jane Doe", "Season 14")
	applyPendingRoster(t, m, []RosterEntry{alice, bob})

	snap := m.SetRunner("b@x.com")
	assert.Equal(t, "b@x.com", snap.Subject.SubjectEmail)

	snap = m.SetRunner("z@unassigned.com")
	assert.Equal(t, "b@x.com", snap.Subject.SubjectEmail, "non-members must be ignored")
}

func TestRosterFailurePreservesSelection(t *testing.T) {
	m := New(roles.Coach, "coach@x.com", "Jane Doe", "Season 13")
	applyPendingRoster(t, m, []RosterEntry{alice})
	require.Equal(t, "a@x.com", m.Snapshot().Subject.SubjectEmail)

	m.SetSeason("Season 14")
	req, ok := m.RosterRequest()
	require.True(t, ok)

	snap := m.RosterFailed(req.Epoch)
	assert.True(t, snap.RosterErr)
	// Stale display is preserved until a retry succeeds.
	assert.Equal(t, "a@x.com", snap.Subject.SubjectEmail)

	_, ok = m.RosterRequest()
	assert.False(t, ok, "no re-fetch until the failure is acknowledged")

	m.Retry()
	req, ok = m.RosterRequest()
	require.True(t, ok)
	snap = applyPendingRoster(t, m, []RosterEntry{carl})
	assert.Equal(t, "c@x.com", snap.Subject.SubjectEmail)
}

// Every settled transition must move the epoch forward; it never goes back.
func TestEpochIsMonotonic(t *testing.T) {
	m := New(roles.Admin, "admin@x.com", "", "Season 13")
	last := m.Snapshot().Epoch

	step := func(snap Snapshot) {
		t.Helper()
		assert.GreaterOrEqual(t, snap.Epoch, last)
		last = snap.Epoch
	}

	step(m.SetCoach("Jane Doe"))
	step(applyPendingRoster(t, m, []RosterEntry{alice, bob}))
	step(m.SetRunner("b@x.com"))
	step(m.SetSeason("Season 14"))
	step(m.SetCoach("John Roe"))
	step(applyPendingRoster(t, m, []RosterEntry{carl}))
}
