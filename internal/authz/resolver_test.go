package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhwbclub/pulse-backend/internal/roles"
	"github.com/rhwbclub/pulse-backend/internal/roster"
)

type fakeDirectory struct {
	roleByEmail  map[string]string
	coachByEmail map[string]string
	roleErr      error
	coachErr     error
}

func (d *fakeDirectory) RoleFor(_ context.Context, email string) (string, error) {
	if d.roleErr != nil {
		return "", d.roleErr
	}
	return d.roleByEmail[email], nil
}

func (d *fakeDirectory) CoachNameFor(_ context.Context, email string) (string, error) {
	if d.coachErr != nil {
		return "", d.coachErr
	}
	return d.coachByEmail[email], nil
}

type fakeRosters struct {
	byCoach map[string][]roster.Entry
	err     error
	calls   int
}

func (f *fakeRosters) Fetch(_ context.Context, _ roles.Role, _ int, coachName string) ([]roster.Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.byCoach[coachName], nil
}

func newFixture() (*fakeDirectory, *fakeRosters, *Resolver) {
	dir := &fakeDirectory{
		roleByEmail: map[string]string{
			"athlete@x.com": "athlete",
			"jane@x.com":    "coach",
			"mark@x.com":    "coach",
			"hy@x.com":      "hybrid",
			"admin@x.com":   "admin",
			"lost@x.com":    "coach", // coach role, no coach name row
		},
		coachByEmail: map[string]string{
			"jane@x.com": "Jane Doe",
			"mark@x.com": "Mark Lee",
			"hy@x.com":   "Jane Doe",
		},
	}
	rosters := &fakeRosters{byCoach: map[string][]roster.Entry{
		"Jane Doe": {
			{Email: "a@x.com", DisplayName: "Alice"},
			{Email: "b@x.com", DisplayName: "Bob"},
		},
		"Mark Lee": {
			{Email: "c@x.com", DisplayName: "Carl"},
		},
	}}
	return dir, rosters, NewResolver(dir, rosters)
}

func TestAthleteSeesOnlySelf(t *testing.T) {
	_, _, r := newFixture()
	ctx := context.Background()

	res, err := r.Authorize(ctx, "athlete@x.com", "", 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"athlete@x.com"}, res.AuthorizedEmails)

	res, err = r.Authorize(ctx, "Athlete@X.com", "athlete@x.com", 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"athlete@x.com"}, res.AuthorizedEmails)

	// Any other subject is an empty set, never an error.
	res, err = r.Authorize(ctx, "athlete@x.com", "a@x.com", 14)
	require.NoError(t, err)
	assert.True(t, res.Denied())
}

func TestCoachSeesAssignedRunnerOnly(t *testing.T) {
	_, _, r := newFixture()
	ctx := context.Background()

	res, err := r.Authorize(ctx, "jane@x.com", "a@x.com", 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com"}, res.AuthorizedEmails)

	// Carl belongs to Mark's roster, not Jane's.
	res, err = r.Authorize(ctx, "jane@x.com", "c@x.com", 14)
	require.NoError(t, err)
	assert.True(t, res.Denied())
}

// Denial for a runner outside the cohort must be byte-identical to denial for
// a nonexistent subject.
func TestDenialsAreIndistinguishable(t *testing.T) {
	_, _, r := newFixture()
	ctx := context.Background()

	outside, err := r.Authorize(ctx, "jane@x.com", "c@x.com", 14)
	require.NoError(t, err)
	ghost, err := r.Authorize(ctx, "jane@x.com", "nobody@x.com", 14)
	require.NoError(t, err)
	wrongRole, err := r.Authorize(ctx, "athlete@x.com", "a@x.com", 14)
	require.NoError(t, err)

	assert.Equal(t, outside, ghost)
	assert.Equal(t, outside, wrongRole)
	assert.NotNil(t, outside.AuthorizedEmails, "denials serialize as [], not null")
}

func TestCoachOmittedSubjectReturnsFullCohort(t *testing.T) {
	_, _, r := newFixture()

	res, err := r.Authorize(context.Background(), "jane@x.com", "", 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, res.AuthorizedEmails)
}

func TestCoachWithoutCoachNameIsDenied(t *testing.T) {
	_, rosters, r := newFixture()

	res, err := r.Authorize(context.Background(), "lost@x.com", "a@x.com", 14)
	require.NoError(t, err)
	assert.True(t, res.Denied())
	assert.Zero(t, rosters.calls, "no roster lookup without a coach name")
}

func TestHybridSelfSkipsRosterLookup(t *testing.T) {
	_, rosters, r := newFixture()
	ctx := context.Background()

	res, err := r.Authorize(ctx, "hy@x.com", "hy@x.com", 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"hy@x.com"}, res.AuthorizedEmails)
	assert.Zero(t, rosters.calls)

	res, err = r.Authorize(ctx, "hy@x.com", "", 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"hy@x.com"}, res.AuthorizedEmails)
}

func TestHybridCohortAccess(t *testing.T) {
	_, _, r := newFixture()
	ctx := context.Background()

	res, err := r.Authorize(ctx, "hy@x.com", "b@x.com", 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"b@x.com"}, res.AuthorizedEmails)

	res, err = r.Authorize(ctx, "hy@x.com", "c@x.com", 14)
	require.NoError(t, err)
	assert.True(t, res.Denied())
}

func TestAdminRequiresExplicitSubject(t *testing.T) {
	_, rosters, r := newFixture()
	ctx := context.Background()

	res, err := r.Authorize(ctx, "admin@x.com", "anyone@x.com", 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"anyone@x.com"}, res.AuthorizedEmails)
	assert.Zero(t, rosters.calls, "admins bypass roster membership")

	// No implicit everything query.
	res, err = r.Authorize(ctx, "admin@x.com", "", 14)
	require.NoError(t, err)
	assert.True(t, res.Denied())
}

func TestUnknownRoleDefaultsToAthlete(t *testing.T) {
	dir, _, r := newFixture()
	dir.roleByEmail["new@x.com"] = "" // no row in the roles table

	res, err := r.Authorize(context.Background(), "new@x.com", "", 14)
	require.NoError(t, err)
	assert.Equal(t, []string{"new@x.com"}, res.AuthorizedEmails)
}

// Infrastructure failures must surface as errors, never as denials.
func TestLookupFailuresAreErrorsNotDenials(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")

	dir, _, r := newFixture()
	dir.roleErr = boom
	_, err := r.Authorize(ctx, "jane@x.com", "a@x.com", 14)
	assert.ErrorIs(t, err, boom)

	dir, _, r = newFixture()
	dir.coachErr = boom
	_, err = r.Authorize(ctx, "jane@x.com", "a@x.com", 14)
	assert.ErrorIs(t, err, boom)

	_, rosters, r2 := newFixture()
	rosters.err = boom
	_, err = r2.Authorize(ctx, "jane@x.com", "a@x.com", 14)
	assert.ErrorIs(t, err, boom)
}
