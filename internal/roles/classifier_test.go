package roles

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubDirectory struct {
	roleByEmail  map[string]string
	coachByEmail map[string]string
	roleErr      error
	coachErr     error
	roleCalls    int
}

func (d *stubDirectory) RoleFor(_ context.Context, email string) (string, error) {
	d.roleCalls++
	if d.roleErr != nil {
		return "", d.roleErr
	}
	return d.roleByEmail[email], nil
}

func (d *stubDirectory) CoachNameFor(_ context.Context, email string) (string, error) {
	if d.coachErr != nil {
		return "", d.coachErr
	}
	return d.coachByEmail[email], nil
}

type mapCache struct {
	m map[string]Classification
}

func newMapCache() *mapCache { return &mapCache{m: make(map[string]Classification)} }

func (c *mapCache) Get(_ context.Context, email string) (Classification, bool) {
	cl, ok := c.m[email]
	return cl, ok
}

func (c *mapCache) Set(_ context.Context, email string, cl Classification) { c.m[email] = cl }

func (c *mapCache) Invalidate(_ context.Context, email string) { delete(c.m, email) }

func TestClassifyRoles(t *testing.T) {
	dir := &stubDirectory{
		roleByEmail: map[string]string{
			"coach@x.com": "coach",
			"hy@x.com":    "hybrid",
			"admin@x.com": "admin",
			"ath@x.com":   "athlete",
		},
		coachByEmail: map[string]string{
			"coach@x.com": "Jane Doe",
			"hy@x.com":    "Mark Lee",
		},
	}
	c := NewClassifier(dir, newMapCache())
	ctx := context.Background()

	tests := []struct {
		email string
		want  Classification
	}{
		{"coach@x.com", Classification{Role: Coach, CoachName: "Jane Doe"}},
		{"hy@x.com", Classification{Role: Hybrid, CoachName: "Mark Lee"}},
		{"admin@x.com", Classification{Role: Admin}},
		{"ath@x.com", Classification{Role: Athlete}},
		{"unknown@x.com", Classification{Role: Athlete}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(ctx, tt.email), tt.email)
	}
}

func TestClassifyNormalizesEmail(t *testing.T) {
	dir := &stubDirectory{roleByEmail: map[string]string{"coach@x.com": "admin"}}
	c := NewClassifier(dir, newMapCache())

	got := c.Classify(context.Background(), "  Coach@X.com ")
	assert.Equal(t, Admin, got.Role)
}

func TestClassifyUsesCache(t *testing.T) {
	dir := &stubDirectory{roleByEmail: map[string]string{"admin@x.com": "admin"}}
	c := NewClassifier(dir, newMapCache())
	ctx := context.Background()

	c.Classify(ctx, "admin@x.com")
	c.Classify(ctx, "admin@x.com")
	assert.Equal(t, 1, dir.roleCalls)

	c.Invalidate(ctx, "admin@x.com")
	c.Classify(ctx, "admin@x.com")
	assert.Equal(t, 2, dir.roleCalls)
}

func TestClassifyRoleFailureDefaultsToAthleteUncached(t *testing.T) {
	dir := &stubDirectory{
		roleByEmail: map[string]string{"admin@x.com": "admin"},
		roleErr:     errors.New("timeout"),
	}
	cache := newMapCache()
	c := NewClassifier(dir, cache)
	ctx := context.Background()

	got := c.Classify(ctx, "admin@x.com")
	assert.Equal(t, Classification{Role: Athlete}, got)
	assert.Empty(t, cache.m, "degraded results must not stick in the cache")

	// Once the directory recovers, the real role comes back.
	dir.roleErr = nil
	got = c.Classify(ctx, "admin@x.com")
	assert.Equal(t, Admin, got.Role)
}

func TestClassifyCoachNameFailureKeepsRole(t *testing.T) {
	dir := &stubDirectory{
		roleByEmail: map[string]string{"coach@x.com": "coach"},
		coachErr:    errors.New("timeout"),
	}
	cache := newMapCache()
	c := NewClassifier(dir, cache)

	got := c.Classify(context.Background(), "coach@x.com")
	assert.Equal(t, Classification{Role: Coach, CoachName: ""}, got)
	assert.Empty(t, cache.m)
}

func TestParseUnknownRoleIsAthlete(t *testing.T) {
	assert.Equal(t, Athlete, Parse(""))
	assert.Equal(t, Athlete, Parse("superuser"))
	assert.Equal(t, Hybrid, Parse("hybrid"))
	assert.Equal(t, Coach, Parse("coach"))
	assert.Equal(t, Admin, Parse("admin"))
}

func TestHasCohort(t *testing.T) {
	assert.False(t, Athlete.HasCohort())
	assert.True(t, Coach.HasCohort())
	assert.True(t, Hybrid.HasCohort())
	assert.False(t, Admin.HasCohort())
}
