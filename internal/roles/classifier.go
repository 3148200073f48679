package roles

import (
	"context"
	"log/slog"
	"strings"
)

// Classification is the session-scoped result of resolving an identity:
// exactly one role and, for coach-like roles, the coach display name.
type Classification struct {
	Role      Role   `json:"role"`
	CoachName string `json:"coach_name,omitempty"`
}

// Directory answers the two identity lookups the classifier and the
// authorization resolver need. Implementations must treat a missing row as
// ("", nil), not an error.
type Directory interface {
	// RoleFor returns the stored role string for an email, "" when absent.
	RoleFor(ctx context.Context, email string) (string, error)
	// CoachNameFor returns the coach display name for a coach email, "" when
	// the email is not an active coach.
	CoachNameFor(ctx context.Context, email string) (string, error)
}

// SessionCache holds classifications for the session lifetime. Entries are
// invalidated on sign-out or identity change.
type SessionCache interface {
	Get(ctx context.Context, email string) (Classification, bool)
	Set(ctx context.Context, email string, cl Classification)
	Invalidate(ctx context.Context, email string)
}

type Classifier struct {
	dir   Directory
	cache SessionCache
}

func NewClassifier(dir Directory, cache SessionCache) *Classifier {
	return &Classifier{dir: dir, cache: cache}
}

// Classify resolves an email to its role and coach display name. Lookup
// failures degrade: a role failure yields athlete, a coach-name failure keeps
// the role with an empty name so roster features render empty instead of
// failing the session. Degraded results are not cached.
func (c *Classifier) Classify(ctx context.Context, email string) Classification {
	email = Normalize(email)

	if cl, ok := c.cache.Get(ctx, email); ok {
		return cl
	}

	roleStr, err := c.dir.RoleFor(ctx, email)
	if err != nil {
		slog.Warn("role lookup failed, defaulting to athlete", "user_email", email, "error", err)
		return Classification{Role: Athlete}
	}

	cl := Classification{Role: Parse(roleStr)}
	if cl.Role.HasCohort() {
		name, err := c.dir.CoachNameFor(ctx, email)
		if err != nil {
			slog.Warn("coach name lookup failed, roster degrades to empty", "user_email", email, "error", err)
			return cl
		}
		cl.CoachName = name
	}

	c.cache.Set(ctx, email, cl)
	return cl
}

// Invalidate drops the cached classification, used on sign-out and identity
// change.
func (c *Classifier) Invalidate(ctx context.Context, email string) {
	c.cache.Invalidate(ctx, Normalize(email))
}

// Normalize lowercases and trims an email; emails are compared lowercased
// everywhere.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
