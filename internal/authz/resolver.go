// Package authz is the server-side trust boundary: every privileged read of
// subject-specific data goes through Resolver.Authorize before querying,
// regardless of what the client UI offered the user.
package authz

import (
	"context"

	"github.com/rhwbclub/pulse-backend/internal/roles"
	"github.com/rhwbclub/pulse-backend/internal/roster"
)

// Result carries the definitive set of subject emails the caller may query.
// Every denial is an empty set — "wrong role" and "not your athlete" must be
// indistinguishable to the caller.
type Result struct {
	AuthorizedEmails []string `json:"authorized_emails"`
}

func (r Result) Denied() bool { return len(r.AuthorizedEmails) == 0 }

func denied() Result { return Result{AuthorizedEmails: []string{}} }

func allow(emails ...string) Result { return Result{AuthorizedEmails: emails} }

// RosterSource is the assigned-runner lookup; *roster.Fetcher satisfies it.
type RosterSource interface {
	Fetch(ctx context.Context, role roles.Role, seasonNo int, coachName string) ([]roster.Entry, error)
}

// Resolver makes per-request authorization decisions. It is stateless: the
// caller's role is re-derived from the directory on every call (client role
// claims are never trusted) and decisions are never cached, so a transient
// lookup failure can never stick as a denial.
type Resolver struct {
	dir     roles.Directory
	rosters RosterSource
}

func NewResolver(dir roles.Directory, rosters RosterSource) *Resolver {
	return &Resolver{dir: dir, rosters: rosters}
}

// Authorize computes the authorized subject-email set for a caller. An error
// return means an infrastructure failure (lookup or roster timeout), not a
// denial; handlers surface those as server errors, never as empty sets.
func (r *Resolver) Authorize(ctx context.Context, callerEmail, requestedSubject string, seasonNo int) (Result, error) {
	caller := roles.Normalize(callerEmail)
	requested := roles.Normalize(requestedSubject)

	roleStr, err := r.dir.RoleFor(ctx, caller)
	if err != nil {
		return Result{}, err
	}

	switch roles.Parse(roleStr) {
	case roles.Athlete:
		if requested == "" || requested == caller {
			return allow(caller), nil
		}
		return denied(), nil

	case roles.Hybrid:
		// Self requests short-circuit before any roster lookup, so a hybrid
		// coach whose own email is not on their roster still sees themselves.
		if requested == "" || requested == caller {
			return allow(caller), nil
		}
		return r.cohort(ctx, caller, requested, seasonNo)

	case roles.Admin:
		// Blanket visibility, but only one explicit subject at a time; no
		// implicit "all athletes" query.
		if requested == "" {
			return denied(), nil
		}
		return allow(requested), nil

	case roles.Coach:
		return r.cohort(ctx, caller, requested, seasonNo)
	}

	return denied(), nil
}

// cohort resolves the caller's coach display name, fetches the assigned
// runner set for the season and checks the requested subject against it. An
// omitted subject returns the full assigned set (bulk reads only).
func (r *Resolver) cohort(ctx context.Context, caller, requested string, seasonNo int) (Result, error) {
	coachName, err := r.dir.CoachNameFor(ctx, caller)
	if err != nil {
		return Result{}, err
	}
	if coachName == "" {
		return denied(), nil
	}

	entries, err := r.rosters.Fetch(ctx, roles.Coach, seasonNo, coachName)
	if err != nil {
		return Result{}, err
	}

	if requested == "" {
		emails := make([]string, len(entries))
		for i, e := range entries {
			emails[i] = e.Email
		}
		if len(emails) == 0 {
			return denied(), nil
		}
		return allow(emails...), nil
	}

	for _, e := range entries {
		if e.Email == requested {
			return allow(requested), nil
		}
	}
	return denied(), nil
}
