package roster

import (
	"context"
	"sort"
	"time"

	"github.com/rhwbclub/pulse-backend/internal/roles"
)

// Entry is one runner on a coach's roster for a season.
type Entry struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Store is the opaque relational source behind the fetcher.
type Store interface {
	// RunnersForCoach calls fetch_runners_for_coach(season_no, coach_name).
	RunnersForCoach(ctx context.Context, seasonNo int, coachName string) ([]Entry, error)
	// ActiveCoaches lists active coach display names, independent of season.
	ActiveCoaches(ctx context.Context) ([]string, error)
}

// Fetcher returns the athletes visible to a coach for a season. From the
// caller's point of view it is a pure function of (role, season, coachName).
type Fetcher struct {
	store   Store
	timeout time.Duration
}

func NewFetcher(store Store, timeout time.Duration) *Fetcher {
	return &Fetcher{store: store, timeout: timeout}
}

// Fetch returns the roster sorted by display name and de-duplicated by email.
// Athletes have no roster concept; an empty coach name returns nil without
// querying.
func (f *Fetcher) Fetch(ctx context.Context, role roles.Role, seasonNo int, coachName string) ([]Entry, error) {
	if role == roles.Athlete {
		return nil, nil
	}
	if coachName == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	entries, err := f.store.RunnersForCoach(ctx, seasonNo, coachName)
	if err != nil {
		return nil, err
	}
	return normalize(entries), nil
}

// Coaches lists active coach display names for the admin two-step flow.
func (f *Fetcher) Coaches(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	names, err := f.store.ActiveCoaches(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// normalize sorts by display name (email as tiebreaker) and drops duplicate
// emails, keeping the first occurrence, so identical inputs always yield the
// same ordered list.
func normalize(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		e.Email = roles.Normalize(e.Email)
		if e.Email == "" || seen[e.Email] {
			continue
		}
		seen[e.Email] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].Email < out[j].Email
	})
	return out
}
