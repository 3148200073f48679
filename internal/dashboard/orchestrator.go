// Package dashboard fans the resolved (season, subject email) tuple out to
// the four widget reads and coalesces their loading/empty/error states into
// one screen state.
package dashboard

import (
	"context"
	"sync"
	"time"
)

// Subject is the resolved tuple the widget reads are keyed by.
type Subject struct {
	SeasonNo int
	Email    string
}

type ScoreRow struct {
	Meso      string `json:"meso"`
	QualScore string `json:"qual_score"`
}

type Cumulative struct {
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
	Present  bool    `json:"present"`
}

type ActivityRow struct {
	Meso      string `json:"meso"`
	Planned   int    `json:"planned"`
	Completed int    `json:"completed"`
}

type FeedbackRow struct {
	Meso      string    `json:"meso"`
	CoachName string    `json:"coach_name"`
	Feedback  string    `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

// Queries are the four independent widget reads. Absent rows are empty
// results, not errors.
type Queries interface {
	MesoScores(ctx context.Context, seasonNo int, email string) ([]ScoreRow, error)
	CumulativeScore(ctx context.Context, seasonNo int, email string) (Cumulative, error)
	ActivitySummary(ctx context.Context, seasonNo int, email string) ([]ActivityRow, error)
	CoachFeedback(ctx context.Context, seasonNo int, email string) ([]FeedbackRow, error)
}

// State is the coalesced screen state. Loading stays true until all four
// reads settle; Err is set only when the primary scores read fails, the
// secondary widgets fail soft into their own empty states.
type State struct {
	Epoch   uint64
	Subject Subject
	Loading bool
	Err     error

	Scores     []ScoreRow
	ScoresErr  error
	Cumulative Cumulative
	CumulativeErr error
	Activity    []ActivityRow
	ActivityErr error
	Feedback    []FeedbackRow
	FeedbackErr error
}

// Orchestrator issues the four reads concurrently and applies each result
// only if its epoch still matches the current one; results for a superseded
// subject are dropped silently.
type Orchestrator struct {
	mu      sync.Mutex
	queries Queries
	timeout time.Duration

	epoch   uint64
	settled int
	state   State
}

func New(queries Queries, timeout time.Duration) *Orchestrator {
	return &Orchestrator{queries: queries, timeout: timeout}
}

// Load starts a new epoch for the given subject. In-flight reads from earlier
// epochs keep running but their results are discarded on arrival; there is no
// network cancellation requirement, the epoch check is the ordering guarantee.
func (o *Orchestrator) Load(ctx context.Context, subject Subject) *Load {
	o.mu.Lock()
	o.epoch++
	o.settled = 0
	o.state = State{Epoch: o.epoch, Subject: subject, Loading: true}
	epoch := o.epoch
	o.mu.Unlock()

	l := &Load{Epoch: epoch, done: make(chan struct{})}

	rctx, cancel := context.WithTimeout(ctx, o.timeout)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		rows, err := o.queries.MesoScores(rctx, subject.SeasonNo, subject.Email)
		o.apply(epoch, func(s *State) { s.Scores, s.ScoresErr = rows, err })
	}()
	go func() {
		defer wg.Done()
		cum, err := o.queries.CumulativeScore(rctx, subject.SeasonNo, subject.Email)
		o.apply(epoch, func(s *State) { s.Cumulative, s.CumulativeErr = cum, err })
	}()
	go func() {
		defer wg.Done()
		rows, err := o.queries.ActivitySummary(rctx, subject.SeasonNo, subject.Email)
		o.apply(epoch, func(s *State) { s.Activity, s.ActivityErr = rows, err })
	}()
	go func() {
		defer wg.Done()
		rows, err := o.queries.CoachFeedback(rctx, subject.SeasonNo, subject.Email)
		o.apply(epoch, func(s *State) { s.Feedback, s.FeedbackErr = rows, err })
	}()
	go func() {
		wg.Wait()
		cancel()
		close(l.done)
	}()

	return l
}

// Snapshot returns the current coalesced state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) apply(epoch uint64, set func(*State)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if epoch != o.epoch {
		// Stale result from a superseded subject.
		return
	}
	set(&o.state)
	o.settled++
	if o.settled == 4 {
		o.state.Loading = false
		o.state.Err = o.state.ScoresErr
	}
}

// Load is a handle to one fan-out; Done is closed when all four reads of that
// epoch have settled, whether or not their results were applied.
type Load struct {
	Epoch uint64
	done  chan struct{}
}

func (l *Load) Done() <-chan struct{} { return l.done }
