package dto

import "github.com/rhwbclub/pulse-backend/internal/dashboard"

// ResolveRequest is the body of POST /api/authz/resolve. Denials come back as
// a 200 with an empty authorized_emails list, never a distinct status code.
type ResolveRequest struct {
	RequestedSubjectEmail string `json:"requested_subject_email,omitempty"`
	Season                string `json:"season"`
}

type ResolveResponse struct {
	AuthorizedEmails []string `json:"authorized_emails"`
}

// MeResponse seeds the client selection state machine.
type MeResponse struct {
	Email         string `json:"email"`
	Role          string `json:"role"`
	CoachName     string `json:"coach_name,omitempty"`
	CurrentSeason string `json:"current_season,omitempty"`
}

type SeasonResponse struct {
	SeasonNo int    `json:"season_no"`
	Label    string `json:"label"`
}

type SeasonsResponse struct {
	Seasons []SeasonResponse `json:"seasons"`
	Current *SeasonResponse  `json:"current,omitempty"`
}

type RosterEntryResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type RosterResponse struct {
	Entries    []RosterEntryResponse `json:"entries"`
	NoAthletes bool                  `json:"no_athletes"`
}

type CoachesResponse struct {
	Coaches []string `json:"coaches"`
}

// DashboardResponse is the coalesced screen state for one resolved subject.
// Per-widget errors are flags, not payloads; only the primary scores failure
// surfaces as a screen-level error (and then as HTTP 500, not here).
type DashboardResponse struct {
	Season  string `json:"season"`
	Subject string `json:"subject"`

	Scores      []dashboard.ScoreRow `json:"scores"`
	ScoresEmpty bool                 `json:"scores_empty"`

	Cumulative      dashboard.Cumulative `json:"cumulative"`
	CumulativeError bool                 `json:"cumulative_error"`

	Activity      []dashboard.ActivityRow `json:"activity"`
	ActivityEmpty bool                    `json:"activity_empty"`
	ActivityError bool                    `json:"activity_error"`

	Feedback      []dashboard.FeedbackRow `json:"feedback"`
	FeedbackEmpty bool                    `json:"feedback_empty"`
	FeedbackError bool                    `json:"feedback_error"`
}

type VeerFeedbackRequest struct {
	MessageID         string `json:"message_id"`
	Feedback          string `json:"feedback"`
	UserQuestion      string `json:"user_question,omitempty"`
	AssistantResponse string `json:"assistant_response,omitempty"`
	Comment           string `json:"comment,omitempty"`
}
