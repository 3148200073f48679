package roles

// Role is the closed set of dashboard roles. Keeping this a tagged type (not
// free-form strings) means the client state machine and the server resolver
// branch over the same four values.
type Role int

const (
	Athlete Role = iota
	Coach
	Hybrid
	Admin
)

func (r Role) String() string {
	switch r {
	case Coach:
		return "coach"
	case Hybrid:
		return "hybrid"
	case Admin:
		return "admin"
	default:
		return "athlete"
	}
}

// Parse maps a stored role string to a Role. Unknown or empty values are
// athletes; absence of a role row is not an error.
func Parse(s string) Role {
	switch s {
	case "coach":
		return Coach
	case "hybrid":
		return Hybrid
	case "admin":
		return Admin
	default:
		return Athlete
	}
}

// HasCohort reports whether the role can own a roster of assigned runners.
func (r Role) HasCohort() bool {
	return r == Coach || r == Hybrid
}
