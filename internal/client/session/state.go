package session

import "github.com/dulhara79/Seasonal-Travel-Recommender/internal/client/models"

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
	// Expiring is held while a forced logout is being applied.
	Expiring
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Expiring:
		return "expiring"
	}
	return "unknown"
}

// Reason says why a session ended.
type Reason string

const (
	ReasonLogout         Reason = "logout"
	ReasonUnauthorized   Reason = "unauthorized"
	ReasonInactivity     Reason = "inactivity"
	ReasonIdentity       Reason = "identity_failed"
	ReasonAccountDeleted Reason = "account_deleted"
)

type EventKind int

const (
	LoggedIn EventKind = iota
	LoggedOut
)

// Event is delivered to subscribers after every completed transition into
// or out of Authenticated. Navigation is the subscriber's business.
type Event struct {
	Kind   EventKind
	User   *models.User
	Reason Reason
}
