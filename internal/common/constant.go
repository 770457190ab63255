package common

// SessionCookieName is the default name of the cookie carrying the session token.
const SessionCookieName = "lingobook_session"

// ReadyLearning and ReadyLearned are the two values of the ready flag on
// phrases and vocabulary items.
const (
	ReadyLearning = 0
	ReadyLearned  = 1
)
