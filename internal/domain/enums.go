package domain

// AuthStep is the position inside the two-step login wizard.
// credentials -> otp -> done; registration drops the client back to credentials.
type AuthStep string

const (
	StepCredentials AuthStep = "credentials"
	StepOTP         AuthStep = "otp"
	StepDone        AuthStep = "done"
)

// CanAdvance reports whether moving from s to next is a legal transition.
func (s AuthStep) CanAdvance(next AuthStep) bool {
	switch s {
	case StepCredentials:
		return next == StepOTP
	case StepOTP:
		return next == StepDone
	default:
		return false
	}
}

// AuthEvent names the outcome the client switches its screen on.
type AuthEvent string

const (
	EventOTPRequired AuthEvent = "otp_required"
	EventLogin       AuthEvent = "login"
	EventRegistered  AuthEvent = "registered"
	EventLogout      AuthEvent = "logout"
)

type AccountStatus string

const (
	AccountActive  AccountStatus = "active"
	AccountBlocked AccountStatus = "blocked"
)
