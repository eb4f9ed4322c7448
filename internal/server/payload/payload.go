// Package payload holds the request schemas shared by the validation
// middleware and the handlers. Validation tags run in the middleware;
// handlers only bind.
package payload

type Login struct {
	Phone    string `json:"phone" validate:"required,in_mobile"`
	Password string `json:"password" validate:"required"`
}

type LoginVerify struct {
	FlowID string `json:"flow_id" validate:"required,uuid4"`
	OTP    string `json:"otp" validate:"required,numeric,min=4,max=8"`
}

type LoginResend struct {
	FlowID string `json:"flow_id" validate:"required,uuid4"`
}

type Register struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Phone    string `json:"phone" validate:"required,in_mobile"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type Refresh struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ResetRequest struct {
	Phone string `json:"phone" validate:"required,in_mobile"`
}

type ResetConfirm struct {
	FlowID      string `json:"flow_id" validate:"required,uuid4"`
	OTP         string `json:"otp" validate:"required,numeric,min=4,max=8"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

type PhoneChange struct {
	NewPhone string `json:"new_phone" validate:"required,in_mobile"`
}

type PhoneChangeVerify struct {
	FlowID string `json:"flow_id" validate:"required,uuid4"`
	OTP    string `json:"otp" validate:"required,numeric,min=4,max=8"`
}
