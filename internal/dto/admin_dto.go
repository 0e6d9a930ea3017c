package dto

import (
	"time"

	"github.com/google/uuid"
)

type AdminCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminVerifyRequest struct {
	OTPToken   string `json:"otpToken"`
	EnteredOTP string `json:"enteredOtp"`
}

type AdminResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
