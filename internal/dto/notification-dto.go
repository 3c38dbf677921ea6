package dto

import "github.com/aarondl/null/v8"

type TestNotificationDTO struct {
	Recipient null.String `json:"recipient" validate:"omitempty,custom_email"`
	Message   null.String `json:"message" validate:"omitempty,max=2000"`
}

type DigestResultDTO struct {
	Sent    int      `json:"sent"`
	Skipped []string `json:"skipped"`
}
