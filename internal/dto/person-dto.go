package dto

import (
	"geraetewart/internal/entities"

	"github.com/aarondl/null/v8"
)

type PersonDTO struct {
	FirstName string      `json:"first_name" validate:"required,max=100"`
	LastName  string      `json:"last_name" validate:"required,max=100"`
	Email     null.String `json:"email" validate:"omitempty,custom_email"`
	Phone     null.String `json:"phone" validate:"omitempty,max=50"`
	Role      null.String `json:"role" validate:"omitempty,max=100"`
	IsActive  *bool       `json:"is_active"`
}

func (d PersonDTO) ToEntity() entities.Person {
	active := true
	if d.IsActive != nil {
		active = *d.IsActive
	}
	return entities.Person{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     nullStringPtr(d.Email),
		Phone:     nullStringPtr(d.Phone),
		Role:      nullStringPtr(d.Role),
		IsActive:  active,
	}
}
