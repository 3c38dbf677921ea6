package entities

import (
	"strings"

	"geraetewart/pkg/types"
)

type Person struct {
	ID        uint64  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Role      *string `json:"role"`
	IsActive  bool    `json:"is_active"`

	types.BaseEntity
}

func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
