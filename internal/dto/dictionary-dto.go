package dto

import "github.com/aarondl/null/v8"

// DictionaryDTO - тело запроса для категорий и мест хранения.
type DictionaryDTO struct {
	Name        string      `json:"name" validate:"required,max=150"`
	Description null.String `json:"description" validate:"omitempty,max=1000"`
}

func (d DictionaryDTO) DescriptionPtr() *string {
	return nullStringPtr(d.Description)
}
