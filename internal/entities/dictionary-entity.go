package entities

import "geraetewart/pkg/types"

// DictionaryEntry - строка простого справочника (категории, места хранения).
type DictionaryEntry struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`

	types.BaseEntity
}

type (
	Category = DictionaryEntry
	Location = DictionaryEntry
)
