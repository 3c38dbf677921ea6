package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

// ShortDTO - ссылка на справочник в ответах.
type ShortDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ListResult - страница списка и общее количество для пагинации.
type ListResult[T any] struct {
	List  []T
	Total uint64
}

func nullUint64Ptr(v null.Uint64) *uint64 {
	if !v.Valid {
		return nil
	}
	id := v.Uint64
	return &id
}

func nullIntPtr(v null.Int) *int {
	if !v.Valid {
		return nil
	}
	n := v.Int
	return &n
}

func nullStringPtr(v null.String) *string {
	if !v.Valid || v.String == "" {
		return nil
	}
	s := v.String
	return &s
}

// nullDatePtr - дата уже провалидирована тегом datetime=2006-01-02.
func nullDatePtr(v null.String) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v.String)
	if err != nil {
		return nil
	}
	return &t
}
