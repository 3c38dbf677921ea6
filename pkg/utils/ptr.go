package utils

import (
	"strconv"
)

func SafeDeref[T any](ptr *T) T {
	if ptr == nil {
		var zero T
		return zero
	}
	return *ptr
}

func DiffPtr[T comparable](oldVal, newVal *T) bool {
	if oldVal == nil && newVal == nil {
		return false
	}
	if oldVal == nil || newVal == nil {
		return true
	}
	return *oldVal != *newVal
}

func ToPtr[T any](v T) *T {
	return &v
}

func PtrToString(v *uint64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(*v, 10)
}

func ParseUint64Slice(s []string) ([]uint64, error) {
	if len(s) == 0 {
		return nil, nil
	}

	result := make([]uint64, 0, len(s))
	for _, v := range s {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, err
		}
		result = append(result, id)
	}

	return result, nil
}
