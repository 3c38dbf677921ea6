package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterFromQuery_RepeatedShortcut(t *testing.T) {
	values, err := url.ParseQuery("status=geplant&status=abgeschlossen&status=&category=3")
	require.NoError(t, err)

	f := ParseFilterFromQuery(values)
	assert.Equal(t, "geplant,abgeschlossen", f.Filter["status"])
	assert.Equal(t, []string{"geplant", "abgeschlossen"}, FilterStrings(f, "status"))
	assert.Equal(t, uint64(3), FilterUint64(f, "category_id"))
}

func TestParseFilterFromQuery_ShortcutAndBracketMerge(t *testing.T) {
	values, err := url.ParseQuery("status=geplant&filter[status]=ausstehend&filter[status]=in_bearbeitung")
	require.NoError(t, err)

	f := ParseFilterFromQuery(values)
	assert.ElementsMatch(t, []string{"geplant", "ausstehend", "in_bearbeitung"}, FilterStrings(f, "status"))
}

func TestParseFilterFromQuery_SkipsEmpty(t *testing.T) {
	values, err := url.ParseQuery("status=&search=&person=7&search=Leiter")
	require.NoError(t, err)

	f := ParseFilterFromQuery(values)
	_, ok := f.Filter["status"]
	assert.False(t, ok)
	assert.Equal(t, "Leiter", f.Search)
	assert.Equal(t, uint64(7), FilterUint64(f, "person_id"))
}

func TestParseFilterFromQuery_Pagination(t *testing.T) {
	values, err := url.ParseQuery("limit=500&page=3")
	require.NoError(t, err)

	f := ParseFilterFromQuery(values)
	assert.Equal(t, MaxLimit, f.Limit)
	assert.Equal(t, 3, f.Page)
	assert.Equal(t, 2*MaxLimit, f.Offset)
}
