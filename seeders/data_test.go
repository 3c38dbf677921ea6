package seeders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedData_References(t *testing.T) {
	categories := make(map[string]bool)
	for _, c := range categoriesData {
		categories[c] = true
	}
	locations := make(map[string]bool)
	for _, l := range locationsData {
		locations[l] = true
	}
	emails := make(map[string]bool)
	for _, p := range personsData {
		if p.Email != "" {
			emails[p.Email] = true
		}
	}

	inventory := make(map[string]bool)
	barcodes := make(map[string]bool)
	for _, e := range equipmentData {
		assert.False(t, inventory[e.InventoryNumber], "duplicate inventory number %s", e.InventoryNumber)
		assert.False(t, barcodes[e.Barcode], "duplicate barcode %s", e.Barcode)
		inventory[e.InventoryNumber] = true
		barcodes[e.Barcode] = true

		assert.True(t, categories[e.Category], "%s: unknown category %q", e.InventoryNumber, e.Category)
		assert.True(t, locations[e.Location], "%s: unknown location %q", e.InventoryNumber, e.Location)
		if e.Responsible != "" {
			assert.True(t, emails[e.Responsible], "%s: unknown person %q", e.InventoryNumber, e.Responsible)
		}
	}

	for _, tpl := range templatesData {
		if tpl.Category != "" {
			assert.True(t, categories[tpl.Category], "%s: unknown category %q", tpl.Name, tpl.Category)
		}
		if tpl.IntervalMonths != nil {
			assert.Positive(t, *tpl.IntervalMonths, tpl.Name)
		}
	}
}
