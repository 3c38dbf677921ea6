package validation

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

type equipmentInput struct {
	Name    string      `validate:"required"`
	Status  string      `validate:"required,equipment_status"`
	Barcode null.String `validate:"omitempty,barcode"`
	Color   string      `validate:"omitempty,hex_color"`
}

func TestValidator(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		input   equipmentInput
		wantErr bool
	}{
		{"valid", equipmentInput{Name: "Atemschutzgerät", Status: "einsatzbereit", Barcode: null.StringFrom("AS-0001")}, false},
		{"null barcode skipped", equipmentInput{Name: "Schlauch", Status: "defekt"}, false},
		{"unknown status", equipmentInput{Name: "Schlauch", Status: "kaputt"}, true},
		{"bad barcode", equipmentInput{Name: "Leiter", Status: "wartung", Barcode: null.StringFrom("a b")}, true},
		{"hex color", equipmentInput{Name: "Leiter", Status: "wartung", Color: "#ff0000"}, false},
		{"bad hex color", equipmentInput{Name: "Leiter", Status: "wartung", Color: "red"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
