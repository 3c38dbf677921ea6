package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	barcodeRegex  = regexp.MustCompile(`^[A-Za-z0-9\-_.]{3,64}$`)
	hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	domainRegex   = regexp.MustCompile(`^([a-zA-Z0-9-]+\.)+[a-zA-Z]{2,}$`)
)

var (
	equipmentStatuses = map[string]struct{}{
		"einsatzbereit": {}, "wartung": {}, "defekt": {}, "pruefung_faellig": {}, "ausgemustert": {},
	}
	recordStatuses = map[string]struct{}{
		"ausstehend": {}, "geplant": {}, "in_bearbeitung": {}, "abgeschlossen": {},
	}
	missionTypes = map[string]struct{}{
		"einsatz": {}, "uebung": {},
	}
	checkStates = map[string]struct{}{
		"present": {}, "missing": {}, "replaced": {}, "unchecked": {},
	}
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"barcode":          matches(barcodeRegex),
		"hex_color":        matches(hexColorRegex),
		"custom_email":     matches(emailRegex),
		"domain":           matches(domainRegex),
		"equipment_status": oneOfSet(equipmentStatuses),
		"record_status":    oneOfSet(recordStatuses),
		"mission_type":     oneOfSet(missionTypes),
		"check_state":      oneOfSet(checkStates),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func oneOfSet(set map[string]struct{}) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, ok := set[fl.Field().String()]
		return ok
	}
}
