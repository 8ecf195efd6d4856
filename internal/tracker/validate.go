package tracker

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/fentz26/taskboard/internal/models"
)

// validate is shared by input checks and by rehydration of stored records.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Enum tags used on both inputs and stored models.
	register := map[string]validator.Func{
		"difficulty":     validateDifficulty,
		"status":         validateStatus,
		"indicator_type": validateIndicatorType,
		"palette_color":  validatePaletteColor,
	}
	for tag, fn := range register {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register %s validator: %v", tag, err))
		}
	}
}

func validateDifficulty(fl validator.FieldLevel) bool {
	return models.Difficulty(fl.Field().String()).Valid()
}

func validateStatus(fl validator.FieldLevel) bool {
	return models.Status(fl.Field().String()).Valid()
}

func validateIndicatorType(fl validator.FieldLevel) bool {
	return models.IndicatorType(fl.Field().String()).Valid()
}

func validatePaletteColor(fl validator.FieldLevel) bool {
	_, ok := models.LookupColor(models.Color(fl.Field().String()))
	return ok
}

// checkStruct runs struct validation and maps failures onto ErrInvalidInput
// naming the first offending field.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed %q check (got %q)", ErrInvalidInput, fe.Field(), fe.Tag(), fmt.Sprint(fe.Value()))
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// sanitizeText trims whitespace and drops control characters other than
// newline and tab.
func sanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var b strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
