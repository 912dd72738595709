package validator

import (
	"reflect"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

func (v *Validator) registerCustomRules() {
	_ = v.validate.RegisterValidation("notblank", validateNotBlank)
}

// validateNotBlank rejects strings that are empty after trimming whitespace.
func validateNotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

var koMessages = map[string]string{
	"required": "{0} 항목은 필수입니다",
	"notblank": "{0} 항목은 비어 있을 수 없습니다",
	"min":      "{0} 항목의 값이 너무 작습니다",
	"max":      "{0} 항목의 값이 너무 큽니다",
	"gte":      "{0} 항목은 {1} 이상이어야 합니다",
	"lte":      "{0} 항목은 {1} 이하여야 합니다",
	"oneof":    "{0} 항목은 [{1}] 중 하나여야 합니다",
}

func (v *Validator) registerTranslations() {
	registerTranslation(v.validate, v.trans[LangEN], "notblank", "{0} must not be blank")
	for tag, msg := range koMessages {
		registerTranslation(v.validate, v.trans[LangKO], tag, msg)
	}
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, message string) {
	_ = validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(tag, fe.Field(), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return t
		},
	)
}
