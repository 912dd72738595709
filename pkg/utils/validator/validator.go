// Package validator wraps go-playground/validator with JSON field names,
// tutor-specific rules, and English/Korean error messages. It also serves as
// gin's binding engine so `binding:"..."` tags use the same rules.
package validator

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ko"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Language constants for i18n support.
const (
	LangEN = "en"
	LangKO = "ko"
)

// Validator wraps go-playground/validator with additional features.
type Validator struct {
	validate *validator.Validate
	uni      *ut.UniversalTranslator
	trans    map[string]ut.Translator
	mu       sync.RWMutex
}

// New creates a new Validator instance with default configuration.
func New() *Validator {
	v := &Validator{
		validate: validator.New(),
		trans:    make(map[string]ut.Translator),
	}
	v.validate.SetTagName("binding")

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	enLocale := en.New()
	v.uni = ut.New(enLocale, enLocale, ko.New())

	enTrans, _ := v.uni.GetTranslator(LangEN)
	_ = en_translations.RegisterDefaultTranslations(v.validate, enTrans)
	v.trans[LangEN] = enTrans

	koTrans, _ := v.uni.GetTranslator(LangKO)
	v.trans[LangKO] = koTrans

	v.registerCustomRules()
	v.registerTranslations()

	return v
}

// ValidateStruct implements gin's binding.StructValidator.
// Non-struct values are accepted as-is.
func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	val := reflect.ValueOf(obj)
	for val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}
	return v.validate.Struct(obj)
}

// Engine implements gin's binding.StructValidator.
func (v *Validator) Engine() any {
	return v.validate
}

// Validate validates a struct and returns translated validation errors, or nil.
func (v *Validator) Validate(s interface{}, lang string) *ValidationErrors {
	return v.Translate(v.ValidateStruct(s), lang)
}

// Translate converts a validator error into ValidationErrors in the given
// language. Errors of other kinds are returned as a single "unknown" entry.
func (v *Validator) Translate(err error, lang string) *ValidationErrors {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return &ValidationErrors{
			Errors: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}},
		}
	}

	trans := v.translator(lang)
	result := &ValidationErrors{Errors: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		result.Errors = append(result.Errors, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: fe.Translate(trans),
		})
	}
	return result
}

func (v *Validator) translator(lang string) ut.Translator {
	v.mu.RLock()
	defer v.mu.RUnlock()

	lang = strings.ToLower(lang)
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if trans, ok := v.trans[lang]; ok {
		return trans
	}
	return v.trans[LangEN]
}
