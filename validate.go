package krolik

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// FieldErrors — отображение поле → сообщение об ошибке валидации.
// Ключи берутся из json-тегов полей модели.
type FieldErrors map[string]string

// Error реализует интерфейс error.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}

	b, err := json.Marshal(fe)
	if err != nil {
		return fmt.Sprintf("validation failed (marshal: %v)", err)
	}
	return string(b)
}

// Валидатор общий для всего процесса: правила привязаны к типам,
// а не к экземплярам Producer/Consumer.
var newValidator = sync.OnceValues(func() (*validator.Validate, ut.Translator) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Имена полей в ошибках — из json-тегов, как и на проводе.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	trans, _ := uni.GetTranslator("en")

	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(fmt.Sprintf("krolik: register translations: %v", err))
	}

	return validate, trans
})

// validateStruct проверяет поля модели по тегам validate.
// Не-структуры (например json.RawMessage) пропускаются без проверки.
func validateStruct(msg any) error {
	v := reflect.ValueOf(msg)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("message is nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	validate, trans := newValidator()

	err := validate.Struct(v.Interface())
	if err == nil {
		return nil
	}

	validateErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(FieldErrors, len(validateErrs))
	for _, fe := range validateErrs {
		fields[fe.Field()] = fe.Translate(trans)
	}

	return fields
}
