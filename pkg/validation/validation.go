package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SalonBookingService/pkg/types"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator возвращает общий валидатор с зарегистрированными тегами:
//
//	hhmm     - строка HH:MM
//	apptdate - дата записи, приводимая к YYYY-MM-DDTHH:mm
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return types.TimeString(fl.Field().String()).Validate() == nil
		})
		_ = v.RegisterValidation("apptdate", func(fl validator.FieldLevel) bool {
			_, err := types.NormalizeDateTime(fl.Field().String())
			return err == nil
		})
		instance = v
	})
	return instance
}

// Struct валидирует структуру и возвращает ошибку с перечнем полей
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
