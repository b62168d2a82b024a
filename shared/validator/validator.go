package validator

import (
	"donorlink/shared/constant"
	"donorlink/shared/failure"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
)

var (
	validate *val.Validate

	bloodTypePattern = regexp.MustCompile(`^[1-4][+-]$`)
	hourSlotPattern  = regexp.MustCompile(`^([01]\d|2[0-3]):00$`)
)

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	custom := map[string]val.Func{
		"empty": func(fl val.FieldLevel) bool {
			return fl.Field().IsZero()
		},
		// bloodtype accepts the compact group/rhesus notation: 1+ .. 4-.
		"bloodtype": func(fl val.FieldLevel) bool {
			return bloodTypePattern.MatchString(fl.Field().String())
		},
		// hourslot accepts whole-hour slots as produced by the slot generator.
		"hourslot": func(fl val.FieldLevel) bool {
			return hourSlotPattern.MatchString(fl.Field().String())
		},
		"isodate": func(fl val.FieldLevel) bool {
			_, err := time.Parse(constant.DateOnlyFormat, fl.Field().String())

			return err == nil
		},
	}

	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
