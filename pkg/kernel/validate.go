package kernel

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
	})
	return validate
}

// Validate checks v's struct tags and reports every failing field as a
// validation error detail keyed by its json name.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errx.Wrap(err, "invalid request", errx.TypeValidation)
	}

	out := errx.Validation("invalid request")
	for _, fe := range verrs {
		out.WithDetail(fe.Field(), rule(fe))
	}
	return out
}

func rule(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}
