package handlers

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/provdelegation/portal/api/internal/models"
)

var registerOnce sync.Once

// RegisterValidators adds the "month" tag to gin's validator and makes
// validation errors report JSON or form field names. Safe to call repeatedly.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return ""
		})

		// Error is only returned for an empty tag or a nil func.
		_ = v.RegisterValidation("month", validateMonth)
	})
}

// validateMonth accepts two-digit months "01" through "12".
func validateMonth(fl validator.FieldLevel) bool {
	return models.Period{Month: fl.Field().String(), Year: models.MinYear}.Validate() == nil
}
