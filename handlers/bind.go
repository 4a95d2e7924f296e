package handlers

import (
	"errors"
	"reflect"
	"strings"

	"vehiclecare/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Report binding failures by JSON field name rather than Go field name.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON binds the body against its binding tags; on failure it writes a
// validation error and returns false.
func bindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		writeServiceError(c, booking.WrapError(booking.ErrValidation, "invalid request body", err))
		return false
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describeFieldError(fe))
	}
	writeServiceError(c, booking.WrapError(booking.ErrValidation, strings.Join(problems, "; "), err))
	return false
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " needs at least " + fe.Param() + " entry"
	}
	return fe.Field() + " is invalid"
}
