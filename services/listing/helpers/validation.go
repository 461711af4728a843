package helpers

import (
	"reflect"
	"strings"
	"sync"

	model "listing-marketplace/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the listing rules to gin's validator. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("listingtype", validListingType)
		// report json names in validation errors
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

func validListingType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case model.TypeSale, model.TypeRent:
		return true
	default:
		return false
	}
}
