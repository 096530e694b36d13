package http

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usageCodePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]{1,15}$`)
	registerOnce     sync.Once
	registerErr      error
)

// RegisterValidators adds the custom binding tags used by the request types.
// Safe to call more than once; every call returns the first outcome.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("usagecode", func(fl validator.FieldLevel) bool {
			return usageCodePattern.MatchString(fl.Field().String())
		}); err != nil {
			registerErr = fmt.Errorf("register usagecode validator: %w", err)
			return
		}
		if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		}); err != nil {
			registerErr = fmt.Errorf("register notblank validator: %w", err)
		}
	})
	return registerErr
}
