package controllers

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// updateFields keeps only allowed columns from a decoded JSON body. JSON
// numbers arrive as float64, so id columns are converted to uint.
func updateFields(body map[string]any, allowed []string, idColumns ...string) (map[string]any, error) {
	ids := make(map[string]bool, len(idColumns))
	for _, k := range idColumns {
		ids[k] = true
	}
	out := make(map[string]any)
	for _, k := range allowed {
		v, ok := body[k]
		if !ok {
			continue
		}
		if ids[k] {
			f, isNum := v.(float64)
			if !isNum || f < 1 || f != math.Trunc(f) {
				return nil, fmt.Errorf("%s must be a positive integer", k)
			}
			v = uint(f)
		}
		out[k] = v
	}
	return out, nil
}

func asValidationErrors(err error) (validator.ValidationErrors, bool) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
