package app

import (
	"fmt"

	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 给 gin 的 binding 引擎注册状态枚举校验
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"machine_status": func(fl validator.FieldLevel) bool {
			return models.MachineStatus(fl.Field().String()).Valid()
		},
		"transfer_status": func(fl validator.FieldLevel) bool {
			return models.TransferStatus(fl.Field().String()).Valid()
		},
		"po_status": func(fl validator.FieldLevel) bool {
			return models.POStatus(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}
