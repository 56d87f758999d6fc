// db/errors.go
package db

import (
	"errors"
	"fmt"

	"Gin_postgres_redis_machine_tracker/idgen"

	"gorm.io/gorm"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

// Error 业务错误，消息原样返回给调用方
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns 0 for errors that are not business errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// storageErr turns driver errors into business errors; what names the record.
// Unique violations are the authoritative conflict signal, pre-checks only
// give a nicer message.
func storageErr(err error, what string) error {
	var be *Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &be):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict("%s already exists", what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return NotFound("a record referenced by %s does not exist", what)
	case errors.Is(err, idgen.ErrUnknownBranch):
		return Validation("%s", err.Error())
	}
	return fmt.Errorf("%s: %w", what, err)
}
