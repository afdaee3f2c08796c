package dialect

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUmbrella reports an umbrella path that is not a registered syntax.
	ErrInvalidUmbrella = errors.New("no valid target syntax")
	// ErrInvalidDialect reports a dialect path that is not a registered syntax.
	ErrInvalidDialect = errors.New("no valid syntax")
	// ErrMalformedScope reports an umbrella scope with fewer than two segments.
	ErrMalformedScope = errors.New("scope needs at least two segments")
)

// Role names which argument of a patch an InvalidPathError refers to.
type Role uint8

const (
	RoleUmbrella Role = iota + 1
	RoleDialect
)

func (r Role) String() string {
	switch r {
	case RoleUmbrella:
		return "umbrella"
	case RoleDialect:
		return "dialect"
	default:
		return "unknown"
	}
}

// InvalidPathError is returned when a path does not resolve to a syntax.
type InvalidPathError struct {
	Role Role
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%q is %s", e.Path, e.sentinel())
}

// Unwrap lets errors.Is match ErrInvalidUmbrella or ErrInvalidDialect.
func (e *InvalidPathError) Unwrap() error {
	return e.sentinel()
}

func (e *InvalidPathError) sentinel() error {
	if e.Role == RoleUmbrella {
		return ErrInvalidUmbrella
	}
	return ErrInvalidDialect
}
