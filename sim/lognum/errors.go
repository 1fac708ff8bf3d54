package lognum

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError via errors.Is.
	ErrParse = errors.New("lognum: malformed number")
	// ErrDomain matches every *DomainError via errors.Is.
	ErrDomain = errors.New("lognum: value outside the operation's domain")
)

// ParseError reports text that is not a valid LogNum.
type ParseError struct {
	Input string
	Err   error // underlying strconv error, may be nil
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("lognum: cannot parse %q", e.Input)
	}
	return fmt.Sprintf("lognum: cannot parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// DomainError reports an operation applied outside its mathematical domain,
// such as a fractional power of a negative number or a geometric curve with
// ratio exactly 1.
type DomainError struct {
	Op     string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *DomainError) Is(target error) bool { return target == ErrDomain }
