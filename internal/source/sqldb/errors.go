package sqldb

import (
	"fmt"
	"strings"
)

// ConnectError reports that the database could not be reached. Target is
// the redacted connection string; it is not repeated in Error.
type ConnectError struct {
	Target string
	Err    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// QueryError reports a failed inspection step.
type QueryError struct {
	Step string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// scrubbedError masks a password that a driver echoed back in its message.
type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }

func (e *scrubbedError) Unwrap() error { return e.err }

func scrub(err error, secret string) error {
	if err == nil || secret == "" || !strings.Contains(err.Error(), secret) {
		return err
	}
	return &scrubbedError{msg: strings.ReplaceAll(err.Error(), secret, "xxxxx"), err: err}
}
