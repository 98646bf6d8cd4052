package utils

import (
	"fmt"
)

func ConvertPanicValueToError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}

	return fmt.Errorf("%#v", v)
}

// Recover calls fn and converts a panic into an error, it is meant for the outer boundary of the program
// where a fatal error must be reported instead of crashing the process.
func Recover(fn func() error) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = ConvertPanicValueToError(e)
		}
	}()
	return fn()
}
