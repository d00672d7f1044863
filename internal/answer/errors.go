package answer

import (
	"fmt"
	"strings"
)

const (
	openErrorFmt = "Open Error : %s\nPlease check manually"
	execErrorFmt = "Exec Error : Please check manually\n%v"
)

// OpenError means the submission could not be read, unpacked or decoded.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ExecError means the runtime could not be run for one test case.
type ExecError struct {
	Args  []string
	Input string
	Err   error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("exec [%s]: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }
