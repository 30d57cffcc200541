package cli

// Process exit codes
const (
	ExitOK          = 0
	ExitConfig      = 1
	ExitRowErrors   = 2
	ExitInterrupted = 130
)

// ExitError carries a process exit code up to main
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}
