package preview

import (
	"errors"
	"fmt"
)

// ErrListenerSetup marks a failure to register the selection handler.
// The session does not retry.
var ErrListenerSetup = errors.New("selection listener setup failed")

// Stage names the startup step an InitError came from.
type Stage string

const (
	StageTable  Stage = "table"
	StageFields Stage = "fields"
)

// InitError is a startup failure; the session is unusable until restarted.
type InitError struct {
	Stage Stage
	Err   error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initialization failed (%s): %v", e.Stage, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
