package view

// Status is the lifecycle of a controller's data.
type Status int

const (
	StatusLoading Status = iota
	StatusReady
	StatusFailed
)

// State is what a page shows about its data: still loading, ready, or failed
// with a message. A failed state may offer a retry link and a prompt to log in again.
type State struct {
	Status  Status
	Message string
	Retry   string
	Reauth  bool
}

// Ready returns a ready State.
func Ready() State {
	return State{Status: StatusReady}
}

// Failed returns a failed State that offers retry as its retry link when non-empty.
func Failed(message, retry string) State {
	return State{Status: StatusFailed, Message: message, Retry: retry}
}

// ReauthRequired returns a failed State that prompts the user to log in again.
func ReauthRequired(message string) State {
	return State{Status: StatusFailed, Message: message, Reauth: true}
}

func (s State) Loading() bool { return s.Status == StatusLoading }
func (s State) Ready() bool   { return s.Status == StatusReady }
func (s State) Failed() bool  { return s.Status == StatusFailed }
