package checkout

// State names the phases a session's checkout moves through. A session is
// Idle until it triggers a submission, Submitting while the purchase is in
// flight, and lands on Succeeded or Failed. Only one submission may be in
// flight per session at a time.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// stateDetail is the details payload attached to checkout errors so clients
// can tell which phase the session is in without parsing messages.
func stateDetail(s State) map[string]any {
	return map[string]any{"state": string(s)}
}
