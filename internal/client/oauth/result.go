package oauth

// ResultType is the terminal outcome of one handshake.
type ResultType string

const (
	ResultSuccess ResultType = "success"
	ResultCancel  ResultType = "cancel"
	ResultError   ResultType = "error"
)

// Source tells how a Result was produced.
type Source string

const (
	SourcePrompt   Source = "prompt"
	SourceRedirect Source = "redirect"
)

// Result is a completed handshake. For ResultSuccess, Params holds
// "id_token" and "access_token". For ResultError, Params may hold the
// provider's "error" and "error_description". Err is set when the handshake
// itself faulted (listener, exchange, timeout).
type Result struct {
	ID     string
	Type   ResultType
	Source Source
	Params map[string]string
	Err    error
}

// IDToken returns the id_token parameter, if any.
func (r Result) IDToken() string {
	return r.Params["id_token"]
}
