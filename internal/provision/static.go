package provision

import "context"

// Static is a Provisioner that hands out a browser that is already running,
// identified by a fixed CDP endpoint. Used for local development; release is
// a no-op since the engine does not own the browser's lifecycle.
type Static struct {
	CDPWSURL string
}

func (s Static) Create(_ context.Context, _ CreateOptions) (*Session, error) {
	if s.CDPWSURL == "" {
		return nil, &Error{Message: "no CDP endpoint configured"}
	}
	return NewSession("local", s.CDPWSURL, "", nil), nil
}
