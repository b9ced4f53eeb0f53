package errors

import "errors"

var (
	// ErrIdentityUnavailable indicates the call to the identity provider
	// failed to complete at all.
	ErrIdentityUnavailable = errors.New("identity provider unreachable")

	// ErrRequestInFlight indicates a duplicate submission while the
	// previous call for the same action is still pending.
	ErrRequestInFlight = errors.New("request already in flight")
)

// ProviderError carries the raw error payload returned by the identity
// provider. The message passes through a formatting step before it is
// shown to the user.
type ProviderError struct {
	Status  int
	Message string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// AsProviderError unwraps err into a ProviderError when possible.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
