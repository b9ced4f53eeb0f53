package entity

// DestinationKind tags where a post-auth or post-payment redirect lands.
type DestinationKind string

const (
	// DestinationWeb is a same-origin path on this web surface.
	DestinationWeb DestinationKind = "web"
	// DestinationNative is a deep link into one of the native apps.
	DestinationNative DestinationKind = "native"
)

// Destination is the resolved redirect target of one request. It is
// computed once per request and never re-resolved mid-flow.
type Destination struct {
	Kind DestinationKind `json:"kind"`
	// Path is set for web destinations.
	Path string `json:"path,omitempty"`
	// Scheme and RawURL are set for native destinations. RawURL carries the
	// original hint verbatim; the native app owns its own deep-link format.
	Scheme string `json:"scheme,omitempty"`
	RawURL string `json:"raw_url,omitempty"`
}

// WebPath builds a web destination.
func WebPath(path string) Destination {
	return Destination{Kind: DestinationWeb, Path: path}
}

// NativeTarget builds a native destination for an allow-listed scheme.
func NativeTarget(scheme, rawURL string) Destination {
	return Destination{Kind: DestinationNative, Scheme: scheme, RawURL: rawURL}
}

// IsNative reports whether the destination hands off into a native app.
func (d Destination) IsNative() bool {
	return d.Kind == DestinationNative
}

// URL returns the value the browser should navigate to.
func (d Destination) URL() string {
	if d.IsNative() {
		return d.RawURL
	}
	return d.Path
}

// SessionCredentials is the bearer token pair issued by the identity
// provider. It only ever lives in memory for the duration of one
// authentication response; this subsystem never persists it.
type SessionCredentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
