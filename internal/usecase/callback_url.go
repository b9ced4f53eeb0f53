package usecase

import (
	"net/url"
	"strings"

	"github.com/onsiteclub/account-service/internal/domain/entity"
)

// BuildCallbackURL constructs the deep link that hands a session off to a
// native app: the target URL with the token pair appended as
// percent-encoded query parameters.
//
// The target is trusted to carry an allow-listed scheme already; scheme
// validation is the resolver's job. The original URL is preserved byte for
// byte because the native app owns interpretation of its own deep link.
// The navigation performed with the result is terminal for the web page.
func BuildCallbackURL(target entity.Destination, creds entity.SessionCredentials) string {
	sep := "?"
	if strings.Contains(target.RawURL, "?") {
		sep = "&"
	}
	return target.RawURL + sep +
		"access_token=" + url.QueryEscape(creds.AccessToken) +
		"&refresh_token=" + url.QueryEscape(creds.RefreshToken)
}
