package e2etest

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	neturl "net/url"
)

// unsafeCookieJar stores Secure cookies even though the test server speaks
// plain HTTP. Without clearing the Secure flag the session cookie would never
// be sent back.
type unsafeCookieJar struct {
	jar http.CookieJar
}

func newUnsafeCookieJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("new cookie jar: %w", err)
	}
	return &unsafeCookieJar{jar: jar}, nil
}

func (j *unsafeCookieJar) SetCookies(u *neturl.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	j.jar.SetCookies(u, cookies)
}

func (j *unsafeCookieJar) Cookies(u *neturl.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}
