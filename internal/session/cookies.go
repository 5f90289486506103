package session

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

const AuthCookie = "Auth"

// Cookies holds the auth cookie the edge gate checks.
type Cookies interface {
	SetAuth(token string, expires time.Time)
	ClearAuth()
	AuthToken() string
}

// JarCookies scopes the auth cookie to one site inside a cookie jar, so
// an http.Client using Jar() presents it on dashboard requests.
type JarCookies struct {
	jar  *cookiejar.Jar
	site *url.URL
}

func NewJarCookies(siteURL string) (*JarCookies, error) {
	u, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("parse site url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("site url %q must be absolute", siteURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &JarCookies{jar: jar, site: &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}}, nil
}

func (j *JarCookies) Jar() http.CookieJar { return j.jar }

func (j *JarCookies) SetAuth(token string, expires time.Time) {
	j.jar.SetCookies(j.site, []*http.Cookie{{
		Name:     AuthCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		SameSite: http.SameSiteLaxMode,
	}})
}

func (j *JarCookies) ClearAuth() {
	j.jar.SetCookies(j.site, []*http.Cookie{{
		Name:   AuthCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	}})
}

func (j *JarCookies) AuthToken() string {
	for _, c := range j.jar.Cookies(j.site) {
		if c.Name == AuthCookie {
			return c.Value
		}
	}
	return ""
}
