package session

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type CookieManager struct {
	Name   string
	MaxAge int
	Secure bool
}

func NewCookieManager(cookieName string) CookieManager {
	return CookieManager{
		Name:   cookieName,
		MaxAge: 0, // browser session cookie
		Secure: false,
	}
}

// setCookieValue sets a cookie name, value & a max-age with the supplied values
func (c CookieManager) setCookieValue(w http.ResponseWriter, value string, age int) {

	log.WithFields(log.Fields{
		"name": c.Name,
		"age":  age,
	}).Debug("setting cookie value")

	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Path:     "/",
		Value:    value,
		MaxAge:   age,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// getCookieValue returns the value for a cookie name, else error
func (c CookieManager) getCookieValue(r *http.Request) (string, error) {

	cookie, err := r.Cookie(c.Name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			log.WithField("name", c.Name).Trace("no cookie found")
		} else {
			log.WithField("name", c.Name).Debug("error fetching cookie")
		}
		return "", err
	}

	if cookie.Value == "" {
		log.WithField("name", c.Name).Debug("cookie has no value")
		return "", http.ErrNoCookie
	}
	return cookie.Value, nil
}
