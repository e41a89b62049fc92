// Package toast carries the console's one-shot status notices across a
// post/redirect/get round trip in a signed cookie.
package toast

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CookieName holds the pending toast between the redirect and the next page.
const CookieName = "product_admin_toast"

// lifetime bounds how long a sealed toast stays valid. It only has to
// survive one redirect.
const lifetime = 2 * time.Minute

var ErrRejected = errors.New("toast: rejected")

type Level uint8

const (
	Success Level = iota + 1
	Failure
)

// Toast is the notice rendered at the top of the next page.
type Toast struct {
	Level Level
	Text  string
}

func Ok(text string) Toast   { return Toast{Level: Success, Text: text} }
func Fail(text string) Toast { return Toast{Level: Failure, Text: text} }

func (t Toast) Title() string {
	if t.Level == Failure {
		return "Error"
	}
	return "Success"
}

// Color picks the toast stylesheet class.
func (t Toast) Color() string {
	if t.Level == Failure {
		return "red"
	}
	return "green"
}

// Sealer signs toasts into cookie values and verifies them on the way back.
type Sealer struct {
	key    []byte
	secure bool
	now    func() time.Time
}

func NewSealer(key []byte, secure bool) *Sealer {
	return &Sealer{key: key, secure: secure, now: time.Now}
}

// Seal renders t as level.issued.text.mac, where text and mac are base64url
// and issued is a unix time in seconds.
func (s *Sealer) Seal(t Toast) string {
	body := strconv.Itoa(int(t.Level)) + "." +
		strconv.FormatInt(s.now().Unix(), 10) + "." +
		base64.RawURLEncoding.EncodeToString([]byte(t.Text))
	return body + "." + s.mac(body)
}

// Open verifies v and returns the toast it carries. Unsigned, expired and
// blank toasts are all ErrRejected.
func (s *Sealer) Open(v string) (Toast, error) {
	i := strings.LastIndexByte(v, '.')
	if i < 0 || !hmac.Equal([]byte(s.mac(v[:i])), []byte(v[i+1:])) {
		return Toast{}, ErrRejected
	}
	parts := strings.Split(v[:i], ".")
	if len(parts) != 3 {
		return Toast{}, ErrRejected
	}

	level, err := strconv.Atoi(parts[0])
	if err != nil || (Level(level) != Success && Level(level) != Failure) {
		return Toast{}, ErrRejected
	}
	issued, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Toast{}, ErrRejected
	}
	if age := s.now().Sub(time.Unix(issued, 0)); age < -time.Minute || age > lifetime {
		return Toast{}, ErrRejected
	}
	text, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil || strings.TrimSpace(string(text)) == "" {
		return Toast{}, ErrRejected
	}
	return Toast{Level: Level(level), Text: string(text)}, nil
}

// Send queues t for the next page rendered by this client.
func (s *Sealer) Send(w http.ResponseWriter, t Toast) {
	http.SetCookie(w, s.cookie(s.Seal(t), int(lifetime.Seconds())))
}

// Receive takes the pending toast off r and expires its cookie, whether or
// not it verifies, so a toast shows at most once.
func (s *Sealer) Receive(w http.ResponseWriter, r *http.Request) (Toast, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return Toast{}, false
	}
	http.SetCookie(w, s.cookie("", -1))
	t, err := s.Open(c.Value)
	return t, err == nil
}

func (s *Sealer) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   s.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Sealer) mac(body string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
