// Package flash carries one-shot user notifications across a redirect in a
// cookie, so they survive the end of a session.
package flash

import (
	"encoding/base64"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "messages"
	ctxKey     = "flash.messages"
)

// Level is the severity of a notification.
type Level string

const (
	Success Level = "success"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Message is one queued notification.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Add queues a notification for the next page the client sees.
func Add(c echo.Context, level Level, text string) {
	msgs := append(pending(c), Message{Level: level, Text: text})
	c.Set(ctxKey, msgs)
	writeCookie(c, msgs)
}

// Pop returns the queued notifications and clears them.
func Pop(c echo.Context) []Message {
	msgs := pending(c)
	c.Set(ctxKey, []Message{})
	if _, err := c.Cookie(CookieName); err == nil || len(msgs) > 0 {
		c.SetCookie(&http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
	if msgs == nil {
		msgs = []Message{}
	}
	return msgs
}

func pending(c echo.Context) []Message {
	if msgs, ok := c.Get(ctxKey).([]Message); ok {
		return msgs
	}
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	return decode(cookie.Value)
}

func writeCookie(c echo.Context, msgs []Message) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    encode(msgs),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func encode(msgs []Message) string {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decode drops a tampered or truncated cookie instead of failing the request.
func decode(v string) []Message {
	raw, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}
