// Package i18n serves error/response messages from embedded JSON packs
// (en, hi). The language comes only from the X-Language header.
package i18n

import (
	"embed"
	"encoding/json"
	"sync"
)

//go:embed en/*.json hi/*.json
var fs embed.FS

var (
	mu    sync.RWMutex
	packs = make(map[string]map[string]string) // lang -> key -> message
)

const (
	LangEN = "en"
	LangHI = "hi"
)

// Load reads the embedded JSON for each language; keys look like
// error.unauthorized, error.rate_limit and so on.
func Load() error {
	mu.Lock()
	defer mu.Unlock()
	for _, lang := range []string{LangEN, LangHI} {
		data, err := fs.ReadFile(lang + "/messages.json")
		if err != nil {
			packs[lang] = defaultMessages()
			continue
		}
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			packs[lang] = defaultMessages()
			continue
		}
		packs[lang] = m
	}
	return nil
}

// defaultMessages covers a missing or broken pack file.
func defaultMessages() map[string]string {
	return map[string]string{
		"error.unauthorized": "unauthorized",
		"error.forbidden":    "forbidden",
		"error.bad_request":  "bad request",
		"error.not_found":    "not found",
		"error.rate_limit":   "rate limit exceeded",
		"error.internal":     "internal server error",
		"ok":                 "ok",
	}
}

// T returns the message for lang/key; missing keys fall back to en,
// then to the key itself.
func T(lang, key string) string {
	mu.RLock()
	defer mu.RUnlock()
	if m, ok := packs[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if m, ok := packs[LangEN]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return key
}
