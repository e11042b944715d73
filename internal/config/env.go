package config

import (
	"strconv"
	"time"
)

// env wraps a lookup function and records every required or malformed
// variable so Load can report them all at once instead of failing on the
// first one.
type env struct {
	lookup  func(string) (string, bool)
	missing []string
	invalid []string
}

func (e *env) get(k string) (string, bool) {
	v, ok := e.lookup(k)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// must retrieves the value of a required environment variable.
func (e *env) must(k string) string {
	v, ok := e.get(k)
	if !ok {
		e.missing = append(e.missing, k)
	}
	return v
}

func (e *env) str(k, d string) string {
	if v, ok := e.get(k); ok {
		return v
	}
	return d
}

func (e *env) bool(k string, d bool) bool {
	v, ok := e.get(k)
	if !ok {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	e.invalid = append(e.invalid, k)
	return d
}

func (e *env) int(k string, d int) int {
	v, ok := e.get(k)
	if !ok {
		return d
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.invalid = append(e.invalid, k)
		return d
	}
	return n
}

func (e *env) dur(k string, d time.Duration) time.Duration {
	v, ok := e.get(k)
	if !ok {
		return d
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		e.invalid = append(e.invalid, k)
		return d
	}
	return dur
}
