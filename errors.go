package main

import (
	"fmt"
	"log"
	"strings"
	"time"
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon())
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}

// ConfigFetchError reports a remote config request that reached the
// endpoint but came back with a non-success status.
type ConfigFetchError struct {
	Status int
}

func (e *ConfigFetchError) Error() string {
	return fmt.Sprintf("failed to load remote config (%d)", e.Status)
}

// ConfigParseError reports a remote config body that was not a JSON
// object. Malformed entries inside a well-shaped body are dropped
// individually and never produce this error.
type ConfigParseError struct {
	Err error
}

func (e *ConfigParseError) Error() string {
	return "invalid remote config payload: " + e.Err.Error()
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}
