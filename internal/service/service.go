// Package service contains the business rules of the tracker.
//
// THE LAYERS:
//
//	Handler (HTTP)      → parses requests, writes responses
//	Service (this)      → validates input, enforces ownership, orchestrates
//	Repository (sqlite) → reads and writes rows
//
// Services take plain Go values and return model types and apperror
// errors. They never see an *http.Request, so the same rules apply to any
// caller. Every method takes the caller's userID; repositories scope all
// queries to it.
//
// Dependencies are repository interfaces, not *sqlite.DB, so tests run
// against in-memory fakes (see fakes_test.go).
package service

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/sakif/bounty-tracker/internal/apperror"
	"github.com/sakif/bounty-tracker/internal/repository"
)

// Validation limits, in characters.
const (
	MaxNameLength  = 100
	MaxTitleLength = 200
	MaxTextLength  = 20000
	MaxURLLength   = 2048

	DefaultListLimit = 100
	MaxListLimit     = 500
)

// listOptions clamps caller-supplied paging to sane bounds.
func listOptions(limit, offset int) repository.ListOptions {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.ListOptions{Limit: limit, Offset: offset}
}

// requiredText trims value and checks it is present and short enough.
func requiredText(field, label, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperror.ValidationFailed(field, label+" is required")
	}
	return optionalText(field, label, value, max)
}

func optionalText(field, label, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if utf8.RuneCountInString(value) > max {
		return "", apperror.ValidationFailed(field,
			fmt.Sprintf("%s must be %d characters or less", label, max))
	}
	return value, nil
}

// optionalURL accepts "" or an absolute http(s) URL.
func optionalURL(field, raw string) (string, error) {
	raw, err := optionalText(field, "url", raw, MaxURLLength)
	if err != nil || raw == "" {
		return raw, err
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperror.ValidationFailed(field, "url must be an absolute http(s) URL")
	}
	return raw, nil
}

// requireID rejects blank path IDs before they reach the database.
func requireID(resource, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperror.ValidationFailed("id", resource+" ID is required")
	}
	return id, nil
}
