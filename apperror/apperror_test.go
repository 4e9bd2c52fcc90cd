package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIs(t *testing.T) {
	cause := errors.New("disk on fire")

	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{name: "NotFound wraps ErrNotFound", err: NotFound("comment", 7), target: ErrNotFound, wantMatch: true},
		{name: "Forbidden wraps ErrForbidden", err: Forbidden("nope"), target: ErrForbidden, wantMatch: true},
		{name: "NotAuthenticated", err: NotAuthenticated(), target: ErrNotAuthenticated, wantMatch: true},
		{name: "DuplicateFavorite", err: DuplicateFavorite(1, "img-9"), target: ErrDuplicateFavorite, wantMatch: true},
		{name: "CascadeFailure exposes sentinel", err: CascadeFailure("media links", cause), target: ErrCascadeFailure, wantMatch: true},
		{name: "CascadeFailure exposes cause", err: CascadeFailure("media links", cause), target: cause, wantMatch: true},
		{name: "Timeout exposes context error", err: Timeout("store", context.DeadlineExceeded), target: context.DeadlineExceeded, wantMatch: true},
		{name: "wrapped twice", err: fmt.Errorf("outer: %w", ValidationFailed("body", "empty")), target: ErrValidation, wantMatch: true},
		{name: "NotFound is not Forbidden", err: NotFound("album", 1), target: ErrForbidden, wantMatch: false},
		{name: "Timeout is not Upstream", err: Timeout("store", nil), target: ErrUpstreamUnavailable, wantMatch: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMatch, errors.Is(tt.err, tt.target))
		})
	}
}

func TestErrorIncludesCause(t *testing.T) {
	err := UpstreamUnavailable("photo API", errors.New("connection refused"))
	assert.Equal(t, "photo API unavailable: connection refused", err.Error())
	assert.Equal(t, "photo API unavailable", err.Message)
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{NotAuthenticated(), "not_authenticated"},
		{Forbidden("x"), "forbidden"},
		{NotFound("x", 1), "not_found"},
		{ValidationFailed("f", "m"), "validation_error"},
		{DuplicateFavorite(1, "t"), "duplicate_favorite"},
		{Conflict("username", "username already taken"), "conflict"},
		{CascadeFailure("links", nil), "cascade_failure"},
		{Timeout("op", nil), "timeout"},
		{UpstreamUnavailable("store", nil), "upstream_unavailable"},
		{errors.New("raw"), "internal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Kind(tt.err))
	}
}
