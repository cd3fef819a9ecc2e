package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("claim: %w", NewConflict("already claimed", nil))

	de := ToDomainError(wrapped)
	require.Equal(t, "CONFLICT", de.Code)
	require.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	require.Equal(t, "already claimed", de.Message)
}

func TestToDomainError_NoRowsBecomesNotFound(t *testing.T) {
	de := ToDomainError(pgx.ErrNoRows)
	require.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestToDomainError_UnknownErrorsSurfaceRawMessage(t *testing.T) {
	de := ToDomainError(errors.New("connection reset by peer"))
	require.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	require.Equal(t, "connection reset by peer", de.Message)
	require.Equal(t, "INTERNAL_ERROR", de.Code)
}

func TestStatusTaxonomy(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{NewValidationError("bad", nil), http.StatusBadRequest},
		{NewConflict("dup", nil), http.StatusBadRequest},
		{NewUnauthorized("nope"), http.StatusUnauthorized},
		{NewForbidden("role"), http.StatusForbidden},
		{NewNotFound("Enquiry", nil), http.StatusNotFound},
		{NewRouteNotFound(), http.StatusNotFound},
		{NewTooManyRequests("slow down", nil), http.StatusTooManyRequests},
		{NewInternalError(nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.status, ToDomainError(tc.err).HTTPStatus, tc.err.Error())
	}
	require.Equal(t, "Enquiry not found", NewNotFound("Enquiry", nil).Error())
	require.True(t, IsCode(NewConflict("dup", nil), "CONFLICT"))
	require.False(t, IsCode(errors.New("x"), "CONFLICT"))
}
