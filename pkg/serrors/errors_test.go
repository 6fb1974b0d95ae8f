package serrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorStatusByClass(t *testing.T) {
	cases := []struct {
		class  Class
		status int
	}{
		{ClassValidation, http.StatusBadRequest},
		{ClassNotFound, http.StatusNotFound},
		{ClassConflict, http.StatusConflict},
		{ClassIntegrity, http.StatusInternalServerError},
		{ClassInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.status, New(tc.class, "CODE", "msg").Status(), "class %s", tc.class)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Conflict("STAFFING_CONFLICT", "concurrent transition", cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "concurrent transition: boom", err.Error())
}

func TestIsClassThroughWrapping(t *testing.T) {
	err := fmt.Errorf("assign: %w", NotFound("STAFFING_NOT_FOUND", "no record"))
	require.True(t, IsClass(err, ClassNotFound))
	require.False(t, IsClass(err, ClassConflict))
	require.False(t, IsClass(errors.New("plain"), ClassNotFound))
}
