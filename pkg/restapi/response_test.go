package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"segment-service/pkg/errno"
)

func TestHttpStatus(t *testing.T) {
	cases := []struct {
		name string
		code *errno.Errno
		want int
	}{
		{"invalid param passes through", errno.ErrInvalidParam, http.StatusBadRequest},
		{"unauthorized passes through", errno.ErrUnauthorized, http.StatusUnauthorized},
		{"insufficient credits", errno.ErrInsufficientCredits, http.StatusPaymentRequired},
		{"video not found", errno.ErrVideoNotFound, http.StatusNotFound},
		{"invalid segment state", errno.ErrInvalidSegmentState, http.StatusConflict},
		{"queue full is a client error", errno.ErrQueueFull, http.StatusBadRequest},
		{"internal server error", errno.ErrInternalServer, http.StatusInternalServerError},
		{"database error collapses to 500", errno.ErrDatabase, http.StatusInternalServerError},
		{"unknown error collapses to 500", errno.ErrUnknown, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, httpStatus(tc.code))
		})
	}
}
