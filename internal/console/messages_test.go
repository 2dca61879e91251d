package console

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"fleetflow/internal/client"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", invalid("x", ReasonMissingField, "Name is required."), "Name is required."},
		{"server detail", &client.APIError{StatusCode: http.StatusBadRequest, Detail: "Driver license has expired"}, "Driver license has expired"},
		{"wrapped server detail", fmt.Errorf("dispatch: %w", &client.APIError{StatusCode: 409, Detail: "Vehicle is locked"}), "Vehicle is locked"},
		{"unauthorized", &client.APIError{StatusCode: http.StatusUnauthorized, Detail: "Could not validate credentials"}, SessionExpired},
		{"server without detail", &client.APIError{StatusCode: http.StatusBadGateway}, GenericFailure},
		{"busy", ErrBusy, "Another action is still in progress."},
		{"network", errors.New("dial tcp: connection refused"), GenericFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}
