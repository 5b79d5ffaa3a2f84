package discord

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestRestStatus(t *testing.T) {
	restErr := &discordgo.RESTError{
		Response: &http.Response{StatusCode: http.StatusNotFound},
		Message:  &discordgo.APIErrorMessage{Code: codeUnknownMessage},
	}

	status, code := restStatus(fmt.Errorf("editar: %w", restErr))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, codeUnknownMessage, code)

	status, code = restStatus(errors.New("timeout"))
	assert.Zero(t, status)
	assert.Zero(t, code)

	status, code = restStatus(&discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Zero(t, code)
}
