package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsAppErrorCode(t *testing.T) {
	base := InvalidInput("velocity must be positive")
	wrapped := Wrap(base, "shot 3")

	assert.Equal(t, CodeInvalidInput, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Equal(t, "shot 3: velocity must be positive", wrapped.Error())
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("disk on fire"), "reading shots")
	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestIsWalksChain(t *testing.T) {
	err := fmt.Errorf("handler: %w", ExternalServiceError("llm", fmt.Errorf("timeout")))
	assert.True(t, Is(err, CodeExternalService))
	assert.False(t, Is(err, CodeInvalidInput))
	assert.Equal(t, CodeExternalService, GetCode(err))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeInvalidInput))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(CodeInsufficientSample))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(CodeExternalService))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(CodeRateLimited))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("UNKNOWN"))
}
