package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "emarge/pkg/domain-errors"
)

func TestWriteErrorInternalOmitsDescription(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal"}`, w.Body.String())
}

func TestWriteErrorValidationIncludesFields(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, dErrors.New(dErrors.CodeValidation, "request validation failed").
		WithFields(map[string]string{"signature": "is required"}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"signature":"is required"`)
}

func TestWriteErrorUncodedBecomesInternal(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

type samplePayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

func TestDecodeValidPayload(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Awa"}`))

	var p samplePayload
	require.NoError(t, Decode(r, &p))
	assert.Equal(t, "Awa", p.Name)
}

func TestDecodeMalformedBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))

	var p samplePayload
	err := Decode(r, &p)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestDecodeUnknownField(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Awa","bogus":1}`))

	var p samplePayload
	err := Decode(r, &p)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestDecodeValidationFailure(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"not-an-email"}`))

	var p samplePayload
	err := Decode(r, &p)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	var de *dErrors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "is required", de.Fields["name"])
	assert.Equal(t, "must be a valid email address", de.Fields["email"])
}
