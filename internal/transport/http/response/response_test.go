package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKNeverNullData(t *testing.T) {
	b, err := json.Marshal(OK(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":0,"msg":"OK","data":{}}`, string(b))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Not Found", Error(CodeNotFound, "").Msg)
	assert.Equal(t, "Book not found", Error(CodeNotFound, "Book not found").Msg)
}

func TestStatusOmitsEmpty(t *testing.T) {
	b, err := json.Marshal(Status{Status: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":true}`, string(b))
}

func TestInvalid(t *testing.T) {
	r := Invalid(map[string][]string{"name": {"The name field is required."}}, nil)
	assert.Equal(t, CodeUnprocessable, r.Code)
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":422,"msg":"Unprocessable Entity","data":{"errors":{"name":["The name field is required."]},"old":{}}}`, string(b))
}
