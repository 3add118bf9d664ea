package responseformat

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestWriteResponseJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	require.NoError(t, NewFormatter().WriteResponse(rec, req, http.StatusCreated, payload{Name: "allos", Value: 1.5}))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, ContentTypeJSON, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"name":"allos","value":1.5}`, rec.Body.String())
}

func TestWriteResponseMsgPack(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x?format=msgpack", nil)

	require.NoError(t, NewFormatter().WriteResponse(rec, req, http.StatusOK, payload{Name: "allos", Value: 1.5}))
	assert.Equal(t, ContentTypeMsgPack, rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, msgpack.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "allos", got["name"])
	assert.Equal(t, 1.5, got["value"])
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	require.NoError(t, NewFormatter().WriteError(rec, req, http.StatusNotFound, "no such lake"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"no such lake"}`, rec.Body.String())
}

func TestDecodeRequest(t *testing.T) {
	var p payload
	req := httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"name":"a","value":2}`))
	require.NoError(t, DecodeRequest(req, &p))
	assert.Equal(t, payload{Name: "a", Value: 2}, p)

	req = httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(`{"name":"a","bogus":2}`))
	assert.Error(t, DecodeRequest(req, &p))

	enc := &bytes.Buffer{}
	e := msgpack.NewEncoder(enc)
	e.SetCustomStructTag("json")
	require.NoError(t, e.Encode(payload{Name: "b", Value: 3}))
	req = httptest.NewRequest(http.MethodPost, "/x", enc)
	req.Header.Set("Content-Type", ContentTypeMsgPack)
	require.NoError(t, DecodeRequest(req, &p))
	assert.Equal(t, payload{Name: "b", Value: 3}, p)
}
