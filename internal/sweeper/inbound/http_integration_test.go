package inbound

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/datasweeper/internal/pkg/pkgrouter"
	"github.com/wdm0006/datasweeper/internal/pkg/pkguid"
	"github.com/wdm0006/datasweeper/internal/session"
	"github.com/wdm0006/datasweeper/internal/sweeper/usecase"
)

type envelope[T any] struct {
	Message string         `json:"message"`
	Data    T              `json:"data"`
	Meta    map[string]any `json:"meta,omitempty"`
}

type upload struct {
	name, body string
}

func newRouter(t *testing.T, maxUpload int64) http.Handler {
	t.Helper()
	uc := usecase.New(usecase.Dependency{
		Store: session.NewStore(0),
		ID:    pkguid.NewUUID(),
		Parse: usecase.DefaultParseOptions(),
	})
	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, uc, maxUpload)
	return router
}

func multipartBody(t *testing.T, field string, files ...upload) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, f := range files {
		part, err := w.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func do(t *testing.T, h http.Handler, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestBatchUploadWithUnsupportedFile(t *testing.T) {
	router := newRouter(t, 0)
	body, ct := multipartBody(t, FormField,
		upload{"first.csv", "a,b\n1,2\n"},
		upload{"slides.pdf", "%PDF-1.4"},
		upload{"second.csv", "x\nhello\n"},
	)

	rec := do(t, router, http.MethodPost, "/files", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decode[UploadResponse](t, rec)
	assert.Equal(t, "files processed with errors", env.Message)
	assert.EqualValues(t, 3, env.Meta["total"])
	assert.EqualValues(t, 1, env.Meta["failed"])
	require.Len(t, env.Data.Files, 3)

	assert.Equal(t, "first.csv", env.Data.Files[0].Info.Name)
	assert.True(t, pkguid.Valid(env.Data.Files[0].Info.ID))
	assert.Equal(t, session.StateParsed, env.Data.Files[0].Info.State)

	assert.Equal(t, "slides.pdf", env.Data.Files[1].Info.Name)
	assert.Empty(t, env.Data.Files[1].Info.ID)
	assert.Contains(t, env.Data.Files[1].Error, ".pdf")

	assert.Equal(t, "second.csv", env.Data.Files[2].Info.Name)
	assert.Empty(t, env.Data.Files[2].Error)

	rec = do(t, router, http.MethodGet, "/files/"+env.Data.Files[2].Info.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	preview := decode[PreviewResponse](t, rec)
	assert.Equal(t, [][]any{{"hello"}}, preview.Data.Rows)
}

func TestUploadRequestErrors(t *testing.T) {
	router := newRouter(t, 64)

	rec := do(t, router, http.MethodPost, "/files", bytes.NewBufferString("a,b"), "text/csv")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, ct := multipartBody(t, "file", upload{"a.csv", "a\n1\n"})
	rec = do(t, router, http.MethodPost, "/files", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body, ct = multipartBody(t, FormField, upload{"big.csv", "a\n" + strings.Repeat("1\n", 100)})
	rec = do(t, router, http.MethodPost, "/files", body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSessionEndpointErrors(t *testing.T) {
	router := newRouter(t, 0)
	body, ct := multipartBody(t, FormField, upload{"one.csv", "a,b\n1,x\n"})
	rec := do(t, router, http.MethodPost, "/files", body, ct)
	id := decode[UploadResponse](t, rec).Data.Files[0].Info.ID

	cases := []struct {
		name   string
		method string
		target string
		status int
	}{
		{"unknown session", http.MethodGet, "/files/nope", http.StatusNotFound},
		{"bad rows", http.MethodGet, "/files/" + id + "?rows=0", http.StatusUnprocessableEntity},
		{"bad strategy", http.MethodPost, "/files/" + id + "/missing?strategy=mode", http.StatusUnprocessableEntity},
		{"constant without value", http.MethodPost, "/files/" + id + "/missing?strategy=constant", http.StatusUnprocessableEntity},
		{"svg needs two numeric columns", http.MethodGet, "/files/" + id + "/chart.svg", http.StatusUnprocessableEntity},
		{"missing format", http.MethodPost, "/files/" + id + "/convert", http.StatusUnprocessableEntity},
		{"unknown format", http.MethodPost, "/files/" + id + "/convert?format=json", http.StatusUnprocessableEntity},
		{"download before convert", http.MethodGet, "/files/" + id + "/download", http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, router, tc.method, tc.target, nil, "")
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}

	rec = do(t, router, http.MethodGet, "/files/"+id+"/chart", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	chart := decode[ChartResponse](t, rec)
	assert.Nil(t, chart.Data.Chart)
	assert.Contains(t, chart.Message, "numeric")

	rec = do(t, router, http.MethodDelete, "/files/"+id, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, router, http.MethodDelete, "/files/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
