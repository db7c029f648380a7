package upload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthya/medrec-api/internal/config"
	"github.com/swasthya/medrec-api/pkg/errors"
	"github.com/swasthya/medrec-api/pkg/logger"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Service{
		cfg: config.CloudinaryConfig{
			CloudName: "test-cloud",
			APIKey:    "key",
			APISecret: "secret",
		},
		client:  srv.Client(),
		baseURL: srv.URL,
		log:     logger.NewLogger(nil),
	}
}

func tempUploadFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg bytes"), 0o644))
	return path
}

func TestUploadPostsSignedMultipart(t *testing.T) {
	var gotPath string
	var form map[string]string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		form = map[string]string{}
		for key, values := range r.MultipartForm.Value {
			form[key] = values[0]
		}
		w.Write([]byte(`{"secure_url":"https://cdn/photo.jpg","public_id":"patient-photos/abc"}`))
	})

	path := tempUploadFile(t)
	result, err := svc.Upload(context.Background(), path, KindPhoto)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/photo.jpg", result.URL)
	assert.Equal(t, "patient-photos/abc", result.PublicID)

	assert.Equal(t, "/test-cloud/image/upload", gotPath)
	assert.Equal(t, "patient-photos", form["folder"])
	assert.Equal(t, "key", form["api_key"])
	assert.NotEmpty(t, form["timestamp"])
	expected := svc.sign(map[string]string{
		"folder":    form["folder"],
		"timestamp": form["timestamp"],
	})
	assert.Equal(t, expected, form["signature"])

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "temp file should be removed after upload")
}

func TestUploadDocumentTargetsRawResource(t *testing.T) {
	var gotPath string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"secure_url":"https://cdn/doc.pdf","public_id":"patient-documents/xyz"}`))
	})

	_, err := svc.Upload(context.Background(), tempUploadFile(t), KindDocument)
	require.NoError(t, err)
	assert.Equal(t, "/test-cloud/raw/upload", gotPath)
}

func TestUploadRemovesTempFileOnFailure(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	path := tempUploadFile(t)
	_, err := svc.Upload(context.Background(), path, KindPhoto)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInternal))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "temp file should be removed even when the upload fails")
}

func TestUploadRejectsUnknownKind(t *testing.T) {
	svc := newTestService(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected for an unknown kind")
	})

	_, err := svc.Upload(context.Background(), tempUploadFile(t), Kind("archive"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestDeleteDefaultsResourceTypeToAuto(t *testing.T) {
	var gotPath string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"result":"ok"}`))
	})

	require.NoError(t, svc.Delete(context.Background(), "patient-photos/abc", ""))
	assert.Equal(t, "/test-cloud/auto/destroy", gotPath)
}

func TestDeleteRejectsUnknownResourceType(t *testing.T) {
	svc := newTestService(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("no request expected for an invalid resource type")
	})

	err := svc.Delete(context.Background(), "abc", "video")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestDeleteAcceptsNotFoundResult(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"result":"not found"}`))
	})
	assert.NoError(t, svc.Delete(context.Background(), "gone", "image"))
}

func TestDeleteFailsOnUnexpectedResult(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"result":"pending"}`))
	})

	err := svc.Delete(context.Background(), "abc", "image")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInternal))
}
