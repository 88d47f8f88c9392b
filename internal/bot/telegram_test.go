package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadFileID(t *testing.T) {
	var handlerCalled bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/receipt.jpeg" {
			handlerCalled = true
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("123"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	getFileDirectURL := func(fileID string) (string, error) {
		return fmt.Sprintf("%s/%s.jpeg", ts.URL, fileID), nil
	}

	data, err := downloadFileID(context.Background(), getFileDirectURL, "receipt")
	require.NoError(t, err)
	assert.Equal(t, []byte("123"), data)
	assert.True(t, handlerCalled)
}

func TestDownloadFileID_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	getFileDirectURL := func(fileID string) (string, error) {
		return ts.URL + "/" + fileID, nil
	}

	_, err := downloadFileID(context.Background(), getFileDirectURL, "missing")
	assert.ErrorContains(t, err, "404")
}

func TestDownloadFileID_ResolveError(t *testing.T) {
	getFileDirectURL := func(string) (string, error) {
		return "", errors.New("file is too big")
	}

	_, err := downloadFileID(context.Background(), getFileDirectURL, "huge")
	assert.ErrorContains(t, err, "file is too big")
}
