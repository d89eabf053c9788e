package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticCreds is a CredentialSource holding a fixed token.
type staticCreds struct {
	token string
}

func (c *staticCreds) Load() (string, bool) {
	return c.token, c.token != ""
}

// roundTripperFunc lets tests stub out the transport entirely.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *http.Client {
	return &http.Client{Transport: fn, Timeout: time.Second}
}

func TestDo_BearerHeader(t *testing.T) {
	token := uuid.NewString()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	t.Run("attached when credential present", func(t *testing.T) {
		client := New(server.URL, &staticCreds{token: token}, nil)
		resp, err := client.Do(context.Background(), http.MethodGet, "/posts", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "Bearer "+token, gotAuth)
	})

	t.Run("omitted when anonymous", func(t *testing.T) {
		client := New(server.URL, &staticCreds{}, nil)
		resp, err := client.Do(context.Background(), http.MethodGet, "/posts", nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Empty(t, gotAuth)
	})
}

func TestDo_JSONBody(t *testing.T) {
	var (
		gotContentType string
		gotBody        string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
	}))
	defer server.Close()

	client := New(server.URL, nil, nil)
	resp, err := client.Do(context.Background(), http.MethodPost, "/posts", map[string]string{"content": "hello"})
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{"content":"hello"}`, gotBody)
}

func TestDo_FormPayloadSentAsIs(t *testing.T) {
	var (
		gotContentType string
		gotBody        string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
	}))
	defer server.Close()

	client := New(server.URL, nil, nil)
	form := &FormPayload{
		ContentType: "multipart/form-data; boundary=xyz",
		Body:        strings.NewReader("--xyz--"),
	}
	resp, err := client.Do(context.Background(), http.MethodPut, "/users/profile", form)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "multipart/form-data; boundary=xyz", gotContentType)
	assert.Equal(t, "--xyz--", gotBody)
}

func TestDoJSON_Success(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/posts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"posts":[{"id":1,"content":"hi"}]}`))
	})
	server := httptest.NewServer(router)
	defer server.Close()

	client := New(server.URL, nil, nil)
	var out struct {
		Posts []struct {
			ID      int    `json:"id"`
			Content string `json:"content"`
		} `json:"posts"`
	}
	err := client.DoJSON(context.Background(), http.MethodGet, "/posts", nil, &out)
	require.NoError(t, err)
	require.Len(t, out.Posts, 1)
	assert.Equal(t, 1, out.Posts[0].ID)
	assert.Equal(t, "hi", out.Posts[0].Content)
}

func TestDoJSON_ServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	}))
	defer server.Close()

	client := New(server.URL, nil, nil)
	err := client.DoJSON(context.Background(), http.MethodPost, "/users/login", map[string]string{}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid credentials", apiErr.Message)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestDoJSON_FallbackMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "non-JSON body", body: "<html>oops</html>"},
		{name: "JSON without message", body: `{"error":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := New(server.URL, nil, nil)
			err := client.DoJSON(context.Background(), http.MethodGet, "/posts", nil, nil)
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "Error 500", apiErr.Message)
		})
	}
}

func TestDoJSON_EmptySuccessBodyTolerated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, nil, nil)
	var out struct {
		Post struct {
			ID int `json:"id"`
		} `json:"post"`
	}
	err := client.DoJSON(context.Background(), http.MethodPost, "/posts/1/like", nil, &out)
	require.NoError(t, err)
	assert.Zero(t, out.Post.ID)
}

func TestDoJSON_NetworkError(t *testing.T) {
	httpc := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})

	client := New("http://example.com", nil, httpc)
	err := client.DoJSON(context.Background(), http.MethodGet, "/posts", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failures are not APIErrors")
}
