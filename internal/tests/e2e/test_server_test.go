package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// TestServer wraps the HTTP test server with E2E testing capabilities
type TestServer struct {
	t      *testing.T
	Server *httptest.Server
	Client *http.Client
}

// Response is a decoded API reply
type Response struct {
	Status int             `json:"-"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

// ErrorCode returns the error code of r, or "" on success
func (r *Response) ErrorCode() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Code
}

// NewTestServer starts the suite's router on a local listener
func NewTestServer(t *testing.T, suite *TestSuite) *TestServer {
	t.Helper()

	gin.SetMode(gin.TestMode)
	server := httptest.NewServer(suite.Container.Router())
	t.Cleanup(server.Close)

	return &TestServer{
		t:      t,
		Server: server,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Do sends body as JSON with an optional bearer token and decodes the reply
func (s *TestServer) Do(method, path, token string, body interface{}) *Response {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("Failed to encode request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.Server.URL+path, reader)
	if err != nil {
		s.t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		s.t.Fatalf("Request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		s.t.Fatalf("Failed to read response: %v", err)
	}

	out := &Response{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			s.t.Fatalf("Failed to decode %s %s response %q: %v", method, path, raw, err)
		}
	}
	out.Status = resp.StatusCode
	return out
}

// Decode unmarshals the data envelope into dst
func (s *TestServer) Decode(r *Response, dst interface{}) {
	s.t.Helper()
	if err := json.Unmarshal(r.Data, dst); err != nil {
		s.t.Fatalf("Failed to decode data %s: %v", r.Data, err)
	}
}
