package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func echoHandler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	defer r.Body.Close()

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"success","data":` + string(body) + `}`))
}

func gzipBytes(t *testing.T, s string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(s)); err != nil {
		t.Fatalf("write gzip: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return &buf
}

func TestGzipMiddleware(t *testing.T) {
	type want struct {
		statusCode      int
		contentEncoding string
		bodyContains    string
	}

	tests := []struct {
		name        string
		requestBody string
		gzipBody    bool
		headers     map[string]string
		want        want
	}{
		{
			name:        "json response compressed",
			requestBody: `{"sku":"SKU-1"}`,
			headers:     map[string]string{"Accept-Encoding": "gzip", "Content-Type": "application/json"},
			want:        want{statusCode: http.StatusOK, contentEncoding: "gzip", bodyContains: `"sku":"SKU-1"`},
		},
		{
			name:        "client does not accept gzip",
			requestBody: `{"sku":"SKU-2"}`,
			headers:     map[string]string{"Content-Type": "application/json"},
			want:        want{statusCode: http.StatusOK, bodyContains: `"sku":"SKU-2"`},
		},
		{
			name:        "binary response left alone",
			requestBody: `"xlsx"`,
			headers:     map[string]string{"Accept-Encoding": "gzip", "Content-Type": "application/octet-stream"},
			want:        want{statusCode: http.StatusOK, bodyContains: `"xlsx"`},
		},
		{
			name:        "compressed request body",
			requestBody: `{"quantity":5}`,
			gzipBody:    true,
			headers:     map[string]string{"Content-Encoding": "gzip", "Accept-Encoding": "gzip", "Content-Type": "application/json"},
			want:        want{statusCode: http.StatusOK, contentEncoding: "gzip", bodyContains: `"quantity":5`},
		},
		{
			name:        "broken compressed body",
			requestBody: "not gzip",
			headers:     map[string]string{"Content-Encoding": "gzip"},
			want:        want{statusCode: http.StatusBadRequest, bodyContains: "invalid gzip body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var requestBody io.Reader = strings.NewReader(tt.requestBody)
			if tt.gzipBody {
				requestBody = gzipBytes(t, tt.requestBody)
			}

			req := httptest.NewRequest(http.MethodPost, "/ap/v1/products", requestBody)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			w := httptest.NewRecorder()
			GzipMiddleware(http.HandlerFunc(echoHandler)).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.want.statusCode {
				t.Fatalf("status: got %d want %d", res.StatusCode, tt.want.statusCode)
			}
			if ce := res.Header.Get("Content-Encoding"); ce != tt.want.contentEncoding {
				t.Fatalf("content-encoding: got %q want %q", ce, tt.want.contentEncoding)
			}

			reader := io.Reader(res.Body)
			if tt.want.contentEncoding == "gzip" {
				gr, err := gzip.NewReader(res.Body)
				if err != nil {
					t.Fatalf("new gzip reader: %v", err)
				}
				defer gr.Close()
				reader = gr
			}

			body, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if !strings.Contains(string(body), tt.want.bodyContains) {
				t.Fatalf("body %q does not contain %q", string(body), tt.want.bodyContains)
			}
		})
	}
}

func TestGzipMiddleware_NoContent(t *testing.T) {
	h := GzipMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodDelete, "/ap/v1/products/p1", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusNoContent)
	}
	if ce := w.Header().Get("Content-Encoding"); ce != "" {
		t.Fatalf("content-encoding on 204: %q", ce)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("body on 204: %q", w.Body.String())
	}
}
