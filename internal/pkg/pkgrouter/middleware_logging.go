package pkgrouter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxLoggedBodyBytes = 64 * 1024
	masked             = "***"
	binaryOmitted      = "<binary body omitted>"
)

//nolint:gochecknoglobals // read-only lookup
var sensitiveKeys = map[string]struct{}{
	"authorization":       {},
	"cookie":              {},
	"set-cookie":          {},
	"x-api-key":           {},
	"proxy-authorization": {},
	"password":            {},
	"token":               {},
	"access_token":        {},
}

func isSensitive(key string) bool {
	_, found := sensitiveKeys[strings.ToLower(key)]
	return found
}

func maskHeaders(headers http.Header) http.Header {
	out := headers.Clone()
	for key := range out {
		if isSensitive(key) {
			out.Set(key, masked)
		}
	}
	return out
}

// maskData walks decoded JSON and replaces values under sensitive keys.
func maskData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if isSensitive(k) {
				out[k] = masked
				continue
			}
			out[k] = maskData(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = maskData(item)
		}
		return out
	default:
		return v
	}
}

func maskForm(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		switch {
		case isSensitive(k):
			out[k] = masked
		case len(v) == 1:
			out[k] = v[0]
		default:
			out[k] = v
		}
	}
	return out
}

// cappedBuffer keeps the first maxLoggedBodyBytes passed to keep.
type cappedBuffer struct {
	buf       bytes.Buffer
	truncated bool
}

func (c *cappedBuffer) keep(p []byte) {
	room := maxLoggedBodyBytes - c.buf.Len()
	if len(p) > room {
		p = p[:max(room, 0)]
		c.truncated = true
	}
	c.buf.Write(p)
}

// responseRecorder captures status, size and a prefix of the body.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	body   cappedBuffer
}

func (w *responseRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.keep(p)
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *responseRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *responseRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets the websocket upgrade on /ws pass through the logger.
//
//nolint:err113 // dynamic error
func (w *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	if w.status == 0 {
		w.status = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}

func (w *responseRecorder) loggedBody() any {
	if w.body.buf.Len() == 0 {
		return nil
	}

	body := describeBody(w.body.buf.Bytes())
	if w.body.truncated {
		return map[string]any{"body": body, "truncated": true}
	}
	return body
}

// describeBody decodes JSON and masks it, keeps other UTF-8 text as is and
// replaces binary content with a marker.
func describeBody(raw []byte) any {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err == nil {
		return maskData(decoded)
	}
	if !utf8.Valid(raw) {
		return binaryOmitted
	}
	return string(raw)
}

func matchedRoutePath(r *http.Request) string {
	if pattern := RoutePattern(r.Context()); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

func isMultipart(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "multipart/")
}

func parseAndMaskBody(contentType string, body []byte) any {
	if len(body) == 0 {
		return nil
	}

	ct := strings.ToLower(contentType)
	switch {
	case isMultipart(ct):
		// uploaded sheets carry student data
		return fmt.Sprintf("<multipart body omitted, %d bytes>", len(body))
	case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		if values, err := url.ParseQuery(string(body)); err == nil {
			return maskForm(values)
		}
	}

	if len(body) > maxLoggedBodyBytes {
		if !utf8.Valid(body) {
			return binaryOmitted
		}
		return string(body[:maxLoggedBodyBytes]) + "...(truncated)"
	}
	return describeBody(body)
}

// captureRequestBody returns the loggable form of the request body and
// restores r.Body for the handler. Multipart uploads are left unread.
func captureRequestBody(r *http.Request) any {
	contentType := r.Header.Get("Content-Type")
	if isMultipart(contentType) {
		return fmt.Sprintf("<multipart body omitted, %d bytes>", r.ContentLength)
	}
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	//nolint:errcheck // best effort for logging only
	raw, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return parseAndMaskBody(contentType, raw)
}

func middlewareLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := matchedRoutePath(r)
		start := time.Now()

		slog.InfoContext(r.Context(), "request received",
			"method", r.Method,
			"route", route,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"headers", maskHeaders(r.Header),
			"body", captureRequestBody(r),
		)

		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}

		slog.Log(r.Context(), level, "response sent",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", rec.bytes,
			"latency_ms", time.Since(start).Milliseconds(),
			"body", rec.loggedBody(),
		)
	})
}
