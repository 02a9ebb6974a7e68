package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Mobo140/platform_common/pkg/logger"
	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"
)

const (
	sessionHeader   = "X-App-Session"
	requestIDHeader = "X-Request-ID"

	maxBodySize = 1 << 20
)

// Validator is implemented by response schemas that check required fields.
type Validator interface {
	Validate() error
}

// Request describes a single API round trip.
type Request struct {
	// Op names the operation in errors, logs and spans.
	Op     string
	Method string
	Path   string
	// Session is sent as X-App-Session, Bearer as Authorization. Empty values are omitted.
	Session string
	Bearer  string
	Body    any
}

type Transport struct {
	baseURL    string
	httpClient *http.Client
	tracer     opentracing.Tracer
}

func New(baseURL string, timeout time.Duration) *Transport {
	return NewWithClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithClient(baseURL string, httpClient *http.Client) *Transport {
	return &Transport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tracer:     opentracing.GlobalTracer(),
	}
}

// BaseURL is the API root that send URLs are built on.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

type envelope struct {
	OK     *bool           `json:"ok"`
	Detail json.RawMessage `json:"detail"`
}

// Do performs req and decodes the response body into out, which may be nil.
// Non-2xx statuses and "ok": false payloads become *RejectedError.
func (t *Transport) Do(ctx context.Context, req Request, out any) error {
	span, ctx := opentracing.StartSpanFromContextWithTracer(ctx, t.tracer, req.Op)
	defer span.Finish()

	url := t.baseURL + req.Path
	ext.SpanKindRPCClient.Set(span)
	ext.HTTPMethod.Set(span, req.Method)
	ext.HTTPUrl.Set(span, url)

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", req.Op, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", req.Op, err)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if len(req.Session) != 0 {
		httpReq.Header.Set(sessionHeader, "Bearer "+req.Session)
	}
	if len(req.Bearer) != 0 {
		httpReq.Header.Set("Authorization", "Bearer "+req.Bearer)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(requestIDHeader, requestID)

	err = t.tracer.Inject(span.Context(), opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(httpReq.Header))
	if err != nil {
		logger.Debug("failed to inject span context", zap.String("op", req.Op), zap.Error(err))
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		ext.Error.Set(span, true)
		logger.Debug("request failed",
			zap.String("op", req.Op),
			zap.String("request_id", requestID),
			zap.Error(err),
		)

		return &TransportError{Op: req.Op, Err: err}
	}
	defer resp.Body.Close()

	ext.HTTPStatusCode.Set(span, uint16(resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		ext.Error.Set(span, true)
		return &TransportError{Op: req.Op, Err: fmt.Errorf("read body: %w", err)}
	}

	logger.Debug("request done",
		zap.String("op", req.Op),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
	)

	var env envelope
	envErr := json.Unmarshal(data, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ext.Error.Set(span, true)

		detail := ""
		if envErr == nil {
			detail = decodeDetail(env.Detail)
		}

		return &RejectedError{Op: req.Op, Status: resp.StatusCode, Detail: detail}
	}

	if envErr == nil && env.OK != nil && !*env.OK {
		ext.Error.Set(span, true)
		return &RejectedError{Op: req.Op, Status: resp.StatusCode, Detail: decodeDetail(env.Detail)}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, req.Op, err)
	}

	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedResponse, req.Op, err)
		}
	}

	return nil
}

// decodeDetail accepts the plain string detail as well as structured
// validation details, which are returned compacted.
func decodeDetail(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}

	return buf.String()
}
