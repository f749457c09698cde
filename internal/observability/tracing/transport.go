package tracing

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Transport wraps an http.RoundTripper with a client span per request.
type Transport struct {
	Base http.RoundTripper
}

// NewTransport returns a tracing transport around base, or http.DefaultTransport if nil.
func NewTransport(base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base}
}

// NewClient returns an http.Client whose requests are traced.
func NewClient(client *http.Client) *http.Client {
	if client == nil {
		client = &http.Client{}
	}
	traced := *client
	traced.Transport = NewTransport(client.Transport)
	return &traced
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, span := GetTracer().Start(req.Context(), req.Method+" "+req.URL.Host,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.host", req.URL.Host),
			attribute.String("http.path", req.URL.Path),
		),
	)
	defer span.End()

	req = req.Clone(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 500 {
		span.SetStatus(codes.Error, resp.Status)
	}
	return resp, nil
}
