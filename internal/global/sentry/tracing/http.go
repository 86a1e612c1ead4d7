package tracing

import (
	"net/url"

	"attendance-system/config"

	"github.com/getsentry/sentry-go"
	"github.com/go-resty/resty/v2"
)

// SetupRestyTracing 为出站 HTTP 调用（快照摄像头等）挂上 span，在 httpclient.Init 中调用
func SetupRestyTracing(client *resty.Client) {
	if !config.Get().Sentry.Tracing.TraceHTTPCalls {
		return
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		parent := sentry.SpanFromContext(req.Context())
		if parent == nil {
			return nil
		}
		target := sanitizeURL(req.URL)
		span := parent.StartChild("http.client")
		span.Description = req.Method + " " + target
		span.SetData("http.request.method", req.Method)
		span.SetData("url.full", target)

		req.SetHeader("sentry-trace", span.ToSentryTrace())
		if baggage := span.ToBaggage(); baggage != "" {
			req.SetHeader("baggage", baggage)
		}
		req.SetContext(span.Context())
		return nil
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		span := sentry.SpanFromContext(resp.Request.Context())
		if span == nil {
			return nil
		}
		code := resp.StatusCode()
		span.SetData("http.response.status_code", code)
		if code >= 400 {
			span.Status = sentry.HTTPtoSpanStatus(code)
			span.Finish()
			return nil
		}
		finishSpan(span, false, true, "", nil)
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		if req == nil {
			return
		}
		if span := sentry.SpanFromContext(req.Context()); span != nil {
			finishSpan(span, true, true, "http.error", err)
		}
	})
}

// sanitizeURL 去掉查询参数和用户信息，摄像头地址里可能带凭据
func sanitizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || rawURL == "" {
		return "unknown"
	}
	result := ""
	if parsed.Scheme != "" {
		result = parsed.Scheme + "://"
	}
	result += parsed.Host + parsed.Path
	if result == "" {
		return "unknown"
	}
	return result
}
