package coincap

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"syscall"

	"crypto_tracker/internal/domain"

	"github.com/pkg/errors"
)

// maxErrorBody caps how much of a non-2xx body is kept in the error message.
const maxErrorBody = 512

// SafeCall executes req and decodes a JSON body into T.
// It never panics on transport or decode failures; every error is a *domain.NetworkError.
func SafeCall[T any](client *http.Client, req *http.Request) (T, error) {
	var zero T

	resp, err := client.Do(req)
	if err != nil {
		return zero, classifyTransportError(errors.Wrapf(err, "%s %s", req.Method, req.URL.Path))
	}
	defer resp.Body.Close()

	return responseToResult[T](req, resp)
}

func responseToResult[T any](req *http.Request, resp *http.Response) (T, error) {
	var zero T

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return zero, classifyTransportError(errors.Wrapf(err, "reading body of %s", req.URL.Path))
		}

		var out T
		if err := json.Unmarshal(body, &out); err != nil {
			return zero, domain.NewNetworkError(domain.KindSerialization, resp.StatusCode,
				errors.Wrapf(err, "decoding %s", req.URL.Path))
		}
		return out, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	cause := errors.Errorf("%s %s: %s - %s", req.Method, req.URL.Path, resp.Status, string(body))

	switch {
	case resp.StatusCode == http.StatusRequestTimeout:
		return zero, domain.NewNetworkError(domain.KindRequestTimeout, resp.StatusCode, cause)
	case resp.StatusCode == http.StatusTooManyRequests:
		return zero, domain.NewNetworkError(domain.KindTooManyRequests, resp.StatusCode, cause)
	case resp.StatusCode >= 500 && resp.StatusCode < 600:
		return zero, domain.NewNetworkError(domain.KindServerError, resp.StatusCode, cause)
	default:
		return zero, domain.NewNetworkError(domain.KindUnknown, resp.StatusCode, cause)
	}
}

// classifyTransportError maps failures that happen before a response is read.
func classifyTransportError(err error) *domain.NetworkError {
	if errors.Is(err, context.Canceled) {
		return domain.NewNetworkError(domain.KindUnknown, 0, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewNetworkError(domain.KindRequestTimeout, 0, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.NewNetworkError(domain.KindRequestTimeout, 0, err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return domain.NewNetworkError(domain.KindNoInternet, 0, err)
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return domain.NewNetworkError(domain.KindNoInternet, 0, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return domain.NewNetworkError(domain.KindNoInternet, 0, err)
	}

	return domain.NewNetworkError(domain.KindUnknown, 0, err)
}
