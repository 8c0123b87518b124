package types

import (
	"net"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// Request is the minimal view of an inbound request needed to identify a
// client and describe it in a security event.
type Request interface {
	Method() string
	Path() string
	// Header returns the first value of the named header, matched case-insensitively.
	Header(name string) string
	// RemoteIP returns the transport-level peer address, empty when unknown.
	RemoteIP() string
}

// fiberRequest copies every value it hands out: fiber strings point into
// buffers that are reused once the handler returns.
type fiberRequest struct {
	c *fiber.Ctx
}

func NewFiberRequest(c *fiber.Ctx) Request {
	return &fiberRequest{c: c}
}

func (r *fiberRequest) Method() string { return utils.CopyString(r.c.Method()) }

func (r *fiberRequest) Path() string { return utils.CopyString(r.c.Path()) }

func (r *fiberRequest) Header(name string) string { return utils.CopyString(r.c.Get(name)) }

func (r *fiberRequest) RemoteIP() string {
	if addr := r.c.Context().RemoteIP(); addr != nil && !addr.IsUnspecified() {
		return addr.String()
	}
	return ""
}

type httpRequest struct {
	r *http.Request
}

func NewHTTPRequest(r *http.Request) Request {
	return &httpRequest{r: r}
}

func (h *httpRequest) Method() string { return h.r.Method }

func (h *httpRequest) Path() string { return h.r.URL.Path }

func (h *httpRequest) Header(name string) string { return h.r.Header.Get(name) }

func (h *httpRequest) RemoteIP() string {
	if h.r.RemoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(h.r.RemoteAddr)
	if err != nil {
		return h.r.RemoteAddr
	}
	return host
}

// StaticRequest is a Request backed by plain values, for callers outside an
// HTTP pipeline.
type StaticRequest struct {
	RequestMethod string
	RequestPath   string
	Headers       map[string]string
	PeerIP        string
}

func (s StaticRequest) Method() string { return s.RequestMethod }

func (s StaticRequest) Path() string { return s.RequestPath }

func (s StaticRequest) Header(name string) string {
	for k, v := range s.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func (s StaticRequest) RemoteIP() string { return s.PeerIP }
