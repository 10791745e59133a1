package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/render"

	"github.com/desertthunder/openmusic/internal/shared"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// response is the JSON envelope written for every request.
type response struct {
	HTTPStatusCode int    `json:"-"`
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
	Data           any    `json:"data,omitempty"`
}

func (resp *response) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, resp.HTTPStatusCode)
	return nil
}

// data is shorthand for response payload objects.
type data map[string]any

func success(w http.ResponseWriter, r *http.Request, code int, message string, payload any) {
	render.Render(w, r, &response{
		HTTPStatusCode: code,
		Status:         statusSuccess,
		Message:        message,
		Data:           payload,
	})
}

// kindMessages is the fixed client-facing message for each error kind.
var kindMessages = map[shared.Kind]string{
	shared.KindClient:         "request does not match the expected format",
	shared.KindInvariant:      "request could not be completed",
	shared.KindNotFound:       "resource not found",
	shared.KindAuthentication: "invalid or missing credentials",
	shared.KindAuthorization:  "you are not allowed to access this resource",
	shared.KindInternal:       "internal server error",
}

// fail writes the fixed message for err's kind: "fail" for classified errors and an opaque
// "error" 500 otherwise. Error details are only logged.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	kind := shared.KindOf(err)
	logger := log.FromContext(r.Context())

	status := statusFail
	if kind == shared.KindInternal {
		status = statusError
		logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "kind", kind, "err", err)
	}

	render.Render(w, r, &response{
		HTTPStatusCode: kind.StatusCode(),
		Status:         status,
		Message:        kindMessages[kind],
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	fail(w, r, shared.NotFoundError("route does not exist"))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, &response{
		HTTPStatusCode: http.StatusMethodNotAllowed,
		Status:         statusFail,
		Message:        "method is not allowed",
	})
}
