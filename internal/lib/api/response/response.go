// Package response renders the uniform JSON envelope used by every
// endpoint: {"code": <uint16>, "message": <string>, "data": <payload?>}.
package response

import (
	"net/http"

	"github.com/aksumer/aksumer-api/internal/lib/api/apierror"

	"github.com/go-chi/render"
)

type Envelope struct {
	Code    uint16 `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK wraps a success payload. Success is always code 0.
func OK(data any) Envelope {
	return Envelope{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// Err renders err as an error envelope with its mapped HTTP status.
// Errors carry no payload.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := apierror.From(err)

	render.Status(r, apiErr.HTTPStatus())
	render.JSON(w, r, Envelope{
		Code:    apiErr.Code(),
		Message: apiErr.Message(),
	})
}
