// Package authtest serves the demonstration route behind the bearer-token
// middleware: it echoes the decoded claims of the caller's token.
package authtest

import (
	"net/http"

	"github.com/aksumer/aksumer-api/internal/lib/api/apierror"
	"github.com/aksumer/aksumer-api/internal/lib/api/response"
	"github.com/aksumer/aksumer-api/internal/middleware/authjwt"

	"github.com/go-chi/render"
)

type Data struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Iat      int64  `json:"iat"`
	Exp      int64  `json:"exp"`
}

func New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := authjwt.ClaimsFromContext(r.Context())
		if !ok {
			// Unreachable behind the middleware.
			response.Err(w, r, apierror.Internal())
			return
		}

		render.JSON(w, r, response.OK(Data{
			ID:       claims.Payload.ID,
			Username: claims.Payload.Username,
			Iat:      claims.IssuedAt.Unix(),
			Exp:      claims.ExpiresAt.Unix(),
		}))
	}
}
