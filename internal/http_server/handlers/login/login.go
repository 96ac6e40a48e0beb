package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aksumer/aksumer-api/internal/auth"
	"github.com/aksumer/aksumer-api/internal/lib/api/apierror"
	"github.com/aksumer/aksumer-api/internal/lib/api/request"
	"github.com/aksumer/aksumer-api/internal/lib/api/response"
	sl "github.com/aksumer/aksumer-api/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Request struct {
	Email string `json:"email" validate:"required,email"`
	Pass  string `json:"password" validate:"required,min=8,max=20"`
}

type Data struct {
	Token string `json:"token"`
}

func New(
	log *slog.Logger,
	authService *auth.Auth,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := request.Decode(r, &req); err != nil {
			log.Warn("rejected request body", sl.Err(err))
			response.Err(w, r, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		token, err := authService.Login(ctx, req.Email, req.Pass)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidCredentials):
				response.Err(w, r, apierror.IncorrectCredentials())
			case errors.Is(err, auth.ErrTokenGeneration):
				response.Err(w, r, apierror.GenerateToken())
			default:
				log.Error("failed to login user", sl.Err(err))
				response.Err(w, r, apierror.Storage(err))
			}
			return
		}

		render.JSON(w, r, response.OK(Data{Token: token}))
	}
}
