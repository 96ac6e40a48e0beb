package register

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
	"github.com/aksumer/aksumer-api/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Request struct {
	Username string `json:"username" validate:"required,min=5,max=12"`
	Email    string `json:"email" validate:"required,email"`
	Pass     string `json:"password" validate:"required,min=8,max=20"`
}

type Data struct {
	NewID uint64 `json:"new_id"`
}

// EventPublisher is satisfied by events.Publisher. A nil publisher
// disables event publishing.
type EventPublisher interface {
	PublishRegistration(ctx context.Context, event models.RegistrationEvent) error
}

func New(
	log *slog.Logger,
	authService *auth.Auth,
	publisher EventPublisher,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.register.New"

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

		userID, err := authService.RegisterNewUser(ctx, req.Username, req.Email, req.Pass)
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				response.Err(w, r, apierror.EmailAlreadyRegistered(req.Email))
				return
			}

			log.Error("failed to register user", sl.Err(err))
			response.Err(w, r, apierror.Storage(err))
			return
		}

		if publisher != nil {
			event := models.RegistrationEvent{
				UserID:     userID,
				Username:   req.Username,
				Email:      req.Email,
				OccurredAt: time.Now(),
			}
			if err := publisher.PublishRegistration(ctx, event); err != nil {
				log.Warn("failed to publish registration event", sl.Err(err))
			}
		}

		render.JSON(w, r, response.OK(Data{NewID: userID}))
	}
}
