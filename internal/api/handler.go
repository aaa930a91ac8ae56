package api

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"musicschool-api/internal/repository"
	"musicschool-api/internal/service"
)

// Handler carries the HTTP-facing side of the application. Route
// registration lives in NewRouter.
type Handler struct {
	availability *service.AvailabilityService
	booking      *service.BookingService
	reviews      *service.ReviewService
	professors   *service.ProfessorService
	instruments  *service.InstrumentService
	users        repository.UserRepository

	logger   *zap.Logger
	validate *validator.Validate
}

func NewHandler(
	availability *service.AvailabilityService,
	booking *service.BookingService,
	reviews *service.ReviewService,
	professors *service.ProfessorService,
	instruments *service.InstrumentService,
	users repository.UserRepository,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		availability: availability,
		booking:      booking,
		reviews:      reviews,
		professors:   professors,
		instruments:  instruments,
		users:        users,
		logger:       logger,
		validate:     validator.New(),
	}
}
