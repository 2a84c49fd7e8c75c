package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// AuthService is the part of services.AuthService the handlers use.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*auth.Token, error)
	Authorize(raw string) auth.ValidationResult
}

// Recorder receives per-request outcomes. metrics.Recorder implements it.
type Recorder interface {
	ObserveRegister(services.Outcome)
	ObserveLogin(services.Outcome)
	ObserveTokenValidation(auth.TokenState)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRegister(services.Outcome)       {}
func (nopRecorder) ObserveLogin(services.Outcome)          {}
func (nopRecorder) ObserveTokenValidation(auth.TokenState) {}

type Handler struct {
	auth     AuthService
	recorder Recorder
	validate *validator.Validate
	logger   logging.Logger
}

// NewHandler returns the REST handlers. recorder may be nil.
func NewHandler(a AuthService, recorder Recorder, l logging.Logger) *Handler {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	// bcrypt limits are in bytes; the built-in max counts runes.
	_ = v.RegisterValidation("maxbytes", maxBytes)

	return &Handler{
		auth:     a,
		recorder: recorder,
		validate: v,
		logger:   l,
	}
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// decode reads a JSON body into dst and validates it. On failure it writes a
// 400 response and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgBadRequest
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field())+": failed "+fe.Tag())
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password, req.Email)
	outcome := services.OutcomeOf(err)
	h.recorder.ObserveRegister(outcome)

	switch outcome {
	case services.OutcomeOK:
		h.logger.Info(r.Context(), "user registered", "username", user.UserName)
		writeJSON(w, http.StatusOK, UserResponse{ID: user.ID, Username: user.UserName, Email: user.Email})
	case services.OutcomeDuplicateIdentity:
		writeError(w, http.StatusConflict, msgDuplicateIdentity)
	case services.OutcomeInvalidPassword:
		writeError(w, http.StatusBadRequest, msgInvalidPassword)
	default:
		h.logger.Error(r.Context(), "registration failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	outcome := services.OutcomeOf(err)
	h.recorder.ObserveLogin(outcome)

	switch outcome {
	case services.OutcomeOK:
		writeJSON(w, http.StatusOK, LoginResponse{Token: token.Raw, ExpiresAt: token.ExpiresAt.UTC()})
	case services.OutcomeUnknownIdentity, services.OutcomeInvalidCredentials:
		h.logger.Debug(r.Context(), "login rejected", "username", req.Username, "outcome", outcome.String())
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
	default:
		h.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	username, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, msgInvalidToken)
		return
	}
	writeJSON(w, http.StatusOK, ProfileResponse{Username: username})
}

func (h *Handler) Protected(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(protectedMessage))
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
