package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	"github.com/kailas-cloud/gigmarket/internal/logger"
	"github.com/kailas-cloud/gigmarket/internal/metrics"
	accountuc "github.com/kailas-cloud/gigmarket/internal/usecase/account"
	assistantuc "github.com/kailas-cloud/gigmarket/internal/usecase/assistant"
	giguc "github.com/kailas-cloud/gigmarket/internal/usecase/gig"
	healthuc "github.com/kailas-cloud/gigmarket/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/gigmarket/internal/usecase/recommend"
	usageuc "github.com/kailas-cloud/gigmarket/internal/usecase/usage"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Services bundles the use cases the HTTP API exposes.
type Services struct {
	Accounts  *accountuc.Service
	Gigs      *giguc.Service
	Recommend *recommenduc.Service
	Assistant *assistantuc.Service
	Usage     *usageuc.Service
	Health    *healthuc.Service
}

// Server serves the marketplace HTTP API.
type Server struct {
	accounts      *accountuc.Service
	gigs          *giguc.Service
	recommend     *recommenduc.Service
	assistant     *assistantuc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	tokens        TokenVerifier
	version       string
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, tokens TokenVerifier, version string, log *zap.Logger) *Server {
	s := &Server{
		accounts:  svc.Accounts,
		gigs:      svc.Gigs,
		recommend: svc.Recommend,
		assistant: svc.Assistant,
		usage:     svc.Usage,
		health:    svc.Health,
		tokens:    tokens,
		version:   version,
		validate:  newValidator(),
		logger:    log,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized),
		sentinelHandler(domain.ErrBadCredentials, http.StatusUnauthorized, CodeInvalidCredentials),
		sentinelHandler(domain.ErrTokenExpired, http.StatusUnauthorized, CodeTokenExpired),
		sentinelHandler(domain.ErrTokenInvalid, http.StatusForbidden, CodeTokenInvalid),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, CodeForbidden),
		sentinelHandler(domain.ErrProfileIncomplete, http.StatusForbidden, CodeProfileIncomplete),
		sentinelHandler(domain.ErrEmailNotConfirmed, http.StatusForbidden, CodeEmailNotConfirmed),
		sentinelHandler(domain.ErrGigLimitReached, http.StatusForbidden, CodeGigLimitReached),
		sentinelHandler(domain.ErrReviewNotAllowed, http.StatusForbidden, CodeReviewNotAllowed),
		sentinelHandler(domain.ErrOutstandingOrders, http.StatusBadRequest, CodeOutstandingOrders),
		sentinelHandler(domain.ErrGigNotFound, http.StatusNotFound, CodeGigNotFound),
		sentinelHandler(domain.ErrUserNotFound, http.StatusNotFound, CodeUserNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists),
		sentinelHandler(domain.ErrAssistantQuotaExceeded,
			http.StatusPaymentRequired, CodeAssistantQuotaExceeded),
		sentinelHandler(domain.ErrAssistantProviderError,
			http.StatusBadGateway, CodeAssistantProviderError),
	}
	return s
}

// newValidator returns a validator that reports JSON field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and runs struct validation.
// It writes the error response itself and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err.Error()
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

func setAssistantHeaders(w http.ResponseWriter, usage *domain.AssistantUsage) {
	if usage.Used() {
		w.Header().Set(metrics.AssistantTokensHeader, strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals:
// the message of a validation or rule error, else the sentinel text.
func safeDomainMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}
	var re *domain.RuleError
	if errors.As(err, &re) {
		return re.Msg
	}
	sentinels := []error{
		domain.ErrUnauthorized,
		domain.ErrBadCredentials,
		domain.ErrTokenExpired,
		domain.ErrTokenInvalid,
		domain.ErrForbidden,
		domain.ErrProfileIncomplete,
		domain.ErrEmailNotConfirmed,
		domain.ErrGigLimitReached,
		domain.ErrReviewNotAllowed,
		domain.ErrOutstandingOrders,
		domain.ErrGigNotFound,
		domain.ErrUserNotFound,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrAssistantQuotaExceeded,
		domain.ErrAssistantProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.logger
	if userID, ok := UserIDFromContext(r.Context()); ok {
		log = log.With(logger.UserID(userID))
	}
	log.Warn("domain error", zap.String("path", r.URL.Path), zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
