package http

import (
	"errors"
	"mime"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AlibekovAA/bearer-auth/internal/auth/service"
	commonhttp "github.com/AlibekovAA/bearer-auth/internal/common/http"
	"github.com/AlibekovAA/bearer-auth/internal/common/jwtverify"
	"github.com/AlibekovAA/bearer-auth/internal/common/logger"
	userdomain "github.com/AlibekovAA/bearer-auth/internal/user/domain"
)

const welcomeMessage = "welcome to the book management system"

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// tokenRequest mirrors the OAuth2 password grant form. grant_type is
// accepted but not required.
type tokenRequest struct {
	GrantType string `json:"grant_type" validate:"omitempty,eq=password"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Handler struct {
	auth     *service.AuthService
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(auth *service.AuthService, verifier jwtverify.TokenVerifier, log *logger.Logger, requestTimeout time.Duration) http.Handler {
	h := &Handler{auth: auth, validate: validator.New(), log: log}
	withTimeout := commonhttp.WithTimeout(requestTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/", h.root)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.HandleFunc("/users/register", commonhttp.RequireMethod(http.MethodPost)(withTimeout(h.register)))
	mux.HandleFunc("/users/token", commonhttp.RequireMethod(http.MethodPost)(withTimeout(h.token)))
	mux.Handle("/users/me", commonhttp.RequireMethod(http.MethodGet)(
		jwtverify.Middleware(verifier, log)(withTimeout(h.me)).ServeHTTP,
	))
	return mux
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.CodeNotFound, "not found", nil, commonhttp.TraceIDFromContext(r.Context()))
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, commonhttp.TraceIDFromContext(r.Context()))
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"message": welcomeMessage})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "register_invalid_json",
		}).Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, commonhttp.TraceIDFromContext(r.Context()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.HandleError(w, r, service.ErrValidation.WithCause(err), h.log)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) token(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTokenRequest(w, r)
	if !ok {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		commonhttp.HandleError(w, r, service.ErrValidation.WithCause(err), h.log)
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		ExpiresIn:   int64(result.ExpiresIn / time.Second),
	})
}

// decodeTokenRequest reads a JSON body when the client says so and the
// urlencoded form otherwise.
func (h *Handler) decodeTokenRequest(w http.ResponseWriter, r *http.Request) (tokenRequest, bool) {
	var req tokenRequest
	traceID := commonhttp.TraceIDFromContext(r.Context())

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := commonhttp.DecodeJSON(r, &req); err != nil {
			h.log.WithFields(r.Context(), logger.Fields{
				"action": "token_invalid_json",
			}).Warnf("token request failed: invalid json: %v", err)
			commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, traceID)
			return req, false
		}
		return req, true
	}

	if err := r.ParseForm(); err != nil {
		h.log.WithFields(r.Context(), logger.Fields{
			"action": "token_invalid_form",
		}).Warnf("token request failed: invalid form: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidForm, "invalid form", nil, traceID)
		return req, false
	}
	req.GrantType = r.PostForm.Get("grant_type")
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")
	return req, true
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteUnauthenticated(w, r)
		return
	}

	user, err := h.auth.AuthenticateClaims(r.Context(), claims)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			commonhttp.WriteUnauthenticated(w, r)
			return
		}
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(user userdomain.User) userResponse {
	return userResponse{ID: int64(user.ID), Username: user.Username}
}
