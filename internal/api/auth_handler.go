package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/faqgen-api/internal/api/shared"
	"github.com/phrazzld/faqgen-api/internal/service/auth"
	"github.com/phrazzld/faqgen-api/internal/store"
)

// AuthHandler handles shop authentication API requests. Shops are
// provisioned out of band; there is no registration endpoint.
type AuthHandler struct {
	shopStore        store.ShopStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	tokenLifetime    time.Duration
	validator        *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	shopStore store.ShopStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	tokenLifetime time.Duration,
) *AuthHandler {
	return &AuthHandler{
		shopStore:        shopStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		tokenLifetime:    tokenLifetime,
		validator:        validator.New(),
	}
}

// Login handles the /auth/login endpoint. Wrong domain and wrong password
// produce the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	shop, err := h.shopStore.GetByDomain(r.Context(), req.Domain)
	if err != nil {
		if errors.Is(err, store.ErrShopNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, GetSafeErrorMessage(auth.ErrInvalidCredentials))
			return
		}
		slog.Error("failed to get shop by domain", "error", err, "domain", req.Domain)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate shop")
		return
	}

	if !shop.IsActive {
		shared.RespondWithError(w, r, http.StatusUnauthorized, GetSafeErrorMessage(auth.ErrInvalidCredentials))
		return
	}

	if err := h.passwordVerifier.Compare(shop.PasswordHash, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, GetSafeErrorMessage(auth.ErrInvalidCredentials))
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), shop.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "shop_id", shop.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		ShopID:    shop.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokenLifetime).UTC().Format(time.RFC3339),
	})
}
