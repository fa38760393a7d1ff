package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/faqgen-api/internal/api/shared"
)

// getShopIDFromContext extracts the authenticated shop's UUID from the
// request context, where the authentication middleware placed it.
func getShopIDFromContext(r *http.Request) (uuid.UUID, bool) {
	shopID, ok := r.Context().Value(shared.ShopIDContextKey).(uuid.UUID)
	if !ok || shopID == uuid.Nil {
		return uuid.Nil, false
	}
	return shopID, true
}

// requireShopID extracts the shop ID or writes a 401 and reports failure.
func requireShopID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	shopID, ok := getShopIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Shop identity missing from request")
		return uuid.Nil, false
	}
	return shopID, true
}
