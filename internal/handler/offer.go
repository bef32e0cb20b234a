package handler

import (
	"encoding/json"
	"net/http"
)

type validateOfferRequest struct {
	Code string `json:"code"`
}

type validateOfferResponse struct {
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
	Description     string  `json:"description"`
	AlreadyRedeemed bool    `json:"already_redeemed"`
}

// ValidateOffer handles POST /offers/validate.
// It resolves the code and reports whether the current user has already
// spent it, so the UI can warn before the booking attempt. This is only a
// pre-check — the booking flow re-verifies against the redemption store.
func (s *Server) ValidateOffer(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	var req validateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "request body is invalid")
		return
	}

	oc, err := s.offers.Lookup(req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	used, err := s.offers.CheckRedeemed(r.Context(), userID, oc.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, validateOfferResponse{
		Code:            oc.Code,
		DiscountPercent: oc.DiscountPercent,
		Description:     oc.Description,
		AlreadyRedeemed: used,
	})
}
