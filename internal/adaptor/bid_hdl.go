package adaptor

import (
	"net/http"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/request"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/usecase"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BidHandler struct {
	service usecase.BidService
	log     *zap.Logger
}

func NewBidHandler(service usecase.BidService, log *zap.Logger) *BidHandler {
	return &BidHandler{
		service: service,
		log:     log.With(zap.String("handler", "bid")),
	}
}

// PlaceBid handles POST /api/tasks/{id}/bids
func (h *BidHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req request.PlaceBidRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	bid, err := h.service.PlaceBid(r.Context(), caller, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "place bid")
		return
	}

	utils.ResponseCreated(w, "Bid placed", bid)
}

// GetTaskBids handles GET /api/tasks/{id}/bids
func (h *BidHandler) GetTaskBids(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	bids, err := h.service.GetTaskBids(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get task bids")
		return
	}

	utils.ResponseSuccess(w, "success", bids)
}

// GetMyBids handles GET /api/bids/mine
func (h *BidHandler) GetMyBids(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	bids, err := h.service.GetMyBids(r.Context(), caller)
	if err != nil {
		handleServiceError(w, h.log, err, "get my bids")
		return
	}

	utils.ResponseSuccess(w, "success", bids)
}

// AcceptBid handles POST /api/bids/{id}/accept
func (h *BidHandler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	bid, err := h.service.AcceptBid(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "accept bid")
		return
	}

	utils.ResponseSuccess(w, "Bid accepted", bid)
}
