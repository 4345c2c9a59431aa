package http

import (
	"net/http"
	"strconv"

	"github.com/ArrobaLab/maipro/internal/dto"
	"github.com/ArrobaLab/maipro/internal/service"
	"github.com/ArrobaLab/maipro/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func handleCreateProvider(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		var req dto.CreateProviderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		prov, err := mp.CreateProvider(r.Context(), p.UserID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, prov)
	}
}

func handleGetProvider(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		prov, err := mp.GetProvider(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, prov)
	}
}

func handleListProviders(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := pageParams(r)
		f := store.ProviderFilter{
			Specialty: r.URL.Query().Get("specialty"),
			City:      r.URL.Query().Get("city"),
			Page:      page,
			Limit:     limit,
		}
		provs, total, err := mp.ListProviders(r.Context(), f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, paginated(provs, total, page, limit))
	}
}

func handleUpdateProvider(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		var req dto.UpdateProviderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		prov, err := mp.UpdateProvider(r.Context(), p.UserID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, prov)
	}
}

func handleCreateService(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		var req dto.CreateServiceRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		svc, err := mp.CreateService(r.Context(), p.UserID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, svc)
	}
}

func handleGetService(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		svc, err := mp.GetService(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

func handleListServices(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit := pageParams(r)
		f := store.ServiceFilter{
			Category: r.URL.Query().Get("category"),
			Type:     r.URL.Query().Get("type"),
			Page:     page,
			Limit:    limit,
		}
		svcs, total, err := mp.ListServices(r.Context(), f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, paginated(svcs, total, page, limit))
	}
}

func handleUpdateService(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req dto.UpdateServiceRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		svc, err := mp.UpdateService(r.Context(), p.UserID, id, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

func handleCreateBooking(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		var req dto.CreateBookingRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		booking, err := mp.CreateBooking(r.Context(), p.UserID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, booking)
	}
}

func handleGetBooking(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		booking, err := mp.GetBooking(r.Context(), p, id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
	}
}

func handleListMyBookings(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		page, limit := pageParams(r)
		f := store.BookingFilter{Status: r.URL.Query().Get("status"), Page: page, Limit: limit}
		bookings, total, err := mp.ListMyBookings(r.Context(), p.UserID, f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, paginated(bookings, total, page, limit))
	}
}

func handleListProviderBookings(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		page, limit := pageParams(r)
		f := store.BookingFilter{Status: r.URL.Query().Get("status"), Page: page, Limit: limit}
		bookings, total, err := mp.ListProviderBookings(r.Context(), p.UserID, f)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, paginated(bookings, total, page, limit))
	}
}

func handleUpdateBookingStatus(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var req dto.UpdateBookingStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		booking, err := mp.UpdateBookingStatus(r.Context(), p, id, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, booking)
	}
}

func handleCreateReview(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		var req dto.CreateReviewRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		review, err := mp.CreateReview(r.Context(), p.UserID, req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, review)
	}
}

func handleListProviderReviews(mp *service.Marketplace) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		page, limit := pageParams(r)
		reviews, total, err := mp.ListProviderReviews(r.Context(), id, page, limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, paginated(reviews, total, page, limit))
	}
}

// --- shared handler helpers ---

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func paginated[T any](items []T, total int64, page, limit int) dto.Paginated[T] {
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return dto.Paginated[T]{
		Items:       items,
		Total:       total,
		CurrentPage: page,
		TotalPages:  pages,
	}
}
