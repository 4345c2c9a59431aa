package http

import (
	"log/slog"
	"net/http"

	"github.com/ArrobaLab/maipro/internal/dto"
	obsmw "github.com/ArrobaLab/maipro/internal/observability/middleware"
	"github.com/ArrobaLab/maipro/internal/service"
)

func handlePublicKey(push *service.Push) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, dto.PublicKeyResponse{PublicKey: push.PublicKey()})
	}
}

func handleSubscribe(push *service.Push) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		var req dto.SubscribeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := push.Subscribe(r.Context(), p.UserID, req.Subscription); err != nil {
			writeError(w, r, err)
			return
		}
		slog.Info("push subscription stored",
			"user_id", p.UserID,
			"request_id", obsmw.RequestIDFromContext(r.Context()),
		)
		writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
	}
}

func handleUnsubscribe(push *service.Push) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := principal(w, r)
		if !ok {
			return
		}
		var req dto.UnsubscribeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := push.Unsubscribe(r.Context(), p.UserID, req.Endpoint); err != nil {
			writeError(w, r, err)
			return
		}
		slog.Info("push subscription removed",
			"user_id", p.UserID,
			"request_id", obsmw.RequestIDFromContext(r.Context()),
		)
		writeJSON(w, http.StatusOK, dto.OKResponse{OK: true})
	}
}
