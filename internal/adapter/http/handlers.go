package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/goalnudge-backend/internal/domain"
	"github.com/simaogato/goalnudge-backend/internal/usecase/dashboard"
)

type clientResponse struct {
	ID         string `json:"id"`
	ClientName string `json:"client_name"`
}

type historyResponse struct {
	GoalAmount      float64   `json:"goal_amount"`
	CurrentAmount   float64   `json:"current_amount"`
	LastMessageSent *string   `json:"last_message_sent"`
	CreatedAt       time.Time `json:"created_at"`
}

type goalResponse struct {
	ID              string            `json:"id"`
	GoalType        string            `json:"goal_type"`
	GoalAmount      float64           `json:"goal_amount"`
	InitialAmount   float64           `json:"initial_amount"`
	CurrentAmount   float64           `json:"current_amount"`
	ProgressPercent float64           `json:"progress_percent"`
	OnTrack         bool              `json:"on_track"`
	History         []historyResponse `json:"history"`
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.svc.Health != nil {
		if err := h.svc.Health(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handler) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.Dashboard.ListClients(r.Context())
	if err != nil {
		h.respondServiceError(w, r, "failed to list clients", err)
		return
	}

	resp := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		resp = append(resp, clientResponse{ID: c.ID.String(), ClientName: c.Name})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *handler) handleGoalHistory(w http.ResponseWriter, r *http.Request) {
	clientID, err := uuid.Parse(chi.URLParam(r, "clientID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid client id", err)
		return
	}

	overviews, err := h.svc.Dashboard.GetClientGoalHistory(r.Context(), clientID)
	if err != nil {
		h.respondServiceError(w, r, "No goals found for this client.", err)
		return
	}

	resp := make([]goalResponse, 0, len(overviews))
	for _, o := range overviews {
		resp = append(resp, toGoalResponse(o))
	}
	respondJSON(w, http.StatusOK, resp)
}

func toGoalResponse(o *dashboard.GoalOverview) goalResponse {
	history := make([]historyResponse, 0, len(o.History))
	for _, entry := range o.History {
		var msg *string
		if entry.MessageSent != "" {
			m := entry.MessageSent
			msg = &m
		}
		history = append(history, historyResponse{
			GoalAmount:      entry.GoalAmount.InexactFloat64(),
			CurrentAmount:   entry.CurrentAmount.InexactFloat64(),
			LastMessageSent: msg,
			CreatedAt:       entry.CreatedAt,
		})
	}

	return goalResponse{
		ID:              o.Goal.ID.String(),
		GoalType:        o.Goal.GoalType,
		GoalAmount:      o.Goal.GoalAmount.InexactFloat64(),
		InitialAmount:   o.Goal.InitialAmount.InexactFloat64(),
		CurrentAmount:   o.Goal.CurrentAmount.InexactFloat64(),
		ProgressPercent: o.ProgressPercent.InexactFloat64(),
		OnTrack:         o.OnTrack,
		History:         history,
	}
}

func (h *handler) handleRecordProgress(w http.ResponseWriter, r *http.Request) {
	goalID, err := uuid.Parse(chi.URLParam(r, "goalID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid goal id", err)
		return
	}

	var req struct {
		CurrentAmount decimal.NullDecimal `json:"current_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if !req.CurrentAmount.Valid {
		respondError(w, http.StatusBadRequest, "current_amount is required", nil)
		return
	}

	outcome, err := h.svc.Progress.RecordProgress(r.Context(), goalID, req.CurrentAmount.Decimal)
	if err != nil {
		h.respondServiceError(w, r, "failed to record progress", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"goal_id":          outcome.Goal.ID.String(),
		"history_id":       outcome.History.ID.String(),
		"progress_percent": outcome.Evaluation.ProgressPercent.InexactFloat64(),
		"progress_change":  outcome.Evaluation.ProgressChange,
		"on_track":         outcome.Evaluation.OnTrack,
		"message":          outcome.Evaluation.Message,
		"notified":         outcome.Notified,
		"recorded_at":      outcome.History.CreatedAt,
	})
}

func (h *handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if h.svc.Chat == nil {
		respondError(w, http.StatusServiceUnavailable, "chat is not configured", nil)
		return
	}

	var req struct {
		Messages []domain.ChatMessage `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	answer, err := h.svc.Chat.Chat(r.Context(), req.Messages)
	if err != nil {
		h.respondServiceError(w, r, "failed to answer", err)
		return
	}

	sources := make([]map[string]string, 0, len(answer.Sources))
	for _, s := range answer.Sources {
		sources = append(sources, map[string]string{
			"client_id": s.ClientID,
			"goal_id":   s.GoalID,
			"text":      s.Text,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"answer":  answer.Text,
		"sources": sources,
	})
}

func (h *handler) handleListPhoneNumbers(w http.ResponseWriter, r *http.Request) {
	if h.svc.Notify == nil {
		respondError(w, http.StatusServiceUnavailable, "sms is not configured", nil)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"phone_numbers": h.svc.Notify.PhoneBook().List()})
}

func (h *handler) handleAddPhoneNumber(w http.ResponseWriter, r *http.Request) {
	if h.svc.Notify == nil {
		respondError(w, http.StatusServiceUnavailable, "sms is not configured", nil)
		return
	}

	var req struct {
		PhoneNumber string `json:"phone_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	number := strings.TrimSpace(req.PhoneNumber)
	if number == "" {
		respondError(w, http.StatusBadRequest, "phone_number is required", nil)
		return
	}

	added := h.svc.Notify.PhoneBook().Add(number)
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	respondJSON(w, status, map[string]any{"phone_number": number, "added": added})
}

func (h *handler) handleSendSMS(w http.ResponseWriter, r *http.Request) {
	if h.svc.Notify == nil {
		respondError(w, http.StatusServiceUnavailable, "sms is not configured", nil)
		return
	}

	var req struct {
		To   []string `json:"to"`
		Body string   `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	deliveries, err := h.svc.Notify.Broadcast(r.Context(), req.To, req.Body)
	if err != nil {
		h.respondServiceError(w, r, "failed to send sms", err)
		return
	}

	results := make([]map[string]string, 0, len(deliveries))
	for _, d := range deliveries {
		result := map[string]string{"to": d.Destination}
		if d.Err != nil {
			result["status"] = "failed"
			result["error"] = d.Err.Error()
		} else {
			result["status"] = "sent"
			result["sid"] = d.SID
		}
		results = append(results, result)
	}
	respondJSON(w, http.StatusOK, map[string]any{"results": results})
}
