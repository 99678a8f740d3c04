package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/AllieBaig/lingoquest/internal/app"
	"github.com/AllieBaig/lingoquest/internal/domain"
	"github.com/AllieBaig/lingoquest/internal/game"
	"github.com/AllieBaig/lingoquest/internal/i18n"
)

// GameHandler exposes the session use cases and the translation layer over
// plain HTTP, for clients that don't hold a websocket open.
type GameHandler struct {
	service *app.GameService
	i18n    *i18n.Manager
}

func NewGameHandler(service *app.GameService, manager *i18n.Manager) *GameHandler {
	return &GameHandler{service: service, i18n: manager}
}

// Register mounts the handler's routes on mux.
func (h *GameHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/game/start", h.handleStart)
	mux.HandleFunc("/game/answer", h.handleAnswer)
	mux.HandleFunc("/game/finish", h.handleFinish)
	mux.HandleFunc("/i18n/languages", h.handleLanguages)
	mux.HandleFunc("/i18n/language", h.handleSetLanguage)
	mux.HandleFunc("/i18n/translate", h.handleTranslate)
}

type startGameRequest struct {
	SessionID string            `json:"sessionId"`
	Request   game.BatchRequest `json:"request"`
}

type startGameResponse struct {
	SessionID string            `json:"sessionId"`
	Questions []domain.Question `json:"questions"`
}

func (h *GameHandler) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req startGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	questions, err := h.service.StartGame(r.Context(), req.SessionID, req.Request)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, startGameResponse{SessionID: req.SessionID, Questions: questions})
}

type answerRequest struct {
	SessionID string              `json:"sessionId"`
	Answer    domain.AnswerRecord `json:"answer"`
}

func (h *GameHandler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.service.SubmitAnswer(r.Context(), req.SessionID, req.Answer); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"accepted": true})
}

type finishRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *GameHandler) handleFinish(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req finishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.service.FinishGame(r.Context(), req.SessionID)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *GameHandler) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"current":   h.i18n.Current(),
		"available": h.i18n.Engine().Languages(),
	})
}

type setLanguageRequest struct {
	Language string `json:"language"`
}

func (h *GameHandler) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req setLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.i18n.SetLanguage(r.Context(), req.Language); err != nil {
		if errors.Is(err, domain.ErrLanguageNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"language": h.i18n.Current()})
}

type translateRequest struct {
	Key     string         `json:"key"`
	Options map[string]any `json:"options,omitempty"`
	Count   *int           `json:"count,omitempty"`
}

func (h *GameHandler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	text := h.i18n.Engine().Translate(req.Key, i18n.Options{
		Interpolation: req.Options,
		Count:         req.Count,
	})
	writeJSON(w, http.StatusOK, map[string]string{"key": req.Key, "text": text})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionFinished),
		errors.Is(err, domain.ErrAnswerCountMismatch),
		errors.Is(err, domain.ErrUnsupportedGameMode),
		errors.Is(err, domain.ErrInvalidQuestionConfig):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
