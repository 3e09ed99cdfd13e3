package remedy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/futig/remedy-companion/internal/entity"
	"github.com/futig/remedy-companion/internal/pkg/logger"
	"github.com/futig/remedy-companion/internal/pkg/response"
	"github.com/futig/remedy-companion/internal/pkg/validator"
	"github.com/futig/remedy-companion/internal/usecase/preference"
	"github.com/futig/remedy-companion/internal/usecase/session"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	service      SessionService
	callbackConn CallbackConnector
	validator    *validator.Validator
}

func NewHandler(
	service SessionService,
	validator *validator.Validator,
	callbackConn CallbackConnector,
) *Handler {
	return &Handler{
		service:      service,
		validator:    validator,
		callbackConn: callbackConn,
	}
}

// requestContext tags the request logger with the action and session
func requestContext(r *http.Request, action string) (context.Context, string) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.WithAction(r.Context(), action)
	if sessionID != "" {
		ctx = logger.WithSession(ctx, sessionID)
	}
	return ctx, sessionID
}

// GetCatalog handles GET /catalog
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	c := h.service.Catalog()
	response.Success(w, entity.CatalogDTO{
		Symptoms:    c.Symptoms,
		Ingredients: c.Ingredients,
		PrepTypes:   c.PrepOptions,
		Times:       c.TimeOptions,
	})
}

// CreateSession handles POST /remedy-session
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, _ := requestContext(r, "CreateSession")

	view, err := h.service.Create(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, view.ToDTO())
}

// GetSession handles GET /remedy-session/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "GetSession")

	view, err := h.service.View(ctx, id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, view.ToDTO())
}

// DeleteSession handles DELETE /remedy-session/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "DeleteSession")

	if err := h.service.Delete(ctx, id); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// UpdatePreferences handles POST /remedy-session/{id}/preferences
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "UpdatePreferences")

	var change preference.Change
	if !h.decode(ctx, w, r, &change, false) {
		return
	}

	changed, err := h.service.UpdatePreferences(ctx, id, change)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	view, err := h.service.View(ctx, id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.PreferenceChangeResponse{
		Changed: changed,
		Session: view.ToDTO(),
	})
}

// Submit handles POST /remedy-session/{id}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "Submit")

	var req entity.GenerateRequest
	if !h.decode(ctx, w, r, &req, true) {
		return
	}

	view, err := h.service.SubmitAsync(ctx, id, h.notify(req.CallbackURL, chimiddleware.GetReqID(ctx)))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "recipe generation accepted")
	response.Accepted(w, view.ToDTO())
}

// Regenerate handles POST /remedy-session/{id}/regenerate
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "Regenerate")

	var req entity.GenerateRequest
	if !h.decode(ctx, w, r, &req, true) {
		return
	}

	view, err := h.service.RegenerateAsync(ctx, id, h.notify(req.CallbackURL, chimiddleware.GetReqID(ctx)))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "recipe regeneration accepted")
	response.Accepted(w, view.ToDTO())
}

// notify posts the outcome of a background generation to callbackURL
func (h *Handler) notify(callbackURL, requestID string) session.DoneFunc {
	if callbackURL == "" || h.callbackConn == nil {
		return nil
	}

	return func(ctx context.Context, view *session.View, err error) {
		ctx = logger.AddFields(ctx, zap.String("request_id", requestID))
		if err != nil {
			h.callbackConn.SendError(ctx, callbackURL, view.SessionID, requestID, view.Error, map[string]any{
				"screen": view.Screen,
				"error":  err.Error(),
			})
			return
		}
		h.callbackConn.SendRecipeReady(ctx, callbackURL, view.SessionID, requestID, view.ToDTO())
	}
}

// Back handles POST /remedy-session/{id}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "Back")

	view, err := h.service.Back(ctx, id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, view.ToDTO())
}

// DismissError handles DELETE /remedy-session/{id}/error
func (h *Handler) DismissError(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "DismissError")

	view, err := h.service.DismissError(ctx, id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, view.ToDTO())
}

// StartPreparation handles POST /remedy-session/{id}/preparation
func (h *Handler) StartPreparation(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "StartPreparation")

	if _, err := h.service.StartPreparation(ctx, id, nil); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondWalkthrough(ctx, w, id, http.StatusAccepted)
}

// GetPreparation handles GET /remedy-session/{id}/preparation
func (h *Handler) GetPreparation(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "GetPreparation")
	h.respondWalkthrough(ctx, w, id, http.StatusOK)
}

// ConfirmStep handles POST /remedy-session/{id}/preparation/done
func (h *Handler) ConfirmStep(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "ConfirmStep")

	if _, err := h.service.ConfirmStep(ctx, id); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondWalkthrough(ctx, w, id, http.StatusAccepted)
}

// RequestExit handles POST /remedy-session/{id}/preparation/exit
func (h *Handler) RequestExit(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "RequestExit")

	if err := h.service.RequestExit(ctx, id); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondWalkthrough(ctx, w, id, http.StatusOK)
}

// CancelExit handles POST /remedy-session/{id}/preparation/exit/cancel
func (h *Handler) CancelExit(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "CancelExit")

	if err := h.service.CancelExit(ctx, id); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.respondWalkthrough(ctx, w, id, http.StatusOK)
}

// ConfirmExit handles POST /remedy-session/{id}/preparation/exit/confirm
func (h *Handler) ConfirmExit(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "ConfirmExit")

	view, err := h.service.ConfirmExit(ctx, id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, view.ToDTO())
}

// Complete handles POST /remedy-session/{id}/complete
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "Complete")

	view, err := h.service.Complete(ctx, id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, view.ToDTO())
}

// ExportRecipe handles GET /remedy-session/{id}/recipe/export?format=md|pdf|docx
func (h *Handler) ExportRecipe(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "ExportRecipe")

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatMarkdown)
	}

	format, err := entity.ParseExportFormat(formatParam)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	export, err := h.service.ExportRecipe(ctx, id, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "recipe exported", zap.String("format", string(format)), zap.Int("bytes", len(export.Data)))
	response.File(w, export.ContentType, export.FileName, export.Data)
}

// SaveRecipe handles POST /remedy-session/{id}/recipe/save
func (h *Handler) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	ctx, id := requestContext(r, "SaveRecipe")

	var req entity.SaveRecipeRequest
	if !h.decode(ctx, w, r, &req, false) {
		return
	}

	saved, err := h.service.SaveRecipe(ctx, id, req.Owner)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, saved)
}

// ListSavedRecipes handles GET /saved-recipes?owner=
func (h *Handler) ListSavedRecipes(w http.ResponseWriter, r *http.Request) {
	ctx, _ := requestContext(r, "ListSavedRecipes")

	recipes, err := h.service.ListSavedRecipes(ctx, r.URL.Query().Get("owner"))
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, recipes)
}

// GetSavedRecipe handles GET /saved-recipes/{id}?owner=
func (h *Handler) GetSavedRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetSavedRecipe")
	id := chi.URLParam(r, "id")

	saved, err := h.service.GetSavedRecipe(ctx, r.URL.Query().Get("owner"), id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, saved)
}

// DeleteSavedRecipe handles DELETE /saved-recipes/{id}?owner=
func (h *Handler) DeleteSavedRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DeleteSavedRecipe")
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteSavedRecipe(ctx, r.URL.Query().Get("owner"), id); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

func (h *Handler) respondWalkthrough(ctx context.Context, w http.ResponseWriter, id string, status int) {
	snap, err := h.service.WalkthroughSnapshot(ctx, id)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}
	response.JSON(w, status, session.WalkthroughDTO(snap))
}

// decode reads and validates a JSON body. An empty body is accepted when optional.
func (h *Handler) decode(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if !(optional && errors.Is(err, io.EOF)) {
			h.respondError(ctx, w, http.StatusBadRequest, "invalid request body", err)
			return false
		}
	}

	if err := h.validator.Struct(dst); err != nil {
		h.respondError(ctx, w, http.StatusBadRequest, "validation failed: "+err.Error(), err)
		return false
	}

	return true
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	var validationErr *entity.ValidationError

	switch {
	case errors.Is(err, entity.ErrSessionNotFound) || errors.Is(err, entity.ErrRecipeNotFound):
		h.respondError(ctx, w, http.StatusNotFound, "resource not found", err)
	case errors.Is(err, entity.ErrInvalidTransition),
		errors.Is(err, entity.ErrAdvanceInProgress),
		errors.Is(err, entity.ErrWalkthroughFinished),
		errors.Is(err, entity.ErrWalkthroughNotActive),
		errors.Is(err, entity.ErrExitNotRequested),
		errors.Is(err, entity.ErrNoRecipe):
		h.respondError(ctx, w, http.StatusConflict, err.Error(), err)
	case errors.As(err, &validationErr),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrUnsupportedFile):
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, entity.ErrSavingDisabled):
		h.respondError(ctx, w, http.StatusServiceUnavailable, "recipe saving is disabled", err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, "internal server error", err)
	}
}
