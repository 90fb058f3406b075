package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mcqbot/internal/problemgen"
	"github.com/abhisek/mcqbot/internal/store"
)

// UserHandler handles registration, preferences and statistics.
type UserHandler struct {
	users  store.UserRepo
	stats  store.StatsRepo
	logger *slog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users store.UserRepo, stats store.StatsRepo, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, stats: stats, logger: logger}
}

// RegisterRequest creates a user.
type RegisterRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name"`
}

// UserResponse is a user with their preferences.
type UserResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Active      bool              `json:"active"`
	Preferences store.Preferences `json:"preferences"`
}

// ActiveRequest toggles scheduled delivery.
type ActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// StatsResponse adds accuracy percentages to the raw tallies.
type StatsResponse struct {
	*store.Stats
	Accuracy float64 `json:"accuracy"`
}

// Register creates the user, or returns the existing one.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
		return
	}

	ctx := c.Request.Context()
	user, err := h.users.Register(ctx, req.ID, req.Name)
	if err != nil {
		h.internal(c, "register user", err)
		return
	}
	prefs, err := h.users.Preferences(ctx, user.ID)
	if err != nil {
		h.internal(c, "load preferences", err)
		return
	}

	respondSuccess(c, http.StatusCreated, UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Active:      user.Active,
		Preferences: prefs,
	})
}

// GetPreferences returns the user's preferences.
func (h *UserHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.users.Preferences(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, "load preferences", err)
		return
	}
	respondSuccess(c, http.StatusOK, prefs)
}

// UpdatePreferences applies a partial update after checking values
// against the catalog.
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	var upd store.PreferencesUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
		return
	}
	if msg := validatePreferences(upd); msg != "" {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, msg, nil)
		return
	}

	prefs, err := h.users.UpdatePreferences(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.storeError(c, "update preferences", err)
		return
	}
	respondSuccess(c, http.StatusOK, prefs)
}

// SetActive toggles scheduled delivery for the user.
func (h *UserHandler) SetActive(c *gin.Context) {
	var req ActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
		return
	}
	if err := h.users.SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		h.storeError(c, "set active", err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"active": *req.Active})
}

// GetStats returns the user's answer statistics.
func (h *UserHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.users.Get(ctx, id); err != nil {
		h.storeError(c, "load user", err)
		return
	}

	stats, err := h.stats.Stats(ctx, id)
	if err != nil {
		h.internal(c, "load stats", err)
		return
	}
	respondSuccess(c, http.StatusOK, StatsResponse{Stats: stats, Accuracy: stats.Overall.Accuracy()})
}

// ResetStats deletes the user's answer history.
func (h *UserHandler) ResetStats(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.users.Get(ctx, id); err != nil {
		h.storeError(c, "load user", err)
		return
	}
	if err := h.stats.ResetStats(ctx, id); err != nil {
		h.internal(c, "reset stats", err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"reset": true})
}

func (h *UserHandler) storeError(c *gin.Context, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, CodeUserNotFound, "User not found", nil)
		return
	}
	h.internal(c, op, err)
}

func (h *UserHandler) internal(c *gin.Context, op string, err error) {
	h.logger.Error(op+" failed", "error", err, "request_id", c.GetString("request_id"))
	respondError(c, http.StatusInternalServerError, CodeInternal, "Internal error", nil)
}

func validatePreferences(upd store.PreferencesUpdate) string {
	switch {
	case upd.Topic != nil && !problemgen.ValidTopic(*upd.Topic):
		return "Unknown topic"
	case upd.MathSubtopic != nil && !problemgen.ValidSubtopic(*upd.MathSubtopic):
		return "Unknown math subtopic"
	case upd.Difficulty != nil && !problemgen.ValidDifficulty(*upd.Difficulty):
		return "Difficulty must be Easy, Medium or Hard"
	case upd.Language != nil && !problemgen.ValidLanguage(*upd.Language):
		return "Language must be English or Hindi"
	}
	return ""
}
