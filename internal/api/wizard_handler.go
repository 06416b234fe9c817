package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"

	"dreamycv/internal/catalog"
	"dreamycv/internal/kvstore"
	"dreamycv/internal/prefs"
	"dreamycv/internal/profile"
	"dreamycv/internal/reco"
)

// WizardHandler 负责录入向导的偏好读写与排序计算。
type WizardHandler struct {
	prefs    *prefs.Store
	engine   *reco.Engine
	profiles *profile.Store
	logger   *slog.Logger
}

// NewWizardHandler 构造 WizardHandler。
func NewWizardHandler(prefsStore *prefs.Store, engine *reco.Engine, profiles *profile.Store, logger *slog.Logger) *WizardHandler {
	return &WizardHandler{
		prefs:    prefsStore,
		engine:   engine,
		profiles: profiles,
		logger:   logger,
	}
}

type preferencesRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	ExperienceYears int    `json:"experienceYears"`
	Field           string `json:"field"`
	AccentColor     string `json:"accentColor"`
	Tone            string `json:"tone"`
}

// validate 在向导边界拒绝非法输入，引擎层不会见到它们。
func (r preferencesRequest) validate() error {
	if r.ExperienceYears < 0 {
		return errors.New("experience years must be non-negative")
	}
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return errors.New("invalid email address")
		}
	}
	if r.Field != "" && !catalog.KnownField(r.Field) {
		return errors.New("unknown field")
	}
	if r.Tone != "" && !catalog.KnownTone(catalog.Tone(r.Tone)) {
		return errors.New("unknown tone")
	}
	return nil
}

func (r preferencesRequest) toPreferences() prefs.Preferences {
	return prefs.Preferences{
		Name:            strings.TrimSpace(r.Name),
		Email:           strings.TrimSpace(r.Email),
		Role:            strings.TrimSpace(r.Role),
		ExperienceYears: r.ExperienceYears,
		Field:           r.Field,
		AccentColor:     r.AccentColor,
		Tone:            catalog.Tone(r.Tone),
	}
}

// GetPreferences 返回当前偏好记录。
func (h *WizardHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"preferences": h.prefs.Get(c.Request.Context())})
}

// SetPreferences 处理向导"完成"：整体覆盖偏好，重算排序并缓存。
func (h *WizardHandler) SetPreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	p := req.toPreferences()

	warned := false
	if err := h.prefs.Set(ctx, p); err != nil {
		if !errors.Is(err, kvstore.ErrWriteFailed) {
			Internal(c, "failed to save preferences")
			return
		}
		warned = true
	}

	list, err := h.engine.RankAndStore(ctx, p)
	if err != nil && errors.Is(err, kvstore.ErrWriteFailed) {
		warned = true
	}

	h.snapshot(c, p)

	payload := gin.H{"preferences": p, "reco": list}
	if warned {
		payload = withStorageWarning(payload)
	}
	c.JSON(http.StatusOK, payload)
}

// MergePreferences 把部分回答补进现有记录：已填字段不动，空字段采用新值。
func (h *WizardHandler) MergePreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := req.validate(); err != nil {
		BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	merged, err := h.prefs.MergeIncomplete(ctx, req.toPreferences())

	warned := false
	if err != nil {
		if !errors.Is(err, kvstore.ErrWriteFailed) {
			Internal(c, "failed to merge preferences")
			return
		}
		warned = true
	}

	list, rerr := h.engine.RankAndStore(ctx, merged)
	if rerr != nil && errors.Is(rerr, kvstore.ErrWriteFailed) {
		warned = true
	}

	h.snapshot(c, merged)

	payload := gin.H{"preferences": merged, "reco": list}
	if warned {
		payload = withStorageWarning(payload)
	}
	c.JSON(http.StatusOK, payload)
}

// snapshot 把最近提交的偏好留档到档案层，失败只记日志。
func (h *WizardHandler) snapshot(c *gin.Context, p prefs.Preferences) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := h.profiles.SnapshotPrefs(c.Request.Context(), raw); err != nil {
		h.logger.Warn("snapshot preferences failed", slog.String("error", err.Error()))
	}
}
