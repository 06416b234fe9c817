package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dreamycv/internal/catalog"
	"dreamycv/internal/draft"
	"dreamycv/internal/prefs"
	"dreamycv/internal/profile"
)

// DashboardHandler 汇总档案页需要的数据：进行中的草稿和偏好回显。
type DashboardHandler struct {
	drafts   *draft.Store
	prefs    *prefs.Store
	profiles *profile.Store
	logger   *slog.Logger
}

// NewDashboardHandler 构造 DashboardHandler。
func NewDashboardHandler(drafts *draft.Store, prefsStore *prefs.Store, profiles *profile.Store, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		drafts:   drafts,
		prefs:    prefsStore,
		profiles: profiles,
		logger:   logger,
	}
}

type draftOverview struct {
	TemplateID   string    `json:"templateId"`
	TemplateName string    `json:"templateName"`
	Headline     string    `json:"headline,omitempty"`
	JobCount     int       `json:"jobCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Overview 列出所有进行中的草稿，并带上最近提交的偏好回显。
func (h *DashboardHandler) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	drafts, err := h.drafts.ListAll(ctx)
	if err != nil {
		Internal(c, "failed to list drafts")
		return
	}

	items := make([]draftOverview, 0, len(drafts))
	for _, d := range drafts {
		name := d.TemplateID
		if t, ok := catalog.ByID(d.TemplateID); ok {
			name = t.Name
		}
		items = append(items, draftOverview{
			TemplateID:   d.TemplateID,
			TemplateName: name,
			Headline:     headline(d),
			JobCount:     len(d.Jobs),
			UpdatedAt:    d.UpdatedAt,
		})
	}

	payload := gin.H{
		"drafts":      items,
		"preferences": h.prefs.Get(ctx),
	}

	// 档案层的快照是向导最近一次提交时的样子，与当前记录可能不同。
	if raw, err := h.profiles.LastPrefs(ctx); err != nil {
		h.logger.Warn("load prefs snapshot failed", slog.String("error", err.Error()))
	} else if raw != nil {
		payload["lastSubmitted"] = json.RawMessage(raw)
	}

	c.JSON(http.StatusOK, payload)
}

// headline 给草稿一行可读的标识。
func headline(d draft.Draft) string {
	switch {
	case d.Heading.Name != "" && d.Heading.Surname != "":
		return d.Heading.Name + " " + d.Heading.Surname
	case d.Heading.Name != "":
		return d.Heading.Name
	case d.Heading.Role != "":
		return d.Heading.Role
	default:
		return ""
	}
}
