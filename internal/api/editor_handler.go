package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dreamycv/internal/catalog"
	"dreamycv/internal/draft"
	"dreamycv/internal/kvstore"
	"dreamycv/internal/resume"
)

// EditorHandler 负责单个模板的草稿编辑会话。
type EditorHandler struct {
	drafts    *draft.Store
	autosaver *draft.Autosaver
}

// NewEditorHandler 构造 EditorHandler。
func NewEditorHandler(drafts *draft.Store, autosaver *draft.Autosaver) *EditorHandler {
	return &EditorHandler{drafts: drafts, autosaver: autosaver}
}

// templateID 校验路径里的模板 ID；未知模板直接 404。
func (h *EditorHandler) templateID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, ok := catalog.ByID(id); !ok {
		NotFound(c, "unknown template")
		return "", false
	}
	return id, true
}

// GetDraft 水合模板的草稿：有内容的草稿原样返回，否则用偏好播种。
func (h *EditorHandler) GetDraft(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	resolver := draft.NewHydrationResolver(h.drafts)
	d, err := resolver.Resolve(c.Request.Context(), id)

	payload := gin.H{"draft": d, "state": resolver.State().String()}
	if err != nil && errors.Is(err, kvstore.ErrWriteFailed) {
		payload = withStorageWarning(payload)
	}
	c.JSON(http.StatusOK, payload)
}

// SaveDraft 接收编辑后的完整草稿并排队防抖写入。
// 写入合并在窗口内，最后提交获胜。
func (h *EditorHandler) SaveDraft(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	var d draft.Draft
	if err := c.ShouldBindJSON(&d); err != nil {
		BadRequest(c, err.Error())
		return
	}
	d.TemplateID = id

	h.autosaver.Queue(c.Request.Context(), d)
	c.JSON(http.StatusAccepted, gin.H{"queued": true})
}

// FlushDraft 立刻落盘待写草稿。视图离开编辑器时调用，
// 保证最后一次编辑不丢。
func (h *EditorHandler) FlushDraft(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}
	h.autosaver.FlushTemplate(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}

// SyncDraft 把当前偏好补进草稿的空白字段（"从向导同步"）。
func (h *EditorHandler) SyncDraft(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	d, err := h.drafts.MergeFromPreferences(c.Request.Context(), id)
	payload := gin.H{"draft": d}
	if err != nil && errors.Is(err, kvstore.ErrWriteFailed) {
		payload = withStorageWarning(payload)
	}
	c.JSON(http.StatusOK, payload)
}

// DeleteDraft 清除模板的草稿，同时丢弃还没落盘的防抖写入。
func (h *EditorHandler) DeleteDraft(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	h.autosaver.Cancel(id)
	if err := h.drafts.Delete(c.Request.Context(), id); err != nil {
		Internal(c, "failed to clear draft")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetContent 返回渲染层消费的只读投影。
func (h *EditorHandler) GetContent(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	d, _ := h.drafts.Hydrate(c.Request.Context(), id)
	c.JSON(http.StatusOK, resume.Project(d))
}

// AddJob 追加一段空白经历。
func (h *EditorHandler) AddJob(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	d, entry, err := h.drafts.AddJob(c.Request.Context(), id)
	payload := gin.H{"draft": d, "entry": entry}
	if err != nil && errors.Is(err, kvstore.ErrWriteFailed) {
		payload = withStorageWarning(payload)
	}
	c.JSON(http.StatusCreated, payload)
}

// DuplicateJob 按身份复制一段经历。
func (h *EditorHandler) DuplicateJob(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	d, found, err := h.drafts.DuplicateJob(c.Request.Context(), id, c.Param("jobID"))
	if !found {
		NotFound(c, "job entry not found")
		return
	}
	payload := gin.H{"draft": d}
	if err != nil && errors.Is(err, kvstore.ErrWriteFailed) {
		payload = withStorageWarning(payload)
	}
	c.JSON(http.StatusOK, payload)
}

// PatchJob 按身份更新一段经历。
func (h *EditorHandler) PatchJob(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	var patch draft.WorkEntryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		BadRequest(c, err.Error())
		return
	}

	d, found, err := h.drafts.PatchJob(c.Request.Context(), id, c.Param("jobID"), patch)
	if !found {
		NotFound(c, "job entry not found")
		return
	}
	payload := gin.H{"draft": d}
	if err != nil && errors.Is(err, kvstore.ErrWriteFailed) {
		payload = withStorageWarning(payload)
	}
	c.JSON(http.StatusOK, payload)
}

// RemoveJob 按身份删除一段经历；只剩一段时拒绝。
func (h *EditorHandler) RemoveJob(c *gin.Context) {
	id, ok := h.templateID(c)
	if !ok {
		return
	}

	d, removed, err := h.drafts.RemoveJob(c.Request.Context(), id, c.Param("jobID"))
	if !removed {
		if len(d.Jobs) <= 1 {
			Conflict(c, "a draft keeps at least one job entry")
			return
		}
		NotFound(c, "job entry not found")
		return
	}
	payload := gin.H{"draft": d}
	if err != nil && errors.Is(err, kvstore.ErrWriteFailed) {
		payload = withStorageWarning(payload)
	}
	c.JSON(http.StatusOK, payload)
}
