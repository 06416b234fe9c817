package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"dreamycv/internal/api/middleware"
	"dreamycv/internal/draft"
	"dreamycv/internal/kvstore"
	"dreamycv/internal/prefs"
	"dreamycv/internal/profile"
	"dreamycv/internal/reco"
)

// apiFixture 把引擎各层接到一个真实的 Gin 路由上，存储用内存实现，
// 档案层用 sqlite。照片和 WebSocket 端点依赖外部服务，不在这里挂载。
type apiFixture struct {
	router    *gin.Engine
	mem       *kvstore.MemoryStore
	prefs     *prefs.Store
	engine    *reco.Engine
	drafts    *draft.Store
	autosaver *draft.Autosaver
	profiles  *profile.Store
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&profile.Profile{}, &profile.Favourite{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := kvstore.NewMemoryStore()
	codec := kvstore.NewCodec(mem, nil)
	prefsStore := prefs.NewStore(codec)
	engine := reco.NewEngine(codec)
	drafts := draft.NewStore(codec, prefsStore)
	autosaver := draft.NewAutosaver(drafts, 10*time.Millisecond, nil)
	profiles := profile.NewStore(newTestDB(t))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(middleware.CorrelationIDMiddleware(), middleware.ViewIDMiddleware())

	wizardHandler := NewWizardHandler(prefsStore, engine, profiles, logger)
	galleryHandler := NewGalleryHandler(prefsStore, engine)
	editorHandler := NewEditorHandler(drafts, autosaver)
	dashboardHandler := NewDashboardHandler(drafts, prefsStore, profiles, logger)
	favouritesHandler := NewFavouritesHandler(profiles)

	v1 := router.Group("/v1")
	{
		v1.GET("/wizard/preferences", wizardHandler.GetPreferences)
		v1.PUT("/wizard/preferences", wizardHandler.SetPreferences)
		v1.PATCH("/wizard/preferences", wizardHandler.MergePreferences)

		v1.GET("/templates", galleryHandler.ListTemplates)

		v1.GET("/templates/:id/draft", editorHandler.GetDraft)
		v1.PUT("/templates/:id/draft", editorHandler.SaveDraft)
		v1.DELETE("/templates/:id/draft", editorHandler.DeleteDraft)
		v1.POST("/templates/:id/draft/flush", editorHandler.FlushDraft)
		v1.POST("/templates/:id/draft/sync", editorHandler.SyncDraft)
		v1.GET("/templates/:id/draft/content", editorHandler.GetContent)
		v1.POST("/templates/:id/draft/jobs", editorHandler.AddJob)
		v1.POST("/templates/:id/draft/jobs/:jobID/duplicate", editorHandler.DuplicateJob)
		v1.PATCH("/templates/:id/draft/jobs/:jobID", editorHandler.PatchJob)
		v1.DELETE("/templates/:id/draft/jobs/:jobID", editorHandler.RemoveJob)

		v1.GET("/dashboard", dashboardHandler.Overview)

		v1.GET("/favourites", favouritesHandler.List)
		v1.POST("/favourites", favouritesHandler.Add)
		v1.DELETE("/favourites/:id", favouritesHandler.Remove)
	}

	return &apiFixture{
		router:    router,
		mem:       mem,
		prefs:     prefsStore,
		engine:    engine,
		drafts:    drafts,
		autosaver: autosaver,
		profiles:  profiles,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d, body: %s", w.Code, want, w.Body.String())
	}
}
