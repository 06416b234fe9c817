package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"dreamycv/internal/draft"
	"dreamycv/internal/prefs"
	"dreamycv/internal/profile"
	"dreamycv/internal/reco"
	"dreamycv/internal/storage"
	"dreamycv/internal/syncfeed"
)

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(
	router *gin.Engine,
	prefsStore *prefs.Store,
	engine *reco.Engine,
	drafts *draft.Store,
	autosaver *draft.Autosaver,
	broadcaster *syncfeed.Broadcaster,
	profiles *profile.Store,
	storageClient *storage.Client,
	logger *slog.Logger,
	clamdAddr string,
) {
	wizardHandler := NewWizardHandler(prefsStore, engine, profiles, logger)
	galleryHandler := NewGalleryHandler(prefsStore, engine)
	editorHandler := NewEditorHandler(drafts, autosaver)
	dashboardHandler := NewDashboardHandler(drafts, prefsStore, profiles, logger)
	favouritesHandler := NewFavouritesHandler(profiles)
	photoHandler := NewPhotoHandler(storageClient, logger, clamdAddr)
	wsHandler := NewWsHandler(broadcaster, logger, nil)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		wizardGroup := v1.Group("/wizard")
		{
			wizardGroup.GET("/preferences", wizardHandler.GetPreferences)
			wizardGroup.PUT("/preferences", wizardHandler.SetPreferences)
			wizardGroup.PATCH("/preferences", wizardHandler.MergePreferences)
		}

		templateGroup := v1.Group("/templates")
		{
			templateGroup.GET("", galleryHandler.ListTemplates)

			draftGroup := templateGroup.Group("/:id/draft")
			{
				draftGroup.GET("", editorHandler.GetDraft)
				draftGroup.PUT("", editorHandler.SaveDraft)
				draftGroup.DELETE("", editorHandler.DeleteDraft)
				draftGroup.POST("/flush", editorHandler.FlushDraft)
				draftGroup.POST("/sync", editorHandler.SyncDraft)
				draftGroup.GET("/content", editorHandler.GetContent)

				draftGroup.POST("/jobs", editorHandler.AddJob)
				draftGroup.POST("/jobs/:jobID/duplicate", editorHandler.DuplicateJob)
				draftGroup.PATCH("/jobs/:jobID", editorHandler.PatchJob)
				draftGroup.DELETE("/jobs/:jobID", editorHandler.RemoveJob)
			}
		}

		v1.GET("/dashboard", dashboardHandler.Overview)

		favouritesGroup := v1.Group("/favourites")
		{
			favouritesGroup.GET("", favouritesHandler.List)
			favouritesGroup.POST("", favouritesHandler.Add)
			favouritesGroup.DELETE("/:id", favouritesHandler.Remove)
		}

		photoGroup := v1.Group("/photos")
		{
			photoGroup.POST("/upload", photoHandler.UploadPhoto)
			photoGroup.GET("", photoHandler.ListPhotos)
			photoGroup.GET("/view", photoHandler.GetPhotoURL)
			photoGroup.DELETE("", photoHandler.DeletePhoto)
		}
	}
}
