package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dreamycv/internal/catalog"
	"dreamycv/internal/profile"
)

// FavouritesHandler 维护模板收藏夹（集合语义，不排序）。
type FavouritesHandler struct {
	profiles *profile.Store
}

// NewFavouritesHandler 构造 FavouritesHandler。
func NewFavouritesHandler(profiles *profile.Store) *FavouritesHandler {
	return &FavouritesHandler{profiles: profiles}
}

type favouriteItem struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// List 返回收藏的模板。
func (h *FavouritesHandler) List(c *gin.Context) {
	favs, err := h.profiles.ListFavourites(c.Request.Context())
	if err != nil {
		Internal(c, "failed to list favourites")
		return
	}

	items := make([]favouriteItem, 0, len(favs))
	for _, f := range favs {
		items = append(items, favouriteItem{ID: f.TemplateID, DisplayName: f.DisplayName})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type addFavouriteRequest struct {
	ID string `json:"id" binding:"required"`
}

// Add 收藏一款模板；重复收藏不产生副本。
func (h *FavouritesHandler) Add(c *gin.Context) {
	var req addFavouriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	tpl, ok := catalog.ByID(req.ID)
	if !ok {
		NotFound(c, "unknown template")
		return
	}

	if err := h.profiles.AddFavourite(c.Request.Context(), tpl.ID, tpl.Name); err != nil {
		Internal(c, "failed to add favourite")
		return
	}
	c.JSON(http.StatusCreated, favouriteItem{ID: tpl.ID, DisplayName: tpl.Name})
}

// Remove 取消收藏，幂等。
func (h *FavouritesHandler) Remove(c *gin.Context) {
	if err := h.profiles.RemoveFavourite(c.Request.Context(), c.Param("id")); err != nil {
		Internal(c, "failed to remove favourite")
		return
	}
	c.Status(http.StatusNoContent)
}
