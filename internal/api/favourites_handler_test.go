package api

import (
	"net/http"
	"testing"
)

type favouritesResponse struct {
	Items []struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"items"`
}

func TestFavouritesLifecycle(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/v1/favourites", map[string]any{"id": "mint"})
	requireStatus(t, w, http.StatusCreated)

	// 重复收藏是幂等的。
	w = f.do(t, http.MethodPost, "/v1/favourites", map[string]any{"id": "mint"})
	requireStatus(t, w, http.StatusCreated)

	w = f.do(t, http.MethodPost, "/v1/favourites", map[string]any{"id": "dark"})
	requireStatus(t, w, http.StatusCreated)

	w = f.do(t, http.MethodGet, "/v1/favourites", nil)
	requireStatus(t, w, http.StatusOK)

	var resp favouritesResponse
	decode(t, w, &resp)
	if len(resp.Items) != 2 {
		t.Fatalf("items = %+v, want 2", resp.Items)
	}
	if resp.Items[0].ID != "mint" || resp.Items[0].DisplayName != "Minimal Mint" {
		t.Fatalf("first favourite = %+v", resp.Items[0])
	}

	w = f.do(t, http.MethodDelete, "/v1/favourites/mint", nil)
	requireStatus(t, w, http.StatusNoContent)

	// 再删一次仍然成功。
	w = f.do(t, http.MethodDelete, "/v1/favourites/mint", nil)
	requireStatus(t, w, http.StatusNoContent)

	w = f.do(t, http.MethodGet, "/v1/favourites", nil)
	requireStatus(t, w, http.StatusOK)
	decode(t, w, &resp)
	if len(resp.Items) != 1 || resp.Items[0].ID != "dark" {
		t.Fatalf("items after remove = %+v", resp.Items)
	}
}

func TestAddFavouriteUnknownTemplate(t *testing.T) {
	f := newAPIFixture(t)

	w := f.do(t, http.MethodPost, "/v1/favourites", map[string]any{"id": "nonexistent"})
	requireStatus(t, w, http.StatusNotFound)

	w = f.do(t, http.MethodPost, "/v1/favourites", map[string]any{})
	requireStatus(t, w, http.StatusBadRequest)
}
