package draft

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dreamycv/internal/kvstore"
	"dreamycv/internal/prefs"
)

func newTestStore(t *testing.T) (*Store, *prefs.Store, *kvstore.MemoryStore) {
	t.Helper()
	mem := kvstore.NewMemoryStore()
	codec := kvstore.NewCodec(mem, nil)
	prefsStore := prefs.NewStore(codec)
	return NewStore(codec, prefsStore), prefsStore, mem
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in          string
		first, last string
	}{
		{"Anna Lee", "Anna", "Lee"},
		{"Anna Maria Lee", "Anna Maria", "Lee"},
		{"Anna", "Anna", ""},
		{"  Anna   Lee  ", "Anna", "Lee"},
		{"", "", ""},
	}
	for _, tc := range cases {
		first, last := splitName(tc.in)
		assert.Equal(t, tc.first, first, "first of %q", tc.in)
		assert.Equal(t, tc.last, last, "last of %q", tc.in)
	}
}

func TestHydrateSeedsFromPreferences(t *testing.T) {
	ctx := context.Background()
	store, prefsStore, _ := newTestStore(t)

	require.NoError(t, prefsStore.Set(ctx, prefs.Preferences{
		Name:  "Anna Lee",
		Email: "anna@example.com",
		Role:  "Product Designer",
	}))

	d, err := store.Hydrate(ctx, "mint")
	require.NoError(t, err)

	assert.Equal(t, "mint", d.TemplateID)
	assert.Equal(t, "Anna", d.Heading.Name)
	assert.Equal(t, "Lee", d.Heading.Surname)
	assert.Equal(t, "Product Designer", d.Heading.Role)
	assert.Equal(t, "anna@example.com", d.Heading.Email)

	require.Len(t, d.Jobs, 1)
	assert.Equal(t, "Product Designer", d.Jobs[0].Title)
	assert.Equal(t, MonthUnset, d.Jobs[0].StartMonth)
}

func TestHydrateKeepsMeaningfulDraft(t *testing.T) {
	ctx := context.Background()
	store, prefsStore, _ := newTestStore(t)

	edited := Draft{
		TemplateID:  "mint",
		Heading:     Heading{Name: "Handwritten"},
		SummaryText: "my own words",
	}
	require.NoError(t, store.Save(ctx, edited))

	// 偏好随后变了，已有内容的草稿不得被重新播种。
	require.NoError(t, prefsStore.Set(ctx, prefs.Preferences{Name: "Someone Else"}))

	d, err := store.Hydrate(ctx, "mint")
	require.NoError(t, err)
	assert.Equal(t, "Handwritten", d.Heading.Name)
	assert.Equal(t, "my own words", d.SummaryText)
}

func TestHydrateSurvivesWriteFailure(t *testing.T) {
	ctx := context.Background()
	store, prefsStore, mem := newTestStore(t)

	require.NoError(t, prefsStore.Set(ctx, prefs.Preferences{Name: "Anna Lee"}))
	mem.FailWrites = true

	d, err := store.Hydrate(ctx, "mint")
	require.ErrorIs(t, err, kvstore.ErrWriteFailed)

	// 内存里的草稿照常可用。
	assert.Equal(t, "Anna", d.Heading.Name)
	require.Len(t, d.Jobs, 1)
}

func TestHydrateUpgradesLegacySingleJob(t *testing.T) {
	ctx := context.Background()
	store, _, mem := newTestStore(t)

	raw := `{"tplId":"mint","heading":{"name":"Old"},"job":{"title":"Legacy Role"}}`
	require.NoError(t, mem.Set(ctx, Key("mint"), raw))

	d, err := store.Hydrate(ctx, "mint")
	require.NoError(t, err)
	require.Len(t, d.Jobs, 1)
	assert.Equal(t, "Legacy Role", d.Jobs[0].Title)
	assert.NotEmpty(t, d.Jobs[0].ID)
	assert.Nil(t, d.LegacyJob)
}

func TestMergeFromPreferencesFillsGapsOnly(t *testing.T) {
	ctx := context.Background()
	store, prefsStore, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, Draft{
		TemplateID: "dark",
		Heading:    Heading{Name: "Kept", Role: ""},
	}))

	require.NoError(t, prefsStore.Set(ctx, prefs.Preferences{
		Name:  "Ignored Person",
		Role:  "Staff Engineer",
		Email: "staff@example.com",
	}))

	d, err := store.MergeFromPreferences(ctx, "dark")
	require.NoError(t, err)

	assert.Equal(t, "Kept", d.Heading.Name)
	assert.Equal(t, "Staff Engineer", d.Heading.Role)
	assert.Equal(t, "staff@example.com", d.Heading.Email)
	require.NotEmpty(t, d.Jobs)
	assert.Equal(t, "Staff Engineer", d.Jobs[0].Title)
}

func TestMergeFromPreferencesKeepsExistingJobTitle(t *testing.T) {
	ctx := context.Background()
	store, prefsStore, _ := newTestStore(t)

	entry := NewWorkEntry("Hand-picked Title")
	require.NoError(t, store.Save(ctx, Draft{TemplateID: "dark", Jobs: []WorkEntry{entry}}))
	require.NoError(t, prefsStore.Set(ctx, prefs.Preferences{Role: "Staff Engineer"}))

	d, err := store.MergeFromPreferences(ctx, "dark")
	require.NoError(t, err)
	assert.Equal(t, "Hand-picked Title", d.Jobs[0].Title)
}

func TestListAllSkipsEmptyAndSortsByRecency(t *testing.T) {
	ctx := context.Background()
	store, _, mem := newTestStore(t)

	old := Draft{TemplateID: "mint", SummaryText: "older", UpdatedAt: time.Now().Add(-time.Hour).UTC()}
	raw, err := json.Marshal(old)
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, Key("mint"), string(raw)))

	require.NoError(t, store.Save(ctx, Draft{TemplateID: "dark", SummaryText: "newer"}))

	// 空草稿不出现在列表里。
	require.NoError(t, store.Save(ctx, Draft{TemplateID: "pastel"}))

	drafts, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "dark", drafts[0].TemplateID)
	assert.Equal(t, "mint", drafts[1].TemplateID)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, Draft{TemplateID: "mint", SummaryText: "x"}))
	require.NoError(t, store.Delete(ctx, "mint"))
	require.NoError(t, store.Delete(ctx, "mint"))

	d, err := store.Hydrate(ctx, "mint")
	require.NoError(t, err)
	assert.Empty(t, d.SummaryText)
}

func TestStoreJobOperations(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	require.NoError(t, store.Save(ctx, Draft{TemplateID: "mint", SummaryText: "content"}))

	d, entry, err := store.AddJob(ctx, "mint")
	require.NoError(t, err)
	require.Len(t, d.Jobs, 2)

	d, ok, err := store.DuplicateJob(ctx, "mint", entry.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, d.Jobs, 3)

	title := "Patched"
	d, ok, err = store.PatchJob(ctx, "mint", entry.ID, WorkEntryPatch{Title: &title})
	require.NoError(t, err)
	require.True(t, ok)

	d, ok, err = store.RemoveJob(ctx, "mint", entry.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, d.Jobs, 2)

	// 落盘后的状态与返回值一致。
	stored, err := store.Hydrate(ctx, "mint")
	require.NoError(t, err)
	assert.Equal(t, d.Jobs, stored.Jobs)

	_, ok, err = store.RemoveJob(ctx, "mint", "missing-id")
	require.NoError(t, err)
	assert.False(t, ok)
}

// 全空白的草稿在条目操作之间必须保住结构和条目身份，
// 不能每个请求都重新播种。
func TestJobOpsKeepBlankStructure(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	d, added, err := store.AddJob(ctx, "mint")
	require.NoError(t, err)
	require.Len(t, d.Jobs, 2)

	title := "Now meaningful"
	d, ok, err := store.PatchJob(ctx, "mint", added.ID, WorkEntryPatch{Title: &title})
	require.NoError(t, err)
	require.True(t, ok, "blank entry lost its identity between requests")
	require.Len(t, d.Jobs, 2)
	assert.Equal(t, "Now meaningful", d.Jobs[1].Title)
}
