package draft

import (
	"context"
	"sort"
	"strings"
	"time"

	"dreamycv/internal/kvstore"
	"dreamycv/internal/prefs"
)

// KeyPrefix 是草稿记录在共享存储中的键前缀，每款模板一个键。
const KeyPrefix = "draft:"

// Key returns the store key for one template's draft.
func Key(templateID string) string { return KeyPrefix + templateID }

// Store 持有全部草稿记录，按模板 ID 定位。
type Store struct {
	codec *kvstore.Codec
	prefs *prefs.Store
}

// NewStore 构造 Store。
func NewStore(codec *kvstore.Codec, prefsStore *prefs.Store) *Store {
	return &Store{codec: codec, prefs: prefsStore}
}

// splitName 把全名拆成名/姓：最后一个词是姓，其余是名；
// 单个词时姓为空。
func splitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// Hydrate 返回模板的草稿。已有内容的草稿原样返回，不重新播种；
// 否则用当前偏好播种一份新草稿并持久化。持久化失败不阻塞返回，
// 内存里的草稿仍然可用。
func (s *Store) Hydrate(ctx context.Context, templateID string) (Draft, error) {
	stored := kvstore.Read(ctx, s.codec, Key(templateID), Draft{})
	if stored.Meaningful() {
		stored.TemplateID = templateID
		stored.normalize()
		return stored, nil
	}

	seeded := s.seed(ctx, templateID)
	err := s.write(ctx, &seeded)
	return seeded, err
}

// load 取出草稿供条目操作使用。与 Hydrate 不同，这里只要存储里有
// 结构（哪怕全是空白条目）就沿用它：编辑中的空白条目在两次请求之间
// 不能丢身份。完全没有记录时才播种。
func (s *Store) load(ctx context.Context, templateID string) (Draft, error) {
	stored := kvstore.Read(ctx, s.codec, Key(templateID), Draft{})
	if stored.Meaningful() || len(stored.Jobs) > 0 || stored.LegacyJob != nil {
		stored.TemplateID = templateID
		stored.normalize()
		return stored, nil
	}
	seeded := s.seed(ctx, templateID)
	err := s.write(ctx, &seeded)
	return seeded, err
}

// seed 用当前偏好生成新草稿：拆分姓名、带上角色与联系方式，
// 并创建恰好一段以目标角色预填标题的空白经历。
func (s *Store) seed(ctx context.Context, templateID string) Draft {
	p := s.prefs.Get(ctx)
	first, last := splitName(p.Name)
	return Draft{
		TemplateID: templateID,
		Heading: Heading{
			Name:    first,
			Surname: last,
			Role:    p.Role,
			Email:   p.Email,
		},
		Jobs: []WorkEntry{NewWorkEntry(p.Role)},
	}
}

// MergeFromPreferences 把当前偏好补进草稿里仍然空白的头部字段，
// 以及第一段经历缺失的标题。已填写的字段一律不动。
// 用于编辑器的"从向导同步"按钮和视图重获焦点时的自动对账。
func (s *Store) MergeFromPreferences(ctx context.Context, templateID string) (Draft, error) {
	d, err := s.load(ctx, templateID)
	if err != nil {
		return d, err
	}

	p := s.prefs.Get(ctx)
	first, last := splitName(p.Name)
	if d.Heading.Name == "" {
		d.Heading.Name = first
	}
	if d.Heading.Surname == "" {
		d.Heading.Surname = last
	}
	if d.Heading.Role == "" {
		d.Heading.Role = p.Role
	}
	if d.Heading.Email == "" {
		d.Heading.Email = p.Email
	}
	if len(d.Jobs) > 0 && d.Jobs[0].Title == "" && p.Role != "" {
		d.Jobs[0].Title = p.Role
	}

	err = s.write(ctx, &d)
	return d, err
}

// Save 立即持久化草稿（最后写入获胜）。
func (s *Store) Save(ctx context.Context, d Draft) error {
	return s.write(ctx, &d)
}

func (s *Store) write(ctx context.Context, d *Draft) error {
	d.normalize()
	d.UpdatedAt = time.Now().UTC()
	return s.codec.Write(ctx, Key(d.TemplateID), *d)
}

// ListAll 枚举所有已持久化的草稿，按模板 ID 去重（最后写入获胜），
// 最近更新的排在前面。
func (s *Store) ListAll(ctx context.Context) ([]Draft, error) {
	keys, err := s.codec.Keys(ctx, KeyPrefix)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Draft, len(keys))
	for _, key := range keys {
		d := kvstore.Read(ctx, s.codec, key, Draft{})
		if !d.Meaningful() {
			continue
		}
		if d.TemplateID == "" {
			d.TemplateID = strings.TrimPrefix(key, KeyPrefix)
		}
		d.normalize()
		if prev, ok := byID[d.TemplateID]; ok && prev.UpdatedAt.After(d.UpdatedAt) {
			continue
		}
		byID[d.TemplateID] = d
	}

	drafts := make([]Draft, 0, len(byID))
	for _, d := range byID {
		drafts = append(drafts, d)
	}
	sort.Slice(drafts, func(i, j int) bool {
		if drafts[i].UpdatedAt.Equal(drafts[j].UpdatedAt) {
			return drafts[i].TemplateID < drafts[j].TemplateID
		}
		return drafts[i].UpdatedAt.After(drafts[j].UpdatedAt)
	})
	return drafts, nil
}

// Delete 删除模板的草稿，幂等。
func (s *Store) Delete(ctx context.Context, templateID string) error {
	return s.codec.Delete(ctx, Key(templateID))
}

// AddJob 在草稿里追加一段空白经历并保存。
func (s *Store) AddJob(ctx context.Context, templateID string) (Draft, WorkEntry, error) {
	d, err := s.load(ctx, templateID)
	if err != nil {
		return d, WorkEntry{}, err
	}
	entry := d.AddJob()
	err = s.write(ctx, &d)
	return d, entry, err
}

// DuplicateJob 复制指定经历并保存；找不到条目时 ok 为 false。
func (s *Store) DuplicateJob(ctx context.Context, templateID, entryID string) (Draft, bool, error) {
	d, err := s.load(ctx, templateID)
	if err != nil {
		return d, false, err
	}
	if _, ok := d.DuplicateJob(entryID); !ok {
		return d, false, nil
	}
	err = s.write(ctx, &d)
	return d, true, err
}

// RemoveJob 删除指定经历并保存；只剩一段或找不到条目时 ok 为 false。
func (s *Store) RemoveJob(ctx context.Context, templateID, entryID string) (Draft, bool, error) {
	d, err := s.load(ctx, templateID)
	if err != nil {
		return d, false, err
	}
	if !d.RemoveJob(entryID) {
		return d, false, nil
	}
	err = s.write(ctx, &d)
	return d, true, err
}

// PatchJob 按身份更新经历并保存；找不到条目时 ok 为 false。
func (s *Store) PatchJob(ctx context.Context, templateID, entryID string, patch WorkEntryPatch) (Draft, bool, error) {
	d, err := s.load(ctx, templateID)
	if err != nil {
		return d, false, err
	}
	if !d.UpdateJob(entryID, patch) {
		return d, false, nil
	}
	err = s.write(ctx, &d)
	return d, true, err
}
