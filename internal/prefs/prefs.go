package prefs

import (
	"context"

	"dreamycv/internal/catalog"
	"dreamycv/internal/kvstore"
)

// Key 是偏好记录在共享存储中的键。
const Key = "prefs"

// Preferences 是用户在录入向导里的自述。所有字段都以空值表示
// "尚未回答"，不使用 null。
type Preferences struct {
	Name            string       `json:"name,omitempty"`
	Email           string       `json:"email,omitempty"`
	Role            string       `json:"role,omitempty"`
	ExperienceYears int          `json:"experienceYears,omitempty"`
	Field           string       `json:"field,omitempty"`
	AccentColor     string       `json:"accentColor,omitempty"`
	Tone            catalog.Tone `json:"tone,omitempty"`
}

// IsZero reports whether nothing has been answered yet.
func (p Preferences) IsZero() bool {
	return p == Preferences{}
}

// Store 持有当前唯一的偏好记录。
type Store struct {
	codec *kvstore.Codec
}

// NewStore 构造 Store。
func NewStore(codec *kvstore.Codec) *Store {
	return &Store{codec: codec}
}

// Get 读取偏好，缺失或损坏时回退为全空记录。
func (s *Store) Get(ctx context.Context) Preferences {
	return kvstore.Read(ctx, s.codec, Key, Preferences{})
}

// Set 整体覆盖偏好，向导"完成"时调用。
func (s *Store) Set(ctx context.Context, p Preferences) error {
	return s.codec.Write(ctx, Key, p)
}

// MergeIncomplete 把新数据合并进现有记录：已有值的字段保持不变，
// 空字段采用新值。只朝"补空"方向合并，编辑器重新同步向导数据时
// 不会覆盖手工修正。返回并持久化合并结果。
func (s *Store) MergeIncomplete(ctx context.Context, partial Preferences) (Preferences, error) {
	merged := Merge(s.Get(ctx), partial)
	err := s.codec.Write(ctx, Key, merged)
	return merged, err
}

// Merge 返回 base 与 incoming 的补空合并，不触碰存储。
func Merge(base, incoming Preferences) Preferences {
	if base.Name == "" {
		base.Name = incoming.Name
	}
	if base.Email == "" {
		base.Email = incoming.Email
	}
	if base.Role == "" {
		base.Role = incoming.Role
	}
	if base.ExperienceYears == 0 {
		base.ExperienceYears = incoming.ExperienceYears
	}
	if base.Field == "" {
		base.Field = incoming.Field
	}
	if base.AccentColor == "" {
		base.AccentColor = incoming.AccentColor
	}
	if base.Tone == "" {
		base.Tone = incoming.Tone
	}
	return base
}
