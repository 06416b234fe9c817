package profile

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile 是本机唯一的档案行。引擎的共享存储之外，档案层记着
// 展示用的昵称、最近一次提交的偏好快照和收藏夹。
type Profile struct {
	gorm.Model
	DisplayName string         `gorm:"size:120"`
	LastPrefs   datatypes.JSON `gorm:"type:jsonb"` // 仪表盘回显用的偏好快照
	Favourites  []Favourite    `gorm:"constraint:OnDelete:CASCADE"`
}

// Favourite 是一个模板书签。集合语义：同一档案下模板 ID 唯一。
type Favourite struct {
	gorm.Model
	ProfileID   uint    `gorm:"uniqueIndex:idx_profile_template"`
	Profile     Profile `gorm:"constraint:OnDelete:CASCADE"`
	TemplateID  string  `gorm:"size:64;uniqueIndex:idx_profile_template"`
	DisplayName string  `gorm:"size:120"`
}
