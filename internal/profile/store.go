package profile

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ownerID 是唯一档案行的固定主键。应用是单档案的，
// 就像源应用的本机存储一样。
const ownerID = 1

// Store 读写档案层。
type Store struct {
	db *gorm.DB
}

// NewStore 构造 Store。
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ensure 返回档案行，缺失时创建。
func (s *Store) Ensure(ctx context.Context) (Profile, error) {
	var p Profile
	err := s.db.WithContext(ctx).First(&p, ownerID).Error
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		p = Profile{Model: gorm.Model{ID: ownerID}}
		if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
			return Profile{}, fmt.Errorf("create profile: %w", err)
		}
		return p, nil
	default:
		return Profile{}, fmt.Errorf("load profile: %w", err)
	}
}

// SnapshotPrefs 记录最近一次提交的偏好，供仪表盘回显。
func (s *Store) SnapshotPrefs(ctx context.Context, raw []byte) error {
	if _, err := s.Ensure(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&Profile{}).
		Where("id = ?", ownerID).
		Update("last_prefs", datatypes.JSON(raw)).Error
}

// LastPrefs 返回偏好快照；没有快照时返回 nil。
func (s *Store) LastPrefs(ctx context.Context) ([]byte, error) {
	p, err := s.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	if len(p.LastPrefs) == 0 {
		return nil, nil
	}
	return []byte(p.LastPrefs), nil
}

// AddFavourite 收藏一款模板。重复收藏保持原状（集合语义）。
func (s *Store) AddFavourite(ctx context.Context, templateID, displayName string) error {
	if _, err := s.Ensure(ctx); err != nil {
		return err
	}
	fav := Favourite{ProfileID: ownerID, TemplateID: templateID, DisplayName: displayName}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "template_id"}},
			DoNothing: true,
		}).
		Create(&fav).Error
}

// RemoveFavourite 取消收藏，幂等。
func (s *Store) RemoveFavourite(ctx context.Context, templateID string) error {
	return s.db.WithContext(ctx).
		Where("profile_id = ? AND template_id = ?", ownerID, templateID).
		Delete(&Favourite{}).Error
}

// ListFavourites 返回收藏的模板。
func (s *Store) ListFavourites(ctx context.Context) ([]Favourite, error) {
	var favs []Favourite
	if err := s.db.WithContext(ctx).
		Where("profile_id = ?", ownerID).
		Order("created_at ASC").
		Find(&favs).Error; err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}
	return favs, nil
}
