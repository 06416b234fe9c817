package draft

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// 月份/年份选择器未选择时的占位值，与录入界面保持一致。
const (
	MonthUnset = "Month"
	YearUnset  = "Year"
)

// Heading 是简历头部的姓名与联系方式。
type Heading struct {
	Name     string `json:"name,omitempty"`
	Surname  string `json:"surname,omitempty"`
	Role     string `json:"role,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	Postal   string `json:"postal,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// WorkEntry 是一段工作经历。ID 与位置无关，复制/删除/编辑都按 ID
// 定位，条目重排后不会错改到兄弟条目。
type WorkEntry struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	Employer   string `json:"employer,omitempty"`
	Location   string `json:"location,omitempty"`
	StartMonth string `json:"startMonth,omitempty"`
	StartYear  string `json:"startYear,omitempty"`
	EndMonth   string `json:"endMonth,omitempty"`
	EndYear    string `json:"endYear,omitempty"`
	Current    bool   `json:"current,omitempty"`
	Bullets    string `json:"bullets,omitempty"`
}

// Education 是一条教育经历。
type Education struct {
	Institution string `json:"institution,omitempty"`
	Location    string `json:"location,omitempty"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	GradMonth   string `json:"gradMonth,omitempty"`
	GradYear    string `json:"gradYear,omitempty"`
}

// Draft 是一款模板下完整的可编辑简历内容。每款模板各有一份，
// 互相独立：切换模板不会动到别的模板的草稿。
type Draft struct {
	TemplateID  string      `json:"tplId"`
	Heading     Heading     `json:"heading"`
	Jobs        []WorkEntry `json:"jobs"`
	Education   Education   `json:"edu"`
	SkillsText  string      `json:"skills,omitempty"`
	SummaryText string      `json:"summary,omitempty"`
	Photo       string      `json:"photo,omitempty"`
	UpdatedAt   time.Time   `json:"updatedAt,omitempty"`

	// LegacyJob 兼容早期只存单段经历的草稿，读取时升级为 Jobs[0]。
	LegacyJob *WorkEntry `json:"job,omitempty"`
}

// NewWorkEntry 创建一段空白经历，可预填职位名。
func NewWorkEntry(seedTitle string) WorkEntry {
	return WorkEntry{
		ID:         uuid.NewString(),
		Title:      seedTitle,
		StartMonth: MonthUnset,
		StartYear:  YearUnset,
		EndMonth:   MonthUnset,
		EndYear:    YearUnset,
	}
}

// hasText reports whether s contains anything beyond whitespace.
func hasText(s string) bool { return strings.TrimSpace(s) != "" }

// Meaningful 判断经历里是否有用户填写的内容。占位的月份/年份不算。
func (w WorkEntry) Meaningful() bool {
	if hasText(w.Title) || hasText(w.Employer) || hasText(w.Location) || hasText(w.Bullets) {
		return true
	}
	if w.Current {
		return true
	}
	if (hasText(w.StartMonth) && w.StartMonth != MonthUnset) || (hasText(w.StartYear) && w.StartYear != YearUnset) {
		return true
	}
	if (hasText(w.EndMonth) && w.EndMonth != MonthUnset) || (hasText(w.EndYear) && w.EndYear != YearUnset) {
		return true
	}
	return false
}

func (h Heading) meaningful() bool {
	return hasText(h.Name) || hasText(h.Surname) || hasText(h.Role) ||
		hasText(h.City) || hasText(h.Province) || hasText(h.Postal) ||
		hasText(h.Phone) || hasText(h.Email)
}

func (e Education) meaningful() bool {
	return hasText(e.Institution) || hasText(e.Location) || hasText(e.Degree) || hasText(e.Field)
}

// Meaningful 判断草稿是否包含任何用户内容。有内容的草稿在再次打开时
// 原样返回，绝不会被向导答案重新播种。
func (d Draft) Meaningful() bool {
	if hasText(d.SummaryText) || hasText(d.SkillsText) || hasText(d.Photo) {
		return true
	}
	if d.Heading.meaningful() || d.Education.meaningful() {
		return true
	}
	for _, j := range d.Jobs {
		if j.Meaningful() {
			return true
		}
	}
	if d.LegacyJob != nil && d.LegacyJob.Meaningful() {
		return true
	}
	return false
}

// normalize 升级旧格式、补齐条目 ID，并保证至少一段经历。
func (d *Draft) normalize() {
	if len(d.Jobs) == 0 && d.LegacyJob != nil {
		legacy := NewWorkEntry("")
		merged := *d.LegacyJob
		if merged.ID == "" {
			merged.ID = legacy.ID
		}
		if merged.StartMonth == "" {
			merged.StartMonth = MonthUnset
		}
		if merged.StartYear == "" {
			merged.StartYear = YearUnset
		}
		if merged.EndMonth == "" {
			merged.EndMonth = MonthUnset
		}
		if merged.EndYear == "" {
			merged.EndYear = YearUnset
		}
		d.Jobs = []WorkEntry{merged}
	}
	d.LegacyJob = nil
	if len(d.Jobs) == 0 {
		d.Jobs = []WorkEntry{NewWorkEntry("")}
	}
	for i := range d.Jobs {
		if d.Jobs[i].ID == "" {
			d.Jobs[i].ID = uuid.NewString()
		}
	}
}

// WorkEntryPatch 是按条目身份定位的部分更新。nil 字段保持原值。
type WorkEntryPatch struct {
	Title      *string `json:"title"`
	Employer   *string `json:"employer"`
	Location   *string `json:"location"`
	StartMonth *string `json:"startMonth"`
	StartYear  *string `json:"startYear"`
	EndMonth   *string `json:"endMonth"`
	EndYear    *string `json:"endYear"`
	Current    *bool   `json:"current"`
	Bullets    *string `json:"bullets"`
}

func (w *WorkEntry) apply(p WorkEntryPatch) {
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.Employer != nil {
		w.Employer = *p.Employer
	}
	if p.Location != nil {
		w.Location = *p.Location
	}
	if p.StartMonth != nil {
		w.StartMonth = *p.StartMonth
	}
	if p.StartYear != nil {
		w.StartYear = *p.StartYear
	}
	if p.EndMonth != nil {
		w.EndMonth = *p.EndMonth
	}
	if p.EndYear != nil {
		w.EndYear = *p.EndYear
	}
	if p.Current != nil {
		w.Current = *p.Current
	}
	if p.Bullets != nil {
		w.Bullets = *p.Bullets
	}
}

// AddJob 追加一段空白经历并返回它。
func (d *Draft) AddJob() WorkEntry {
	entry := NewWorkEntry("")
	d.Jobs = append(d.Jobs, entry)
	return entry
}

// DuplicateJob 在原条目之后插入一份内容相同、身份不同的副本。
func (d *Draft) DuplicateJob(entryID string) (WorkEntry, bool) {
	for i, j := range d.Jobs {
		if j.ID == entryID {
			dup := j
			dup.ID = uuid.NewString()
			d.Jobs = append(d.Jobs[:i+1], append([]WorkEntry{dup}, d.Jobs[i+1:]...)...)
			return dup, true
		}
	}
	return WorkEntry{}, false
}

// RemoveJob 按身份删除经历。只剩一段时拒绝：草稿始终保有至少一段。
func (d *Draft) RemoveJob(entryID string) bool {
	if len(d.Jobs) <= 1 {
		return false
	}
	for i, j := range d.Jobs {
		if j.ID == entryID {
			d.Jobs = append(d.Jobs[:i], d.Jobs[i+1:]...)
			return true
		}
	}
	return false
}

// UpdateJob 按身份打补丁。
func (d *Draft) UpdateJob(entryID string, patch WorkEntryPatch) bool {
	for i := range d.Jobs {
		if d.Jobs[i].ID == entryID {
			d.Jobs[i].apply(patch)
			return true
		}
	}
	return false
}
