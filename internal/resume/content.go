package resume

import (
	"strings"

	"dreamycv/internal/draft"
)

// Content 是交给模板渲染层的只读投影，渲染层只认识这个形状。
type Content struct {
	FullName   string       `json:"fullName"`
	Role       string       `json:"role"`
	Summary    string       `json:"summary"`
	Contacts   []string     `json:"contacts"`
	Skills     []string     `json:"skills"`
	Photo      string       `json:"photo,omitempty"`
	Experience []Experience `json:"experience"`
	Education  []EduLine    `json:"education"`
}

// Experience 是渲染层消费的一段工作经历。
type Experience struct {
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Dates    string   `json:"dates"`
	Location string   `json:"location"`
	Points   []string `json:"points"`
}

// EduLine 是渲染层消费的一行教育经历。
type EduLine struct {
	Line string `json:"line"`
}

// Project 把草稿折叠成渲染层期望的 Content。
func Project(d draft.Draft) Content {
	h := d.Heading

	contactLine := joinNonEmpty(", ", h.City, h.Province, h.Postal)
	contacts := filterNonEmpty(h.Email, h.Phone, contactLine)

	experience := make([]Experience, 0, len(d.Jobs))
	for _, j := range d.Jobs {
		experience = append(experience, Experience{
			Title:    j.Title,
			Company:  j.Employer,
			Dates:    jobDates(j),
			Location: j.Location,
			Points:   splitLines(j.Bullets),
		})
	}

	return Content{
		FullName:   strings.TrimSpace(h.Name + " " + h.Surname),
		Role:       h.Role,
		Summary:    d.SummaryText,
		Contacts:   contacts,
		Skills:     splitSkills(d.SkillsText),
		Photo:      d.Photo,
		Experience: experience,
		Education:  []EduLine{{Line: eduLine(d.Education)}},
	}
}

// jobDates 格式化一段经历的时间区间，例如 "Jan 2020 – Present"。
// 未选择的月份/年份留空。
func jobDates(j draft.WorkEntry) string {
	var start string
	if monthSet(j.StartMonth) && yearSet(j.StartYear) {
		start = j.StartMonth + " " + j.StartYear
	}
	var end string
	switch {
	case j.Current:
		end = "Present"
	case monthSet(j.EndMonth) && yearSet(j.EndYear):
		end = j.EndMonth + " " + j.EndYear
	}
	return joinNonEmpty(" – ", start, end)
}

func eduLine(e draft.Education) string {
	var degree string
	if e.Degree != "" {
		degree = e.Degree + " • " + e.Field
	}
	line := joinNonEmpty(" — ", degree, e.Institution, e.Location)
	if monthSet(e.GradMonth) && yearSet(e.GradYear) {
		line += " (" + e.GradMonth + " " + e.GradYear + ")"
	}
	return line
}

func monthSet(m string) bool { return m != "" && m != draft.MonthUnset }
func yearSet(y string) bool  { return y != "" && y != draft.YearUnset }

// splitSkills 按逗号、竖线、换行切开技能文本。
func splitSkills(s string) []string {
	return filterNonEmpty(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == '\n'
	})...)
}

func splitLines(s string) []string {
	return filterNonEmpty(strings.Split(s, "\n")...)
}

func filterNonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(filterNonEmpty(parts...), sep)
}
