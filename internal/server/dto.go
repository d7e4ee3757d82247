package server

import (
	"CuratorHub/internal/domain"
	"CuratorHub/internal/usecase"
)

type articleJSON struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	URL        string `json:"url"`
	ImageURL   string `json:"imageUrl"`
	Category   string `json:"category"`
	Type       string `json:"type"`
	Date       string `json:"date"`
	Author     string `json:"author"`
	Content    string `json:"content,omitempty"`
	KeyPoints  string `json:"keyPoints,omitempty"`
	Conclusion string `json:"conclusion,omitempty"`
	IsFeatured bool   `json:"isFeatured,omitempty"`
	IsDeleted  bool   `json:"isDeleted,omitempty"`
}

func (j articleJSON) toDomain() domain.Article {
	return domain.Article{
		ID:         j.ID,
		Title:      j.Title,
		Summary:    j.Summary,
		URL:        j.URL,
		ImageURL:   j.ImageURL,
		Category:   domain.Category(j.Category),
		Type:       domain.ResourceType(j.Type),
		Date:       j.Date,
		Author:     j.Author,
		Content:    j.Content,
		KeyPoints:  j.KeyPoints,
		Conclusion: j.Conclusion,
		IsFeatured: j.IsFeatured,
	}
}

func articleDTO(a domain.Article) articleJSON {
	return articleJSON{
		ID:         a.ID,
		Title:      a.Title,
		Summary:    a.Summary,
		URL:        a.URL,
		ImageURL:   a.ImageURL,
		Category:   string(a.Category),
		Type:       string(a.Type),
		Date:       a.Date,
		Author:     a.Author,
		Content:    a.Content,
		KeyPoints:  a.KeyPoints,
		Conclusion: a.Conclusion,
		IsFeatured: a.IsFeatured,
		IsDeleted:  a.IsDeleted,
	}
}

func articlesDTO(articles []domain.Article) []articleJSON {
	out := make([]articleJSON, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleDTO(a))
	}
	return out
}

type userJSON struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Avatar          string   `json:"avatar"`
	Role            string   `json:"role"`
	SavedArticleIDs []string `json:"savedArticleIds"`
	ReadArticleIDs  []string `json:"readArticleIds"`
}

func userDTO(u domain.User) userJSON {
	return userJSON{
		ID:              u.ID,
		Name:            u.Name,
		Avatar:          u.Avatar,
		Role:            string(u.Role),
		SavedArticleIDs: emptyIfNil(u.SavedArticleIDs),
		ReadArticleIDs:  emptyIfNil(u.ReadArticleIDs),
	}
}

type viewJSON struct {
	Hero   *articleJSON             `json:"hero,omitempty"`
	Items  []articleJSON            `json:"items"`
	Groups map[string][]articleJSON `json:"groups"`
}

func viewDTO(v usecase.View) viewJSON {
	out := viewJSON{
		Items:  articlesDTO(v.Items),
		Groups: map[string][]articleJSON{},
	}
	if v.Hero != nil {
		hero := articleDTO(*v.Hero)
		out.Hero = &hero
	}
	for kind, articles := range v.Groups {
		out.Groups[string(kind)] = articlesDTO(articles)
	}
	return out
}

type fieldJSON struct {
	Value  string `json:"value"`
	Source string `json:"source"`
}

type formJSON struct {
	State       string    `json:"state"`
	URL         string    `json:"url"`
	Type        string    `json:"type"`
	Title       fieldJSON `json:"title"`
	Description fieldJSON `json:"description"`
	ImageURL    fieldJSON `json:"imageUrl"`
	Category    string    `json:"category"`
}

func formDTO(state usecase.SessionState, form usecase.Form) formJSON {
	return formJSON{
		State:       string(state),
		URL:         form.URL,
		Type:        string(form.Type),
		Title:       fieldDTO(form.Title),
		Description: fieldDTO(form.Description),
		ImageURL:    fieldDTO(form.ImageURL),
		Category:    string(form.Category),
	}
}

func fieldDTO(f usecase.Field) fieldJSON {
	return fieldJSON{Value: f.Value, Source: sourceName(f.Source)}
}

func sourceName(source usecase.FieldSource) string {
	switch source {
	case usecase.SourceAuto:
		return "auto"
	case usecase.SourceUser:
		return "user"
	default:
		return "empty"
	}
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
