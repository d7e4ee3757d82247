package domain

// Role controls which mutating operations a user may perform.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User is a reader profile with per-user saved and read tracking.
// Users are auto-registered on first login by name.
type User struct {
	ID              string
	Name            string
	Avatar          string
	Role            Role
	SavedArticleIDs []string
	ReadArticleIDs  []string
}

// HasSaved reports whether the article ID is in the user's saved list.
func (u User) HasSaved(articleID string) bool {
	return contains(u.SavedArticleIDs, articleID)
}

// HasRead reports whether the article ID is in the user's read list.
func (u User) HasRead(articleID string) bool {
	return contains(u.ReadArticleIDs, articleID)
}

// CanModify reports whether the user may edit or delete the article.
// Admins may modify anything; other users only their own submissions.
func (u User) CanModify(a Article) bool {
	return u.Role == RoleAdmin || u.Name == a.Author
}

// ToggleSave adds or removes the article from the saved list and reports
// whether it is saved afterwards. Toggling twice restores the original set.
func (u *User) ToggleSave(articleID string) bool {
	if u.HasSaved(articleID) {
		u.SavedArticleIDs = remove(u.SavedArticleIDs, articleID)
		return false
	}
	u.SavedArticleIDs = append(u.SavedArticleIDs, articleID)
	return true
}

// MarkRead records the article as read. Repeated calls are no-ops.
func (u *User) MarkRead(articleID string) {
	if !u.HasRead(articleID) {
		u.ReadArticleIDs = append(u.ReadArticleIDs, articleID)
	}
}

// StripArticle drops every reference to the article from both lists.
func (u *User) StripArticle(articleID string) {
	u.SavedArticleIDs = remove(u.SavedArticleIDs, articleID)
	u.ReadArticleIDs = remove(u.ReadArticleIDs, articleID)
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	kept := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			kept = append(kept, candidate)
		}
	}
	return kept
}
