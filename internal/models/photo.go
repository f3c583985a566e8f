package models

import "time"

// Photo represents a user-uploaded photo with its social state.
// OwnerName is a snapshot taken when the photo was created.
type Photo struct {
	ID        string    `json:"id"`
	Image     string    `json:"image"`
	Title     string    `json:"title"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name"`
	Likes     []string  `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is embedded in a Photo. Author fields are copied at comment time.
type Comment struct {
	Text        string `json:"comment"`
	AuthorID    string `json:"user_id"`
	AuthorName  string `json:"user_name"`
	AuthorImage string `json:"user_image"`
}

// LikedBy reports whether userID is in the like set.
func (p *Photo) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate it freely.
func (p *Photo) Clone() *Photo {
	cp := *p
	cp.Likes = append(make([]string, 0, len(p.Likes)), p.Likes...)
	cp.Comments = append(make([]Comment, 0, len(p.Comments)), p.Comments...)
	return &cp
}

// Like is returned after a successful like.
type Like struct {
	PhotoID string `json:"photoId"`
	UserID  string `json:"userId"`
}

type UpdatePhotoRequest struct {
	Title *string `json:"title"`
}

type CommentRequest struct {
	Comment string `json:"comment"`
}
