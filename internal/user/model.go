package user

import "time"

// OAuthPasswordSentinel is stored instead of a hash for accounts created through
// Google. It never matches a bcrypt comparison.
const OAuthPasswordSentinel = "google-oauth"

type User struct {
	ID             string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username       string    `gorm:"not null;index" json:"username"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"column:password;not null" json:"-"`
	ProfilePicture string    `json:"profilePicture"`
	Followers      []string  `gorm:"-" json:"followers"`
	Following      []string  `gorm:"-" json:"following"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Summary is the author projection joined into posts, comments and user lists.
type Summary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}
