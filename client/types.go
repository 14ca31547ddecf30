package client

import "time"

// Wire types mirror the API's JSON shapes. The SDK keeps its own copies so
// importing it never drags in server internals.

type TravelPreferences struct {
	Destination string   `json:"destination"`
	Days        int      `json:"days"`
	Budget      string   `json:"budget"`
	Type        string   `json:"type"`
	Interests   []string `json:"interests"`
	Pace        string   `json:"pace,omitempty"`
}

type DayPlan struct {
	Day        int      `json:"day"`
	Morning    string   `json:"morning"`
	Afternoon  string   `json:"afternoon"`
	Evening    string   `json:"evening"`
	Food       []string `json:"food"`
	TravelTips string   `json:"travelTips"`
}

type Itinerary struct {
	ID             string    `json:"id"`
	Destination    string    `json:"destination"`
	TotalDays      int       `json:"totalDays"`
	TravelType     string    `json:"travelType"`
	Budget         string    `json:"budget"`
	Interests      []string  `json:"interests"`
	Days           []DayPlan `json:"days"`
	MustKnowTips   []string  `json:"mustKnowTips"`
	CommonMistakes []string  `json:"commonMistakes"`
	CreatedAt      time.Time `json:"createdAt"`
	IsVerified     bool      `json:"is_verified"`
}

type ArchivedItinerary struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Destination   string    `json:"destination"`
	Data          Itinerary `json:"data"`
	CreatedAt     time.Time `json:"created_at"`
	OwnerUsername string    `json:"userName,omitempty"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

type Profile struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	FullName       *string   `json:"full_name,omitempty"`
	AvatarURL      *string   `json:"avatar_url,omitempty"`
	Bio            *string   `json:"bio,omitempty"`
	Location       *string   `json:"location,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
}

type FeedPost struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Content        string    `json:"content"`
	ImageURL       *string   `json:"image_url,omitempty"`
	LocationName   *string   `json:"location_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	AuthorUsername string    `json:"author_username"`
	AuthorFullName *string   `json:"author_full_name,omitempty"`
	AuthorAvatar   *string   `json:"author_avatar_url,omitempty"`
	LikesCount     int64     `json:"likes_count"`
	HasLiked       bool      `json:"has_liked"`
	HasFollowed    bool      `json:"has_followed"`
}
