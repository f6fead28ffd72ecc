package domain

import "time"

type ListingStatus string

const (
	StatusActive    ListingStatus = "active"
	StatusInactive  ListingStatus = "inactive"
	StatusSold      ListingStatus = "sold"
	StatusModerated ListingStatus = "moderated"
	StatusRejected  ListingStatus = "rejected"
)

// OwnerSettable reports whether a seller may move a listing into s. The
// moderation states are set by staff only.
func (s ListingStatus) OwnerSettable() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSold:
		return true
	}
	return false
}

// ListingFields are the owner-editable columns of a listing. A nil field is
// left untouched by an update.
type ListingFields struct {
	BrandID      *int64   `json:"brand_id"`
	ModelID      *int64   `json:"model_id"`
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Year         *int     `json:"year"`
	Price        *float64 `json:"price"`
	Currency     *string  `json:"currency"`
	BodyType     *string  `json:"body_type"`
	EngineType   *string  `json:"engine_type"`
	EngineVolume *float64 `json:"engine_volume"`
	EnginePower  *int     `json:"engine_power"`
	Transmission *string  `json:"transmission"`
	DriveType    *string  `json:"drive_type"`
	Mileage      *int64   `json:"mileage"`
	Condition    *string  `json:"condition"`
	Color        *string  `json:"color"`
	City         *string  `json:"city"`
}

// BrandRef and ModelRef are the joined catalog rows of a listing. A nil
// pointer means the join produced nothing.
type BrandRef struct {
	Name    string
	LogoURL string
}

type ModelRef struct {
	Name string
}

// UserRef is the joined owner of a listing.
type UserRef struct {
	DisplayName string
	AvatarURL   string
}

type ListingImage struct {
	ID        string
	URL       string
	IsMain    bool
	SortOrder *int // nil when the row has no explicit order
}

// RawListingRecord is a listing as the store returns it, joins included.
// Zero values stand for absent columns.
type RawListingRecord struct {
	ID           string
	UserID       string
	BrandID      int64
	ModelID      int64
	Title        string
	Description  string
	Year         int
	Price        float64
	Currency     string
	BodyType     string
	EngineType   string
	EngineVolume any // numeric, numeric string, or garbage from old rows
	EnginePower  int
	Transmission string
	DriveType    string
	Mileage      int64
	Condition    string
	Color        string
	City         string
	Status       ListingStatus
	IsPremium    bool
	ViewsCount   int64
	CreatedAt    time.Time

	Brand  *BrandRef
	Model  *ModelRef
	Images []ListingImage
	User   *UserRef
}

// DisplayListing is the flat, display-ready form of a listing.
type DisplayListing struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	BrandName       string    `json:"brand_name"`
	ModelName       string    `json:"model_name"`
	Year            int       `json:"year"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency"`
	Mileage         int64     `json:"mileage"`
	EngineType      string    `json:"engine_type"`
	EngineVolume    float64   `json:"engine_volume"`
	Transmission    string    `json:"transmission"`
	DriveType       string    `json:"drive_type,omitempty"`
	BodyType        string    `json:"body_type,omitempty"`
	City            string    `json:"city"`
	Image           string    `json:"image"`
	Images          []string  `json:"images,omitempty"`
	IsPremium       bool      `json:"is_premium"`
	ViewsCount      int64     `json:"views_count"`
	SellerName      string    `json:"seller_name,omitempty"`
	SellerAvatarURL string    `json:"seller_avatar_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	IsFavorite      bool      `json:"is_favorite"`
}

type Brand struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	LogoURL   string `json:"logo_url,omitempty"`
	Country   string `json:"country,omitempty"`
	IsPopular bool   `json:"is_popular"`
}

type Model struct {
	ID       int64  `json:"id"`
	BrandID  int64  `json:"brand_id"`
	Name     string `json:"name"`
	BodyType string `json:"body_type,omitempty"`
	YearFrom int    `json:"year_from,omitempty"`
	YearTo   int    `json:"year_to,omitempty"`
}

type Favorite struct {
	UserID    string
	ListingID string
	CreatedAt time.Time
}

type Review struct {
	ID         string    `json:"id"`
	ReviewerID string    `json:"reviewer_id"`
	SellerID   string    `json:"seller_id"`
	ListingID  string    `json:"listing_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	ListingID  string    `json:"listing_id,omitempty"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Conversation summarizes the exchange with one counterpart.
type Conversation struct {
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	LastMessage   string    `json:"last_message"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int       `json:"unread_count"`
}

// Viewer is the identity a request acts as. The zero value is anonymous.
type Viewer struct {
	ID string
}

func Anonymous() Viewer { return Viewer{} }

func (v Viewer) IsAnonymous() bool { return v.ID == "" }
