package mongodb

import (
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listingDocument struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	UserID       string               `bson:"user_id"`
	BrandID      int64                `bson:"brand_id"`
	ModelID      int64                `bson:"model_id"`
	Title        string               `bson:"title"`
	Description  string               `bson:"description,omitempty"`
	Year         int                  `bson:"year"`
	Price        float64              `bson:"price"`
	Currency     string               `bson:"currency,omitempty"`
	BodyType     string               `bson:"body_type,omitempty"`
	EngineType   string               `bson:"engine_type,omitempty"`
	EngineVolume interface{}          `bson:"engine_volume,omitempty"`
	EnginePower  int                  `bson:"engine_power,omitempty"`
	Transmission string               `bson:"transmission,omitempty"`
	DriveType    string               `bson:"drive_type,omitempty"`
	Mileage      int64                `bson:"mileage,omitempty"`
	Condition    string               `bson:"condition,omitempty"`
	Color        string               `bson:"color,omitempty"`
	City         string               `bson:"city,omitempty"`
	Status       domain.ListingStatus `bson:"status"`
	IsPremium    bool                 `bson:"is_premium,omitempty"`
	ViewsCount   int64                `bson:"views_count,omitempty"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at,omitempty"`

	// Filled by $lookup stages.
	Brand  []brandDocument `bson:"brand,omitempty"`
	Model  []modelDocument `bson:"model,omitempty"`
	Images []imageDocument `bson:"images,omitempty"`
	User   []userDocument  `bson:"user,omitempty"`
}

type imageDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ListingID string             `bson:"listing_id"`
	URL       string             `bson:"url"`
	IsMain    bool               `bson:"is_main"`
	SortOrder *int               `bson:"sort_order,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

type brandDocument struct {
	ID        int64  `bson:"_id"`
	Name      string `bson:"name"`
	LogoURL   string `bson:"logo_url,omitempty"`
	Country   string `bson:"country,omitempty"`
	IsPopular bool   `bson:"is_popular,omitempty"`
}

type modelDocument struct {
	ID       int64  `bson:"_id"`
	BrandID  int64  `bson:"brand_id"`
	Name     string `bson:"name"`
	BodyType string `bson:"body_type,omitempty"`
	YearFrom int    `bson:"year_from,omitempty"`
	YearTo   int    `bson:"year_to,omitempty"`
}

type userDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	DisplayName string             `bson:"display_name,omitempty"`
	AvatarURL   string             `bson:"avatar_url,omitempty"`
	Email       string             `bson:"email,omitempty"`
}

type favoriteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ListingID string             `bson:"listing_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

type reviewDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ReviewerID string             `bson:"reviewer_id"`
	SellerID   string             `bson:"seller_id"`
	ListingID  string             `bson:"listing_id"`
	Rating     int                `bson:"rating"`
	Comment    string             `bson:"comment"`
	CreatedAt  time.Time          `bson:"created_at"`
}

type messageDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	SenderID   string             `bson:"sender_id"`
	ReceiverID string             `bson:"receiver_id"`
	ListingID  string             `bson:"listing_id,omitempty"`
	Content    string             `bson:"content"`
	IsRead     bool               `bson:"is_read"`
	CreatedAt  time.Time          `bson:"created_at"`
}

func toDomainMessage(d *messageDocument) domain.Message {
	return domain.Message{
		ID:         d.ID.Hex(),
		SenderID:   d.SenderID,
		ReceiverID: d.ReceiverID,
		ListingID:  d.ListingID,
		Content:    d.Content,
		IsRead:     d.IsRead,
		CreatedAt:  d.CreatedAt,
	}
}

func toRawListing(d *listingDocument) domain.RawListingRecord {
	r := domain.RawListingRecord{
		ID:           d.ID.Hex(),
		UserID:       d.UserID,
		BrandID:      d.BrandID,
		ModelID:      d.ModelID,
		Title:        d.Title,
		Description:  d.Description,
		Year:         d.Year,
		Price:        d.Price,
		Currency:     d.Currency,
		BodyType:     d.BodyType,
		EngineType:   d.EngineType,
		EngineVolume: d.EngineVolume,
		EnginePower:  d.EnginePower,
		Transmission: d.Transmission,
		DriveType:    d.DriveType,
		Mileage:      d.Mileage,
		Condition:    d.Condition,
		Color:        d.Color,
		City:         d.City,
		Status:       d.Status,
		IsPremium:    d.IsPremium,
		ViewsCount:   d.ViewsCount,
		CreatedAt:    d.CreatedAt,
	}
	if len(d.Brand) > 0 {
		r.Brand = &domain.BrandRef{Name: d.Brand[0].Name, LogoURL: d.Brand[0].LogoURL}
	}
	if len(d.Model) > 0 {
		r.Model = &domain.ModelRef{Name: d.Model[0].Name}
	}
	if len(d.User) > 0 {
		r.User = &domain.UserRef{DisplayName: d.User[0].DisplayName, AvatarURL: d.User[0].AvatarURL}
	}
	for _, img := range d.Images {
		r.Images = append(r.Images, domain.ListingImage{
			ID:        img.ID.Hex(),
			URL:       img.URL,
			IsMain:    img.IsMain,
			SortOrder: img.SortOrder,
		})
	}
	return r
}

func toListingDocument(r *domain.RawListingRecord) *listingDocument {
	return &listingDocument{
		UserID:       r.UserID,
		BrandID:      r.BrandID,
		ModelID:      r.ModelID,
		Title:        r.Title,
		Description:  r.Description,
		Year:         r.Year,
		Price:        r.Price,
		Currency:     r.Currency,
		BodyType:     r.BodyType,
		EngineType:   r.EngineType,
		EngineVolume: r.EngineVolume,
		EnginePower:  r.EnginePower,
		Transmission: r.Transmission,
		DriveType:    r.DriveType,
		Mileage:      r.Mileage,
		Condition:    r.Condition,
		Color:        r.Color,
		City:         r.City,
		Status:       r.Status,
		IsPremium:    r.IsPremium,
		CreatedAt:    r.CreatedAt,
	}
}

// editableSet is the $set document for an owner update.
func editableSet(r *domain.RawListingRecord, now time.Time) bson.M {
	return bson.M{
		"brand_id":      r.BrandID,
		"model_id":      r.ModelID,
		"title":         r.Title,
		"description":   r.Description,
		"year":          r.Year,
		"price":         r.Price,
		"currency":      r.Currency,
		"body_type":     r.BodyType,
		"engine_type":   r.EngineType,
		"engine_volume": r.EngineVolume,
		"engine_power":  r.EnginePower,
		"transmission":  r.Transmission,
		"drive_type":    r.DriveType,
		"mileage":       r.Mileage,
		"condition":     r.Condition,
		"color":         r.Color,
		"city":          r.City,
		"status":        r.Status,
		"updated_at":    now,
	}
}

func toDomainBrand(d *brandDocument) domain.Brand {
	return domain.Brand{ID: d.ID, Name: d.Name, LogoURL: d.LogoURL, Country: d.Country, IsPopular: d.IsPopular}
}

func toDomainModel(d *modelDocument) domain.Model {
	return domain.Model{ID: d.ID, BrandID: d.BrandID, Name: d.Name, BodyType: d.BodyType, YearFrom: d.YearFrom, YearTo: d.YearTo}
}

func toReviewDocument(r *domain.Review) *reviewDocument {
	return &reviewDocument{
		ReviewerID: r.ReviewerID,
		SellerID:   r.SellerID,
		ListingID:  r.ListingID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
	}
}

func toDomainReview(d *reviewDocument) domain.Review {
	return domain.Review{
		ID:         d.ID.Hex(),
		ReviewerID: d.ReviewerID,
		SellerID:   d.SellerID,
		ListingID:  d.ListingID,
		Rating:     d.Rating,
		Comment:    d.Comment,
		CreatedAt:  d.CreatedAt,
	}
}
