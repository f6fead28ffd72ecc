// Package normalizer turns joined listing records into display-ready listings.
package normalizer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
)

const (
	PlaceholderImage = "https://images.unsplash.com/photo-1492144534655-ae79c964c9d7?auto=format&fit=crop&w=400&q=80"

	DefaultBrandName    = "Неизвестно"
	DefaultEngineType   = "Бензин"
	DefaultTransmission = "Автомат"
	DefaultCity         = "Москва"
	DefaultCurrency     = "RUB"
	DefaultEngineVolume = 2.0
)

type Normalizer struct {
	placeholder string
}

// New returns a Normalizer that uses placeholder for listings without
// images. An empty placeholder selects PlaceholderImage.
func New(placeholder string) *Normalizer {
	if placeholder == "" {
		placeholder = PlaceholderImage
	}
	return &Normalizer{placeholder: placeholder}
}

func (n *Normalizer) NormalizeAll(records []domain.RawListingRecord) []domain.DisplayListing {
	out := make([]domain.DisplayListing, 0, len(records))
	for i := range records {
		out = append(out, n.Normalize(records[i]))
	}
	return out
}

func (n *Normalizer) Normalize(r domain.RawListingRecord) domain.DisplayListing {
	brandName := DefaultBrandName
	if r.Brand != nil && r.Brand.Name != "" {
		brandName = r.Brand.Name
	}
	modelName := ""
	if r.Model != nil {
		modelName = r.Model.Name
	}

	d := domain.DisplayListing{
		ID:           r.ID,
		UserID:       r.UserID,
		Title:        r.Title,
		Description:  r.Description,
		BrandName:    brandName,
		ModelName:    modelName,
		Year:         r.Year,
		Price:        r.Price,
		Currency:     r.Currency,
		Mileage:      r.Mileage,
		EngineType:   DefaultEngineType,
		EngineVolume: engineVolume(r.EngineVolume),
		Transmission: DefaultTransmission,
		DriveType:    DriveLabel(r.DriveType),
		BodyType:     BodyLabel(r.BodyType),
		City:         DefaultCity,
		Image:        n.mainImage(r.Images),
		Images:       imageURLs(r.Images),
		IsPremium:    r.IsPremium,
		ViewsCount:   r.ViewsCount,
		CreatedAt:    r.CreatedAt,
	}

	if strings.TrimSpace(r.EngineType) != "" {
		d.EngineType = EngineLabel(r.EngineType)
	}
	if strings.TrimSpace(r.Transmission) != "" {
		d.Transmission = TransmissionLabel(r.Transmission)
	}
	if city := strings.TrimSpace(r.City); city != "" {
		d.City = city
	}
	if d.Mileage < 0 {
		d.Mileage = 0
	}
	if d.Currency == "" {
		d.Currency = DefaultCurrency
	}
	if strings.TrimSpace(d.Title) == "" {
		d.Title = fallbackTitle(brandName, modelName, r.Year)
	}
	if r.User != nil {
		d.SellerName = r.User.DisplayName
		d.SellerAvatarURL = r.User.AvatarURL
	}
	return d
}

// mainImage picks the image flagged main, then the lowest sort order, then
// the first image.
func (n *Normalizer) mainImage(images []domain.ListingImage) string {
	if len(images) == 0 {
		return n.placeholder
	}

	chosen := -1
	for i, img := range images {
		if img.IsMain {
			chosen = i
			break
		}
	}
	if chosen < 0 {
		for i, img := range images {
			if img.SortOrder == nil {
				continue
			}
			if chosen < 0 || *img.SortOrder < *images[chosen].SortOrder {
				chosen = i
			}
		}
	}
	if chosen < 0 {
		chosen = 0
	}

	if images[chosen].URL == "" {
		return n.placeholder
	}
	return images[chosen].URL
}

func imageURLs(images []domain.ListingImage) []string {
	if len(images) == 0 {
		return nil
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		if img.URL != "" {
			urls = append(urls, img.URL)
		}
	}
	return urls
}

func engineVolume(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(x, ",", ".")), 64)
		if err != nil {
			return DefaultEngineVolume
		}
		f = parsed
	default:
		return DefaultEngineVolume
	}
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultEngineVolume
	}
	return f
}

func fallbackTitle(brand, model string, year int) string {
	title := strings.TrimSpace(brand + " " + model)
	if year > 0 {
		title = fmt.Sprintf("%s, %d", title, year)
	}
	return title
}
