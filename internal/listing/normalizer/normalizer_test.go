package normalizer

import (
	"testing"
	"time"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/stretchr/testify/assert"
)

func order(i int) *int { return &i }

func TestNormalize_MainImageSelection(t *testing.T) {
	n := New("")

	cases := []struct {
		name   string
		images []domain.ListingImage
		want   string
	}{
		{"FlaggedMainWins", []domain.ListingImage{{URL: "a"}, {URL: "b", IsMain: true}}, "b"},
		{"SingleUnflagged", []domain.ListingImage{{URL: "a"}}, "a"},
		{"NoImages", nil, PlaceholderImage},
		{"EmptySlice", []domain.ListingImage{}, PlaceholderImage},
		{"LowestSortOrder", []domain.ListingImage{
			{URL: "a", SortOrder: order(2)},
			{URL: "b", SortOrder: order(0)},
			{URL: "c", SortOrder: order(1)},
		}, "b"},
		{"SortOrderIgnoredWhenMainFlagged", []domain.ListingImage{
			{URL: "a", SortOrder: order(0)},
			{URL: "b", SortOrder: order(5), IsMain: true},
		}, "b"},
		{"NoSortOrderFallsBackToFirst", []domain.ListingImage{{URL: "x"}, {URL: "y"}}, "x"},
		{"BlankURL", []domain.ListingImage{{URL: "", IsMain: true}}, PlaceholderImage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := n.Normalize(domain.RawListingRecord{Images: tc.images})
			assert.Equal(t, tc.want, d.Image)
		})
	}
}

func TestNormalize_CustomPlaceholder(t *testing.T) {
	d := New("/static/no-photo.png").Normalize(domain.RawListingRecord{})
	assert.Equal(t, "/static/no-photo.png", d.Image)
}

func TestNormalize_DefaultTable(t *testing.T) {
	d := New("").Normalize(domain.RawListingRecord{ID: "l1", City: ""})

	assert.Equal(t, int64(0), d.Mileage)
	assert.Equal(t, "Бензин", d.EngineType)
	assert.Equal(t, 2.0, d.EngineVolume)
	assert.Equal(t, "Автомат", d.Transmission)
	assert.Equal(t, "Москва", d.City)
	assert.Equal(t, PlaceholderImage, d.Image)
	assert.Equal(t, "Неизвестно", d.BrandName)
	assert.Equal(t, "", d.ModelName)
	assert.False(t, d.IsPremium)
	assert.Equal(t, int64(0), d.ViewsCount)
	assert.Equal(t, "RUB", d.Currency)
	assert.False(t, d.IsFavorite)
}

func TestNormalize_WhitespaceCityDefaults(t *testing.T) {
	d := New("").Normalize(domain.RawListingRecord{City: "   "})
	assert.Equal(t, DefaultCity, d.City)
}

func TestNormalize_EngineVolume(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{nil, 2.0},
		{"", 2.0},
		{"abc", 2.0},
		{0.0, 2.0},
		{3.5, 3.5},
		{int64(3), 3.0},
		{"1.6", 1.6},
		{"1,8", 1.8},
		{true, 2.0},
	}
	n := New("")
	for _, tc := range cases {
		assert.Equal(t, tc.want, n.Normalize(domain.RawListingRecord{EngineVolume: tc.in}).EngineVolume, "input %v", tc.in)
	}
}

func TestNormalize_PopulatedRecord(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	r := domain.RawListingRecord{
		ID:           "l2",
		UserID:       "u1",
		Title:        "Toyota Camry 2.5",
		Year:         2019,
		Price:        2450000,
		Currency:     "USD",
		BodyType:     "SEDAN",
		EngineType:   "Hybrid",
		EngineVolume: 2.5,
		Transmission: "cvt",
		DriveType:    "front",
		Mileage:      64000,
		City:         "Казань",
		IsPremium:    true,
		ViewsCount:   17,
		CreatedAt:    created,
		Brand:        &domain.BrandRef{Name: "Toyota"},
		Model:        &domain.ModelRef{Name: "Camry"},
		Images:       []domain.ListingImage{{URL: "a.jpg"}, {URL: "b.jpg", IsMain: true}},
		User:         &domain.UserRef{DisplayName: "Иван", AvatarURL: "ava.png"},
	}

	d := New("").Normalize(r)

	assert.Equal(t, "Toyota", d.BrandName)
	assert.Equal(t, "Camry", d.ModelName)
	assert.Equal(t, "USD", d.Currency)
	assert.Equal(t, "Седан", d.BodyType)
	assert.Equal(t, "Гибрид", d.EngineType)
	assert.Equal(t, "Вариатор", d.Transmission)
	assert.Equal(t, "Передний", d.DriveType)
	assert.Equal(t, int64(64000), d.Mileage)
	assert.Equal(t, "Казань", d.City)
	assert.Equal(t, "b.jpg", d.Image)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, d.Images)
	assert.True(t, d.IsPremium)
	assert.Equal(t, int64(17), d.ViewsCount)
	assert.Equal(t, "Иван", d.SellerName)
	assert.Equal(t, "ava.png", d.SellerAvatarURL)
	assert.Equal(t, created, d.CreatedAt)
}

func TestNormalize_TitleFallback(t *testing.T) {
	d := New("").Normalize(domain.RawListingRecord{
		Year:  2020,
		Brand: &domain.BrandRef{Name: "Kia"},
		Model: &domain.ModelRef{Name: "Rio"},
	})
	assert.Equal(t, "Kia Rio, 2020", d.Title)
}

func TestNormalizeAll_KeepsOrder(t *testing.T) {
	out := New("").NormalizeAll([]domain.RawListingRecord{{ID: "1"}, {ID: "2"}, {ID: "3"}})
	assert.Len(t, out, 3)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[2].ID)

	assert.Empty(t, New("").NormalizeAll(nil))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Дизель", EngineLabel("DIESEL"))
	assert.Equal(t, "Дизель", EngineLabel("дизель"))
	assert.Equal(t, "Механика", TransmissionLabel("Manual"))
	assert.Equal(t, "Подключаемый", DriveLabel("part"))
	assert.Equal(t, "Кабриолет", BodyLabel("convertible"))
	assert.Equal(t, "Внедорожник", BodyLabel("Внедорожник"))

	assert.Equal(t, "hydrogen", EngineLabel("hydrogen"))
	assert.Equal(t, "", BodyLabel(""))
}
