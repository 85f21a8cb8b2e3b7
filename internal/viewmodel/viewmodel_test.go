package viewmodel

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/sfvdirectory/sitegen/internal/config"
	"github.com/sfvdirectory/sitegen/internal/models"
)

func tag(name string, typ models.TagType) models.BusinessTag {
	return models.BusinessTag{Tag: &models.Tag{Name: name, Slug: strings.ToLower(name), Type: typ}}
}

func testBuilder() *Builder {
	return NewBuilder(config.SiteConfig{
		BaseURL: "https://example.test/",
		Name:    "Valley Directory",
		Region:  "San Fernando Valley",
	})
}

func TestCategorizeTagsByType(t *testing.T) {
	assocs := []models.BusinessTag{
		tag("Cash", models.TagTypePayment),
		tag("Encino", models.TagTypeLocation),
		{Tag: nil},
		tag("Mystery", "sparkle"),
		tag("Untyped", ""),
		tag("Visa", models.TagTypePayment),
		tag("", models.TagTypeAmenity),
	}

	categorized, errs := CategorizeTagsByType(assocs)

	if got := categorized[models.TagTypePayment]; !reflect.DeepEqual(got, []string{"Cash", "Visa"}) {
		t.Errorf("Expected payment tags in input order, got %v", got)
	}
	if got := categorized[models.TagTypeLocation]; !reflect.DeepEqual(got, []string{"Encino"}) {
		t.Errorf("Expected location tag, got %v", got)
	}

	total := 0
	for _, names := range categorized {
		total += len(names)
	}
	if total != 3 {
		t.Errorf("Expected 3 bucketed tags, got %d", total)
	}
	if len(errs) != 1 || errs[0].Field != "tag" {
		t.Errorf("Expected one BuildError for the nameless tag, got %v", errs)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "00:00", want: "12:00 AM"},
		{in: "13:05:00", want: "1:05 PM"},
		{in: "06:00:00.5", want: "6:00 AM"},
		{in: "24:00", want: "12:00 AM"},
		{in: "24:00:00", want: "12:00 AM"},
		{in: "24:00:00.000000", want: "12:00 AM"},
		{in: "24:00:01", wantErr: true},
		{in: "25:00", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := FormatClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("FormatClock(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatBusinessHours(t *testing.T) {
	tests := []struct {
		name     string
		rows     []models.BusinessHours
		today    int
		want     []HoursRow
		wantErrs int
	}{
		{
			name:  "single open day marked today",
			rows:  []models.BusinessHours{{DayOfWeek: 1, OpenTime: "06:00", CloseTime: "22:00"}},
			today: 1,
			want:  []HoursRow{{DayOfWeek: 1, Day: "Monday", Display: "6:00 AM - 10:00 PM", IsToday: true}},
		},
		{
			name: "weekday order regardless of input order",
			rows: []models.BusinessHours{
				{DayOfWeek: 6, IsClosed: true},
				{DayOfWeek: 0, Is24Hour: true},
				{DayOfWeek: 3, OpenTime: "09:30:00", CloseTime: "17:45:00"},
			},
			today: 4,
			want: []HoursRow{
				{DayOfWeek: 0, Day: "Sunday", Display: "24 Hours"},
				{DayOfWeek: 3, Day: "Wednesday", Display: "9:30 AM - 5:45 PM"},
				{DayOfWeek: 6, Day: "Saturday", Display: "Closed"},
			},
		},
		{
			name:  "24 hours wins over closed",
			rows:  []models.BusinessHours{{DayOfWeek: 2, Is24Hour: true, IsClosed: true}},
			today: 0,
			want:  []HoursRow{{DayOfWeek: 2, Day: "Tuesday", Display: "24 Hours"}},
		},
		{
			name:  "noon and midnight",
			rows:  []models.BusinessHours{{DayOfWeek: 5, OpenTime: "12:00", CloseTime: "00:00"}},
			today: 5,
			want:  []HoursRow{{DayOfWeek: 5, Day: "Friday", Display: "12:00 PM - 12:00 AM", IsToday: true}},
		},
		{
			name:  "postgres end of day",
			rows:  []models.BusinessHours{{DayOfWeek: 5, OpenTime: "18:00:00", CloseTime: "24:00:00"}},
			today: 5,
			want:  []HoursRow{{DayOfWeek: 5, Day: "Friday", Display: "6:00 PM - 12:00 AM", IsToday: true}},
		},
		{
			name: "fractional seconds and short end of day",
			rows: []models.BusinessHours{
				{DayOfWeek: 0, OpenTime: "06:00:00.5", CloseTime: "24:00"},
				{DayOfWeek: 1, OpenTime: "07:15:30.123456", CloseTime: "23:59:59.999999"},
			},
			today: 3,
			want: []HoursRow{
				{DayOfWeek: 0, Day: "Sunday", Display: "6:00 AM - 12:00 AM"},
				{DayOfWeek: 1, Day: "Monday", Display: "7:15 AM - 11:59 PM"},
			},
		},
		{
			name:  "empty input",
			rows:  nil,
			today: 3,
			want:  []HoursRow{},
		},
		{
			name: "bad rows dropped",
			rows: []models.BusinessHours{
				{DayOfWeek: 9, IsClosed: true},
				{DayOfWeek: 1, OpenTime: "soon", CloseTime: "22:00"},
				{DayOfWeek: 2, IsClosed: true},
				{DayOfWeek: 2, Is24Hour: true},
			},
			today:    0,
			want:     []HoursRow{{DayOfWeek: 2, Day: "Tuesday", Display: "Closed"}},
			wantErrs: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errs := FormatBusinessHours(tt.rows, tt.today)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FormatBusinessHours() = %+v, want %+v", got, tt.want)
			}
			if len(errs) != tt.wantErrs {
				t.Errorf("Expected %d errors, got %d: %v", tt.wantErrs, len(errs), errs)
			}
		})
	}
}

func TestHoursRowLabel(t *testing.T) {
	rows, _ := FormatBusinessHours([]models.BusinessHours{{DayOfWeek: 1, OpenTime: "06:00", CloseTime: "22:00"}}, 1)
	if got := rows[0].Label(); got != "Monday — 6:00 AM - 10:00 PM" {
		t.Errorf("Label() = %q", got)
	}
}

func TestTodayIndex(t *testing.T) {
	// 2024-03-04 03:00 UTC is still Sunday evening in Los Angeles
	now := time.Date(2024, 3, 4, 3, 0, 0, 0, time.UTC)
	if got := TodayIndex(now, time.UTC); got != 1 {
		t.Errorf("Expected Monday in UTC, got %d", got)
	}
	if got := TodayIndex(now, time.FixedZone("PST", -8*3600)); got != 0 {
		t.Errorf("Expected Sunday at UTC-8, got %d", got)
	}
}

func TestLocationTag(t *testing.T) {
	assocs := []models.BusinessTag{
		tag("Cash", models.TagTypePayment),
		tag("Van Nuys", models.TagTypeLocation),
		tag("Encino", models.TagTypeLocation),
	}
	if got := LocationTag(assocs, "Valley"); got != "Van Nuys" {
		t.Errorf("Expected first location tag, got %q", got)
	}
	if got := LocationTag(assocs[:1], "Valley"); got != "Valley" {
		t.Errorf("Expected fallback, got %q", got)
	}
}

func TestDeriveBusinessCard(t *testing.T) {
	biz := &models.Business{
		Name: "Joe's Diner",
		Slug: "joes-diner",
		Tags: []models.BusinessTag{
			tag("Breakfast", models.TagTypeSpecialization),
			{Tag: nil},
			tag("Encino", models.TagTypeLocation),
		},
	}

	card := DeriveBusinessCard(biz, "San Fernando Valley")

	if card.Description != "Find Joe's Diner in the San Fernando Valley." {
		t.Errorf("Unexpected fallback description: %q", card.Description)
	}
	if card.Category != "Business" {
		t.Errorf("Unexpected fallback category: %q", card.Category)
	}
	if card.Location != "Encino" {
		t.Errorf("Unexpected location: %q", card.Location)
	}
	if !reflect.DeepEqual(card.Tags, []string{"Breakfast", "Encino"}) {
		t.Errorf("Unexpected tags: %v", card.Tags)
	}

	bare := DeriveBusinessCard(&models.Business{Name: "X", Slug: "x"}, "SFV")
	if bare.Location != "SFV" || bare.Tags == nil {
		t.Errorf("Expected region fallback and non-nil tags, got %+v", bare)
	}
}

func TestFilterCards(t *testing.T) {
	cards := []BusinessCard{
		{Slug: "a", Tags: []string{"Cash", "Wifi"}, Location: "North Hollywood"},
		{Slug: "b", Tags: []string{"Cashless"}, Location: "Hollywood"},
		{Slug: "c", Tags: []string{"cash"}, Location: "Encino"},
	}

	tests := []struct {
		name         string
		tag          string
		neighborhood string
		want         []string
	}{
		{name: "no filters", want: []string{"a", "b", "c"}},
		{name: "exact tag match is case-insensitive", tag: "CASH", want: []string{"a", "c"}},
		{name: "neighborhood is a substring match", neighborhood: "hollywood", want: []string{"a", "b"}},
		{name: "both filters", tag: "cash", neighborhood: "north", want: []string{"a"}},
		{name: "no match", tag: "valet", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, c := range FilterCards(cards, tt.tag, tt.neighborhood) {
				got = append(got, c.Slug)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterCards() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeWebsite(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"", "", true},
		{"joesdiner.com", "https://joesdiner.com", true},
		{"http://joesdiner.com/menu", "http://joesdiner.com/menu", true},
		{"javascript:alert(1)", "", false},
		{"ftp://files.test", "", false},
		{"mailto:joe@diner.test", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeWebsite(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeWebsite(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestBuilderBusinessPage(t *testing.T) {
	catID := int64(1)
	biz := &models.Business{
		ID:           1,
		Name:         "Joe's Diner",
		Slug:         "joes-diner",
		Address:      "123 Main St, Encino, CA",
		Website:      "joesdiner.com",
		CategoryID:   &catID,
		CategoryName: "Restaurants",
		Tags: []models.BusinessTag{
			tag("Encino", models.TagTypeLocation),
			tag("Breakfast", models.TagTypeSpecialization),
			tag("Cash", models.TagTypePayment),
			tag("$$", models.TagTypePricing),
		},
	}
	related := []*models.Business{
		{ID: 2, Name: "Pho Place", Slug: "pho-place", Tags: []models.BusinessTag{tag("Reseda", models.TagTypeLocation)}},
		{ID: 1, Name: "Self", Slug: "joes-diner"},
		{ID: 3, Name: "Taco Spot", Slug: "taco-spot"},
	}

	page, errs := testBuilder().BusinessPage(biz, nil, related, 1)
	if len(errs) != 0 {
		t.Fatalf("Unexpected build errors: %v", errs)
	}

	if page.CanonicalURL != "https://example.test/business/joes-diner" {
		t.Errorf("Unexpected canonical URL: %q", page.CanonicalURL)
	}
	if page.Title != "Joe's Diner | Valley Directory" {
		t.Errorf("Unexpected title: %q", page.Title)
	}
	if page.SchemaType != "Restaurant" {
		t.Errorf("Expected Restaurant schema type, got %q", page.SchemaType)
	}
	if page.Website != "https://joesdiner.com" {
		t.Errorf("Expected normalized website, got %q", page.Website)
	}
	if !strings.HasPrefix(page.MetaDescription, "Find Joe's Diner in the San Fernando Valley. Restaurants with") {
		t.Errorf("Unexpected fallback meta description: %q", page.MetaDescription)
	}
	if page.LocationTag != "Encino" {
		t.Errorf("Unexpected location tag: %q", page.LocationTag)
	}
	if !reflect.DeepEqual(page.Chips, []string{"Restaurants", "Encino"}) {
		t.Errorf("Unexpected chips: %v", page.Chips)
	}

	var labels []string
	for _, f := range page.Features {
		labels = append(labels, f.Label)
	}
	if !reflect.DeepEqual(labels, []string{"Specializations", "Payment Methods"}) {
		t.Errorf("Unexpected feature groups: %v", labels)
	}

	if len(page.Related) != 2 {
		t.Fatalf("Expected 2 related items (self excluded), got %d", len(page.Related))
	}
	if page.Related[0].Location != "Reseda" || page.Related[1].Location != "" {
		t.Errorf("Unexpected related locations: %+v", page.Related)
	}
	if page.RelatedHeading != "More Restaurants" {
		t.Errorf("Unexpected related heading: %q", page.RelatedHeading)
	}
}

func TestBuilderBusinessPage_BadWebsiteDropped(t *testing.T) {
	biz := &models.Business{ID: 1, Name: "X", Slug: "x", Address: "1 St", Website: "javascript:alert(1)"}

	page, errs := testBuilder().BusinessPage(biz, nil, nil, 0)
	if page.Website != "" {
		t.Errorf("Expected website to be dropped, got %q", page.Website)
	}
	if len(errs) != 1 || errs[0].Field != "website" {
		t.Errorf("Expected one website BuildError, got %v", errs)
	}
	if page.SchemaType != "LocalBusiness" || page.CategoryLabel != "Business" {
		t.Errorf("Unexpected defaults: %q %q", page.SchemaType, page.CategoryLabel)
	}
}

func TestBuilderCategoryPage(t *testing.T) {
	cat := &models.Category{ID: 1, Name: "Restaurants", Slug: "restaurants", Description: "Places to eat"}
	businesses := []*models.Business{
		{ID: 1, Name: "A", Slug: "a", CategoryName: "Restaurants", Tags: []models.BusinessTag{
			tag("Wifi", models.TagTypeAmenity), tag("Cash", models.TagTypePayment), tag("Encino", models.TagTypeLocation),
		}},
		{ID: 2, Name: "B", Slug: "b", CategoryName: "Restaurants", Tags: []models.BusinessTag{
			tag("Cash", models.TagTypePayment),
		}},
	}

	page := testBuilder().CategoryPage(cat, businesses, []string{"Encino", "Reseda"})

	if page.Title != "Restaurants in the San Fernando Valley" {
		t.Errorf("Unexpected title: %q", page.Title)
	}
	if page.CanonicalURL != "https://example.test/restaurants" {
		t.Errorf("Unexpected canonical URL: %q", page.CanonicalURL)
	}
	if page.Count != 2 || len(page.Cards) != 2 {
		t.Errorf("Expected 2 businesses, got %d/%d", page.Count, len(page.Cards))
	}

	want := []FilterOption{
		{Value: "cash", Label: "Cash", Count: 2},
		{Value: "wifi", Label: "Wifi", Count: 1},
	}
	if !reflect.DeepEqual(page.TagOptions, want) {
		t.Errorf("TagOptions = %+v, want %+v", page.TagOptions, want)
	}

	if len(page.NeighborhoodOptions) != 2 || page.NeighborhoodOptions[0].Count != 1 || page.NeighborhoodOptions[1].Count != 0 {
		t.Errorf("Unexpected neighborhood options: %+v", page.NeighborhoodOptions)
	}
	if page.Cards[1].Location != "San Fernando Valley" {
		t.Errorf("Expected region fallback location, got %q", page.Cards[1].Location)
	}
}
