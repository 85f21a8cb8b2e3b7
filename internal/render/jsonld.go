package render

import (
	"encoding/json"

	"github.com/sfvdirectory/sitegen/internal/viewmodel"
)

const schemaContext = "https://schema.org"

type postalAddress struct {
	Type          string `json:"@type"`
	StreetAddress string `json:"streetAddress"`
}

type localBusinessData struct {
	Context     string         `json:"@context"`
	Type        string         `json:"@type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Address     *postalAddress `json:"address,omitempty"`
	Telephone   string         `json:"telephone,omitempty"`
	URL         string         `json:"url,omitempty"`
	Image       string         `json:"image,omitempty"`
}

type listItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

type itemList struct {
	Type            string     `json:"@type"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	NumberOfItems   int        `json:"numberOfItems"`
	ItemListElement []listItem `json:"itemListElement,omitempty"`
}

type collectionPageData struct {
	Context     string   `json:"@context"`
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url"`
	MainEntity  itemList `json:"mainEntity"`
}

// JSON marshals v compactly. encoding/json escapes <, > and & inside strings,
// so the result is safe inside a <script> element.
func JSON(v interface{}) (HTML, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return HTML(data), nil
}

func businessStructuredData(page *viewmodel.BusinessPage) (HTML, error) {
	data := localBusinessData{
		Context:     schemaContext,
		Type:        page.SchemaType,
		Name:        page.Name,
		Description: page.Description,
		Telephone:   page.Phone,
		URL:         page.Website,
		Image:       page.HeroImageURL,
	}
	if page.Address != "" {
		data.Address = &postalAddress{Type: "PostalAddress", StreetAddress: page.Address}
	}
	return JSON(data)
}

func categoryStructuredData(page *viewmodel.CategoryPage) (HTML, error) {
	list := itemList{
		Type:          "ItemList",
		Name:          page.Name + " in " + page.Site.Region,
		Description:   page.Description,
		NumberOfItems: len(page.Cards),
	}
	for i, card := range page.Cards {
		list.ItemListElement = append(list.ItemListElement, listItem{
			Type:     "ListItem",
			Position: i + 1,
			Name:     card.Name,
			URL:      page.Site.URL + "/business/" + card.Slug,
		})
	}

	return JSON(collectionPageData{
		Context:     schemaContext,
		Type:        "CollectionPage",
		Name:        page.Title,
		Description: page.Description,
		URL:         page.CanonicalURL,
		MainEntity:  list,
	})
}
