package normalize

import (
	"net/url"

	"github.com/kitbuilder587/osint-gateway/internal/search"
)

// ResultSet is the flattened OSINT schema returned to the caller.
// Every category is always present; absent upstream fields default to
// the zero value for their type. The full upstream document rides
// along verbatim in RawData.
type ResultSet struct {
	Query             string             `json:"query"`
	Country           string             `json:"country"`
	SearchInformation map[string]any     `json:"search_information"`
	OrganicResults    []OrganicResult    `json:"organic_results"`
	NewsResults       []NewsResult       `json:"news_results"`
	ImageResults      []ImageResult      `json:"image_results"`
	VideoResults      []VideoResult      `json:"video_results"`
	PeopleAlsoAsk     []RelatedQuestion  `json:"people_also_ask"`
	RelatedSearches   []RelatedSearch    `json:"related_searches"`
	LocalResults      []LocalResult      `json:"local_results"`
	ShoppingResults   []ShoppingResult   `json:"shopping_results"`
	ScholarlyArticles []ScholarlyArticle `json:"scholarly_articles"`
	TopStories        []TopStory         `json:"top_stories"`
	KnowledgeGraph    map[string]any     `json:"knowledge_graph"`
	AnswerBox         map[string]any     `json:"answer_box"`
	RawData           map[string]any     `json:"raw_data"`
}

type SourceInfo struct {
	Domain  string `json:"domain"`
	Favicon string `json:"favicon"`
}

type OrganicResult struct {
	Position         int            `json:"position"`
	Title            string         `json:"title"`
	Link             string         `json:"link"`
	Snippet          string         `json:"snippet"`
	DisplayedLink    string         `json:"displayed_link"`
	CachedPageLink   string         `json:"cached_page_link"`
	RelatedPagesLink string         `json:"related_pages_link"`
	SourceInfo       SourceInfo     `json:"source_info"`
	RichSnippet      map[string]any `json:"rich_snippet"`
	Sitelinks        map[string]any `json:"sitelinks"`
	Thumbnail        string         `json:"thumbnail"`
}

type NewsResult struct {
	Position  int    `json:"position"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Snippet   string `json:"snippet"`
	Source    string `json:"source"`
	Date      string `json:"date"`
	Thumbnail string `json:"thumbnail"`
	Stories   []any  `json:"stories"`
}

type ImageResult struct {
	Position       int    `json:"position"`
	Thumbnail      string `json:"thumbnail"`
	Source         string `json:"source"`
	Title          string `json:"title"`
	Link           string `json:"link"`
	Original       string `json:"original"`
	OriginalWidth  int    `json:"original_width"`
	OriginalHeight int    `json:"original_height"`
	IsProduct      bool   `json:"is_product"`
}

type VideoResult struct {
	Position      int    `json:"position"`
	Title         string `json:"title"`
	Link          string `json:"link"`
	DisplayedLink string `json:"displayed_link"`
	Thumbnail     string `json:"thumbnail"`
	Duration      string `json:"duration"`
	Platform      string `json:"platform"`
	Date          string `json:"date"`
}

type RelatedQuestion struct {
	Question      string `json:"question"`
	Snippet       string `json:"snippet"`
	Title         string `json:"title"`
	Link          string `json:"link"`
	DisplayedLink string `json:"displayed_link"`
	Thumbnail     string `json:"thumbnail"`
}

type RelatedSearch struct {
	Query string `json:"query"`
	Link  string `json:"link"`
}

type LocalResult struct {
	Position       int            `json:"position"`
	Title          string         `json:"title"`
	PlaceID        string         `json:"place_id"`
	Rating         float64        `json:"rating"`
	Reviews        int            `json:"reviews"`
	Price          string         `json:"price"`
	Type           string         `json:"type"`
	Address        string         `json:"address"`
	OpenState      string         `json:"open_state"`
	Hours          string         `json:"hours"`
	OperatingHours map[string]any `json:"operating_hours"`
	Phone          string         `json:"phone"`
	Website        string         `json:"website"`
	Description    string         `json:"description"`
	GPSCoordinates map[string]any `json:"gps_coordinates"`
	Thumbnail      string         `json:"thumbnail"`
}

type ShoppingResult struct {
	Position       int      `json:"position"`
	Title          string   `json:"title"`
	Link           string   `json:"link"`
	ProductLink    string   `json:"product_link"`
	ProductID      string   `json:"product_id"`
	Source         string   `json:"source"`
	Price          string   `json:"price"`
	ExtractedPrice float64  `json:"extracted_price"`
	Rating         float64  `json:"rating"`
	Reviews        int      `json:"reviews"`
	Extensions     []string `json:"extensions"`
	Thumbnail      string   `json:"thumbnail"`
	Delivery       string   `json:"delivery"`
}

type ScholarlyArticle struct {
	Position        int            `json:"position"`
	Title           string         `json:"title"`
	Link            string         `json:"link"`
	Snippet         string         `json:"snippet"`
	PublicationInfo map[string]any `json:"publication_info"`
	Resources       []any          `json:"resources"`
	InlineLinks     map[string]any `json:"inline_links"`
}

type TopStory struct {
	Position  int    `json:"position"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Snippet   string `json:"snippet"`
	Date      string `json:"date"`
	Source    string `json:"source"`
	Thumbnail string `json:"thumbnail"`
}

// Normalize walks the raw upstream document and extracts the stable
// flattened schema. Missing categories yield empty slices, missing
// fields the zero value; nothing here can fail.
func Normalize(doc search.Document, query, country string) *ResultSet {
	rs := &ResultSet{
		Query:             query,
		Country:           country,
		SearchInformation: mapField(doc, "search_information"),
		OrganicResults:    []OrganicResult{},
		NewsResults:       []NewsResult{},
		ImageResults:      []ImageResult{},
		VideoResults:      []VideoResult{},
		PeopleAlsoAsk:     []RelatedQuestion{},
		RelatedSearches:   []RelatedSearch{},
		LocalResults:      []LocalResult{},
		ShoppingResults:   []ShoppingResult{},
		ScholarlyArticles: []ScholarlyArticle{},
		TopStories:        []TopStory{},
		KnowledgeGraph:    mapField(doc, "knowledge_graph"),
		AnswerBox:         mapField(doc, "answer_box"),
		RawData:           doc,
	}

	for _, item := range items(doc, "organic_results") {
		link := str(item, "link")
		rs.OrganicResults = append(rs.OrganicResults, OrganicResult{
			Position:         intField(item, "position"),
			Title:            str(item, "title"),
			Link:             link,
			Snippet:          str(item, "snippet"),
			DisplayedLink:    str(item, "displayed_link"),
			CachedPageLink:   str(item, "cached_page_link"),
			RelatedPagesLink: str(item, "related_pages_link"),
			SourceInfo: SourceInfo{
				Domain:  SourceDomain(link),
				Favicon: str(item, "favicon"),
			},
			RichSnippet: mapField(item, "rich_snippet"),
			Sitelinks:   mapField(item, "sitelinks"),
			Thumbnail:   str(item, "thumbnail"),
		})
	}

	for _, item := range items(doc, "news_results") {
		rs.NewsResults = append(rs.NewsResults, NewsResult{
			Position:  intField(item, "position"),
			Title:     str(item, "title"),
			Link:      str(item, "link"),
			Snippet:   str(item, "snippet"),
			Source:    str(item, "source"),
			Date:      str(item, "date"),
			Thumbnail: str(item, "thumbnail"),
			Stories:   listField(item, "stories"),
		})
	}

	for _, item := range items(doc, "images_results") {
		rs.ImageResults = append(rs.ImageResults, ImageResult{
			Position:       intField(item, "position"),
			Thumbnail:      str(item, "thumbnail"),
			Source:         str(item, "source"),
			Title:          str(item, "title"),
			Link:           str(item, "link"),
			Original:       str(item, "original"),
			OriginalWidth:  intField(item, "original_width"),
			OriginalHeight: intField(item, "original_height"),
			IsProduct:      boolField(item, "is_product"),
		})
	}

	for _, item := range items(doc, "video_results") {
		rs.VideoResults = append(rs.VideoResults, VideoResult{
			Position:      intField(item, "position"),
			Title:         str(item, "title"),
			Link:          str(item, "link"),
			DisplayedLink: str(item, "displayed_link"),
			Thumbnail:     str(item, "thumbnail"),
			Duration:      str(item, "duration"),
			Platform:      str(item, "platform"),
			Date:          str(item, "date"),
		})
	}

	for _, item := range items(doc, "people_also_ask") {
		rs.PeopleAlsoAsk = append(rs.PeopleAlsoAsk, RelatedQuestion{
			Question:      str(item, "question"),
			Snippet:       str(item, "snippet"),
			Title:         str(item, "title"),
			Link:          str(item, "link"),
			DisplayedLink: str(item, "displayed_link"),
			Thumbnail:     str(item, "thumbnail"),
		})
	}

	for _, item := range items(doc, "related_searches") {
		rs.RelatedSearches = append(rs.RelatedSearches, RelatedSearch{
			Query: str(item, "query"),
			Link:  str(item, "link"),
		})
	}

	for _, item := range items(doc, "local_results") {
		rs.LocalResults = append(rs.LocalResults, LocalResult{
			Position:       intField(item, "position"),
			Title:          str(item, "title"),
			PlaceID:        str(item, "place_id"),
			Rating:         floatField(item, "rating"),
			Reviews:        intField(item, "reviews"),
			Price:          str(item, "price"),
			Type:           str(item, "type"),
			Address:        str(item, "address"),
			OpenState:      str(item, "open_state"),
			Hours:          str(item, "hours"),
			OperatingHours: mapField(item, "operating_hours"),
			Phone:          str(item, "phone"),
			Website:        str(item, "website"),
			Description:    str(item, "description"),
			GPSCoordinates: mapField(item, "gps_coordinates"),
			Thumbnail:      str(item, "thumbnail"),
		})
	}

	for _, item := range items(doc, "shopping_results") {
		rs.ShoppingResults = append(rs.ShoppingResults, ShoppingResult{
			Position:       intField(item, "position"),
			Title:          str(item, "title"),
			Link:           str(item, "link"),
			ProductLink:    str(item, "product_link"),
			ProductID:      str(item, "product_id"),
			Source:         str(item, "source"),
			Price:          str(item, "price"),
			ExtractedPrice: floatField(item, "extracted_price"),
			Rating:         floatField(item, "rating"),
			Reviews:        intField(item, "reviews"),
			Extensions:     stringList(item, "extensions"),
			Thumbnail:      str(item, "thumbnail"),
			Delivery:       str(item, "delivery"),
		})
	}

	for _, item := range items(doc, "scholarly_articles") {
		rs.ScholarlyArticles = append(rs.ScholarlyArticles, ScholarlyArticle{
			Position:        intField(item, "position"),
			Title:           str(item, "title"),
			Link:            str(item, "link"),
			Snippet:         str(item, "snippet"),
			PublicationInfo: mapField(item, "publication_info"),
			Resources:       listField(item, "resources"),
			InlineLinks:     mapField(item, "inline_links"),
		})
	}

	for _, item := range items(doc, "top_stories") {
		rs.TopStories = append(rs.TopStories, TopStory{
			Position:  intField(item, "position"),
			Title:     str(item, "title"),
			Link:      str(item, "link"),
			Snippet:   str(item, "snippet"),
			Date:      str(item, "date"),
			Source:    str(item, "source"),
			Thumbnail: str(item, "thumbnail"),
		})
	}

	return rs
}

// TotalResults counts items across all list categories, for telemetry.
func (rs *ResultSet) TotalResults() int {
	return len(rs.OrganicResults) +
		len(rs.NewsResults) +
		len(rs.ImageResults) +
		len(rs.VideoResults) +
		len(rs.PeopleAlsoAsk) +
		len(rs.RelatedSearches) +
		len(rs.LocalResults) +
		len(rs.ShoppingResults) +
		len(rs.ScholarlyArticles) +
		len(rs.TopStories)
}

// SourceDomain extracts the host from an absolute http(s) link. Any
// other link shape yields an empty domain.
func SourceDomain(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.Host
}

func items(doc map[string]any, key string) []map[string]any {
	raw, ok := doc[key].([]any)
	if !ok {
		return nil
	}
	result := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			result = append(result, m)
		}
	}
	return result
}

func str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func floatField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func boolField(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func mapField(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func listField(m map[string]any, key string) []any {
	v, ok := m[key].([]any)
	if !ok {
		return []any{}
	}
	return v
}

func stringList(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return []string{}
	}
	result := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
