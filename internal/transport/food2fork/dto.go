package food2fork

// RecipeRecord is a recipe as the API sends it. pk and title are pointers so
// a missing field can be told apart from a zero value.
type RecipeRecord struct {
	PK                  *int     `json:"pk"`
	Title               *string  `json:"title"`
	Publisher           string   `json:"publisher"`
	FeaturedImage       string   `json:"featured_image"`
	Rating              int      `json:"rating"`
	SourceURL           string   `json:"source_url"`
	Description         string   `json:"description"`
	CookingInstructions string   `json:"cooking_instructions"`
	Ingredients         []string `json:"ingredients"`
	DateAdded           string   `json:"date_added"`
	DateUpdated         string   `json:"date_updated"`
}

// SearchPage is one page of search results.
type SearchPage struct {
	Count   int            `json:"count"`
	Results []RecipeRecord `json:"results"`
}
