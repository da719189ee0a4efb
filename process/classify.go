package process

import (
	"strings"

	"ewintr.nl/ytharvest/model"
)

// Category is a named list of title keywords. A title belongs to the
// category if it contains any of the keywords, ignoring case.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

func DefaultCategories() []Category {
	return []Category{
		{Name: "live", Keywords: []string{"LIVE", "ライブ", "生配信"}},
		{Name: "music_video", Keywords: []string{"MV", "Music Video", "ミュージックビデオ"}},
		{Name: "behind_the_scenes", Keywords: []string{"メイキング", "Making", "Behind the Scenes", "舞台裏"}},
		{Name: "teaser", Keywords: []string{"Teaser", "Trailer", "ティザー", "予告"}},
		{Name: "shorts", Keywords: []string{"#shorts", "#short"}},
	}
}

func CategoryNames(categories []Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}

// Classify returns one flag per category, in the order of categories. The
// categories are independent, a title can match any number of them.
func Classify(title string, categories []Category) []model.CategoryFlag {
	lower := strings.ToLower(title)
	flags := make([]model.CategoryFlag, 0, len(categories))
	for _, c := range categories {
		flags = append(flags, model.CategoryFlag{
			Name:  c.Name,
			Match: containsAny(lower, c.Keywords),
		})
	}
	return flags
}

func containsAny(lowerTitle string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowerTitle, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
