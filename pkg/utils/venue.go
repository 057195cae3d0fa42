package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Venue holds the static texts and links of the home surface.
type Venue struct {
	HomeText string     `yaml:"home_text"`
	Links    VenueLinks `yaml:"links"`
	Files    VenueFiles `yaml:"files"`
}

type VenueLinks struct {
	YandexReviews string `yaml:"yandex_reviews"`
	GisReviews    string `yaml:"gis_reviews"`
	Delivery      string `yaml:"delivery"`
	Channel       string `yaml:"channel"`
	Tips          string `yaml:"tips"`
}

// VenueFiles are relative to the assets dir.
type VenueFiles struct {
	Logo   string `yaml:"logo"`
	Menu   string `yaml:"menu"`
	Events string `yaml:"events"`
}

func DefaultVenue() *Venue {
	return &Venue{
		HomeText: "🍻 *Спальник Бар*\n\nВыбирай действие 👇",
		Links: VenueLinks{
			YandexReviews: "https://yandex.ru/maps/org/spalnik/104151350821/reviews/",
			GisReviews:    "https://2gis.ru/moscow/firm/70000001053915498",
			Delivery:      "https://eda.yandex.ru/r/spal_nik?placeSlug=spalnik",
			Channel:       "https://t.me/SpalnikBar",
		},
		Files: VenueFiles{
			Logo:   "logo.jpg",
			Menu:   "menu.pdf",
			Events: "events.pdf",
		},
	}
}

// LoadVenue overlays the YAML file at path on DefaultVenue. A missing file
// is not an error.
func LoadVenue(path string) (*Venue, error) {
	venue := DefaultVenue()
	if path == "" {
		return venue, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return venue, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read venue file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, venue); err != nil {
		return nil, fmt.Errorf("parse venue file %s: %w", path, err)
	}
	return venue, nil
}
