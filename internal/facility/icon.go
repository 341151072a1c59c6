// Package facility knows the amenity vocabulary: the canonical tags a room
// can carry and the icon shown next to a free-text facility label.
package facility

import (
	"strings"
	"unicode"
)

// Canonical room facility tags.
const (
	AC              = "ac"
	WiFi            = "wifi"
	Kasur           = "kasur"
	Lemari          = "lemari"
	KamarMandiDalam = "kamar_mandi_dalam"
)

// Tags is the vocabulary accepted on rooms, in display order.
var Tags = []string{AC, WiFi, Kasur, Lemari, KamarMandiDalam}

var labels = map[string]string{
	AC:              "AC",
	WiFi:            "WiFi",
	Kasur:           "Kasur",
	Lemari:          "Lemari",
	KamarMandiDalam: "Kamar Mandi Dalam",
}

// Valid reports whether tag is a canonical room facility.
func Valid(tag string) bool {
	_, ok := labels[tag]
	return ok
}

// Label returns the display label for tag, or tag itself when unknown.
func Label(tag string) string {
	if l, ok := labels[tag]; ok {
		return l
	}
	return tag
}

// DefaultIcon is returned for labels that match no group.
const DefaultIcon = "check"

type group struct {
	icon     string
	keywords []string
}

// Groups are tried in order; the first hit wins.  Keywords of up to three
// runes must equal a whole token ("ac" must not match "kacamata"), longer
// ones may appear anywhere in the label.
var groups = []group{
	{"wifi", []string{"wifi", "wi-fi", "internet", "wlan"}},
	{"snowflake", []string{"ac", "air conditioner", "pendingin"}},
	{"bath", []string{"kamar mandi", "bathroom", "toilet", "wc", "shower"}},
	{"thermometer", []string{"water heater", "air panas", "pemanas"}},
	{"bed", []string{"kasur", "bed", "ranjang", "tempat tidur"}},
	{"wardrobe", []string{"lemari", "wardrobe", "closet"}},
	{"car", []string{"parkir", "parking", "garasi", "motor", "mobil"}},
	{"utensils", []string{"dapur", "kitchen", "kompor"}},
	{"shirt", []string{"laundry", "cuci", "setrika"}},
	{"tv", []string{"tv", "televisi", "television"}},
	{"desk", []string{"meja", "desk", "kursi", "chair"}},
	{"shield", []string{"cctv", "satpam", "security", "keamanan", "24 jam"}},
}

// Icon guesses an icon name for a free-text facility label.
func Icon(label string) string {
	norm := normalise(label)
	if norm == "" {
		return DefaultIcon
	}
	tokens := strings.Fields(norm)
	for _, g := range groups {
		for _, kw := range g.keywords {
			if matches(norm, tokens, kw) {
				return g.icon
			}
		}
	}
	return DefaultIcon
}

func matches(norm string, tokens []string, kw string) bool {
	if len([]rune(kw)) <= 3 && !strings.Contains(kw, " ") {
		for _, t := range tokens {
			if t == kw {
				return true
			}
		}
		return false
	}
	return strings.Contains(norm, kw)
}

// normalise lower-cases s, turns underscores and punctuation other than '-'
// into spaces and collapses whitespace.
func normalise(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
