package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ngekosaja/ngekosaja-api/internal/facility"
	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/roomgen"
)

// FormValue is a text field that also accepts a bare JSON number, so
// {"room_count": 10} and {"room_count": "10"} bind the same way.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = FormValue(n.String())
	return nil
}

func (v FormValue) trimmed() string { return strings.TrimSpace(string(v)) }

// BatchForm is the "create many rooms" form as submitted.
type BatchForm struct {
	RoomCount     FormValue `json:"room_count" form:"room_count"`
	StartNumber   FormValue `json:"start_number" form:"start_number"`
	Floor         FormValue `json:"floor" form:"floor"`
	RoomType      string    `json:"room_type" form:"room_type"`
	PricePerMonth FormValue `json:"price_per_month" form:"price_per_month"`
	Facilities    []string  `json:"facilities" form:"facilities"`
}

// BatchRequest is a validated BatchForm.
type BatchRequest struct {
	Count         int
	Start         string
	Floor         *int
	RoomType      string
	PricePerMonth int64
	Facilities    []string
}

// maxStartLen keeps generated numbers inside rooms.room_number.
const maxStartLen = 20

// ParseBatchForm validates f.  count must be between 1 and max.  The
// first problem found is returned as a *ValidationError.
func ParseBatchForm(f BatchForm, max int) (BatchRequest, error) {
	req, err := ParsePreviewForm(f, max)
	if err != nil {
		return req, err
	}

	if floorText := f.Floor.trimmed(); floorText != "" {
		floor, err := strconv.Atoi(floorText)
		if err != nil {
			return req, invalid("floor", "must be a whole number")
		}
		req.Floor = &floor
	}

	rt, err := ParseRoomType(f.RoomType)
	if err != nil {
		return req, err
	}
	req.RoomType = rt

	price, err := ParsePrice(string(f.PricePerMonth))
	if err != nil {
		return req, err
	}
	req.PricePerMonth = price

	facs, err := ParseFacilities(f.Facilities)
	if err != nil {
		return req, err
	}
	req.Facilities = facs
	return req, nil
}

// ParsePreviewForm validates only room_count and start_number, which is
// all a number preview needs while the rest of the form is still empty.
func ParsePreviewForm(f BatchForm, max int) (BatchRequest, error) {
	var req BatchRequest

	countText := f.RoomCount.trimmed()
	if countText == "" {
		return req, invalid("room_count", "is required")
	}
	count, err := strconv.Atoi(countText)
	if err != nil {
		return req, invalid("room_count", "must be a whole number")
	}
	if count < 1 || count > max {
		return req, invalid("room_count", "must be between 1 and %d", max)
	}
	req.Count = count

	req.Start = f.StartNumber.trimmed()
	if req.Start == "" {
		return req, invalid("start_number", "is required")
	}
	if len(req.Start) > maxStartLen {
		return req, invalid("start_number", "must be at most %d characters", maxStartLen)
	}
	if roomgen.Overflows(req.Start, req.Count) {
		return req, invalid("start_number", "is too large for %d rooms", req.Count)
	}
	return req, nil
}

// ParseRoomType matches s case-insensitively against the room types and
// returns the canonical spelling.
func ParseRoomType(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid("room_type", "is required")
	}
	for _, rt := range model.RoomTypes {
		if strings.EqualFold(rt, s) {
			return rt, nil
		}
	}
	return "", invalid("room_type", "must be one of %s", strings.Join(model.RoomTypes, ", "))
}

// ParsePrice parses a positive whole rupiah amount.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalid("price_per_month", "is required")
	}
	price, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, invalid("price_per_month", "must be a whole number")
	}
	if price <= 0 {
		return 0, invalid("price_per_month", "must be greater than 0")
	}
	return price, nil
}

// ParseFacilities lower-cases, checks and de-duplicates facility tags,
// keeping the first occurrence order.
func ParseFacilities(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if !facility.Valid(t) {
			return nil, invalid("facilities", "unknown facility %q", t)
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out, nil
}
