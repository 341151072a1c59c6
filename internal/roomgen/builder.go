package roomgen

import "github.com/ngekosaja/ngekosaja-api/internal/model"

// Attributes are the values every room of one batch shares.
type Attributes struct {
	KosID         uint64
	Floor         *int
	RoomType      string
	PricePerMonth int64
	Facilities    []string
}

// Build returns one unsaved room per number, in the same order.  The rooms
// differ only in RoomNumber.  Price is copied as given; range checks belong
// to the caller.
func Build(numbers []string, attrs Attributes) []model.Room {
	rooms := make([]model.Room, 0, len(numbers))
	for _, n := range numbers {
		rooms = append(rooms, model.Room{
			KosID:         attrs.KosID,
			RoomNumber:    n,
			Floor:         copyInt(attrs.Floor),
			RoomType:      attrs.RoomType,
			PricePerMonth: attrs.PricePerMonth,
			Facilities:    append([]string{}, attrs.Facilities...),
		})
	}
	return rooms
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
