// Package stats aggregates rows the handlers have already loaded into the
// numbers shown on the owner and admin dashboards.  Nothing here touches
// the database.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
)

// OwnerStats is the owner dashboard payload.
type OwnerStats struct {
	TotalRooms         int            `json:"total_rooms"`
	OccupiedRooms      int            `json:"occupied_rooms"`
	VacantRooms        int            `json:"vacant_rooms"`
	OccupancyRate      float64        `json:"occupancy_rate"` // percent, one decimal
	RoomsByType        map[string]int `json:"rooms_by_type"`
	BookingsByStatus   map[string]int `json:"bookings_by_status"`
	PendingBookings    int            `json:"pending_bookings"`
	TotalRevenue       int64          `json:"total_revenue"`
	RevenueThisMonth   int64          `json:"revenue_this_month"`
	PendingPayments    int            `json:"pending_payments"`
	PendingPaymentsSum int64          `json:"pending_payments_amount"`
}

// OwnerSummary folds an owner's rooms, bookings and transactions into
// dashboard numbers.  Revenue counts paid transactions only; "this month"
// is the calendar month of now, matched on PaidAt (or PeriodMonth when
// PaidAt is missing).
func OwnerSummary(rooms []model.Room, bookings []model.Booking, txs []model.Transaction, now time.Time) OwnerStats {
	s := OwnerStats{
		RoomsByType:      map[string]int{},
		BookingsByStatus: map[string]int{},
	}
	for _, r := range rooms {
		s.TotalRooms++
		if r.IsOccupied {
			s.OccupiedRooms++
		}
		s.RoomsByType[r.RoomType]++
	}
	s.VacantRooms = s.TotalRooms - s.OccupiedRooms
	s.OccupancyRate = Rate(s.OccupiedRooms, s.TotalRooms)

	for _, b := range bookings {
		s.BookingsByStatus[b.Status]++
	}
	s.PendingBookings = s.BookingsByStatus[model.BookingPending]

	month := now.Format("2006-01")
	for _, t := range txs {
		switch t.Status {
		case model.TxPaid:
			s.TotalRevenue += t.Amount
			if paidMonth(t) == month {
				s.RevenueThisMonth += t.Amount
			}
		case model.TxPending:
			s.PendingPayments++
			s.PendingPaymentsSum += t.Amount
		}
	}
	return s
}

func paidMonth(t model.Transaction) string {
	if t.PaidAt != nil {
		return t.PaidAt.Format("2006-01")
	}
	return t.PeriodMonth
}

// Rate returns part/total as a percentage rounded to one decimal, or 0
// when total is 0.
func Rate(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	tenths := (part*1000 + total/2) / total
	return float64(tenths) / 10
}

// CityCount is one row of the per-city breakdown.
type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

// AdminStats is the admin dashboard payload.
type AdminStats struct {
	TotalUsers  int            `json:"total_users"`
	ActiveUsers int            `json:"active_users"`
	UsersByRole map[string]int `json:"users_by_role"`
	TotalKos    int            `json:"total_kos"`
	KosByCity   []CityCount    `json:"kos_by_city"`
	KosByType   map[string]int `json:"kos_by_type"`
}

// AdminSummary counts users and listings.  Cities are grouped case
// insensitively under the first spelling seen and sorted by count, then
// name.
func AdminSummary(users []model.User, kos []model.Kos) AdminStats {
	s := AdminStats{
		UsersByRole: map[string]int{},
		KosByType:   map[string]int{},
	}
	for _, u := range users {
		s.TotalUsers++
		if u.IsActive {
			s.ActiveUsers++
		}
		s.UsersByRole[u.Role]++
	}

	idx := map[string]int{}
	for _, k := range kos {
		s.TotalKos++
		s.KosByType[k.KosType]++
		city := strings.TrimSpace(k.City)
		key := strings.ToLower(city)
		if i, ok := idx[key]; ok {
			s.KosByCity[i].Count++
			continue
		}
		idx[key] = len(s.KosByCity)
		s.KosByCity = append(s.KosByCity, CityCount{City: city, Count: 1})
	}
	sort.SliceStable(s.KosByCity, func(i, j int) bool {
		if s.KosByCity[i].Count != s.KosByCity[j].Count {
			return s.KosByCity[i].Count > s.KosByCity[j].Count
		}
		return s.KosByCity[i].City < s.KosByCity[j].City
	})
	if s.KosByCity == nil {
		s.KosByCity = []CityCount{}
	}
	return s
}
