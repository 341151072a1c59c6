package service

import (
	"fmt"

	"github.com/ngekosaja/ngekosaja-api/internal/model"
	"github.com/ngekosaja/ngekosaja-api/internal/queue"
	"github.com/ngekosaja/ngekosaja-api/internal/repository"
)

// Builders for the notification texts.  Users see these in the app, so
// they are written in Indonesian.

func RoomsCreatedEvent(ownerID uint64, kosName string, rooms []model.Room) queue.NotificationEvent {
	body := kosName
	if len(rooms) > 0 {
		body = fmt.Sprintf("%s: kamar %s sampai %s", kosName, rooms[0].RoomNumber, rooms[len(rooms)-1].RoomNumber)
	}
	return queue.NotificationEvent{
		UserID: ownerID,
		Kind:   model.NotifyRoomsCreated,
		Title:  fmt.Sprintf("%d kamar berhasil dibuat", len(rooms)),
		Body:   body,
	}
}

func BookingCreatedEvent(b repository.BookingDetail) queue.NotificationEvent {
	return queue.NotificationEvent{
		UserID: b.OwnerID,
		Kind:   model.NotifyBookingCreated,
		Title:  "Booking baru",
		Body: fmt.Sprintf("%s mengajukan sewa kamar %s di %s mulai %s selama %d bulan",
			b.TenantName, b.RoomNumber, b.KosName, b.StartDate.Format("2006-01-02"), b.DurationMonths),
	}
}

// BookingStatusEvent tells the other party about a status change.  The
// tenant hears about approvals, rejections and completions; the owner
// hears about cancellations.
func BookingStatusEvent(b repository.BookingDetail) queue.NotificationEvent {
	ev := queue.NotificationEvent{UserID: b.TenantID}
	room := fmt.Sprintf("kamar %s di %s", b.RoomNumber, b.KosName)
	switch b.Status {
	case model.BookingApproved:
		ev.Kind, ev.Title = model.NotifyBookingApproved, "Booking disetujui"
		ev.Body = fmt.Sprintf("Pengajuan sewa %s telah disetujui", room)
	case model.BookingRejected:
		ev.Kind, ev.Title = model.NotifyBookingRejected, "Booking ditolak"
		ev.Body = fmt.Sprintf("Pengajuan sewa %s ditolak", room)
	case model.BookingCompleted:
		ev.Kind, ev.Title = model.NotifyBookingCompleted, "Masa sewa selesai"
		ev.Body = fmt.Sprintf("Masa sewa %s telah selesai", room)
	case model.BookingCancelled:
		ev.UserID = b.OwnerID
		ev.Kind, ev.Title = model.NotifyBookingCancelled, "Booking dibatalkan"
		ev.Body = fmt.Sprintf("%s membatalkan pengajuan sewa %s", b.TenantName, room)
	}
	return ev
}

func PaymentSubmittedEvent(t repository.TransactionDetail) queue.NotificationEvent {
	return queue.NotificationEvent{
		UserID: t.OwnerID,
		Kind:   model.NotifyPaymentSubmitted,
		Title:  "Bukti pembayaran baru",
		Body: fmt.Sprintf("%s mengirim bukti pembayaran %s untuk kamar %s (%s)",
			t.TenantName, FormatRupiah(t.Amount), t.RoomNumber, t.PeriodMonth),
	}
}

func PaymentStatusEvent(t repository.TransactionDetail) queue.NotificationEvent {
	ev := queue.NotificationEvent{UserID: t.TenantID}
	switch t.Status {
	case model.TxPaid:
		ev.Kind, ev.Title = model.NotifyPaymentPaid, "Pembayaran dikonfirmasi"
		ev.Body = fmt.Sprintf("Pembayaran %s untuk %s telah dikonfirmasi", FormatRupiah(t.Amount), t.PeriodMonth)
	case model.TxRejected:
		ev.Kind, ev.Title = model.NotifyPaymentRejected, "Pembayaran ditolak"
		ev.Body = fmt.Sprintf("Bukti pembayaran untuk %s ditolak, silakan unggah ulang", t.PeriodMonth)
	}
	return ev
}

// FormatRupiah renders 1500000 as "Rp1.500.000".
func FormatRupiah(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digits[i])
	}
	if neg {
		return "-Rp" + string(out)
	}
	return "Rp" + string(out)
}
