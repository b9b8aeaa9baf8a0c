package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/domain/seatmap"
	"movie-theater/internal/dto/request"
	"movie-theater/pkg/cache"
	"movie-theater/pkg/messaging"
	"movie-theater/pkg/payment"

	"github.com/google/uuid"
)

func TestSeatMapReportsHolds(t *testing.T) {
	f := newFixture()
	me := f.addUser(entity.RoleCustomer)
	other := f.addUser(entity.RoleCustomer)
	st := f.addShowtime(1, 4, 10, time.Hour)

	f.seatByLabel(st.ID, "A1").Status = entity.SeatStatusOccupied
	f.holds.holders[f.seatByLabel(st.ID, "A2").ID] = other.ID
	f.holds.holders[f.seatByLabel(st.ID, "A3").ID] = me.ID

	tests := []struct {
		name   string
		caller uuid.UUID
		want   []string
	}{
		{"signed in", me.ID, []string{"occupied", "occupied", "selected", "available"}},
		{"anonymous", uuid.Nil, []string{"occupied", "occupied", "occupied", "available"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seatMap, err := f.svc.Seat.GetSeatMap(context.Background(), st.ID.String(), tt.caller)
			if err != nil {
				t.Fatalf("GetSeatMap() error = %v", err)
			}
			if seatMap.Rows != 1 || seatMap.SeatsPerRow != 4 {
				t.Errorf("dimensions = %dx%d", seatMap.Rows, seatMap.SeatsPerRow)
			}
			for i, seat := range seatMap.Seats {
				if seat.Status != tt.want[i] {
					t.Errorf("%s status = %s, want %s", seat.Label, seat.Status, tt.want[i])
				}
			}
		})
	}
}

func TestHoldSeats(t *testing.T) {
	f := newFixture()
	me := f.addUser(entity.RoleCustomer)
	other := f.addUser(entity.RoleCustomer)
	st := f.addShowtime(2, 3, 10, time.Hour)
	f.seatByLabel(st.ID, "B3").Status = entity.SeatStatusOccupied
	f.holds.holders[f.seatByLabel(st.ID, "B2").ID] = other.ID

	tests := []struct {
		name        string
		labels      []string
		ticketCount int
		wantErr     error
		wantMsg     string
	}{
		{"within cap", []string{"A2", "A1"}, 2, nil, ""},
		{"over cap", []string{"A1", "A2", "A3"}, 2, seatmap.ErrSelectionFull, ""},
		{"occupied seat", []string{"B3"}, 1, seatmap.ErrSeatOccupied, ""},
		{"held by someone else", []string{"B2"}, 1, seatmap.ErrSeatOccupied, ""},
		{"zero tickets", []string{"A1"}, 0, nil, "validation failed"},
		{"above purchase limit", []string{"A1"}, 5, nil, "ticket_count: Maximum is 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.Seat.HoldSeats(context.Background(), me.ID, &request.HoldSeatsRequest{
				ShowtimeID:  st.ID.String(),
				SeatIDs:     f.seatIDs(st.ID, tt.labels...),
				TicketCount: tt.ticketCount,
			})
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("HoldSeats() error = %v, want %v", err, tt.wantErr)
				}
			case tt.wantMsg != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
					t.Fatalf("HoldSeats() error = %v, want %q", err, tt.wantMsg)
				}
			default:
				if err != nil {
					t.Fatalf("HoldSeats() error = %v", err)
				}
				if strings.Join(resp.Labels, ",") != "A1,A2" {
					t.Errorf("labels = %v, want grid order A1,A2", resp.Labels)
				}
				if resp.Remaining != 0 || !resp.Full {
					t.Errorf("remaining = %d full = %v, want 0 true", resp.Remaining, resp.Full)
				}
				if f.holds.holders[f.seatByLabel(st.ID, "A1").ID] != me.ID {
					t.Error("A1 not held by caller")
				}
			}
		})
	}

	if err := f.svc.Seat.ReleaseHold(context.Background(), me.ID, &request.ReleaseHoldRequest{ShowtimeID: st.ID.String()}); err != nil {
		t.Fatalf("ReleaseHold() error = %v", err)
	}
	if _, held := f.holds.holders[f.seatByLabel(st.ID, "A1").ID]; held {
		t.Error("A1 still held after release")
	}
}

func TestHoldSeatsRejectsStartedShowtime(t *testing.T) {
	f := newFixture()
	me := f.addUser(entity.RoleCustomer)
	st := f.addShowtime(1, 2, 10, -time.Minute)

	_, err := f.svc.Seat.HoldSeats(context.Background(), me.ID, &request.HoldSeatsRequest{
		ShowtimeID:  st.ID.String(),
		SeatIDs:     f.seatIDs(st.ID, "A1"),
		TicketCount: 1,
	})
	if err == nil || !strings.Contains(err.Error(), "already started") {
		t.Fatalf("HoldSeats() error = %v", err)
	}
}

func TestUpdateSeatStatus(t *testing.T) {
	f := newFixture()
	st := f.addShowtime(1, 2, 10, time.Hour)
	seat := f.seatByLabel(st.ID, "A2")

	resp, err := f.svc.Seat.UpdateSeatStatus(context.Background(), seat.ID.String(), &request.UpdateSeatStatusRequest{Status: "occupied"})
	if err != nil {
		t.Fatalf("UpdateSeatStatus() error = %v", err)
	}
	if resp.Status != "occupied" || seat.Status != entity.SeatStatusOccupied {
		t.Errorf("status = %s / %s", resp.Status, seat.Status)
	}

	if _, err := f.svc.Seat.UpdateSeatStatus(context.Background(), seat.ID.String(), &request.UpdateSeatStatusRequest{Status: "selected"}); err == nil {
		t.Error("selected accepted as a stored status")
	}
}

func TestUpdateSeatStatusKeepsSoldSeatsOccupied(t *testing.T) {
	f := newFixture()
	alice := f.addUser(entity.RoleCustomer)
	bob := f.addUser(entity.RoleCustomer)
	st := f.addShowtime(1, 2, 10, time.Hour)
	seat := f.seatByLabel(st.ID, "A1")
	ticketID := purchase(t, f, alice, st, "A1")

	_, err := f.svc.Seat.UpdateSeatStatus(context.Background(), seat.ID.String(), &request.UpdateSeatStatusRequest{Status: "available"})
	if !errors.Is(err, repository.ErrSeatTicketed) {
		t.Fatalf("UpdateSeatStatus() error = %v, want ErrSeatTicketed", err)
	}
	if seat.Status != entity.SeatStatusOccupied {
		t.Fatalf("sold seat status = %s", seat.Status)
	}

	_, err = f.svc.Ticket.PurchaseTickets(context.Background(), bob.ID, &request.PurchaseTicketRequest{
		ShowtimeID:    st.ID.String(),
		SeatIDs:       f.seatIDs(st.ID, "A1"),
		PaymentMethod: "card",
	})
	if !errors.Is(err, seatmap.ErrSeatOccupied) {
		t.Fatalf("second purchase error = %v, want ErrSeatOccupied", err)
	}

	if _, err := f.svc.Ticket.CancelTicket(context.Background(), customer(alice), ticketID); err != nil {
		t.Fatalf("CancelTicket() error = %v", err)
	}
	if _, err := f.svc.Seat.UpdateSeatStatus(context.Background(), seat.ID.String(), &request.UpdateSeatStatusRequest{Status: "occupied"}); err != nil {
		t.Fatalf("block seat error = %v", err)
	}
	if _, err := f.svc.Seat.UpdateSeatStatus(context.Background(), seat.ID.String(), &request.UpdateSeatStatusRequest{Status: "available"}); err != nil {
		t.Errorf("reopen seat after cancel error = %v", err)
	}
}

func TestPurchaseTickets(t *testing.T) {
	f := newFixture()
	me := f.addUser(entity.RoleCustomer)
	st := f.addShowtime(2, 4, 12.5, time.Hour)
	f.holds.holders[f.seatByLabel(st.ID, "A1").ID] = me.ID

	resp, err := f.svc.Ticket.PurchaseTickets(context.Background(), me.ID, &request.PurchaseTicketRequest{
		ShowtimeID:    st.ID.String(),
		SeatIDs:       f.seatIDs(st.ID, "A2", "A1", "B1"),
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("PurchaseTickets() error = %v", err)
	}

	if resp.TotalPrice != 37.5 {
		t.Errorf("total = %v, want 37.5", resp.TotalPrice)
	}
	if resp.Status != string(entity.TicketStatusActive) || !strings.HasPrefix(resp.Code, "TKT-") {
		t.Errorf("ticket = %+v", resp)
	}
	if resp.TransactionID == nil {
		t.Error("transaction id not recorded")
	}
	for _, label := range []string{"A1", "A2", "B1"} {
		if f.seatByLabel(st.ID, label).Status != entity.SeatStatusOccupied {
			t.Errorf("%s not occupied", label)
		}
	}
	if len(f.holds.holders) != 0 {
		t.Errorf("holds after purchase = %d, want 0", len(f.holds.holders))
	}
	if got := f.publisher.types(); len(got) != 1 || got[0] != messaging.EventTicketPurchased {
		t.Errorf("events = %v", got)
	}
	if len(f.payments.charges) != 1 || f.payments.charges[0].Amount != 37.5 {
		t.Errorf("charges = %+v", f.payments.charges)
	}
}

func TestPurchaseTicketsRejections(t *testing.T) {
	tests := []struct {
		name    string
		labels  []string
		method  string
		setup   func(f *fixture, st *entity.Showtime)
		wantErr error
		wantMsg string
	}{
		{
			name:    "held by another customer",
			labels:  []string{"A1"},
			method:  "card",
			setup:   func(f *fixture, st *entity.Showtime) { f.holds.holders[f.seatByLabel(st.ID, "A1").ID] = uuid.New() },
			wantErr: seatmap.ErrSeatOccupied,
		},
		{
			name:    "already occupied",
			labels:  []string{"A1", "A2"},
			method:  "card",
			setup:   func(f *fixture, st *entity.Showtime) { f.seatByLabel(st.ID, "A2").Status = entity.SeatStatusOccupied },
			wantErr: seatmap.ErrSeatOccupied,
		},
		{
			name:    "declined payment",
			labels:  []string{"A1"},
			method:  "declined_card",
			wantErr: payment.ErrDeclined,
		},
		{
			name:    "inactive payment method",
			labels:  []string{"A1"},
			method:  "cash",
			wantMsg: "invalid payment method",
		},
		{
			name:    "too many seats",
			labels:  []string{"A1", "A2", "A3", "A4", "B1"},
			method:  "card",
			wantMsg: "Maximum is 4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			me := f.addUser(entity.RoleCustomer)
			st := f.addShowtime(2, 4, 10, time.Hour)
			if tt.setup != nil {
				tt.setup(f, st)
			}

			_, err := f.svc.Ticket.PurchaseTickets(context.Background(), me.ID, &request.PurchaseTicketRequest{
				ShowtimeID:    st.ID.String(),
				SeatIDs:       f.seatIDs(st.ID, tt.labels...),
				PaymentMethod: tt.method,
			})
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("PurchaseTickets() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && (err == nil || !strings.Contains(err.Error(), tt.wantMsg)) {
				t.Fatalf("PurchaseTickets() error = %v, want %q", err, tt.wantMsg)
			}
			if len(f.store.tickets) != 0 {
				t.Error("ticket stored despite rejection")
			}
		})
	}
}

// racingTicketRepo loses every seat race at commit time.
type racingTicketRepo struct {
	repository.TicketRepository
}

func (racingTicketRepo) Purchase(context.Context, *entity.Ticket, []uuid.UUID) error {
	return repository.ErrSeatsUnavailable
}

func TestPurchaseRefundsWhenSeatsLost(t *testing.T) {
	f := newFixture()
	f.repo.Ticket = racingTicketRepo{f.repo.Ticket}
	me := f.addUser(entity.RoleCustomer)
	st := f.addShowtime(1, 2, 10, time.Hour)

	_, err := f.svc.Ticket.PurchaseTickets(context.Background(), me.ID, &request.PurchaseTicketRequest{
		ShowtimeID:    st.ID.String(),
		SeatIDs:       f.seatIDs(st.ID, "A1"),
		PaymentMethod: "card",
	})
	if !errors.Is(err, repository.ErrSeatsUnavailable) {
		t.Fatalf("PurchaseTickets() error = %v", err)
	}
	if len(f.payments.refunds) != 1 {
		t.Errorf("refunds = %d, want 1", len(f.payments.refunds))
	}
	if len(f.publisher.events) != 0 {
		t.Error("event published for a failed purchase")
	}
}

func purchase(t *testing.T, f *fixture, user *entity.User, st *entity.Showtime, labels ...string) string {
	t.Helper()
	resp, err := f.svc.Ticket.PurchaseTickets(context.Background(), user.ID, &request.PurchaseTicketRequest{
		ShowtimeID:    st.ID.String(),
		SeatIDs:       f.seatIDs(st.ID, labels...),
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("PurchaseTickets() error = %v", err)
	}
	return resp.ID
}

func TestTicketAccess(t *testing.T) {
	f := newFixture()
	owner := f.addUser(entity.RoleCustomer)
	stranger := f.addUser(entity.RoleCustomer)
	staff := f.addUser(entity.RoleStaff)
	st := f.addShowtime(1, 4, 10, time.Hour)
	ticketID := purchase(t, f, owner, st, "A1", "A2")

	if _, err := f.svc.Ticket.GetTicket(context.Background(), customer(stranger), ticketID); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("stranger GetTicket() error = %v", err)
	}
	got, err := f.svc.Ticket.GetTicket(context.Background(), customer(staff), ticketID)
	if err != nil {
		t.Fatalf("staff GetTicket() error = %v", err)
	}
	if strings.Join(got.Seats, ",") != "A1,A2" || got.MovieTitle != "Interstellar" {
		t.Errorf("GetTicket() = %+v", got)
	}

	png, err := f.svc.Ticket.GetTicketQR(context.Background(), owner.ID, ticketID)
	if err != nil {
		t.Fatalf("GetTicketQR() error = %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("QR code is not a PNG")
	}
	if _, err := f.svc.Ticket.GetTicketQR(context.Background(), stranger.ID, ticketID); err == nil {
		t.Error("stranger got the QR code")
	}

	mine, err := f.svc.Ticket.GetMyTickets(context.Background(), owner.ID, &request.PaginatedRequest{Page: 1, PerPage: 10})
	if err != nil || mine.Pagination.Total != 1 {
		t.Fatalf("GetMyTickets() = %+v, %v", mine, err)
	}
	theirs, _ := f.svc.Ticket.GetMyTickets(context.Background(), stranger.ID, &request.PaginatedRequest{Page: 1, PerPage: 10})
	if theirs.Pagination.Total != 0 || theirs.Data == nil {
		t.Errorf("stranger tickets = %+v", theirs)
	}
}

func TestCancelTicket(t *testing.T) {
	f := newFixture()
	owner := f.addUser(entity.RoleCustomer)
	stranger := f.addUser(entity.RoleCustomer)
	st := f.addShowtime(1, 4, 10, time.Hour)
	ticketID := purchase(t, f, owner, st, "A3")

	if _, err := f.svc.Ticket.CancelTicket(context.Background(), customer(stranger), ticketID); err == nil {
		t.Fatal("stranger cancelled the ticket")
	}

	resp, err := f.svc.Ticket.CancelTicket(context.Background(), customer(owner), ticketID)
	if err != nil {
		t.Fatalf("CancelTicket() error = %v", err)
	}
	if resp.Status != string(entity.TicketStatusCancelled) {
		t.Errorf("status = %s", resp.Status)
	}
	if f.seatByLabel(st.ID, "A3").Status != entity.SeatStatusAvailable {
		t.Error("seat not released")
	}
	if len(f.payments.refunds) != 1 {
		t.Errorf("refunds = %d, want 1", len(f.payments.refunds))
	}
	if got := f.publisher.types(); got[len(got)-1] != messaging.EventTicketCancelled {
		t.Errorf("events = %v", got)
	}

	if _, err := f.svc.Ticket.CancelTicket(context.Background(), customer(owner), ticketID); !errors.Is(err, repository.ErrTicketNotActive) {
		t.Errorf("second CancelTicket() error = %v", err)
	}
}

func TestCancelAfterStartOnlyByStaff(t *testing.T) {
	f := newFixture()
	owner := f.addUser(entity.RoleCustomer)
	staff := f.addUser(entity.RoleStaff)
	st := f.addShowtime(1, 4, 10, time.Hour)
	ticketID := purchase(t, f, owner, st, "A1")
	st.StartsAt = time.Now().Add(-time.Minute)

	if _, err := f.svc.Ticket.CancelTicket(context.Background(), customer(owner), ticketID); err == nil || !strings.Contains(err.Error(), "cannot cancel") {
		t.Fatalf("owner CancelTicket() error = %v", err)
	}
	if _, err := f.svc.Ticket.CancelTicket(context.Background(), customer(staff), ticketID); err != nil {
		t.Fatalf("staff CancelTicket() error = %v", err)
	}
}

func TestRedeemTicket(t *testing.T) {
	f := newFixture()
	owner := f.addUser(entity.RoleCustomer)
	st := f.addShowtime(1, 4, 10, time.Hour)
	ticketID := purchase(t, f, owner, st, "A1")

	resp, err := f.svc.Ticket.RedeemTicket(context.Background(), ticketID)
	if err != nil {
		t.Fatalf("RedeemTicket() error = %v", err)
	}
	if resp.Status != string(entity.TicketStatusUsed) {
		t.Errorf("status = %s", resp.Status)
	}
	if _, err := f.svc.Ticket.RedeemTicket(context.Background(), ticketID); !errors.Is(err, repository.ErrTicketNotActive) {
		t.Errorf("second RedeemTicket() error = %v", err)
	}

	all, err := f.svc.Ticket.GetAllTickets(context.Background(), &request.PaginatedRequest{Page: 1, PerPage: 10}, st.ID.String())
	if err != nil || all.Pagination.Total != 1 {
		t.Errorf("GetAllTickets() = %+v, %v", all, err)
	}
}

func TestNoopHoldStoreStillSells(t *testing.T) {
	f := newFixture()
	f.svc = NewService(f.repo, Dependencies{
		Cache:     cache.NewNoopService(),
		Holds:     cache.NewNoopHoldStore(),
		Publisher: f.publisher,
		Payments:  f.payments,
	}, f.config, nopLogger())
	me := f.addUser(entity.RoleCustomer)
	st := f.addShowtime(1, 2, 10, time.Hour)

	purchase(t, f, me, st, "A1", "A2")

	seatMap, err := f.svc.Seat.GetSeatMap(context.Background(), st.ID.String(), me.ID)
	if err != nil {
		t.Fatalf("GetSeatMap() error = %v", err)
	}
	for _, seat := range seatMap.Seats {
		if seat.Status != "occupied" {
			t.Errorf("%s = %s, want occupied", seat.Label, seat.Status)
		}
	}
}
