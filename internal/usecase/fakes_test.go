package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/pkg/cache"
	"movie-theater/pkg/payment"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		JWT:     utils.JWTConfig{Secret: "test-secret", ExpiryHours: 24},
		Redis:   utils.RedisConfig{CacheTTLSeconds: 60},
		OTP:     utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
		Booking: utils.BookingConfig{SeatHoldMinutes: 10, MaxTicketsPerPurchase: 4},
	}
}

// store is an in-memory backing for every repository fake.
type store struct {
	users          map[uuid.UUID]*entity.User
	sessions       map[uuid.UUID]*entity.Session
	otps           []*entity.OTP
	movies         map[uuid.UUID]*entity.Movie
	theaters       []*entity.Theater
	showtimes      map[uuid.UUID]*entity.Showtime
	seats          map[uuid.UUID]*entity.Seat
	tickets        map[uuid.UUID]*entity.Ticket
	ticketSeats    map[uuid.UUID][]uuid.UUID
	foodItems      map[uuid.UUID]*entity.FoodItem
	orders         map[uuid.UUID]*entity.Order
	paymentMethods map[string]*entity.PaymentMethod
}

func newStore() *store {
	return &store{
		users:          map[uuid.UUID]*entity.User{},
		sessions:       map[uuid.UUID]*entity.Session{},
		movies:         map[uuid.UUID]*entity.Movie{},
		showtimes:      map[uuid.UUID]*entity.Showtime{},
		seats:          map[uuid.UUID]*entity.Seat{},
		tickets:        map[uuid.UUID]*entity.Ticket{},
		ticketSeats:    map[uuid.UUID][]uuid.UUID{},
		foodItems:      map[uuid.UUID]*entity.FoodItem{},
		orders:         map[uuid.UUID]*entity.Order{},
		paymentMethods: map[string]*entity.PaymentMethod{},
	}
}

func (s *store) repository() *repository.Repository {
	return &repository.Repository{
		User:          &fakeUserRepo{s},
		Session:       &fakeSessionRepo{s},
		OTP:           &fakeOTPRepo{s},
		Movie:         &fakeMovieRepo{s},
		Theater:       &fakeTheaterRepo{s},
		Showtime:      &fakeShowtimeRepo{s},
		Seat:          &fakeSeatRepo{s},
		Ticket:        &fakeTicketRepo{s},
		FoodItem:      &fakeFoodItemRepo{s},
		Order:         &fakeOrderRepo{s},
		PaymentMethod: &fakePaymentMethodRepo{s},
	}
}

// ==================== USERS ====================

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.s.users[id], nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var users []*entity.User
	for _, u := range r.s.users {
		users = append(users, u)
	}
	return page(users, limit, offset), nil
}

func (r *fakeUserRepo) CountAll(context.Context) (int64, error) {
	return int64(len(r.s.users)), nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.users[id]; !ok {
		return fmt.Errorf("user %s not found", id)
	}
	delete(r.s.users, id)
	return nil
}

type fakeSessionRepo struct{ s *store }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.s.sessions[session.Token] = session
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	session := r.s.sessions[token]
	if session == nil || !session.Active(time.Now()) {
		return nil, nil
	}
	if user := r.s.users[session.UserID]; user == nil || !user.IsActive {
		return nil, nil
	}
	return session, nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token uuid.UUID) error {
	session := r.s.sessions[token]
	if session == nil || session.RevokedAt != nil {
		return errors.New("session not found or already revoked")
	}
	now := time.Now()
	session.RevokedAt = &now
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, session := range r.s.sessions {
		if session.UserID == userID {
			session.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(context.Context) (int64, error) {
	return 0, nil
}

type fakeOTPRepo struct{ s *store }

func (r *fakeOTPRepo) Create(_ context.Context, otp *entity.OTP) error {
	for _, previous := range r.s.otps {
		if previous.Email == otp.Email && previous.Purpose == otp.Purpose {
			previous.IsUsed = true
		}
	}
	r.s.otps = append(r.s.otps, otp)
	return nil
}

func (r *fakeOTPRepo) Consume(_ context.Context, email, code string, purpose entity.OTPPurpose) (*entity.OTP, error) {
	for _, otp := range r.s.otps {
		if otp.Email == email && otp.Code == code && otp.Purpose == purpose && !otp.IsUsed && time.Now().Before(otp.ExpiresAt) {
			otp.IsUsed = true
			return otp, nil
		}
	}
	return nil, nil
}

// ==================== CATALOG ====================

type fakeMovieRepo struct{ s *store }

func (r *fakeMovieRepo) Create(_ context.Context, movie *entity.Movie) error {
	r.s.movies[movie.ID] = movie
	return nil
}

func (r *fakeMovieRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	return r.s.movies[id], nil
}

func (r *fakeMovieRepo) filter(filter repository.MovieFilter) []*entity.Movie {
	var movies []*entity.Movie
	for _, m := range r.s.movies {
		if filter.ReleaseStatus != "" && string(m.ReleaseStatus) != filter.ReleaseStatus {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(filter.Query)) {
			continue
		}
		movies = append(movies, m)
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].Title < movies[j].Title })
	return movies
}

func (r *fakeMovieRepo) FindAll(_ context.Context, filter repository.MovieFilter, limit, offset int) ([]*entity.Movie, error) {
	return page(r.filter(filter), limit, offset), nil
}

func (r *fakeMovieRepo) CountAll(_ context.Context, filter repository.MovieFilter) (int64, error) {
	return int64(len(r.filter(filter))), nil
}

func (r *fakeMovieRepo) Update(_ context.Context, movie *entity.Movie) error {
	r.s.movies[movie.ID] = movie
	return nil
}

func (r *fakeMovieRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.movies[id]; !ok {
		return errors.New("movie not found")
	}
	delete(r.s.movies, id)
	return nil
}

type fakeTheaterRepo struct{ s *store }

func (r *fakeTheaterRepo) Create(_ context.Context, theater *entity.Theater) error {
	r.s.theaters = append(r.s.theaters, theater)
	return nil
}

func (r *fakeTheaterRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Theater, error) {
	for _, t := range r.s.theaters {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTheaterRepo) FindAll(context.Context) ([]*entity.Theater, error) {
	return slices.Clone(r.s.theaters), nil
}

func (r *fakeTheaterRepo) Update(context.Context, *entity.Theater) error { return nil }

func (r *fakeTheaterRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, t := range r.s.theaters {
		if t.ID == id {
			r.s.theaters = slices.Delete(r.s.theaters, i, i+1)
			return nil
		}
	}
	return errors.New("theater not found")
}

type fakeShowtimeRepo struct{ s *store }

func (r *fakeShowtimeRepo) CreateWithSeats(_ context.Context, showtime *entity.Showtime, seats []*entity.Seat) error {
	r.s.showtimes[showtime.ID] = showtime
	for _, seat := range seats {
		r.s.seats[seat.ID] = seat
	}
	return nil
}

func (r *fakeShowtimeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Showtime, error) {
	return r.s.showtimes[id], nil
}

func (r *fakeShowtimeRepo) detail(showtime *entity.Showtime) *repository.ShowtimeDetail {
	detail := &repository.ShowtimeDetail{Showtime: *showtime}
	if movie := r.s.movies[showtime.MovieID]; movie != nil {
		detail.MovieTitle = movie.Title
	}
	for _, t := range r.s.theaters {
		if t.ID == showtime.TheaterID {
			detail.TheaterName = t.Name
		}
	}
	for _, seat := range r.s.seats {
		if seat.ShowtimeID == showtime.ID && seat.Status == entity.SeatStatusAvailable {
			detail.AvailableSeats++
		}
	}
	return detail
}

func (r *fakeShowtimeRepo) FindDetailByID(_ context.Context, id uuid.UUID) (*repository.ShowtimeDetail, error) {
	showtime := r.s.showtimes[id]
	if showtime == nil {
		return nil, nil
	}
	return r.detail(showtime), nil
}

func (r *fakeShowtimeRepo) FindAll(_ context.Context, filter repository.ShowtimeFilter) ([]*repository.ShowtimeDetail, error) {
	var out []*repository.ShowtimeDetail
	for _, st := range r.s.showtimes {
		if filter.MovieID != uuid.Nil && st.MovieID != filter.MovieID {
			continue
		}
		if filter.TheaterID != uuid.Nil && st.TheaterID != filter.TheaterID {
			continue
		}
		if filter.From != nil && st.StartsAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !st.StartsAt.Before(*filter.To) {
			continue
		}
		out = append(out, r.detail(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *fakeShowtimeRepo) Update(_ context.Context, showtime *entity.Showtime) error {
	r.s.showtimes[showtime.ID] = showtime
	return nil
}

func (r *fakeShowtimeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.showtimes[id]; !ok {
		return errors.New("showtime not found")
	}
	delete(r.s.showtimes, id)
	return nil
}

// ==================== SEATS & TICKETS ====================

type fakeSeatRepo struct{ s *store }

func (r *fakeSeatRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Seat, error) {
	return r.s.seats[id], nil
}

func (r *fakeSeatRepo) FindByShowtime(_ context.Context, showtimeID uuid.UUID) ([]*entity.Seat, error) {
	var seats []*entity.Seat
	for _, seat := range r.s.seats {
		if seat.ShowtimeID == showtimeID {
			seats = append(seats, seat)
		}
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].RowLabel != seats[j].RowLabel {
			return seats[i].RowLabel < seats[j].RowLabel
		}
		return seats[i].SeatNumber < seats[j].SeatNumber
	})
	return seats, nil
}

func (r *fakeSeatRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entity.SeatStatus) error {
	seat := r.s.seats[id]
	if seat == nil {
		return errors.New("seat not found")
	}
	if status == entity.SeatStatusAvailable {
		for ticketID, seatIDs := range r.s.ticketSeats {
			if slices.Contains(seatIDs, id) && r.s.tickets[ticketID].Status == entity.TicketStatusActive {
				return repository.ErrSeatTicketed
			}
		}
	}
	seat.Status = status
	return nil
}

type fakeTicketRepo struct {
	s *store
}

func (r *fakeTicketRepo) Purchase(_ context.Context, ticket *entity.Ticket, seatIDs []uuid.UUID) error {
	for _, id := range seatIDs {
		seat := r.s.seats[id]
		if seat == nil || seat.ShowtimeID != ticket.ShowtimeID || seat.Status != entity.SeatStatusAvailable {
			return repository.ErrSeatsUnavailable
		}
	}
	for _, id := range seatIDs {
		r.s.seats[id].Status = entity.SeatStatusOccupied
	}
	r.s.tickets[ticket.ID] = ticket
	r.s.ticketSeats[ticket.ID] = slices.Clone(seatIDs)
	return nil
}

func (r *fakeTicketRepo) Cancel(_ context.Context, id uuid.UUID) error {
	ticket := r.s.tickets[id]
	if ticket == nil || ticket.Status != entity.TicketStatusActive {
		return repository.ErrTicketNotActive
	}
	ticket.Status = entity.TicketStatusCancelled
	for _, seatID := range r.s.ticketSeats[id] {
		r.s.seats[seatID].Status = entity.SeatStatusAvailable
	}
	return nil
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.TicketStatus) error {
	ticket := r.s.tickets[id]
	if ticket == nil || ticket.Status != from {
		return repository.ErrTicketNotActive
	}
	ticket.Status = to
	return nil
}

func (r *fakeTicketRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Ticket, error) {
	ticket := r.s.tickets[id]
	if ticket == nil {
		return nil, nil
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) summary(ticket *entity.Ticket) *repository.TicketSummary {
	summary := &repository.TicketSummary{Ticket: *ticket}
	if st := r.s.showtimes[ticket.ShowtimeID]; st != nil {
		summary.StartsAt = st.StartsAt
		summary.Auditorium = st.Auditorium
		if movie := r.s.movies[st.MovieID]; movie != nil {
			summary.MovieTitle = movie.Title
		}
	}
	for _, seatID := range r.s.ticketSeats[ticket.ID] {
		summary.SeatLabels = append(summary.SeatLabels, r.s.seats[seatID].Label)
	}
	return summary
}

func (r *fakeTicketRepo) FindSummaryByID(_ context.Context, id uuid.UUID) (*repository.TicketSummary, error) {
	ticket := r.s.tickets[id]
	if ticket == nil {
		return nil, nil
	}
	return r.summary(ticket), nil
}

func (r *fakeTicketRepo) filter(filter repository.TicketFilter) []*repository.TicketSummary {
	var out []*repository.TicketSummary
	for _, t := range r.s.tickets {
		if filter.UserID != uuid.Nil && t.UserID != filter.UserID {
			continue
		}
		if filter.ShowtimeID != uuid.Nil && t.ShowtimeID != filter.ShowtimeID {
			continue
		}
		if filter.Status != "" && string(t.Status) != filter.Status {
			continue
		}
		out = append(out, r.summary(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (r *fakeTicketRepo) FindAll(_ context.Context, filter repository.TicketFilter, limit, offset int) ([]*repository.TicketSummary, error) {
	return page(r.filter(filter), limit, offset), nil
}

func (r *fakeTicketRepo) CountAll(_ context.Context, filter repository.TicketFilter) (int64, error) {
	return int64(len(r.filter(filter))), nil
}

func (r *fakeTicketRepo) CountActiveByShowtime(_ context.Context, showtimeID uuid.UUID) (int64, error) {
	return int64(len(r.filter(repository.TicketFilter{ShowtimeID: showtimeID, Status: string(entity.TicketStatusActive)}))), nil
}

// ==================== CONCESSIONS ====================

type fakeFoodItemRepo struct{ s *store }

func (r *fakeFoodItemRepo) Create(_ context.Context, item *entity.FoodItem) error {
	r.s.foodItems[item.ID] = item
	return nil
}

func (r *fakeFoodItemRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.FoodItem, error) {
	return r.s.foodItems[id], nil
}

func (r *fakeFoodItemRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.FoodItem, error) {
	var items []*entity.FoodItem
	for _, id := range ids {
		if item := r.s.foodItems[id]; item != nil {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *fakeFoodItemRepo) FindAll(_ context.Context, filter repository.FoodItemFilter) ([]*entity.FoodItem, error) {
	var items []*entity.FoodItem
	for _, item := range r.s.foodItems {
		if filter.Category != "" && string(item.Category) != filter.Category {
			continue
		}
		if filter.AvailableOnly && !item.IsAvailable {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (r *fakeFoodItemRepo) Update(_ context.Context, item *entity.FoodItem) error {
	r.s.foodItems[item.ID] = item
	return nil
}

func (r *fakeFoodItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.s.foodItems[id]; !ok {
		return errors.New("food item not found")
	}
	delete(r.s.foodItems, id)
	return nil
}

type fakeOrderRepo struct{ s *store }

func (r *fakeOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.s.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	order := r.s.orders[id]
	if order == nil {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) filter(filter repository.OrderFilter) []*entity.Order {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if filter.UserID != uuid.Nil && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (r *fakeOrderRepo) FindAll(_ context.Context, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, error) {
	return page(r.filter(filter), limit, offset), nil
}

func (r *fakeOrderRepo) CountAll(_ context.Context, filter repository.OrderFilter) (int64, error) {
	return int64(len(r.filter(filter))), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.OrderStatus) error {
	order := r.s.orders[id]
	if order == nil || order.Status != from {
		return errors.New("order status already changed")
	}
	order.Status = to
	return nil
}

type fakePaymentMethodRepo struct{ s *store }

func (r *fakePaymentMethodRepo) Upsert(_ context.Context, method *entity.PaymentMethod) error {
	r.s.paymentMethods[method.Code] = method
	return nil
}

func (r *fakePaymentMethodRepo) FindByCode(_ context.Context, code string) (*entity.PaymentMethod, error) {
	return r.s.paymentMethods[code], nil
}

func (r *fakePaymentMethodRepo) FindAllActive(context.Context) ([]*entity.PaymentMethod, error) {
	var methods []*entity.PaymentMethod
	for _, m := range r.s.paymentMethods {
		if m.IsActive {
			methods = append(methods, m)
		}
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Code < methods[j].Code })
	return methods, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// ==================== INFRASTRUCTURE ====================

type publishedEvent struct {
	Type    string
	Key     string
	Payload interface{}
}

type fakePublisher struct {
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, eventType, key string, payload interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{Type: eventType, Key: key, Payload: payload})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeHolds keeps holds in a map and never expires them.
type fakeHolds struct {
	holders map[uuid.UUID]uuid.UUID
}

func newFakeHolds() *fakeHolds {
	return &fakeHolds{holders: map[uuid.UUID]uuid.UUID{}}
}

func (h *fakeHolds) Hold(_ context.Context, _, userID uuid.UUID, seatIDs []uuid.UUID, _ time.Duration) error {
	for _, id := range seatIDs {
		if holder, ok := h.holders[id]; ok && holder != userID {
			return cache.ErrSeatAlreadyHeld
		}
	}
	for id, holder := range h.holders {
		if holder == userID {
			delete(h.holders, id)
		}
	}
	for _, id := range seatIDs {
		h.holders[id] = userID
	}
	return nil
}

func (h *fakeHolds) Release(_ context.Context, _, userID uuid.UUID) (int, error) {
	n := 0
	for id, holder := range h.holders {
		if holder == userID {
			delete(h.holders, id)
			n++
		}
	}
	return n, nil
}

func (h *fakeHolds) Holders(_ context.Context, _ uuid.UUID, seatIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	out := map[uuid.UUID]uuid.UUID{}
	for _, id := range seatIDs {
		if holder, ok := h.holders[id]; ok {
			out[id] = holder
		}
	}
	return out, nil
}

// recordingPayments wraps the simulated provider and remembers refunds.
type recordingPayments struct {
	*payment.SimulatedProvider
	charges []payment.Charge
	refunds []string
}

func newRecordingPayments(declined ...string) *recordingPayments {
	return &recordingPayments{SimulatedProvider: payment.NewSimulatedProvider(declined...)}
}

func (p *recordingPayments) Charge(ctx context.Context, charge payment.Charge) (*payment.Receipt, error) {
	p.charges = append(p.charges, charge)
	return p.SimulatedProvider.Charge(ctx, charge)
}

func (p *recordingPayments) Refund(ctx context.Context, transactionID string, amount float64) error {
	p.refunds = append(p.refunds, transactionID)
	return p.SimulatedProvider.Refund(ctx, transactionID, amount)
}

// fakeCache counts invalidations and serves from memory.
type fakeCache struct {
	data          map[string]interface{}
	invalidations int
	fetches       int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]interface{}{}}
}

func (c *fakeCache) Get(context.Context, string, interface{}) error { return cache.ErrCacheMiss }

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.data[key] = value
	return nil
}

func (c *fakeCache) DeletePattern(context.Context, string) error {
	c.invalidations++
	c.data = map[string]interface{}{}
	return nil
}

func (c *fakeCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	value, ok := c.data[key]
	if !ok {
		c.fetches++
		var err error
		if value, err = fetcher(); err != nil {
			return err
		}
		c.data[key] = value
	}
	return cache.NewNoopService().GetOrSet(ctx, key, ttl, func() (interface{}, error) { return value, nil }, dest)
}

// ==================== FIXTURES ====================

type fixture struct {
	store     *store
	repo      *repository.Repository
	holds     *fakeHolds
	payments  *recordingPayments
	publisher *fakePublisher
	cache     *fakeCache
	config    *utils.Config
	svc       *Service
}

func newFixture() *fixture {
	f := &fixture{
		store:     newStore(),
		holds:     newFakeHolds(),
		payments:  newRecordingPayments("declined_card"),
		publisher: &fakePublisher{},
		cache:     newFakeCache(),
		config:    testConfig(),
	}
	f.repo = f.store.repository()
	f.svc = NewService(f.repo, Dependencies{
		Cache:     f.cache,
		Holds:     f.holds,
		Publisher: f.publisher,
		Payments:  f.payments,
	}, f.config, zap.NewNop())

	for _, code := range []string{"card", "wallet", "declined_card"} {
		f.store.paymentMethods[code] = &entity.PaymentMethod{Code: code, Name: code, IsActive: true}
	}
	f.store.paymentMethods["cash"] = &entity.PaymentMethod{Code: "cash", Name: "Cash", IsActive: false}
	return f
}

func (f *fixture) addUser(roles ...entity.UserRole) *entity.User {
	id := uuid.New()
	user := &entity.User{
		Base:     entity.Base{ID: id, CreatedAt: time.Now()},
		Username: "user-" + id.String()[:8],
		Email:    id.String()[:8] + "@example.com",
		IsActive: true,
	}
	for _, role := range roles {
		user.Roles = append(user.Roles, string(role))
	}
	f.store.users[id] = user
	return user
}

// addShowtime creates a movie, a theater and a showtime with a rows×perRow
// grid starting in startsIn.
func (f *fixture) addShowtime(rows, perRow int, price float64, startsIn time.Duration) *entity.Showtime {
	movie := &entity.Movie{Base: entity.Base{ID: uuid.New()}, Title: "Interstellar", ReleaseStatus: entity.ReleaseStatusNowPlaying}
	theater := &entity.Theater{Base: entity.Base{ID: uuid.New()}, Name: "Downtown"}
	f.store.movies[movie.ID] = movie
	f.store.theaters = append(f.store.theaters, theater)

	showtime := &entity.Showtime{
		Base:        entity.Base{ID: uuid.New()},
		MovieID:     movie.ID,
		TheaterID:   theater.ID,
		Auditorium:  "1",
		StartsAt:    time.Now().Add(startsIn),
		Price:       price,
		SeatRows:    rows,
		SeatsPerRow: perRow,
	}
	f.store.showtimes[showtime.ID] = showtime
	for _, seat := range buildSeatGrid(showtime, time.Now()) {
		f.store.seats[seat.ID] = seat
	}
	return showtime
}

func (f *fixture) seatByLabel(showtimeID uuid.UUID, label string) *entity.Seat {
	for _, seat := range f.store.seats {
		if seat.ShowtimeID == showtimeID && seat.Label == label {
			return seat
		}
	}
	panic("no seat " + label)
}

func (f *fixture) seatIDs(showtimeID uuid.UUID, labels ...string) []string {
	ids := make([]string, 0, len(labels))
	for _, label := range labels {
		ids = append(ids, f.seatByLabel(showtimeID, label).ID.String())
	}
	return ids
}

func (f *fixture) addFood(name string, price float64, available bool) *entity.FoodItem {
	item := &entity.FoodItem{
		Base:        entity.Base{ID: uuid.New()},
		Name:        name,
		Price:       price,
		Category:    entity.FoodCategorySnack,
		IsAvailable: available,
	}
	f.store.foodItems[item.ID] = item
	return item
}

func customer(user *entity.User) Caller {
	return Caller{ID: user.ID, Roles: user.Roles}
}

func nopLogger() *zap.Logger { return zap.NewNop() }
