package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisHoldStoreRejectsConflictingHold(t *testing.T) {
	ctx := context.Background()
	_, client := newMiniredis(t)
	store := NewHoldStore(client)

	showtime, alice, bob := uuid.New(), uuid.New(), uuid.New()
	a1, a2, a3 := uuid.New(), uuid.New(), uuid.New()

	if err := store.Hold(ctx, showtime, alice, []uuid.UUID{a1, a2}, time.Minute); err != nil {
		t.Fatalf("Hold(alice): %v", err)
	}

	err := store.Hold(ctx, showtime, bob, []uuid.UUID{a3, a2}, time.Minute)
	if !errors.Is(err, ErrSeatAlreadyHeld) {
		t.Fatalf("Hold(bob) error = %v, want ErrSeatAlreadyHeld", err)
	}

	holders, err := store.Holders(ctx, showtime, []uuid.UUID{a1, a2, a3})
	if err != nil {
		t.Fatalf("Holders: %v", err)
	}
	if holders[a1] != alice || holders[a2] != alice {
		t.Errorf("alice lost her seats: %v", holders)
	}
	if _, held := holders[a3]; held {
		t.Error("rejected hold left a3 held")
	}
}

func TestRedisHoldStoreReplacesPreviousHold(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredis(t)
	store := NewHoldStore(client)

	showtime, alice := uuid.New(), uuid.New()
	a1, a2, b1 := uuid.New(), uuid.New(), uuid.New()

	if err := store.Hold(ctx, showtime, alice, []uuid.UUID{a1, a2}, time.Minute); err != nil {
		t.Fatalf("first Hold: %v", err)
	}
	if err := store.Hold(ctx, showtime, alice, []uuid.UUID{a2, b1}, time.Minute); err != nil {
		t.Fatalf("second Hold: %v", err)
	}

	holders, err := store.Holders(ctx, showtime, []uuid.UUID{a1, a2, b1})
	if err != nil {
		t.Fatalf("Holders: %v", err)
	}
	if _, held := holders[a1]; held {
		t.Error("a1 still held after being dropped from the selection")
	}
	if holders[a2] != alice || holders[b1] != alice {
		t.Errorf("holders = %v", holders)
	}

	members, err := mr.Members(userHoldsKey(showtime, alice))
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("user hold set = %v, want 2 seats", members)
	}

	mr.FastForward(2 * time.Minute)
	holders, err = store.Holders(ctx, showtime, []uuid.UUID{a2, b1})
	if err != nil {
		t.Fatalf("Holders after expiry: %v", err)
	}
	if len(holders) != 0 {
		t.Errorf("holders after expiry = %v", holders)
	}
}

func TestRedisHoldStoreReleaseCountsOwnSeats(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredis(t)
	store := NewHoldStore(client)

	showtime, alice, bob := uuid.New(), uuid.New(), uuid.New()
	a1, a2 := uuid.New(), uuid.New()

	if err := store.Hold(ctx, showtime, alice, []uuid.UUID{a1, a2}, time.Minute); err != nil {
		t.Fatalf("Hold: %v", err)
	}
	// a2 changed hands after alice's hold lapsed.
	if err := mr.Set(seatKeyPrefix(showtime)+a2.String(), bob.String()); err != nil {
		t.Fatalf("Set: %v", err)
	}

	released, err := store.Release(ctx, showtime, alice)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if released != 1 {
		t.Errorf("released = %d, want 1", released)
	}

	holders, err := store.Holders(ctx, showtime, []uuid.UUID{a1, a2})
	if err != nil {
		t.Fatalf("Holders: %v", err)
	}
	if _, held := holders[a1]; held {
		t.Error("a1 still held after release")
	}
	if holders[a2] != bob {
		t.Errorf("bob's hold on a2 was dropped: %v", holders)
	}
	if mr.Exists(userHoldsKey(showtime, alice)) {
		t.Error("user hold set not removed")
	}
}

func TestRedisLimiterSlidingWindow(t *testing.T) {
	ctx := context.Background()
	_, client := newMiniredis(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := &redisLimiter{client: client, limit: 3, window: time.Minute, now: func() time.Time { return now }}

	for i := 0; i < 3; i++ {
		result, err := limiter.Allow(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("Allow #%d: %v", i+1, err)
		}
		if !result.Allowed || result.Remaining != 2-i {
			t.Fatalf("Allow #%d = %+v", i+1, result)
		}
		now = now.Add(time.Second)
	}

	result, err := limiter.Allow(ctx, "10.0.0.1")
	if err != nil {
		t.Fatalf("Allow #4: %v", err)
	}
	if result.Allowed || result.Remaining != 0 {
		t.Errorf("Allow #4 = %+v, want denied", result)
	}

	other, err := limiter.Allow(ctx, "10.0.0.2")
	if err != nil || !other.Allowed {
		t.Errorf("other key = %+v, %v", other, err)
	}

	now = now.Add(time.Minute)
	result, err = limiter.Allow(ctx, "10.0.0.1")
	if err != nil || !result.Allowed {
		t.Errorf("Allow after window = %+v, %v", result, err)
	}
}
