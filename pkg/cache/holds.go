package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSeatAlreadyHeld = errors.New("seat already held by another customer")

// HoldStore keeps short-lived seat reservations while a customer checks out.
type HoldStore interface {
	// Hold replaces the user's holds for the showtime with seatIDs. Either
	// every seat is held or none is.
	Hold(ctx context.Context, showtimeID, userID uuid.UUID, seatIDs []uuid.UUID, ttl time.Duration) error
	// Release drops every hold the user has on the showtime.
	Release(ctx context.Context, showtimeID, userID uuid.UUID) (int, error)
	// Holders maps held seat ids to the holding user.
	Holders(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

// KEYS[1] = user holds set, ARGV[1] = user id, ARGV[2] = ttl seconds,
// ARGV[3] = seat key prefix, ARGV[4..N] = seat ids.
const luaHoldSeats = `
local user_key = KEYS[1]
local user_id = ARGV[1]
local ttl = tonumber(ARGV[2])
local prefix = ARGV[3]

for i = 4, #ARGV do
    local holder = redis.call("GET", prefix .. ARGV[i])
    if holder and holder ~= user_id then
        return {0, ARGV[i]}
    end
end

local previous = redis.call("SMEMBERS", user_key)
for i = 1, #previous do
    local key = prefix .. previous[i]
    if redis.call("GET", key) == user_id then
        redis.call("DEL", key)
    end
end
redis.call("DEL", user_key)

for i = 4, #ARGV do
    redis.call("SET", prefix .. ARGV[i], user_id, "EX", ttl)
    redis.call("SADD", user_key, ARGV[i])
end
redis.call("EXPIRE", user_key, ttl)

return {1, #ARGV - 3}
`

// KEYS[1] = user holds set, ARGV[1] = user id, ARGV[2] = seat key prefix.
const luaReleaseSeats = `
local user_key = KEYS[1]
local user_id = ARGV[1]
local prefix = ARGV[2]

local seats = redis.call("SMEMBERS", user_key)
local released = 0
for i = 1, #seats do
    local key = prefix .. seats[i]
    if redis.call("GET", key) == user_id then
        redis.call("DEL", key)
        released = released + 1
    end
end
redis.call("DEL", user_key)

return released
`

var (
	holdScript    = redis.NewScript(luaHoldSeats)
	releaseScript = redis.NewScript(luaReleaseSeats)
)

type redisHoldStore struct {
	client *redis.Client
}

func NewHoldStore(client *redis.Client) HoldStore {
	return &redisHoldStore{client: client}
}

func seatKeyPrefix(showtimeID uuid.UUID) string {
	return fmt.Sprintf("seat_hold:%s:", showtimeID)
}

func userHoldsKey(showtimeID, userID uuid.UUID) string {
	return fmt.Sprintf("user_holds:%s:%s", showtimeID, userID)
}

func (s *redisHoldStore) Hold(ctx context.Context, showtimeID, userID uuid.UUID, seatIDs []uuid.UUID, ttl time.Duration) error {
	if len(seatIDs) == 0 {
		return nil
	}

	args := []interface{}{
		userID.String(),
		strconv.Itoa(int(ttl.Seconds())),
		seatKeyPrefix(showtimeID),
	}
	for _, seatID := range seatIDs {
		args = append(args, seatID.String())
	}

	result, err := holdScript.Run(ctx, s.client, []string{userHoldsKey(showtimeID, userID)}, args...).Slice()
	if err != nil {
		return fmt.Errorf("hold seats: %w", err)
	}
	if len(result) != 2 {
		return fmt.Errorf("hold seats: unexpected script result")
	}

	if ok, _ := result[0].(int64); ok == 0 {
		return fmt.Errorf("%w: %v", ErrSeatAlreadyHeld, result[1])
	}
	return nil
}

func (s *redisHoldStore) Release(ctx context.Context, showtimeID, userID uuid.UUID) (int, error) {
	released, err := releaseScript.Run(ctx, s.client,
		[]string{userHoldsKey(showtimeID, userID)},
		userID.String(), seatKeyPrefix(showtimeID)).Int()
	if err != nil {
		return 0, fmt.Errorf("release seats: %w", err)
	}
	return released, nil
}

func (s *redisHoldStore) Holders(ctx context.Context, showtimeID uuid.UUID, seatIDs []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	holders := make(map[uuid.UUID]uuid.UUID)
	if len(seatIDs) == 0 {
		return holders, nil
	}

	prefix := seatKeyPrefix(showtimeID)
	keys := make([]string, len(seatIDs))
	for i, seatID := range seatIDs {
		keys[i] = prefix + seatID.String()
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read seat holds: %w", err)
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		userID, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		holders[seatIDs[i]] = userID
	}
	return holders, nil
}

type noopHoldStore struct{}

// NewNoopHoldStore grants every hold and remembers nothing. Double booking
// is still prevented by the purchase transaction.
func NewNoopHoldStore() HoldStore {
	return noopHoldStore{}
}

func (noopHoldStore) Hold(context.Context, uuid.UUID, uuid.UUID, []uuid.UUID, time.Duration) error {
	return nil
}

func (noopHoldStore) Release(context.Context, uuid.UUID, uuid.UUID) (int, error) {
	return 0, nil
}

func (noopHoldStore) Holders(context.Context, uuid.UUID, []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	return map[uuid.UUID]uuid.UUID{}, nil
}
