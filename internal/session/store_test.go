package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingintake/internal/domain"
)

func storesUnderTest(t *testing.T) map[string]Store {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	return map[string]Store{
		"redis":  NewRedisStore(rdb, time.Hour),
		"memory": NewMemoryStore(time.Hour),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			sess := New(domain.TypeConsultation, "Europe/Berlin")
			sess.State.ClientName = "Jane Doe"
			sess.State.SetConsultationType(domain.ConsultStrategy)
			require.NoError(t, store.Create(ctx, sess))

			got, err := store.Get(ctx, sess.ID)
			require.NoError(t, err)
			assert.Equal(t, sess.ID, got.ID)
			assert.Equal(t, domain.StepContact, got.Step)
			assert.Equal(t, "Jane Doe", got.State.ClientName)
			assert.Equal(t, 45, got.State.Duration)
			require.NotNil(t, got.State.Consultation)
			assert.Nil(t, got.State.Audit, "union stays exclusive through the round-trip")

			got.Step = got.Step.Next()
			require.NoError(t, store.Save(ctx, got))

			again, err := store.Get(ctx, sess.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.StepScheduling, again.Step)
		})
	}
}

func TestStore_DeleteAndMissing(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Get(ctx, "nope")
			assert.ErrorIs(t, err, ErrNotFound)

			sess := New(domain.TypeRevenueAudit, "UTC")
			require.NoError(t, store.Create(ctx, sess))
			require.NoError(t, store.Delete(ctx, sess.ID))

			_, err = store.Get(ctx, sess.ID)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestRedisStore_SessionsExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(rdb, time.Minute)
	ctx := context.Background()

	sess := New(domain.TypeRevenueAudit, "UTC")
	require.NoError(t, store.Create(ctx, sess))

	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNew_AppliesDefaults(t *testing.T) {
	sess := New(domain.TypeRevenueAudit, "UTC")
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, domain.StepContact, sess.Step)
	assert.Equal(t, 60, sess.State.Duration)
	assert.Equal(t, domain.MeetingVideoCall, sess.State.MeetingType)
	assert.Equal(t, domain.AvailabilityIdle, sess.Availability.Status)
	assert.NotNil(t, sess.State.Audit)
}
