package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			fetches++
			dest.ID = 7
			dest.Text = "hello"
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, Aside(ctx, PostKey(7), &first, PostTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)

	var second cachedPost
	require.NoError(t, Aside(ctx, PostKey(7), &second, PostTTL, fetch(&second)))
	assert.Equal(t, 1, fetches, "second read should be served from cache")
	assert.Equal(t, first, second)
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	boom := errors.New("db down")
	var dest cachedPost
	err := Aside(ctx, PostKey(1), &dest, PostTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	fetched := false
	require.NoError(t, Aside(ctx, PostKey(1), &dest, PostTTL, func() error {
		fetched = true
		dest.ID = 1
		return nil
	}))
	assert.True(t, fetched, "failed fetch must not leave a cached entry behind")
}

func TestAside_NoClientPassThrough(t *testing.T) {
	SetClient(nil)

	var dest cachedPost
	err := Aside(context.Background(), PostKey(2), &dest, PostTTL, func() error {
		dest.ID = 2
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint(2), dest.ID)
}

func TestInvalidatePostsList(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	var page []cachedPost
	require.NoError(t, Aside(ctx, PostsListKey(20, 0), &page, PostsListTTL, func() error {
		page = []cachedPost{{ID: 1, Text: "a"}}
		return nil
	}))
	require.True(t, mr.Exists(PostsListKey(20, 0)))

	InvalidatePostsList(ctx)
	assert.False(t, mr.Exists(PostsListKey(20, 0)))
}
