package interactions

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/social-feed/backend/internal/apperr"
	"github.com/emilythestrangee/social-feed/backend/internal/auth"
	"github.com/emilythestrangee/social-feed/backend/internal/database"
	"github.com/emilythestrangee/social-feed/backend/internal/database/databasetest"
	"github.com/emilythestrangee/social-feed/backend/internal/models"
	"github.com/emilythestrangee/social-feed/backend/internal/store"
)

var (
	u1 = auth.Principal{UserID: "u1", Email: "u1@example.com"}
	u2 = auth.Principal{UserID: "u2", Email: "u2@example.com"}
)

func setup(t *testing.T) (*database.Database, string) {
	t.Helper()
	db := databasetest.New(t)
	databasetest.SeedUser(t, db, "author")
	text := "hello"
	post := &models.Post{Text: &text, AuthorID: "author", CreatedAt: time.Now().UTC()}
	require.NoError(t, db.CreatePost(context.Background(), post))
	return db, post.ID
}

func TestLikeTwiceTogglesOff(t *testing.T) {
	ctx := context.Background()
	db, postID := setup(t)
	engine := NewEngine(db)

	res, err := engine.Toggle(ctx, u1, postID, models.Like)
	require.NoError(t, err)
	assert.Equal(t, Liked, res.State)
	assert.Equal(t, 1, res.Likes)

	res, err = engine.Toggle(ctx, u1, postID, models.Like)
	require.NoError(t, err)
	assert.Equal(t, None, res.State)
	assert.Empty(t, res.Interactions)
	assert.Zero(t, res.Likes)
	assert.Zero(t, res.Dislikes)
}

func TestDislikeThenLikeSwitches(t *testing.T) {
	ctx := context.Background()
	db, postID := setup(t)
	engine := NewEngine(db)

	_, err := engine.Toggle(ctx, u1, postID, models.Dislike)
	require.NoError(t, err)
	res, err := engine.Toggle(ctx, u1, postID, models.Like)
	require.NoError(t, err)

	require.Len(t, res.Interactions, 1)
	assert.Equal(t, "u1", res.Interactions[0].UserID)
	assert.Equal(t, models.Like, res.Interactions[0].Type)
}

func TestSwitchMovesOneReactionBetweenCounts(t *testing.T) {
	ctx := context.Background()
	db, postID := setup(t)
	engine := NewEngine(db)

	_, err := engine.Toggle(ctx, u2, postID, models.Like)
	require.NoError(t, err)
	before, err := engine.Toggle(ctx, u1, postID, models.Like)
	require.NoError(t, err)
	require.Equal(t, 2, before.Likes)
	require.Equal(t, 0, before.Dislikes)

	after, err := engine.Toggle(ctx, u1, postID, models.Dislike)
	require.NoError(t, err)
	assert.Equal(t, before.Likes-1, after.Likes)
	assert.Equal(t, before.Dislikes+1, after.Dislikes)
	assert.Equal(t, Disliked, after.State)
	assert.Len(t, after.Interactions, 2)
}

func TestToggleValidatesBeforeTouchingStore(t *testing.T) {
	ctx := context.Background()
	db, postID := setup(t)
	counting := &flakyStore{Store: db}

	_, err := NewEngine(counting).Toggle(ctx, u1, postID, models.ReactionKind(9))
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	assert.Zero(t, counting.attempts)
}

func TestToggleOnMissingPost(t *testing.T) {
	ctx := context.Background()
	db, _ := setup(t)
	counting := &flakyStore{Store: db}

	_, err := NewEngine(counting).Toggle(ctx, u1, "no-such-post", models.Like)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Equal(t, 1, counting.attempts, "NotFound is not retried")
}

func TestConflictIsRetriedOnce(t *testing.T) {
	ctx := context.Background()
	db, postID := setup(t)
	flaky := &flakyStore{Store: db, conflicts: 1}

	res, err := NewEngine(flaky).Toggle(ctx, u1, postID, models.Like)
	require.NoError(t, err)
	assert.Equal(t, 2, flaky.attempts)
	require.Len(t, res.Interactions, 1)
	assert.Equal(t, models.Like, res.Interactions[0].Type)
}

func TestConflictSurfacesAfterRetry(t *testing.T) {
	ctx := context.Background()
	db, postID := setup(t)
	flaky := &flakyStore{Store: db, conflicts: 5}

	_, err := NewEngine(flaky).Toggle(ctx, u1, postID, models.Like)
	assert.True(t, apperr.Is(err, apperr.Conflict))
	assert.Equal(t, 2, flaky.attempts)

	list, err := db.ListInteractions(ctx, postID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConcurrentTogglesKeepOneRowPerPair(t *testing.T) {
	ctx := context.Background()
	db, postID := setup(t)
	engine := NewEngine(db)

	const submissions = 25 // odd, so the pair ends LIKED
	var wg sync.WaitGroup
	errs := make(chan error, submissions)
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Toggle(ctx, u1, postID, models.Like)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := db.ListInteractions(ctx, postID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.Like, list[0].Type)
}

func TestConcurrentUsersEachGetOneRow(t *testing.T) {
	ctx := context.Background()
	db, postID := setup(t)
	engine := NewEngine(db)

	const users = 10
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := auth.Principal{UserID: fmt.Sprintf("user-%d", i), Email: fmt.Sprintf("user-%d@example.com", i)}
			kind := models.Like
			if i%2 == 1 {
				kind = models.Dislike
			}
			_, err := engine.Toggle(ctx, p, postID, kind)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	list, err := db.ListInteractions(ctx, postID)
	require.NoError(t, err)
	assert.Len(t, list, users)
	seen := map[string]bool{}
	for _, i := range list {
		assert.False(t, seen[i.UserID], "duplicate row for %s", i.UserID)
		seen[i.UserID] = true
	}
}

// flakyStore counts transactions and makes the first n interaction inserts
// fail as if a concurrent writer had won the unique index.
type flakyStore struct {
	store.Store
	mu        sync.Mutex
	conflicts int
	attempts  int
}

func (f *flakyStore) Tx(ctx context.Context, fn func(tx store.Store) error) error {
	f.mu.Lock()
	f.attempts++
	f.mu.Unlock()
	return f.Store.Tx(ctx, func(tx store.Store) error {
		return fn(&flakyTx{Store: tx, parent: f})
	})
}

type flakyTx struct {
	store.Store
	parent *flakyStore
}

func (t *flakyTx) CreateInteraction(ctx context.Context, interaction *models.Interaction) error {
	t.parent.mu.Lock()
	inject := t.parent.conflicts > 0
	if inject {
		t.parent.conflicts--
	}
	t.parent.mu.Unlock()
	if inject {
		return apperr.New(apperr.Conflict, "create interaction: duplicate key")
	}
	return t.Store.CreateInteraction(ctx, interaction)
}

func TestToggleByPrincipalWithTakenEmail(t *testing.T) {
	ctx := context.Background()
	db, postID := setup(t)
	counting := &flakyStore{Store: db}

	// "author@example.com" already belongs to the seeded author
	p := auth.Principal{UserID: "author-2", Email: "author@example.com"}
	res, err := NewEngine(counting).Toggle(ctx, p, postID, models.Like)
	require.NoError(t, err)
	assert.Equal(t, Liked, res.State)
	assert.Equal(t, 1, counting.attempts)

	_, err = NewEngine(db).Toggle(ctx, auth.Principal{UserID: "no-email"}, postID, models.Dislike)
	require.NoError(t, err)
}
