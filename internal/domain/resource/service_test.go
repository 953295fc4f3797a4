package resource

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/casework/casework/internal/platform/events"
	"github.com/casework/casework/pkg/pagination"
)

func newTestService(t *testing.T) (*Service, *events.RecordingPublisher) {
	t.Helper()
	repo, err := NewMemoryRepo(fixture())
	require.NoError(t, err)
	pub := &events.RecordingPublisher{}
	return NewService(repo, NewMemoryFavorites(), pub, zerolog.Nop()), pub
}

func TestNewMemoryRepo_DuplicateID(t *testing.T) {
	_, err := NewMemoryRepo([]Resource{{ID: "a"}, {ID: "a"}})
	assert.Error(t, err)
}

func TestService_Search(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Search(ctx, Filters{Types: []ResourceType{TypeShelter}}, SortDistance, pagination.Params{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, []string{"r4"}, ids(res.Items))
	assert.Empty(t, res.Explanation)

	res, err = svc.Search(ctx, Filters{SearchQuery: "emergency"}, SortName, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, ExplainEmergency, res.Explanation)
	assert.Equal(t, []string{"r1"}, ids(res.Items))

	res, err = svc.Search(ctx, Filters{}, SortName, pagination.Params{Limit: 10, Offset: 50})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Total)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestService_Get(t *testing.T) {
	svc, _ := newTestService(t)
	r, err := svc.Get(context.Background(), "r3")
	require.NoError(t, err)
	assert.Equal(t, "Community Food Bank", r.Name)

	_, err = svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestService_Related(t *testing.T) {
	repo, err := NewMemoryRepo([]Resource{
		{ID: "s1", Type: TypeShelter}, {ID: "f1", Type: TypeFood}, {ID: "s2", Type: TypeShelter},
		{ID: "s3", Type: TypeShelter}, {ID: "s4", Type: TypeShelter}, {ID: "s5", Type: TypeShelter},
	})
	require.NoError(t, err)
	svc := NewService(repo, nil, nil, zerolog.Nop())

	related, err := svc.Related(context.Background(), "s2", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s3", "s4"}, ids(related))

	related, err = svc.Related(context.Background(), "f1", 0)
	require.NoError(t, err)
	assert.Empty(t, related)

	_, err = svc.Related(context.Background(), "nope", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_ToggleFavorite(t *testing.T) {
	svc, pub := newTestService(t)
	ctx := context.Background()

	fav, err := svc.ToggleFavorite(ctx, "u1", "r3")
	require.NoError(t, err)
	assert.True(t, fav)

	_, err = svc.ToggleFavorite(ctx, "u1", "r1")
	require.NoError(t, err)

	favs, err := svc.Favorites(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r3"}, ids(favs), "favorites follow directory order")

	fav, err = svc.ToggleFavorite(ctx, "u1", "r3")
	require.NoError(t, err)
	assert.False(t, fav)

	_, err = svc.ToggleFavorite(ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ToggleFavorite(ctx, "", "r1")
	assert.Error(t, err)

	require.Len(t, pub.Events(), 3)
	last := pub.Events()[2]
	assert.Equal(t, events.TopicFavoriteToggled, last.Topic)
	evt := last.Event.(events.FavoriteToggled)
	assert.Equal(t, "r3", evt.ResourceID)
	assert.False(t, evt.Favorite)
}

func TestService_ToggleFavorite_PublishFailureIsNotFatal(t *testing.T) {
	repo, err := NewMemoryRepo(fixture())
	require.NoError(t, err)
	svc := NewService(repo, nil, &events.RecordingPublisher{Err: errors.New("nats down")}, zerolog.Nop())

	fav, err := svc.ToggleFavorite(context.Background(), "u1", "r1")
	require.NoError(t, err)
	assert.True(t, fav)
}

func TestService_FavoritesEmpty(t *testing.T) {
	svc, _ := newTestService(t)
	favs, err := svc.Favorites(context.Background(), "u9")
	require.NoError(t, err)
	assert.NotNil(t, favs)
	assert.Empty(t, favs)
}

func TestService_Export(t *testing.T) {
	svc, _ := newTestService(t)
	var buf bytes.Buffer

	n, err := svc.Export(context.Background(), Filters{OpenNow: true}, SortName, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "r3", rows[1][0])
	assert.Equal(t, "Community Food Bank", rows[1][1])
	assert.Equal(t, "r1", rows[2][0])
	assert.Equal(t, "available", rows[2][4])
	assert.Equal(t, "Emergency, 24/7", rows[2][15])
	assert.Equal(t, []string{exportSheet}, f.GetSheetList())
}
