package province

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resa/internal/geo/models"
	id "resa/pkg/domain"
	"resa/pkg/platform/sentinel"
)

func TestCreateAssignsSequentialIDs(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	a := &models.Province{Name: "Tehran"}
	b := &models.Province{Name: "Fars"}
	require.NoError(t, store.Create(ctx, a))
	require.NoError(t, store.Create(ctx, b))

	assert.Equal(t, id.ProvinceID(1), a.ID)
	assert.Equal(t, id.ProvinceID(2), b.ID)
}

func TestCreateDuplicateName(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &models.Province{Name: "Tehran"}))
	err := store.Create(ctx, &models.Province{Name: "Tehran"})
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
}

func TestUpdate(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	a := &models.Province{Name: "Tehran"}
	b := &models.Province{Name: "Fars"}
	require.NoError(t, store.Create(ctx, a))
	require.NoError(t, store.Create(ctx, b))

	t.Run("keeping own name is allowed", func(t *testing.T) {
		require.NoError(t, store.Update(ctx, &models.Province{ID: a.ID, Name: "Tehran"}))
	})

	t.Run("taking another name is rejected", func(t *testing.T) {
		err := store.Update(ctx, &models.Province{ID: a.ID, Name: "Fars"})
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
	})

	t.Run("rename frees the old name", func(t *testing.T) {
		require.NoError(t, store.Update(ctx, &models.Province{ID: a.ID, Name: "Alborz"}))
		_, err := store.FindByName(ctx, "Tehran")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		require.NoError(t, store.Create(ctx, &models.Province{Name: "Tehran"}))
	})

	t.Run("missing province", func(t *testing.T) {
		err := store.Update(ctx, &models.Province{ID: 99, Name: "Gilan"})
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}

func TestFindReturnsCopies(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	p := &models.Province{Name: "Tehran"}
	require.NoError(t, store.Create(ctx, p))

	found, err := store.FindByID(ctx, p.ID)
	require.NoError(t, err)
	found.Name = "mutated"

	again, err := store.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tehran", again.Name)
}

func TestListFiltersAndOrders(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	for _, name := range []string{"Khorasan Razavi", "Fars", "South Khorasan"} {
		require.NoError(t, store.Create(ctx, &models.Province{Name: name}))
	}

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "South Khorasan", all[0].Name)

	filtered, err := store.List(ctx, "khorasan")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	assert.Equal(t, id.ProvinceID(3), filtered[0].ID)
	assert.Equal(t, id.ProvinceID(1), filtered[1].ID)
}

func TestDelete(t *testing.T) {
	store := NewInMemory()
	ctx := context.Background()
	p := &models.Province{Name: "Tehran"}
	require.NoError(t, store.Create(ctx, p))

	require.NoError(t, store.Delete(ctx, p.ID))
	_, err := store.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, p.ID), sentinel.ErrNotFound)
}
