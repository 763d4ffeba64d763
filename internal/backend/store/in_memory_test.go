package store

import (
	"context"
	"testing"

	perrors "github.com/abgdnv/produtos/internal/errors"
	"github.com/abgdnv/produtos/internal/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory_CRUD(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	list, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	a, err := s.Create(ctx, product.Draft{Name: "Mesa", Description: "Mesa de madeira", Price: "199.90"})
	require.NoError(t, err)
	b, err := s.Create(ctx, product.Draft{Name: "Cadeira", Description: "Cadeira de escritório", Price: "350"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)

	updated, err := s.Update(ctx, a.ID, product.Draft{Name: "Mesa", Description: "Mesa de madeira", Price: "149.90"})
	require.NoError(t, err)
	assert.Equal(t, "149.90", updated.Price)

	list, err = s.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []product.Product{updated, b}, list, "update keeps the position")

	require.NoError(t, s.DeleteByID(ctx, a.ID))
	_, err = s.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, perrors.ErrProductNotFound)

	c, err := s.Create(ctx, product.Draft{Name: "Sofá", Description: "Sofá retrátil", Price: "2500"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.ID, "ids are never reused")
}

func TestInMemory_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	testCases := []struct {
		name string
		call func() error
	}{
		{name: "find", call: func() error { _, err := s.FindByID(ctx, 9); return err }},
		{name: "update", call: func() error { _, err := s.Update(ctx, 9, product.Draft{}); return err }},
		{name: "delete", call: func() error { return s.DeleteByID(ctx, 9) }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.call(), perrors.ErrProductNotFound)
		})
	}
}

func TestInMemory_FindAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	_, err := s.Create(ctx, product.Draft{Name: "Mesa"})
	require.NoError(t, err)

	list, _ := s.FindAll(ctx)
	list[0].Name = "changed"

	found, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Mesa", found.Name)
}
