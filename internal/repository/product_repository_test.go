package repository

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/Lixing-Zhang/beerstyle-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(v string) json.RawMessage { return json.RawMessage(v) }

func seedProducts() []models.Product {
	return []models.Product{
		models.NewProduct(1, map[string]json.RawMessage{"name": raw(`"A"`), "shortName": raw(`"a"`)}),
		models.NewProduct(7, map[string]json.RawMessage{"name": raw(`"Gueuze"`), "ibuMin": raw(`"11"`)}),
		models.NewProduct(3, map[string]json.RawMessage{"name": raw(`"Stout"`)}),
	}
}

func TestInMemoryProductRepository_GetAll(t *testing.T) {
	repo := NewInMemoryProductRepository(seedProducts())

	products, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, []int64{1, 7, 3}, []int64{products[0].ID, products[1].ID, products[2].ID})
	assert.Equal(t, 3, repo.Count(context.Background()))
}

func TestInMemoryProductRepository_GetByID(t *testing.T) {
	repo := NewInMemoryProductRepository(seedProducts())
	ctx := context.Background()

	t.Run("existing product", func(t *testing.T) {
		product, err := repo.GetByID(ctx, 7)
		require.NoError(t, err)
		assert.JSONEq(t, `"Gueuze"`, string(product.Fields["name"]))
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 42)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("returned record is a copy", func(t *testing.T) {
		product, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		product.Fields["name"] = raw(`"mutated"`)

		again, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.JSONEq(t, `"A"`, string(again.Fields["name"]))
	})
}

func TestInMemoryProductRepository_Create(t *testing.T) {
	repo := NewInMemoryProductRepository(seedProducts())
	ctx := context.Background()

	first, err := repo.Create(ctx, map[string]json.RawMessage{"name": raw(`"B"`), "id": raw(`1`)})
	require.NoError(t, err)
	assert.Equal(t, int64(8), first.ID, "id must be max+1 and ignore the submitted id")

	second, err := repo.Create(ctx, map[string]json.RawMessage{"name": raw(`"C"`)})
	require.NoError(t, err)
	assert.Equal(t, int64(9), second.ID)

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 5)
	assert.Equal(t, int64(9), products[4].ID)
}

func TestInMemoryProductRepository_CreateEmpty(t *testing.T) {
	repo := NewInMemoryProductRepository(nil)

	product, err := repo.Create(context.Background(), map[string]json.RawMessage{"name": raw(`"first"`)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.ID)
}

func TestInMemoryProductRepository_Update(t *testing.T) {
	repo := NewInMemoryProductRepository(seedProducts())
	ctx := context.Background()

	t.Run("partial update keeps other keys and position", func(t *testing.T) {
		updated, err := repo.Update(ctx, 7, map[string]json.RawMessage{
			"name":   raw(`"Gueuze Lambic"`),
			"ibuMax": raw(`"23"`),
			"id":     raw(`99`),
		})
		require.NoError(t, err)

		assert.Equal(t, int64(7), updated.ID)
		assert.JSONEq(t, `"Gueuze Lambic"`, string(updated.Fields["name"]))
		assert.JSONEq(t, `"11"`, string(updated.Fields["ibuMin"]))
		assert.JSONEq(t, `"23"`, string(updated.Fields["ibuMax"]))

		products, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(7), products[1].ID)
		assert.JSONEq(t, `"Gueuze Lambic"`, string(products[1].Fields["name"]))
	})

	t.Run("null overwrites the key", func(t *testing.T) {
		updated, err := repo.Update(ctx, 3, map[string]json.RawMessage{"name": raw(`null`)})
		require.NoError(t, err)
		assert.Equal(t, "null", string(updated.Fields["name"]))
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := repo.Update(ctx, 404, map[string]json.RawMessage{"name": raw(`"x"`)})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestInMemoryProductRepository_ConcurrentCreate(t *testing.T) {
	repo := NewInMemoryProductRepository(seedProducts())
	ctx := context.Background()

	const writers = 50
	ids := make(chan int64, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := repo.Create(ctx, map[string]json.RawMessage{"name": raw(`"x"`)})
			if err == nil {
				ids <- p.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, writers)
	assert.Equal(t, 3+writers, repo.Count(ctx))
}
