package service

import (
	"context"
	"errors"
	"testing"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	s := setupServices(t)

	t.Run("Derives slug from name", func(t *testing.T) {
		category, err := s.categories.CreateCategory(CategoryInput{Name: "  Dragon Ball  "})
		require.NoError(t, err)
		assert.Equal(t, "Dragon Ball", category.Name)
		assert.Equal(t, "dragon-ball", category.Slug)
	})

	t.Run("Keeps explicit slug", func(t *testing.T) {
		category, err := s.categories.CreateCategory(CategoryInput{Name: "One Piece", Slug: "op"})
		require.NoError(t, err)
		assert.Equal(t, "op", category.Slug)
	})

	tests := []struct {
		name    string
		input   CategoryInput
		wantErr error
	}{
		{"Empty name", CategoryInput{Name: "   "}, ErrNameRequired},
		{"Non canonical slug", CategoryInput{Name: "Naruto", Slug: "Naruto Shippuden"}, ErrInvalidSlug},
		{"Name without slug characters", CategoryInput{Name: "???"}, ErrEmptySlug},
		{"Duplicate slug", CategoryInput{Name: "Dragon Ball"}, ErrSlugConflict},
		{"Missing parent", CategoryInput{Name: "Orphan", ParentID: uintPtr(999)}, ErrCategoryNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.categories.CreateCategory(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("Error classes", func(t *testing.T) {
		_, err := s.categories.CreateCategory(CategoryInput{Name: "Dragon Ball"})
		assert.ErrorIs(t, err, ErrConflict)

		_, err = s.categories.CreateCategory(CategoryInput{Name: "Orphan", ParentID: uintPtr(999)})
		assert.ErrorIs(t, err, ErrValidation)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCategoryService_UpdateCategory_RejectsCycles(t *testing.T) {
	s := setupServices(t)

	root := s.category(t, "Anime", nil)
	mid := s.category(t, "Shonen", &root.ID)
	leaf := s.category(t, "Dragon Ball", &mid.ID)

	_, err := s.categories.UpdateCategory(root.ID, CategoryUpdate{ParentID: &leaf.ID})
	assert.ErrorIs(t, err, ErrCategoryCycle)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.categories.UpdateCategory(root.ID, CategoryUpdate{ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrCategoryCycle)

	// moving a leaf under another branch is fine
	other := s.category(t, "Seinen", &root.ID)
	updated, err := s.categories.UpdateCategory(leaf.ID, CategoryUpdate{ParentID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, *updated.ParentID)
}

func TestCategoryService_UpdateCategory_KeepsSlugUnlessGiven(t *testing.T) {
	s := setupServices(t)
	category := s.category(t, "Figures", nil)

	name := "Action Figures"
	updated, err := s.categories.UpdateCategory(category.ID, CategoryUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Action Figures", updated.Name)
	assert.Equal(t, "figures", updated.Slug)

	slug := "action-figures"
	updated, err = s.categories.UpdateCategory(category.ID, CategoryUpdate{Slug: &slug, ClearParent: true})
	require.NoError(t, err)
	assert.Equal(t, "action-figures", updated.Slug)
	assert.Nil(t, updated.ParentID)

	_, err = s.categories.UpdateCategory(404, CategoryUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_UpdateCategory_RefreshesCachedProducts(t *testing.T) {
	s := setupServices(t)
	manga := s.category(t, "Manga", nil)
	product := s.product(t, "Dragon Ball", manga.ID)

	// fill the cache
	_, err := s.products.GetProduct(product.ID)
	require.NoError(t, err)
	_, err = s.products.ListProducts(repository.ProductFilter{})
	require.NoError(t, err)
	require.True(t, s.cache.has(productCacheKey(product.ID)))

	name := "Comics"
	_, err = s.categories.UpdateCategory(manga.ID, CategoryUpdate{Name: &name})
	require.NoError(t, err)
	assert.False(t, s.cache.has(productCacheKey(product.ID)))

	found, err := s.products.GetProduct(product.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Category)
	assert.Equal(t, "Comics", found.Category.Name)

	page, err := s.products.ListProducts(repository.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	require.NotNil(t, page.Products[0].Category)
	assert.Equal(t, "Comics", page.Products[0].Category.Name)
}

func TestCategoryService_DeleteCategory(t *testing.T) {
	s := setupServices(t)

	parent := s.category(t, "Anime", nil)
	child := s.category(t, "Shonen", &parent.ID)
	withProducts := s.category(t, "Manga", nil)
	s.product(t, "Berserk Vol. 1", withProducts.ID)

	err := s.categories.DeleteCategory(withProducts.ID)
	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.ErrorIs(t, err, ErrReferenced)

	require.NoError(t, s.categories.DeleteCategory(parent.ID))

	orphan, err := s.categories.GetCategory(child.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.ParentID)

	_, err = s.categories.GetCategory(parent.ID)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, s.categories.DeleteCategory(parent.ID), ErrCategoryNotFound)
}

func TestCategoryService_GetTree(t *testing.T) {
	s := setupServices(t)

	anime := s.category(t, "Anime", nil)
	seinen := s.category(t, "Seinen", &anime.ID)
	s.category(t, "Berserk", &seinen.ID)
	s.category(t, "Shonen", &anime.ID)
	s.category(t, "Comics", nil)

	tree, err := s.categories.GetTree()
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Equal(t, "Anime", tree[0].Name)
	assert.Equal(t, "Comics", tree[1].Name)

	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Seinen", tree[0].Children[0].Name)
	assert.Equal(t, "Shonen", tree[0].Children[1].Name)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Berserk", tree[0].Children[0].Children[0].Name)
	assert.Empty(t, tree[1].Children)
}

func TestCategoryService_GetTree_UsesCache(t *testing.T) {
	s := setupServices(t)
	s.category(t, "Anime", nil)

	_, err := s.categories.GetTree()
	require.NoError(t, err)
	assert.True(t, s.cache.has(cacheKeyCategoryTree))

	// a write drops the cached tree
	s.category(t, "Comics", nil)
	assert.False(t, s.cache.has(cacheKeyCategoryTree))

	tree, err := s.categories.GetTree()
	require.NoError(t, err)
	assert.Len(t, tree, 2)

	// a poisoned entry proves reads come from the cache
	require.NoError(t, s.cache.Set(context.Background(), cacheKeyCategoryTree, []model.Category{{Name: "Cached"}}))
	tree, err = s.categories.GetTree()
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "Cached", tree[0].Name)

	require.NoError(t, s.categories.RefreshTreeCache())
	tree, err = s.categories.GetTree()
	require.NoError(t, err)
	assert.Len(t, tree, 2)
}

func TestCategoryService_GetSubtree(t *testing.T) {
	s := setupServices(t)

	anime := s.category(t, "Anime", nil)
	shonen := s.category(t, "Shonen", &anime.ID)
	seinen := s.category(t, "Seinen", &anime.ID)
	s.category(t, "Naruto", &shonen.ID)
	s.category(t, "Dragon Ball", &shonen.ID)
	s.category(t, "Berserk", &seinen.ID)
	s.category(t, "Comics", nil)

	nodes, err := s.categories.GetSubtree(anime.ID)
	require.NoError(t, err)

	var got []string
	var depths []int
	for _, node := range nodes {
		got = append(got, node.Name)
		depths = append(depths, node.Depth)
	}
	assert.Equal(t, []string{"Anime", "Seinen", "Berserk", "Shonen", "Dragon Ball", "Naruto"}, got)
	assert.Equal(t, []int{0, 1, 2, 1, 2, 2}, depths)

	leaf, err := s.categories.GetSubtree(seinen.ID)
	require.NoError(t, err)
	require.Len(t, leaf, 2)
	assert.Equal(t, 0, leaf[0].Depth)

	_, err = s.categories.GetSubtree(999)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func uintPtr(v uint) *uint {
	return &v
}
