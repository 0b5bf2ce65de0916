package service

import (
	"errors"

	"github.com/geekcommerce/geek-commerce-backend/internal/app/model"
	"github.com/geekcommerce/geek-commerce-backend/internal/app/repository"
	apperrors "github.com/geekcommerce/geek-commerce-backend/internal/errors"
	"github.com/geekcommerce/geek-commerce-backend/pkg/logger"
)

type CategoryInput struct {
	Name     string
	Slug     string // optional, derived from Name when empty
	ParentID *uint
}

// CategoryUpdate holds the fields to change. Nil fields are left alone.
type CategoryUpdate struct {
	Name        *string
	Slug        *string
	ParentID    *uint
	ClearParent bool
}

type CategoryService interface {
	CreateCategory(input CategoryInput) (*model.Category, error)
	GetCategory(id uint) (*model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	ListCategories(filter repository.CategoryFilter) ([]model.Category, error)
	UpdateCategory(id uint, input CategoryUpdate) (*model.Category, error)
	DeleteCategory(id uint) error
	GetTree() ([]model.Category, error)
	GetSubtree(id uint) ([]model.CategoryNode, error)
	RefreshTreeCache() error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	cache        CatalogCache
}

func NewCategoryService(categoryRepo repository.CategoryRepository, cache ...CatalogCache) CategoryService {
	var c CatalogCache
	if len(cache) > 0 {
		c = cache[0]
	}
	return &categoryService{
		categoryRepo: categoryRepo,
		cache:        c,
	}
}

func (s *categoryService) CreateCategory(input CategoryInput) (*model.Category, error) {
	name, err := checkName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := checkSlug(input.Slug); err != nil {
		return nil, err
	}

	logger.Info("Creating category", map[string]interface{}{
		"name":      name,
		"parent_id": input.ParentID,
	})

	if input.ParentID != nil {
		if _, err := s.categoryRepo.FindByID(*input.ParentID); err != nil {
			if apperrors.IsNotFound(err) {
				return nil, invalidRef(ErrCategoryNotFound)
			}
			return nil, err
		}
	}

	category := &model.Category{
		Name:     name,
		Slug:     input.Slug,
		ParentID: input.ParentID,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		err = mapWriteError(err, ErrSlugConflict)
		logger.Warn("Failed to create category", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		return nil, err
	}

	invalidateCategories(s.cache)

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return category, nil
}

func (s *categoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrCategoryNotFound)
	}
	return category, nil
}

func (s *categoryService) GetCategoryBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		return nil, mapNotFound(err, ErrCategoryNotFound)
	}
	return category, nil
}

func (s *categoryService) ListCategories(filter repository.CategoryFilter) ([]model.Category, error) {
	return s.categoryRepo.FindAll(filter)
}

func (s *categoryService) UpdateCategory(id uint, input CategoryUpdate) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrCategoryNotFound)
	}

	if input.Name != nil {
		name, err := checkName(*input.Name)
		if err != nil {
			return nil, err
		}
		category.Name = name
	}
	if input.Slug != nil {
		if *input.Slug == "" {
			return nil, ErrEmptySlug
		}
		if err := checkSlug(*input.Slug); err != nil {
			return nil, err
		}
		category.Slug = *input.Slug
	}

	switch {
	case input.ClearParent:
		category.ParentID = nil
	case input.ParentID != nil:
		if err := s.checkParent(id, *input.ParentID); err != nil {
			return nil, err
		}
		parentID := *input.ParentID
		category.ParentID = &parentID
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, mapWriteError(err, ErrSlugConflict)
	}

	invalidateCategories(s.cache)
	// products embed their category
	invalidateProducts(s.cache)

	logger.Info("Category updated", map[string]interface{}{
		"category_id": category.ID,
		"parent_id":   category.ParentID,
	})
	return category, nil
}

// checkParent rejects a parent that does not exist or that would close a loop.
func (s *categoryService) checkParent(id, parentID uint) error {
	if parentID == id {
		return ErrCategoryCycle
	}

	all, err := s.categoryRepo.FindAll(repository.CategoryFilter{})
	if err != nil {
		return err
	}
	byID := make(map[uint]model.Category, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	if _, ok := byID[parentID]; !ok {
		return invalidRef(ErrCategoryNotFound)
	}

	visited := map[uint]bool{}
	for current := &parentID; current != nil; {
		if *current == id {
			logger.Warn("Rejected category cycle", map[string]interface{}{
				"category_id": id,
				"parent_id":   parentID,
			})
			return ErrCategoryCycle
		}
		if visited[*current] {
			break
		}
		visited[*current] = true
		next, ok := byID[*current]
		if !ok {
			break
		}
		current = next.ParentID
	}
	return nil
}

func (s *categoryService) DeleteCategory(id uint) error {
	logger.Info("Deleting category", map[string]interface{}{
		"category_id": id,
	})

	if err := s.categoryRepo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrStillReferenced) {
			logger.Warn("Category delete refused, products still reference it", map[string]interface{}{
				"category_id": id,
			})
			return ErrCategoryInUse
		}
		return mapNotFound(err, ErrCategoryNotFound)
	}

	invalidateCategories(s.cache)
	return nil
}

// GetTree returns root categories with their descendants nested under
// Children, siblings ordered by name.
func (s *categoryService) GetTree() ([]model.Category, error) {
	var tree []model.Category
	if cacheGet(s.cache, cacheKeyCategoryTree, &tree) {
		logger.Debug("Category tree served from cache", nil)
		return tree, nil
	}

	tree, err := s.buildTree()
	if err != nil {
		return nil, err
	}
	cacheSet(s.cache, cacheKeyCategoryTree, tree)
	return tree, nil
}

func (s *categoryService) buildTree() ([]model.Category, error) {
	all, err := s.categoryRepo.FindAll(repository.CategoryFilter{})
	if err != nil {
		return nil, err
	}

	known := make(map[uint]bool, len(all))
	for _, c := range all {
		known[c.ID] = true
	}
	children := make(map[uint][]model.Category)
	var roots []model.Category
	for _, c := range all {
		if c.ParentID == nil || !known[*c.ParentID] {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	visited := make(map[uint]bool, len(all))
	var attach func(c model.Category) model.Category
	attach = func(c model.Category) model.Category {
		visited[c.ID] = true
		for _, child := range children[c.ID] {
			if visited[child.ID] {
				continue
			}
			c.Children = append(c.Children, attach(child))
		}
		return c
	}

	tree := make([]model.Category, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, attach(root))
	}
	return tree, nil
}

// GetSubtree walks the category and its descendants depth first, parents
// before children and siblings by name. The starting category has depth 0.
func (s *categoryService) GetSubtree(id uint) ([]model.CategoryNode, error) {
	root, err := s.categoryRepo.FindByID(id)
	if err != nil {
		return nil, mapNotFound(err, ErrCategoryNotFound)
	}

	all, err := s.categoryRepo.FindAll(repository.CategoryFilter{})
	if err != nil {
		return nil, err
	}
	children := make(map[uint][]model.Category)
	for _, c := range all {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var nodes []model.CategoryNode
	visited := map[uint]bool{}
	var walk func(c model.Category, depth int)
	walk = func(c model.Category, depth int) {
		if visited[c.ID] {
			return
		}
		visited[c.ID] = true
		nodes = append(nodes, model.CategoryNode{Category: c, Depth: depth})
		for _, child := range children[c.ID] {
			walk(child, depth+1)
		}
	}
	walk(*root, 0)

	return nodes, nil
}

// RefreshTreeCache rebuilds the cached category tree.
func (s *categoryService) RefreshTreeCache() error {
	if s.cache == nil {
		return nil
	}
	tree, err := s.buildTree()
	if err != nil {
		return err
	}
	cacheSet(s.cache, cacheKeyCategoryTree, tree)

	logger.Debug("Category tree cache refreshed", map[string]interface{}{
		"roots": len(tree),
	})
	return nil
}
