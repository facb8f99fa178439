package businessflow

import (
	"context"
	"strings"

	"github.com/mnemosyne-app/mnemosyne/app/dto"
	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/mnemosyne-app/mnemosyne/repository"
	"github.com/mnemosyne-app/mnemosyne/utils"
	"gorm.io/gorm"
)

// CategoryFlow defines the admin-facing category operations, including the
// referential-safety check that gates deletion.
type CategoryFlow interface {
	ListCategories(ctx context.Context, page, perPage int) (*dto.ListCategoriesResponse, error)
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryDTO, error)
	UpdateCategory(ctx context.Context, categoryID uint, req *dto.UpdateCategoryRequest) (*dto.CategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID uint) error
	CanBeDeleted(ctx context.Context, category *models.Category) bool
}

// CategoryFlowImpl implements CategoryFlow
type CategoryFlowImpl struct {
	categoryRepo repository.CategoryRepository
	eventRepo    repository.EventRepository
	db           *gorm.DB
}

// NewCategoryFlow creates a new category flow instance
func NewCategoryFlow(categoryRepo repository.CategoryRepository, eventRepo repository.EventRepository, db *gorm.DB) CategoryFlow {
	return &CategoryFlowImpl{categoryRepo: categoryRepo, eventRepo: eventRepo, db: db}
}

// CanBeDeleted reports whether the category is safe to delete: true only
// when no event of any user references it. A failing count is treated as
// "not deletable" rather than an error, keeping the guard fail-closed.
func (f *CategoryFlowImpl) CanBeDeleted(ctx context.Context, category *models.Category) bool {
	count, err := f.eventRepo.Count(ctx, models.EventFilter{CategoryID: &category.ID})
	if err != nil {
		return false
	}
	return count == 0
}

// ListCategories returns one page of the taxonomy
func (f *CategoryFlowImpl) ListCategories(ctx context.Context, page, perPage int) (*dto.ListCategoriesResponse, error) {
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "Invalid page", ErrInvalidPage)
	}
	if perPage < 1 || perPage > utils.MaxPageSize {
		return nil, NewBusinessError("INVALID_PAGE_SIZE", "Invalid page size", ErrInvalidPageSize)
	}

	filter := models.CategoryFilter{}
	total, err := f.categoryRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows, err := f.categoryRepo.ByFilter(ctx, filter, "id ASC", perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CategoryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToCategoryDTO(*row))
	}

	return &dto.ListCategoriesResponse{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages(total, perPage),
	}, nil
}

// CreateCategory creates a taxonomy entry
func (f *CategoryFlowImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryDTO, error) {
	title := strings.TrimSpace(req.Title)

	existing, err := f.categoryRepo.ByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryTitleTaken
	}

	category := models.Category{
		Title: title,
		Slug:  utils.Slugify(title),
	}
	if err := f.categoryRepo.Save(ctx, &category); err != nil {
		return nil, err
	}

	d := ToCategoryDTO(category)
	return &d, nil
}

// UpdateCategory renames a taxonomy entry; the slug follows the title
func (f *CategoryFlowImpl) UpdateCategory(ctx context.Context, categoryID uint, req *dto.UpdateCategoryRequest) (*dto.CategoryDTO, error) {
	category, err := f.categoryRepo.ByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	title := strings.TrimSpace(req.Title)
	other, err := f.categoryRepo.ByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != category.ID {
		return nil, ErrCategoryTitleTaken
	}

	category.Title = title
	category.Slug = utils.Slugify(title)
	category.UpdatedAt = utils.UTCNow()
	if err := f.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	d := ToCategoryDTO(*category)
	return &d, nil
}

// DeleteCategory removes a taxonomy entry after consulting the deletion
// guard; a category still referenced by events is refused.
func (f *CategoryFlowImpl) DeleteCategory(ctx context.Context, categoryID uint) error {
	category, err := f.categoryRepo.ByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	if !f.CanBeDeleted(ctx, category) {
		return ErrCategoryInUse
	}

	return repository.WithTransaction(ctx, f.db, func(ctx context.Context) error {
		return f.categoryRepo.Delete(ctx, category.ID)
	})
}
