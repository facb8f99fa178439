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

// TagFlow defines the admin-facing tag operations plus the normalizer that
// turns free-text tag input into canonical tag records.
type TagFlow interface {
	ListTags(ctx context.Context, page, perPage int) (*dto.ListTagsResponse, error)
	CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagDTO, error)
	UpdateTag(ctx context.Context, tagID uint, req *dto.UpdateTagRequest) (*dto.TagDTO, error)
	DeleteTag(ctx context.Context, tagID uint) error

	// ResolveTagList parses comma-separated tag input, reusing existing tags
	// by case-insensitive title match and creating missing ones on the spot.
	ResolveTagList(ctx context.Context, raw string) ([]models.Tag, error)
}

// TagFlowImpl implements TagFlow
type TagFlowImpl struct {
	tagRepo repository.TagRepository
	db      *gorm.DB
}

// NewTagFlow creates a new tag flow instance
func NewTagFlow(tagRepo repository.TagRepository, db *gorm.DB) TagFlow {
	return &TagFlowImpl{tagRepo: tagRepo, db: db}
}

// FormatTagList renders a tag collection as a single input value: titles
// joined with ", ", in the collection's order. An empty set renders as "".
func FormatTagList(tags []models.Tag) string {
	if len(tags) == 0 {
		return ""
	}
	titles := make([]string, 0, len(tags))
	for _, tag := range tags {
		titles = append(titles, tag.Title)
	}
	return strings.Join(titles, ", ")
}

// ResolveTagList is the inverse of FormatTagList. The input is split on
// commas; each segment is trimmed and empty segments are dropped. Existing
// tags are matched case-insensitively; unknown titles become new tags stored
// with the trimmed original casing and persisted immediately, even if the
// surrounding submission later fails for other reasons. Order and duplicates
// of the input are preserved.
func (f *TagFlowImpl) ResolveTagList(ctx context.Context, raw string) ([]models.Tag, error) {
	segments := strings.Split(raw, ",")
	tags := []models.Tag{}

	for _, segment := range segments {
		title := strings.TrimSpace(segment)
		if title == "" {
			continue
		}

		existing, err := f.tagRepo.ByTitleFold(ctx, strings.ToLower(title))
		if err != nil {
			return nil, err
		}
		if existing != nil {
			tags = append(tags, *existing)
			continue
		}

		tag := models.Tag{
			Title: title,
			Slug:  utils.Slugify(title),
		}
		if err := f.tagRepo.Save(ctx, &tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// ListTags returns one page of the tag taxonomy
func (f *TagFlowImpl) ListTags(ctx context.Context, page, perPage int) (*dto.ListTagsResponse, error) {
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "Invalid page", ErrInvalidPage)
	}
	if perPage < 1 || perPage > utils.MaxPageSize {
		return nil, NewBusinessError("INVALID_PAGE_SIZE", "Invalid page size", ErrInvalidPageSize)
	}

	filter := models.TagFilter{}
	total, err := f.tagRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows, err := f.tagRepo.ByFilter(ctx, filter, "id ASC", perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TagDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToTagDTO(*row))
	}

	return &dto.ListTagsResponse{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages(total, perPage),
	}, nil
}

// CreateTag creates a tag from the admin taxonomy screen
func (f *TagFlowImpl) CreateTag(ctx context.Context, req *dto.CreateTagRequest) (*dto.TagDTO, error) {
	title := strings.TrimSpace(req.Title)

	existing, err := f.tagRepo.ByTitleFold(ctx, strings.ToLower(title))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTagTitleTaken
	}

	tag := models.Tag{
		Title: title,
		Slug:  utils.Slugify(title),
	}
	if err := f.tagRepo.Save(ctx, &tag); err != nil {
		return nil, err
	}

	d := ToTagDTO(tag)
	return &d, nil
}

// UpdateTag renames a tag; the slug follows the title
func (f *TagFlowImpl) UpdateTag(ctx context.Context, tagID uint, req *dto.UpdateTagRequest) (*dto.TagDTO, error) {
	tag, err := f.tagRepo.ByID(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}

	title := strings.TrimSpace(req.Title)
	other, err := f.tagRepo.ByTitleFold(ctx, strings.ToLower(title))
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != tag.ID {
		return nil, ErrTagTitleTaken
	}

	tag.Title = title
	tag.Slug = utils.Slugify(title)
	tag.UpdatedAt = utils.UTCNow()
	if err := f.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}

	d := ToTagDTO(*tag)
	return &d, nil
}

// DeleteTag removes a tag from the taxonomy along with its associations
func (f *TagFlowImpl) DeleteTag(ctx context.Context, tagID uint) error {
	tag, err := f.tagRepo.ByID(ctx, tagID)
	if err != nil {
		return err
	}
	if tag == nil {
		return ErrTagNotFound
	}

	return repository.WithTransaction(ctx, f.db, func(ctx context.Context) error {
		return f.tagRepo.Delete(ctx, tag.ID)
	})
}
