package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/library/books/dto"
	"ilmhub_backend/internals/features/library/books/model"
	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/helpers/audit"
	helperOSS "ilmhub_backend/internals/helpers/oss"
)

type BookController struct {
	DB       *gorm.DB
	Audit    audit.Logger
	Uploader helperOSS.ImageUploader
}

func NewBookController(db *gorm.DB, al audit.Logger, up helperOSS.ImageUploader) *BookController {
	return &BookController{DB: db, Audit: al, Uploader: up}
}

var bookSorts = map[string]string{
	"created_at": "book_created_at",
	"title":      "book_title",
	"price":      "book_price",
	"stock":      "book_stock",
}

func (bc *BookController) listQuery(c *fiber.Ctx, onlyActive bool) (*gorm.DB, error) {
	q := bc.DB.WithContext(c.UserContext()).Model(&model.BookModel{})
	if onlyActive {
		q = q.Where("book_is_active = ?", true)
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(book_title) LIKE ? OR LOWER(book_author) LIKE ? OR book_isbn = ?", like, like, s)
	}
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "category_id must be a uuid")
		}
		q = q.Where("book_category_id = ?", id)
	}
	if raw := strings.TrimSpace(c.Query("min_price")); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "min_price must be a number")
		}
		q = q.Where("book_price >= ?", v)
	}
	if raw := strings.TrimSpace(c.Query("max_price")); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "max_price must be a number")
		}
		q = q.Where("book_price <= ?", v)
	}
	if c.Query("in_stock") == "1" || c.Query("in_stock") == "true" {
		q = q.Where("book_stock > 0")
	}
	return q, nil
}

func (bc *BookController) list(c *fiber.Ctx, onlyActive bool, opt helper.Options) error {
	p := helper.ParseFiber(c, "created_at", "desc", opt)
	q, err := bc.listQuery(c, onlyActive)
	if err != nil {
		return err
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] count books: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count books")
	}
	var rows []model.BookModel
	if err := q.Order(p.OrderClause(bookSorts, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		log.Printf("[ERROR] list books: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch books")
	}
	return helper.JsonList(c, "ok", dto.ToBookResponseList(rows), helper.BuildPagination(total, p))
}

// GET /api/public/books
func (bc *BookController) ListPublic(c *fiber.Ctx) error {
	return bc.list(c, true, helper.DefaultOpts)
}

// GET /api/a/books
func (bc *BookController) ListAdmin(c *fiber.Ctx) error {
	return bc.list(c, false, helper.AdminOpts)
}

// GET /api/public/books/:key (uuid or slug)
func (bc *BookController) Detail(c *fiber.Ctx) error {
	key := strings.TrimSpace(c.Params("key"))
	q := bc.DB.WithContext(c.UserContext()).Where("book_is_active = ?", true)
	if id, err := uuid.Parse(key); err == nil {
		q = q.Where("book_id = ?", id)
	} else {
		q = q.Where("LOWER(book_slug) = ?", strings.ToLower(key))
	}

	var row model.BookModel
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
		}
		log.Printf("[ERROR] book detail %s: %v", key, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load book")
	}

	var stats struct {
		Avg   float64
		Count int64
	}
	if err := bc.DB.WithContext(c.UserContext()).
		Table("book_reviews").
		Select("COALESCE(AVG(review_rating), 0) AS avg, COUNT(*) AS count").
		Where("review_book_id = ? AND review_deleted_at IS NULL", row.BookID).
		Scan(&stats).Error; err != nil {
		log.Printf("[ERROR] book rating %s: %v", row.BookID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load book")
	}

	out := dto.ToBookResponse(row)
	avg := float64(int(stats.Avg*100+0.5)) / 100
	out.AverageRating = &avg
	out.ReviewCount = &stats.Count
	return helper.JsonOK(c, "ok", out)
}

func validatePrices(price decimal.Decimal, discount *decimal.Decimal) map[string][]string {
	errs := map[string][]string{}
	if !price.IsPositive() {
		errs["book_price"] = []string{"must be greater than 0"}
	}
	if discount != nil && discount.IsNegative() {
		errs["book_discount_price"] = []string{"must not be negative"}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// POST /api/a/books
func (bc *BookController) Create(c *fiber.Ctx) error {
	var req dto.CreateBookRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	if errs := validatePrices(req.BookPrice, req.BookDiscountPrice); errs != nil {
		return helper.JsonValidationError(c, errs)
	}

	ctx := c.UserContext()
	base := helper.Slugify(firstNonEmpty(req.BookSlug, req.BookTitle), 160)
	slug, err := helper.UniqueSlug(ctx, bc.DB, "books", "book_slug", base, 160)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
	}

	row := model.BookModel{
		BookTitle:         strings.TrimSpace(req.BookTitle),
		BookSlug:          slug,
		BookAuthor:        strings.TrimSpace(req.BookAuthor),
		BookPublisher:     req.BookPublisher,
		BookDescription:   req.BookDescription,
		BookISBN:          strings.TrimSpace(req.BookISBN),
		BookLanguage:      firstNonEmpty(req.BookLanguage, "bn"),
		BookPages:         req.BookPages,
		BookPrice:         req.BookPrice,
		BookDiscountPrice: req.BookDiscountPrice,
		BookStock:         req.BookStock,
		BookCoverURL:      req.BookCoverURL,
		BookCategoryID:    req.BookCategoryID,
		BookIsActive:      req.BookIsActive == nil || *req.BookIsActive,
	}
	if err := bc.DB.WithContext(ctx).Create(&row).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Book slug already exists")
		}
		log.Printf("[ERROR] create book: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create book")
	}

	audit.Record(ctx, bc.Audit, constants.AuditBook, "create", helper.GetUserID(c), fiber.Map{"book_id": row.BookID, "title": row.BookTitle})
	return helper.JsonCreated(c, "Book created", dto.ToBookResponse(row))
}

// PATCH /api/a/books/:id
func (bc *BookController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Book")
	if err != nil {
		return err
	}
	var req dto.UpdateBookRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}

	ctx := c.UserContext()
	var row model.BookModel
	if err := bc.DB.WithContext(ctx).First(&row, "book_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load book")
	}

	price := row.BookPrice
	if req.BookPrice != nil {
		price = *req.BookPrice
	}
	if errs := validatePrices(price, req.BookDiscountPrice); errs != nil {
		return helper.JsonValidationError(c, errs)
	}

	updates := map[string]any{}
	setStr := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	setStr("book_title", req.BookTitle)
	setStr("book_author", req.BookAuthor)
	setStr("book_publisher", req.BookPublisher)
	setStr("book_isbn", req.BookISBN)
	setStr("book_language", req.BookLanguage)
	setStr("book_cover_url", req.BookCoverURL)
	if req.BookDescription != nil {
		updates["book_description"] = *req.BookDescription
	}
	if req.BookPages != nil {
		updates["book_pages"] = *req.BookPages
	}
	if req.BookPrice != nil {
		updates["book_price"] = *req.BookPrice
	}
	if req.ClearDiscount {
		updates["book_discount_price"] = nil
	} else if req.BookDiscountPrice != nil {
		updates["book_discount_price"] = *req.BookDiscountPrice
	}
	if req.BookStock != nil {
		updates["book_stock"] = *req.BookStock
	}
	if req.BookCategoryID != nil {
		updates["book_category_id"] = *req.BookCategoryID
	}
	if req.BookIsActive != nil {
		updates["book_is_active"] = *req.BookIsActive
	}
	if req.BookSlug != nil {
		base := helper.Slugify(*req.BookSlug, 160)
		if !strings.EqualFold(base, row.BookSlug) {
			slug, err := helper.UniqueSlug(ctx, bc.DB, "books", "book_slug", base, 160)
			if err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to generate slug")
			}
			updates["book_slug"] = slug
		}
	}

	if len(updates) > 0 {
		if err := bc.DB.WithContext(ctx).Model(&model.BookModel{}).
			Where("book_id = ?", id).Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.JsonError(c, fiber.StatusConflict, "Book slug already exists")
			}
			log.Printf("[ERROR] update book %s: %v", id, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update book")
		}
	}
	if err := bc.DB.WithContext(ctx).First(&row, "book_id = ?", id).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to reload book")
	}

	audit.Record(ctx, bc.Audit, constants.AuditBook, "update", helper.GetUserID(c), fiber.Map{"book_id": id, "fields": keysOf(updates)})
	return helper.JsonUpdated(c, "Book updated", dto.ToBookResponse(row))
}

// DELETE /api/a/books/:id
func (bc *BookController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id", "Book")
	if err != nil {
		return err
	}
	res := bc.DB.WithContext(c.UserContext()).Delete(&model.BookModel{}, "book_id = ?", id)
	if res.Error != nil {
		log.Printf("[ERROR] delete book %s: %v", id, res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete book")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
	}
	audit.Record(c.UserContext(), bc.Audit, constants.AuditBook, "delete", helper.GetUserID(c), fiber.Map{"book_id": id})
	return helper.JsonDeleted(c, "Book deleted", fiber.Map{"book_id": id})
}

// POST /api/a/books/:id/cover (multipart "file")
func (bc *BookController) UploadCover(c *fiber.Ctx) error {
	if bc.Uploader == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Image storage not configured")
	}
	id, err := helper.ParseUUIDParam(c, "id", "Book")
	if err != nil {
		return err
	}
	ctx := c.UserContext()

	var row model.BookModel
	if err := bc.DB.WithContext(ctx).First(&row, "book_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load book")
	}

	fh, err := helperOSS.GetImageFile(c)
	if err != nil {
		return err
	}
	if fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}

	url, err := bc.Uploader.UploadAsWebP(ctx, fh, "books")
	if err != nil {
		return err
	}
	old := row.BookCoverURL
	if err := bc.DB.WithContext(ctx).Model(&row).Update("book_cover_url", url).Error; err != nil {
		log.Printf("[ERROR] save cover %s: %v", id, err)
		_ = bc.Uploader.DeleteByPublicURL(ctx, url)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save cover")
	}
	if old != "" {
		if err := bc.Uploader.DeleteByPublicURL(ctx, old); err != nil {
			log.Printf("[WARN] delete old cover %s: %v", old, err)
		}
	}
	row.BookCoverURL = url
	return helper.JsonUpdated(c, "Cover uploaded", dto.ToBookResponse(row))
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func keysOf(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
