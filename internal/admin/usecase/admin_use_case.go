package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"fmt"
	"math/big"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ProductStore interface {
	Insert(ctx context.Context, tx *sql.Tx, p domain.Product) error
	Update(ctx context.Context, tx *sql.Tx, p domain.Product) error
	Delete(ctx context.Context, tx *sql.Tx, id string) error
	ReplaceCategories(ctx context.Context, tx *sql.Tx, productID string, categoryIDs []string) error
	DeleteImages(ctx context.Context, tx *sql.Tx, productID string) error
	DeleteVariants(ctx context.Context, tx *sql.Tx, productID string) error
	AddImage(ctx context.Context, tx *sql.Tx, img domain.ProductImage) error
	FindWithRelations(ctx context.Context, id string) (*domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
}

type OrderLister interface {
	ListWithItems(ctx context.Context) ([]domain.Order, error)
}

type ImageStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

type Validator interface {
	Struct(s interface{}) error
}

var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

type AdminUseCase struct {
	db        TransactionManager
	products  ProductStore
	orders    OrderLister
	images    ImageStore
	validator Validator
	creds     config.AdminConfig
	logger    *zap.Logger

	newID  func() string
	now    func() time.Time
	suffix func() string
}

func NewAdminUseCase(
	db TransactionManager,
	products ProductStore,
	orders OrderLister,
	images ImageStore,
	validator Validator,
	creds config.AdminConfig,
	logger *zap.Logger,
) *AdminUseCase {
	return &AdminUseCase{
		db:        db,
		products:  products,
		orders:    orders,
		images:    images,
		validator: validator,
		creds:     creds,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
		suffix:    randomSuffix,
	}
}

// Authorize checks the shared admin secret. An unset secret rejects every
// key.
func (uc *AdminUseCase) Authorize(key string) error {
	if uc.creds.SecretKey == "" || !equal(key, uc.creds.SecretKey) {
		return apperrors.NewUnauthorizedError("Unauthorized")
	}
	return nil
}

func (uc *AdminUseCase) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	userOK := equal(req.Username, uc.creds.Username)
	passOK := equal(req.Password, uc.creds.Password)
	if !userOK || !passOK {
		uc.logger.Warn("admin login rejected", zap.String("username", req.Username))
		return nil, apperrors.NewUnauthorizedError("Invalid username or password")
	}

	uc.logger.Info("admin logged in", zap.String("username", req.Username))
	return &dto.LoginResponse{
		Success: true,
		Token:   "admin-" + uc.newID(),
		Message: "Login successful",
	}, nil
}

// UploadImage decodes a base64 payload (optionally a data URL) and stores it
// under products/ with a unique name derived from fileName's extension.
func (uc *AdminUseCase) UploadImage(ctx context.Context, req dto.UploadImageRequest) (*dto.UploadImageResponse, error) {
	if err := uc.validator.Struct(req); err != nil {
		return nil, err
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(req.FileName), "."))
	if ext == "" {
		return nil, apperrors.NewValidationError("Validation failed",
			apperrors.ValidationDetail{Field: "fileName", Message: "must have a file extension"})
	}

	data, err := base64.StdEncoding.DecodeString(dataURLPrefix.ReplaceAllString(req.File, ""))
	if err != nil || len(data) == 0 {
		return nil, apperrors.NewValidationError("Validation failed",
			apperrors.ValidationDetail{Field: "file", Message: "must be base64 encoded image data"})
	}

	if uc.images == nil {
		return nil, apperrors.NewInternalError("image storage is not configured", nil)
	}

	objectPath := fmt.Sprintf("products/%d-%s.%s", uc.now().UnixMilli(), uc.suffix(), ext)
	url, err := uc.images.Upload(ctx, objectPath, data, "image/"+ext)
	if err != nil {
		uc.logger.Error("failed to upload image", zap.String("path", objectPath), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to upload image", err)
	}

	uc.logger.Info("image uploaded", zap.String("path", objectPath), zap.Int("bytes", len(data)))
	return &dto.UploadImageResponse{Success: true, URL: url, Path: objectPath}, nil
}

func (uc *AdminUseCase) CreateProduct(ctx context.Context, in dto.ProductInput) (*domain.Product, error) {
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	p := productFromInput(uc.newID(), in, true)

	err := uc.inTx(ctx, func(tx *sql.Tx) error {
		if err := uc.products.Insert(ctx, tx, p); err != nil {
			return err
		}
		return uc.products.ReplaceCategories(ctx, tx, p.ID, in.CategoryIDs)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product created", zap.String("productId", p.ID), zap.String("slug", p.Slug))
	return uc.products.FindWithRelations(ctx, p.ID)
}

// UpdateProduct overwrites the product's columns. Category links are only
// replaced when the input carries category_ids.
func (uc *AdminUseCase) UpdateProduct(ctx context.Context, id string, in dto.ProductInput) (*domain.Product, error) {
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	current, err := uc.products.FindWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}
	p := productFromInput(id, in, current.IsPublished)

	err = uc.inTx(ctx, func(tx *sql.Tx) error {
		if err := uc.products.Update(ctx, tx, p); err != nil {
			return err
		}
		if in.CategoryIDs == nil {
			return nil
		}
		return uc.products.ReplaceCategories(ctx, tx, id, in.CategoryIDs)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product updated", zap.String("productId", id))
	return uc.products.FindWithRelations(ctx, id)
}

// DeleteProduct removes the product after its category links, images and
// variants.
func (uc *AdminUseCase) DeleteProduct(ctx context.Context, id string) error {
	err := uc.inTx(ctx, func(tx *sql.Tx) error {
		if err := uc.products.ReplaceCategories(ctx, tx, id, nil); err != nil {
			return err
		}
		if err := uc.products.DeleteImages(ctx, tx, id); err != nil {
			return err
		}
		if err := uc.products.DeleteVariants(ctx, tx, id); err != nil {
			return err
		}
		return uc.products.Delete(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("product deleted", zap.String("productId", id))
	return nil
}

func (uc *AdminUseCase) AddProductImage(ctx context.Context, productID string, req dto.AddProductImageRequest) (*domain.ProductImage, error) {
	if err := uc.validator.Struct(req); err != nil {
		return nil, err
	}

	img := domain.ProductImage{
		ID:          uc.newID(),
		ProductID:   productID,
		StoragePath: req.ImageURL,
		IsPrimary:   req.IsPrimary,
		CreatedAt:   uc.now().UTC(),
	}

	err := uc.inTx(ctx, func(tx *sql.Tx) error {
		return uc.products.AddImage(ctx, tx, img)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product image added", zap.String("productId", productID), zap.Bool("primary", img.IsPrimary))
	return &img, nil
}

func (uc *AdminUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return uc.products.ListAll(ctx)
}

func (uc *AdminUseCase) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return uc.orders.ListWithItems(ctx)
}

func (uc *AdminUseCase) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := uc.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func productFromInput(id string, in dto.ProductInput, published bool) domain.Product {
	if in.IsPublished != nil {
		published = *in.IsPublished
	}

	p := domain.Product{
		ID:            id,
		Slug:          in.Slug,
		Name:          in.Name,
		Description:   in.Description,
		BasePrice:     decimal.NewFromFloat(in.BasePrice).Round(2),
		Brand:         in.Brand,
		SKU:           in.SKU,
		StockQuantity: in.StockQuantity,
		IsPublished:   published,
	}
	if in.CompareAtPrice != nil {
		cmp := decimal.NewFromFloat(*in.CompareAtPrice).Round(2)
		p.CompareAtPrice = &cmp
	}
	return p
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix() string {
	b := make([]byte, 9)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(suffixAlphabet))))
		if err != nil {
			return uuid.NewString()[:9]
		}
		b[i] = suffixAlphabet[n.Int64()]
	}
	return string(b)
}
