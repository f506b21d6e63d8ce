package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"styledecor-server/errs"
	"styledecor-server/models"
)

// CatalogService is the plain read/write layer over service listings.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Service, error) {
	var listings []models.Service
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch services", err)
	}
	return listings, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Service, error) {
	var listing models.Service
	if err := s.db.WithContext(ctx).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.New(errs.KindNotFound, "service not found")
		}
		return nil, errs.Wrap(errs.KindInternal, "failed to fetch service", err)
	}
	return &listing, nil
}

func (s *CatalogService) Create(ctx context.Context, req models.ServiceUpsert) (*models.Service, error) {
	listing := models.Service{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Mode:        req.Mode,
		Unit:        req.Unit,
		PriceBDT:    req.PriceBDT,
	}
	if err := s.db.WithContext(ctx).Create(&listing).Error; err != nil {
		return nil, errs.Wrap(errs.KindInternal, "failed to create service", err)
	}
	return &listing, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, req models.ServiceUpsert) error {
	result := s.db.WithContext(ctx).Model(&models.Service{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":        req.Name,
			"description": req.Description,
			"image":       req.Image,
			"mode":        req.Mode,
			"unit":        req.Unit,
			"price_bdt":   req.PriceBDT,
		})
	if result.Error != nil {
		return errs.Wrap(errs.KindInternal, "failed to update service", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.New(errs.KindNotFound, "service not found")
	}
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Service{}, id)
	if result.Error != nil {
		return errs.Wrap(errs.KindInternal, "failed to delete service", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.New(errs.KindNotFound, "service not found")
	}
	return nil
}
