package repository

import (
	"context"

	"github.com/jrodash2/Cotiza/internal/dto"
	"github.com/jrodash2/Cotiza/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for the catalog.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.ProductoServicio) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoServicio, error)
	List(ctx context.Context, filter dto.PageFilter) ([]model.ProductoServicio, int64, error)
	Update(ctx context.Context, p *model.ProductoServicio) error
	Delete(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	// CountItems supports the restrict-on-delete rule: a producto referenced
	// by any cotizacion item cannot be removed.
	CountItems(ctx context.Context, id uuid.UUID) (int64, error)

	CreateHistorial(ctx context.Context, h *model.HistorialPrecio) error
	ListHistorial(ctx context.Context, productoID uuid.UUID) ([]model.HistorialPrecio, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.ProductoServicio) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductoServicio, error) {
	var p model.ProductoServicio
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, filter dto.PageFilter) ([]model.ProductoServicio, int64, error) {
	var productos []model.ProductoServicio
	var total int64

	q := r.db.WithContext(ctx).Model(&model.ProductoServicio{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Offset(offset).Limit(filter.Limit).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.ProductoServicio) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProductoServicio{}, "id = ?", id).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ProductoServicio{}).
		Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) Reactivar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ProductoServicio{}).
		Where("id = ?", id).Update("activo", true).Error
}

func (r *productoRepo) CountItems(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CotizacionItem{}).
		Where("producto_servicio_id = ?", id).Count(&n).Error
	return n, err
}

func (r *productoRepo) CreateHistorial(ctx context.Context, h *model.HistorialPrecio) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *productoRepo) ListHistorial(ctx context.Context, productoID uuid.UUID) ([]model.HistorialPrecio, error) {
	var historial []model.HistorialPrecio
	err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at DESC").
		Find(&historial).Error
	return historial, err
}
