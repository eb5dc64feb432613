package service

import (
	"context"
	"errors"
	"time"

	"github.com/jrodash2/Cotiza/internal/apierror"
	"github.com/jrodash2/Cotiza/internal/dto"
	"github.com/jrodash2/Cotiza/internal/model"
	"github.com/jrodash2/Cotiza/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrProductoReferenciado = errors.New("el producto/servicio está referenciado por cotizaciones y no puede eliminarse")

// ProductoService defines the business logic contract for the catalog.
type ProductoService interface {
	Crear(ctx context.Context, req dto.GuardarProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.PageFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarProductoRequest) (*dto.ProductoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	ListarHistorial(ctx context.Context, id uuid.UUID) ([]dto.HistorialPrecioResponse, error)
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

func validarPrecios(req dto.GuardarProductoRequest) error {
	if req.PrecioCosto.IsNegative() {
		return apierror.NewFieldError("precio_costo", "El precio de costo no puede ser negativo.")
	}
	if req.PrecioVenta.IsNegative() {
		return apierror.NewFieldError("precio_venta", "El precio no puede ser negativo.")
	}
	return nil
}

func (s *productoService) Crear(ctx context.Context, req dto.GuardarProductoRequest) (*dto.ProductoResponse, error) {
	if err := validarPrecios(req); err != nil {
		return nil, err
	}
	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}
	producto := &model.ProductoServicio{
		Tipo:        req.Tipo,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Unidad:      req.Unidad,
		PrecioCosto: req.PrecioCosto,
		PrecioVenta: req.PrecioVenta,
		Activo:      activo,
	}
	if err := s.repo.Create(ctx, producto); err != nil {
		return nil, err
	}
	return productoToResponse(producto), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto/servicio no encontrado")
	}
	return productoToResponse(producto), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.PageFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Actualizar saves the new catalog values and, when either price changed,
// writes an immutable HistorialPrecio record. Already-saved cotizacion items
// keep their snapshotted prices untouched.
func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarProductoRequest) (*dto.ProductoResponse, error) {
	if err := validarPrecios(req); err != nil {
		return nil, err
	}
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto/servicio no encontrado")
	}

	costoAntes := producto.PrecioCosto
	ventaAntes := producto.PrecioVenta

	producto.Tipo = req.Tipo
	producto.Nombre = req.Nombre
	producto.Descripcion = req.Descripcion
	producto.Unidad = req.Unidad
	producto.PrecioCosto = req.PrecioCosto
	producto.PrecioVenta = req.PrecioVenta
	if req.Activo != nil {
		producto.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, err
	}

	if !costoAntes.Equal(producto.PrecioCosto) || !ventaAntes.Equal(producto.PrecioVenta) {
		historial := &model.HistorialPrecio{
			ProductoID:   producto.ID,
			CostoAntes:   costoAntes,
			CostoDespues: producto.PrecioCosto,
			VentaAntes:   ventaAntes,
			VentaDespues: producto.PrecioVenta,
			Motivo:       "actualizacion_manual",
		}
		if err := s.repo.CreateHistorial(ctx, historial); err != nil {
			return nil, err
		}
		s.invalidarCachePrecio(ctx, producto.ID)
	}

	return productoToResponse(producto), nil
}

// Eliminar enforces restrict-on-delete against existing cotizacion items.
func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("producto/servicio no encontrado")
	}
	n, err := s.repo.CountItems(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrProductoReferenciado
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidarCachePrecio(ctx, id)
	return nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

func (s *productoService) ListarHistorial(ctx context.Context, id uuid.UUID) ([]dto.HistorialPrecioResponse, error) {
	historial, err := s.repo.ListHistorial(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.HistorialPrecioResponse, 0, len(historial))
	for _, h := range historial {
		resp = append(resp, dto.HistorialPrecioResponse{
			ID:           h.ID.String(),
			ProductoID:   h.ProductoID.String(),
			CostoAntes:   h.CostoAntes,
			CostoDespues: h.CostoDespues,
			VentaAntes:   h.VentaAntes,
			VentaDespues: h.VentaDespues,
			Motivo:       h.Motivo,
			CreatedAt:    h.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// invalidarCachePrecio drops the cached price lookup entry — best effort.
func (s *productoService) invalidarCachePrecio(ctx context.Context, id uuid.UUID) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, "precio:"+id.String()).Err()
}

func productoToResponse(p *model.ProductoServicio) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:          p.ID.String(),
		Tipo:        p.Tipo,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Unidad:      p.Unidad,
		PrecioCosto: p.PrecioCosto,
		PrecioVenta: p.PrecioVenta,
		Activo:      p.Activo,
	}
}
