package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jrodash2/Cotiza/internal/apierror"
	"github.com/jrodash2/Cotiza/internal/dto"
	"github.com/jrodash2/Cotiza/internal/model"
	"github.com/jrodash2/Cotiza/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// correlativoMax is the last number the 5-digit format can hold. Crossing it
// aborts the operation; the number is never wrapped or truncated.
const correlativoMax = 99999

var (
	ErrCotizacionNoEncontrada = errors.New("cotización no encontrada")
	ErrClienteNoEncontrado    = errors.New("el cliente no existe")
	ErrCorrelativoAgotado     = errors.New("correlativo agotado: el formato de 5 dígitos no admite más cotizaciones")
)

// CalcularLinea derives the three line totals from quantity and unit prices
// using exact decimal arithmetic rounded to 2 places:
//
//	totalVenta = cantidad × precioVenta
//	totalCosto = cantidad × precioCosto
//	ganancia   = totalVenta − totalCosto
func CalcularLinea(cantidad, precioVenta, precioCosto decimal.Decimal) (totalVenta, totalCosto, ganancia decimal.Decimal) {
	totalVenta = cantidad.Mul(precioVenta).Round(2)
	totalCosto = cantidad.Mul(precioCosto).Round(2)
	ganancia = totalVenta.Sub(totalCosto)
	return totalVenta, totalCosto, ganancia
}

type CotizacionService interface {
	Crear(ctx context.Context, req dto.GuardarCotizacionRequest, showCosts bool) (*dto.CotizacionResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarCotizacionRequest, showCosts bool) (*dto.CotizacionResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID, showCosts bool) (*dto.CotizacionResponse, error)
	Listar(ctx context.Context, filter dto.PageFilter, showCosts bool) (*dto.CotizacionListResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	// RecalcularTotales re-derives the three aggregates from the current
	// items. Idempotent: with no intervening item change it rewrites the
	// same values.
	RecalcularTotales(ctx context.Context, id uuid.UUID) error
}

type cotizacionService struct {
	repo         repository.CotizacionRepository
	clienteRepo  repository.ClienteRepository
	productoRepo repository.ProductoRepository
	correlativo  repository.CorrelativoRepository
}

func NewCotizacionService(
	repo repository.CotizacionRepository,
	clienteRepo repository.ClienteRepository,
	productoRepo repository.ProductoRepository,
	correlativo repository.CorrelativoRepository,
) CotizacionService {
	return &cotizacionService{
		repo:         repo,
		clienteRepo:  clienteRepo,
		productoRepo: productoRepo,
		correlativo:  correlativo,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Header validation ────────────────────────────────────────────────────────

type cabecera struct {
	clienteID     uuid.UUID
	titulo        string
	validezDias   int
	observaciones string
	garantiaTexto string
	estado        string
}

func (s *cotizacionService) validarCabecera(ctx context.Context, req dto.GuardarCotizacionRequest) (*cabecera, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, apierror.NewFieldError("cliente_id", "cliente_id inválido")
	}
	if _, err := s.clienteRepo.FindByID(ctx, clienteID); err != nil {
		return nil, ErrClienteNoEncontrado
	}

	validez := model.ValidezDiasDefault
	if req.ValidezDias != nil {
		if *req.ValidezDias < 1 {
			return nil, apierror.NewFieldError("validez_dias", "La validez debe ser mayor a 0.")
		}
		validez = *req.ValidezDias
	}

	garantia := model.GarantiaTextoDefault
	if req.GarantiaTexto != nil {
		garantia = *req.GarantiaTexto
	}

	estado := req.Estado
	if estado == "" {
		estado = model.EstadoBorrador
	}

	return &cabecera{
		clienteID:     clienteID,
		titulo:        req.Titulo,
		validezDias:   validez,
		observaciones: req.Observaciones,
		garantiaTexto: garantia,
		estado:        estado,
	}, nil
}

// ── Line item preparation ────────────────────────────────────────────────────

// prepararItem validates one item edit and resolves its snapshot values.
// Unit prices left empty are copied from the producto's CURRENT catalog
// prices; the empty descripcion defaults from the producto. Both are
// captured here, at save time, and never recomputed afterwards.
func (s *cotizacionService) prepararItem(ctx context.Context, req dto.ItemCotizacionRequest, existing *model.CotizacionItem) (*model.CotizacionItem, error) {
	var productoID uuid.UUID
	switch {
	case req.ProductoServicioID != "":
		pid, err := uuid.Parse(req.ProductoServicioID)
		if err != nil {
			return nil, apierror.NewFieldError("producto_servicio_id", "producto_servicio_id inválido")
		}
		productoID = pid
	case existing != nil:
		productoID = existing.ProductoServicioID
	default:
		return nil, apierror.NewFieldError("producto_servicio_id", "Seleccione un producto o servicio.")
	}

	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, fmt.Errorf("producto/servicio %s no encontrado", productoID)
	}

	if !req.Cantidad.IsPositive() {
		return nil, apierror.NewFieldError("cantidad", "La cantidad debe ser mayor a 0.")
	}

	precioVenta := producto.PrecioVenta
	if req.PrecioVentaUnitario != nil {
		if req.PrecioVentaUnitario.IsNegative() {
			return nil, apierror.NewFieldError("precio_venta_unitario", "El precio no puede ser negativo.")
		}
		precioVenta = *req.PrecioVentaUnitario
	}

	precioCosto := producto.PrecioCosto
	if req.PrecioCostoUnitario != nil {
		if req.PrecioCostoUnitario.IsNegative() {
			return nil, apierror.NewFieldError("precio_costo_unitario", "El precio de costo no puede ser negativo.")
		}
		precioCosto = *req.PrecioCostoUnitario
	}

	descripcion := req.DescripcionEditable
	if descripcion == "" {
		descripcion = producto.Descripcion
	}

	item := &model.CotizacionItem{
		ProductoServicioID:  productoID,
		DescripcionEditable: descripcion,
		Cantidad:            req.Cantidad,
		PrecioVentaUnitario: precioVenta,
		PrecioCostoUnitario: precioCosto,
	}
	if existing != nil {
		item.ID = existing.ID
		item.CotizacionID = existing.CotizacionID
		item.CreatedAt = existing.CreatedAt
	}
	item.TotalLineaVenta, item.TotalLineaCosto, item.GananciaLinea =
		CalcularLinea(item.Cantidad, item.PrecioVentaUnitario, item.PrecioCostoUnitario)
	return item, nil
}

// ── Crear ────────────────────────────────────────────────────────────────────

// Crear persists a new cotizacion as one atomic unit:
//  1. validate header and every surviving item (no write happens before
//     validation passes)
//  2. BEGIN TX: issue the correlativo under the counter's row lock, insert
//     header and items, recompute aggregates as the final write
//  3. COMMIT — a failure anywhere rolls everything back, counter included
func (s *cotizacionService) Crear(ctx context.Context, req dto.GuardarCotizacionRequest, showCosts bool) (*dto.CotizacionResponse, error) {
	cab, err := s.validarCabecera(ctx, req)
	if err != nil {
		return nil, err
	}

	var items []*model.CotizacionItem
	for _, itemReq := range req.Items {
		if itemReq.Eliminar {
			continue
		}
		item, err := s.prepararItem(ctx, itemReq, nil)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, apierror.NewFieldError("items", "La cotización debe tener al menos un ítem.")
	}

	var cotizacion model.Cotizacion
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		num, err := s.correlativo.NextTx(ctx, tx)
		if err != nil {
			return err
		}
		if num > correlativoMax {
			return ErrCorrelativoAgotado
		}

		cotizacion = model.Cotizacion{
			Correlativo:   fmt.Sprintf("%05d", num),
			FechaEmision:  time.Now(),
			ClienteID:     cab.clienteID,
			Titulo:        cab.titulo,
			ValidezDias:   cab.validezDias,
			Observaciones: cab.observaciones,
			GarantiaTexto: cab.garantiaTexto,
			Estado:        cab.estado,
		}
		if err := s.repo.CreateTx(ctx, tx, &cotizacion); err != nil {
			return err
		}

		for _, item := range items {
			item.CotizacionID = cotizacion.ID
			if err := s.repo.CreateItemTx(ctx, tx, item); err != nil {
				return err
			}
		}

		return s.recalcularTx(ctx, tx, cotizacion.ID)
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.ObtenerPorID(ctx, cotizacion.ID, showCosts)
}

// ── Actualizar ───────────────────────────────────────────────────────────────

// Actualizar applies a header edit plus an ordered collection of item edits
// (create / update / delete) as one transaction. The correlativo is never
// touched. Aggregate recomputation is the last write before commit, so any
// subsequent reader sees aggregates consistent with the surviving items.
func (s *cotizacionService) Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarCotizacionRequest, showCosts bool) (*dto.CotizacionResponse, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCotizacionNoEncontrada
	}

	cab, err := s.validarCabecera(ctx, req)
	if err != nil {
		return nil, err
	}

	existingItems := make(map[uuid.UUID]*model.CotizacionItem, len(existing.Items))
	for i := range existing.Items {
		existingItems[existing.Items[i].ID] = &existing.Items[i]
	}

	// Pre-flight: classify and validate every edit before any write.
	var creates, updates []*model.CotizacionItem
	deletes := make(map[uuid.UUID]bool)
	for _, itemReq := range req.Items {
		var itemID uuid.UUID
		if itemReq.ID != nil {
			parsed, err := uuid.Parse(*itemReq.ID)
			if err != nil {
				return nil, apierror.NewFieldError("items", "id de ítem inválido")
			}
			itemID = parsed
		}

		switch {
		case itemReq.Eliminar:
			if itemID == uuid.Nil {
				continue // delete of a never-persisted row is a no-op
			}
			if _, ok := existingItems[itemID]; !ok {
				return nil, apierror.NewFieldError("items", "el ítem a eliminar no pertenece a la cotización")
			}
			deletes[itemID] = true
		case itemID != uuid.Nil:
			prev, ok := existingItems[itemID]
			if !ok {
				return nil, apierror.NewFieldError("items", "el ítem no pertenece a la cotización")
			}
			item, err := s.prepararItem(ctx, itemReq, prev)
			if err != nil {
				return nil, err
			}
			updates = append(updates, item)
		default:
			item, err := s.prepararItem(ctx, itemReq, nil)
			if err != nil {
				return nil, err
			}
			creates = append(creates, item)
		}
	}

	survivors := len(creates)
	for itemID := range existingItems {
		if !deletes[itemID] {
			survivors++
		}
	}
	if survivors == 0 {
		return nil, apierror.NewFieldError("items", "La cotización debe tener al menos un ítem.")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		existing.FechaEmision = time.Now()
		existing.ClienteID = cab.clienteID
		existing.Titulo = cab.titulo
		existing.ValidezDias = cab.validezDias
		existing.Observaciones = cab.observaciones
		existing.GarantiaTexto = cab.garantiaTexto
		existing.Estado = cab.estado
		if err := s.repo.UpdateTx(ctx, tx, existing); err != nil {
			return err
		}

		for itemID := range deletes {
			if err := s.repo.DeleteItemTx(ctx, tx, id, itemID); err != nil {
				return err
			}
		}
		for _, item := range updates {
			if err := s.repo.UpdateItemTx(ctx, tx, item); err != nil {
				return err
			}
		}
		for _, item := range creates {
			item.CotizacionID = id
			if err := s.repo.CreateItemTx(ctx, tx, item); err != nil {
				return err
			}
		}

		return s.recalcularTx(ctx, tx, id)
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.ObtenerPorID(ctx, id, showCosts)
}

// ── Aggregates ───────────────────────────────────────────────────────────────

func (s *cotizacionService) recalcularTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	totales, err := s.repo.SumItemsTx(ctx, tx, id)
	if err != nil {
		return err
	}
	return s.repo.UpdateTotalesTx(ctx, tx, id, totales)
}

func (s *cotizacionService) RecalcularTotales(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrCotizacionNoEncontrada
	}
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.recalcularTx(ctx, tx, id)
	})
}

// ── Reads / delete ───────────────────────────────────────────────────────────

func (s *cotizacionService) ObtenerPorID(ctx context.Context, id uuid.UUID, showCosts bool) (*dto.CotizacionResponse, error) {
	cotizacion, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCotizacionNoEncontrada
	}
	return cotizacionToResponse(cotizacion, showCosts), nil
}

func (s *cotizacionService) Listar(ctx context.Context, filter dto.PageFilter, showCosts bool) (*dto.CotizacionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	cotizaciones, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CotizacionListItem, 0, len(cotizaciones))
	for i := range cotizaciones {
		items = append(items, *cotizacionToListItem(&cotizaciones[i], showCosts))
	}
	return &dto.CotizacionListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *cotizacionService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrCotizacionNoEncontrada
	}
	return s.repo.Delete(ctx, id)
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func cotizacionToResponse(c *model.Cotizacion, showCosts bool) *dto.CotizacionResponse {
	items := make([]dto.ItemCotizacionResponse, 0, len(c.Items))
	for i := range c.Items {
		items = append(items, *itemToResponse(&c.Items[i], showCosts))
	}

	clienteNombre := ""
	if c.Cliente != nil {
		clienteNombre = c.Cliente.Nombre
	}

	resp := &dto.CotizacionResponse{
		ID:            c.ID.String(),
		Correlativo:   c.Correlativo,
		FechaEmision:  c.FechaEmision.Format("2006-01-02"),
		ClienteID:     c.ClienteID.String(),
		ClienteNombre: clienteNombre,
		Titulo:        c.Titulo,
		ValidezDias:   c.ValidezDias,
		Observaciones: c.Observaciones,
		GarantiaTexto: c.GarantiaTexto,
		Estado:        c.Estado,
		SubtotalVenta: c.SubtotalVenta,
		Items:         items,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}
	if showCosts {
		subtotalCosto := c.SubtotalCosto
		ganancia := c.GananciaTotal
		resp.SubtotalCosto = &subtotalCosto
		resp.GananciaTotal = &ganancia
	}
	return resp
}

func itemToResponse(item *model.CotizacionItem, showCosts bool) *dto.ItemCotizacionResponse {
	nombre := ""
	if item.ProductoServicio != nil {
		nombre = item.ProductoServicio.Nombre
	}
	resp := &dto.ItemCotizacionResponse{
		ID:                  item.ID.String(),
		ProductoServicioID:  item.ProductoServicioID.String(),
		ProductoNombre:      nombre,
		DescripcionEditable: item.DescripcionEditable,
		Cantidad:            item.Cantidad,
		PrecioVentaUnitario: item.PrecioVentaUnitario,
		TotalLineaVenta:     item.TotalLineaVenta,
	}
	if showCosts {
		precioCosto := item.PrecioCostoUnitario
		totalCosto := item.TotalLineaCosto
		ganancia := item.GananciaLinea
		resp.PrecioCostoUnitario = &precioCosto
		resp.TotalLineaCosto = &totalCosto
		resp.GananciaLinea = &ganancia
	}
	return resp
}

func cotizacionToListItem(c *model.Cotizacion, showCosts bool) *dto.CotizacionListItem {
	clienteNombre := ""
	if c.Cliente != nil {
		clienteNombre = c.Cliente.Nombre
	}
	item := &dto.CotizacionListItem{
		ID:            c.ID.String(),
		Correlativo:   c.Correlativo,
		FechaEmision:  c.FechaEmision.Format("2006-01-02"),
		ClienteNombre: clienteNombre,
		Titulo:        c.Titulo,
		Estado:        c.Estado,
		SubtotalVenta: c.SubtotalVenta,
	}
	if showCosts {
		subtotalCosto := c.SubtotalCosto
		ganancia := c.GananciaTotal
		item.SubtotalCosto = &subtotalCosto
		item.GananciaTotal = &ganancia
	}
	return item
}
