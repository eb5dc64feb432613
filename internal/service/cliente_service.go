package service

import (
	"context"
	"errors"

	"github.com/jrodash2/Cotiza/internal/dto"
	"github.com/jrodash2/Cotiza/internal/model"
	"github.com/jrodash2/Cotiza/internal/repository"

	"github.com/google/uuid"
)

var ErrClienteConCotizaciones = errors.New("el cliente tiene cotizaciones asociadas y no puede eliminarse")

type ClienteService interface {
	Crear(ctx context.Context, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.PageFilter) (*dto.ClienteListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error) {
	cliente := &model.Cliente{
		Nombre:       req.Nombre,
		Contacto:     req.Contacto,
		Telefono:     req.Telefono,
		Email:        req.Email,
		Direccion:    req.Direccion,
		NIT:          req.NIT,
		Municipio:    req.Municipio,
		Departamento: req.Departamento,
		Notas:        req.Notas,
	}
	if err := s.repo.Create(ctx, cliente); err != nil {
		return nil, err
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.PageFilter) (*dto.ClienteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		data = append(data, *clienteToResponse(&clientes[i]))
	}
	return &dto.ClienteListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.GuardarClienteRequest) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	cliente.Nombre = req.Nombre
	cliente.Contacto = req.Contacto
	cliente.Telefono = req.Telefono
	cliente.Email = req.Email
	cliente.Direccion = req.Direccion
	cliente.NIT = req.NIT
	cliente.Municipio = req.Municipio
	cliente.Departamento = req.Departamento
	cliente.Notas = req.Notas
	if err := s.repo.Update(ctx, cliente); err != nil {
		return nil, err
	}
	return clienteToResponse(cliente), nil
}

// Eliminar enforces restrict-on-delete: a cliente referenced by any
// cotizacion is never removed and no state changes.
func (s *clienteService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("cliente no encontrado")
	}
	n, err := s.repo.CountCotizaciones(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrClienteConCotizaciones
	}
	return s.repo.Delete(ctx, id)
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:           c.ID.String(),
		Nombre:       c.Nombre,
		Contacto:     c.Contacto,
		Telefono:     c.Telefono,
		Email:        c.Email,
		Direccion:    c.Direccion,
		NIT:          c.NIT,
		Municipio:    c.Municipio,
		Departamento: c.Departamento,
		Notas:        c.Notas,
	}
}
