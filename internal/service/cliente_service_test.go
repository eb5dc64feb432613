package service

import (
	"context"
	"testing"

	"github.com/jrodash2/Cotiza/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClienteCrearYObtener(t *testing.T) {
	repo := newStubClienteRepo()
	svc := NewClienteService(repo)

	creado, err := svc.Crear(context.Background(), dto.GuardarClienteRequest{
		Nombre:       "Hotel Plaza",
		Contacto:     "María López",
		Telefono:     "5555-1234",
		Email:        "compras@hotelplaza.gt",
		NIT:          "1234567-8",
		Municipio:    "Guatemala",
		Departamento: "Guatemala",
	})
	require.NoError(t, err)
	require.NotEmpty(t, creado.ID)

	actual, err := svc.ObtenerPorID(context.Background(), uuid.MustParse(creado.ID))
	require.NoError(t, err)
	assert.Equal(t, "Hotel Plaza", actual.Nombre)
	assert.Equal(t, "1234567-8", actual.NIT)
}

func TestClienteActualizar(t *testing.T) {
	repo := newStubClienteRepo()
	svc := NewClienteService(repo)

	creado, err := svc.Crear(context.Background(), dto.GuardarClienteRequest{Nombre: "Original"})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	actualizado, err := svc.Actualizar(context.Background(), id, dto.GuardarClienteRequest{
		Nombre:   "Renombrado",
		Telefono: "5555-9999",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renombrado", actualizado.Nombre)
	assert.Equal(t, "5555-9999", actualizado.Telefono)
}

func TestClienteEliminar_RestringidoConCotizaciones(t *testing.T) {
	repo := newStubClienteRepo()
	svc := NewClienteService(repo)

	creado, err := svc.Crear(context.Background(), dto.GuardarClienteRequest{Nombre: "Con historia"})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)
	repo.cotizaciones[id] = 3

	err = svc.Eliminar(context.Background(), id)
	require.ErrorIs(t, err, ErrClienteConCotizaciones)

	// Sigue existiendo.
	_, err = svc.ObtenerPorID(context.Background(), id)
	require.NoError(t, err)
}

func TestClienteEliminar_SinCotizaciones(t *testing.T) {
	repo := newStubClienteRepo()
	svc := NewClienteService(repo)

	creado, err := svc.Crear(context.Background(), dto.GuardarClienteRequest{Nombre: "Efímero"})
	require.NoError(t, err)
	id := uuid.MustParse(creado.ID)

	require.NoError(t, svc.Eliminar(context.Background(), id))
	_, err = svc.ObtenerPorID(context.Background(), id)
	require.Error(t, err)
}

func TestClienteEliminar_NoEncontrado(t *testing.T) {
	svc := NewClienteService(newStubClienteRepo())
	err := svc.Eliminar(context.Background(), uuid.New())
	require.Error(t, err)
}
