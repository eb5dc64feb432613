package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jrodash2/Cotiza/internal/infra"
	"github.com/jrodash2/Cotiza/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory sqlite database. One connection keeps
// every query on the same memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, infra.RunMigrations(db))
	return db
}

func seedClienteProducto(t *testing.T, db *gorm.DB) (*model.Cliente, *model.ProductoServicio) {
	t.Helper()
	cliente := &model.Cliente{Nombre: "Cliente de prueba"}
	require.NoError(t, db.Create(cliente).Error)

	producto := &model.ProductoServicio{
		Tipo:        model.TipoProducto,
		Nombre:      "Sensor de movimiento",
		PrecioCosto: decimal.RequireFromString("30.00"),
		PrecioVenta: decimal.RequireFromString("55.00"),
		Activo:      true,
	}
	require.NoError(t, db.Create(producto).Error)
	return cliente, producto
}

func seedCotizacion(t *testing.T, db *gorm.DB, clienteID uuid.UUID, correlativo string) *model.Cotizacion {
	t.Helper()
	c := &model.Cotizacion{
		Correlativo:   correlativo,
		FechaEmision:  time.Now(),
		ClienteID:     clienteID,
		ValidezDias:   model.ValidezDiasDefault,
		GarantiaTexto: model.GarantiaTextoDefault,
		Estado:        model.EstadoBorrador,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

// ─── Correlativo ─────────────────────────────────────────────────────────────

func TestCorrelativoNextTx_Secuencial(t *testing.T) {
	db := newTestDB(t)
	repo := NewCorrelativoRepository(db)
	ctx := context.Background()

	for esperado := 1; esperado <= 3; esperado++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			num, err := repo.NextTx(ctx, tx)
			require.NoError(t, err)
			assert.Equal(t, esperado, num)
			return nil
		})
		require.NoError(t, err)
	}

	actual, err := repo.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, actual)
}

func TestCorrelativoNextTx_RollbackDescartaIncremento(t *testing.T) {
	db := newTestDB(t)
	repo := NewCorrelativoRepository(db)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		num, err := repo.NextTx(ctx, tx)
		require.NoError(t, err)
		assert.Equal(t, 1, num)
		return fmt.Errorf("forzar rollback")
	})
	require.Error(t, err)

	actual, err := repo.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, actual, "el rollback debe descartar el número")

	// El siguiente intento emite otra vez el 1: sin huecos por fallos.
	err = db.Transaction(func(tx *gorm.DB) error {
		num, err := repo.NextTx(ctx, tx)
		require.NoError(t, err)
		assert.Equal(t, 1, num)
		return nil
	})
	require.NoError(t, err)
}

func TestCorrelativoCurrent_SinFilaEsCero(t *testing.T) {
	db := newTestDB(t)
	repo := NewCorrelativoRepository(db)

	actual, err := repo.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, actual)
}

// ─── Sumas de ítems ──────────────────────────────────────────────────────────

func TestSumItemsTx_SinItemsEsCero(t *testing.T) {
	db := newTestDB(t)
	repo := NewCotizacionRepository(db)
	cliente, _ := seedClienteProducto(t, db)
	c := seedCotizacion(t, db, cliente.ID, "00001")

	totales, err := repo.SumItemsTx(context.Background(), db, c.ID)
	require.NoError(t, err)
	assert.True(t, totales.SubtotalVenta.IsZero())
	assert.True(t, totales.SubtotalCosto.IsZero())
	assert.True(t, totales.GananciaTotal.IsZero())
}

func TestSumItemsTx_SumaSoloItemsDeLaCotizacion(t *testing.T) {
	db := newTestDB(t)
	repo := NewCotizacionRepository(db)
	ctx := context.Background()
	cliente, producto := seedClienteProducto(t, db)

	c1 := seedCotizacion(t, db, cliente.ID, "00001")
	c2 := seedCotizacion(t, db, cliente.ID, "00002")

	nuevoItem := func(cotID uuid.UUID, venta, costo, ganancia string) *model.CotizacionItem {
		return &model.CotizacionItem{
			CotizacionID:        cotID,
			ProductoServicioID:  producto.ID,
			Cantidad:            decimal.NewFromInt(1),
			PrecioVentaUnitario: producto.PrecioVenta,
			PrecioCostoUnitario: producto.PrecioCosto,
			TotalLineaVenta:     decimal.RequireFromString(venta),
			TotalLineaCosto:     decimal.RequireFromString(costo),
			GananciaLinea:       decimal.RequireFromString(ganancia),
		}
	}
	require.NoError(t, repo.CreateItemTx(ctx, db, nuevoItem(c1.ID, "110.00", "60.00", "50.00")))
	require.NoError(t, repo.CreateItemTx(ctx, db, nuevoItem(c1.ID, "55.00", "30.00", "25.00")))
	require.NoError(t, repo.CreateItemTx(ctx, db, nuevoItem(c2.ID, "999.00", "500.00", "499.00")))

	totales, err := repo.SumItemsTx(ctx, db, c1.ID)
	require.NoError(t, err)
	assert.True(t, totales.SubtotalVenta.Equal(decimal.RequireFromString("165.00")), "obtenido %s", totales.SubtotalVenta)
	assert.True(t, totales.SubtotalCosto.Equal(decimal.RequireFromString("90.00")), "obtenido %s", totales.SubtotalCosto)
	assert.True(t, totales.GananciaTotal.Equal(decimal.RequireFromString("75.00")), "obtenido %s", totales.GananciaTotal)
}

func TestUpdateTotalesTx_Persiste(t *testing.T) {
	db := newTestDB(t)
	repo := NewCotizacionRepository(db)
	ctx := context.Background()
	cliente, _ := seedClienteProducto(t, db)
	c := seedCotizacion(t, db, cliente.ID, "00001")

	totales := Totales{
		SubtotalVenta: decimal.RequireFromString("165.00"),
		SubtotalCosto: decimal.RequireFromString("90.00"),
		GananciaTotal: decimal.RequireFromString("75.00"),
	}
	require.NoError(t, repo.UpdateTotalesTx(ctx, db, c.ID, totales))

	actual, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, actual.SubtotalVenta.Equal(totales.SubtotalVenta))
	assert.True(t, actual.GananciaTotal.Equal(totales.GananciaTotal))
}

// ─── Items: orden y borrado ──────────────────────────────────────────────────

func TestFindByID_ItemsEnOrdenDeCreacion(t *testing.T) {
	db := newTestDB(t)
	repo := NewCotizacionRepository(db)
	ctx := context.Background()
	cliente, producto := seedClienteProducto(t, db)
	c := seedCotizacion(t, db, cliente.ID, "00001")

	for i, desc := range []string{"primero", "segundo", "tercero"} {
		item := &model.CotizacionItem{
			CotizacionID:        c.ID,
			ProductoServicioID:  producto.ID,
			DescripcionEditable: desc,
			Cantidad:            decimal.NewFromInt(int64(i + 1)),
			PrecioVentaUnitario: producto.PrecioVenta,
			PrecioCostoUnitario: producto.PrecioCosto,
			CreatedAt:           time.Now().Add(time.Duration(i) * time.Millisecond),
		}
		require.NoError(t, repo.CreateItemTx(ctx, db, item))
	}

	actual, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, actual.Items, 3)
	assert.Equal(t, "primero", actual.Items[0].DescripcionEditable)
	assert.Equal(t, "segundo", actual.Items[1].DescripcionEditable)
	assert.Equal(t, "tercero", actual.Items[2].DescripcionEditable)
}

func TestDelete_EliminaTambienLosItems(t *testing.T) {
	db := newTestDB(t)
	repo := NewCotizacionRepository(db)
	ctx := context.Background()
	cliente, producto := seedClienteProducto(t, db)
	c := seedCotizacion(t, db, cliente.ID, "00001")

	item := &model.CotizacionItem{
		CotizacionID:        c.ID,
		ProductoServicioID:  producto.ID,
		Cantidad:            decimal.NewFromInt(1),
		PrecioVentaUnitario: producto.PrecioVenta,
		PrecioCostoUnitario: producto.PrecioCosto,
	}
	require.NoError(t, repo.CreateItemTx(ctx, db, item))

	require.NoError(t, repo.Delete(ctx, c.ID))

	var n int64
	require.NoError(t, db.Model(&model.CotizacionItem{}).Where("cotizacion_id = ?", c.ID).Count(&n).Error)
	assert.Zero(t, n)
}

func TestDeleteItemTx_SoloDeLaCotizacionIndicada(t *testing.T) {
	db := newTestDB(t)
	repo := NewCotizacionRepository(db)
	ctx := context.Background()
	cliente, producto := seedClienteProducto(t, db)
	c1 := seedCotizacion(t, db, cliente.ID, "00001")
	c2 := seedCotizacion(t, db, cliente.ID, "00002")

	item := &model.CotizacionItem{
		CotizacionID:        c2.ID,
		ProductoServicioID:  producto.ID,
		Cantidad:            decimal.NewFromInt(1),
		PrecioVentaUnitario: producto.PrecioVenta,
		PrecioCostoUnitario: producto.PrecioCosto,
	}
	require.NoError(t, repo.CreateItemTx(ctx, db, item))

	// Borrar usando la cotización equivocada no debe tocar el ítem.
	require.NoError(t, repo.DeleteItemTx(ctx, db, c1.ID, item.ID))
	_, err := repo.FindItemTx(ctx, db, c2.ID, item.ID)
	require.NoError(t, err)
}

// ─── Correlativo único ───────────────────────────────────────────────────────

func TestCorrelativoUnico(t *testing.T) {
	db := newTestDB(t)
	cliente, _ := seedClienteProducto(t, db)

	seedCotizacion(t, db, cliente.ID, "00007")
	duplicada := &model.Cotizacion{
		Correlativo:  "00007",
		FechaEmision: time.Now(),
		ClienteID:    cliente.ID,
		Estado:       model.EstadoBorrador,
	}
	err := db.Create(duplicada).Error
	require.Error(t, err, "el índice único debe rechazar correlativos repetidos")
}

// ─── Clientes / productos: conteos para borrado restringido ──────────────────

func TestClienteCountCotizaciones(t *testing.T) {
	db := newTestDB(t)
	repo := NewClienteRepository(db)
	cliente, _ := seedClienteProducto(t, db)

	n, err := repo.CountCotizaciones(context.Background(), cliente.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	seedCotizacion(t, db, cliente.ID, "00001")
	seedCotizacion(t, db, cliente.ID, "00002")

	n, err = repo.CountCotizaciones(context.Background(), cliente.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestProductoCountItems(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductoRepository(db)
	cotRepo := NewCotizacionRepository(db)
	ctx := context.Background()
	cliente, producto := seedClienteProducto(t, db)
	c := seedCotizacion(t, db, cliente.ID, "00001")

	n, err := repo.CountItems(ctx, producto.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	item := &model.CotizacionItem{
		CotizacionID:        c.ID,
		ProductoServicioID:  producto.ID,
		Cantidad:            decimal.NewFromInt(1),
		PrecioVentaUnitario: producto.PrecioVenta,
		PrecioCostoUnitario: producto.PrecioCosto,
	}
	require.NoError(t, cotRepo.CreateItemTx(ctx, db, item))

	n, err = repo.CountItems(ctx, producto.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
