//go:build integration

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrodash2/Cotiza/internal/config"
	"github.com/jrodash2/Cotiza/internal/infra"
	"github.com/jrodash2/Cotiza/internal/model"
	"github.com/jrodash2/Cotiza/internal/repository"
	"github.com/jrodash2/Cotiza/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

type env struct {
	server   *httptest.Server
	staffTok string
	ventaTok string
}

func setupEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("cotiza"),
		tcpostgres.WithUsername("cotiza"),
		tcpostgres.WithPassword("cotiza"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rd, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rd.Terminate(ctx) })

	redisURL, err := rd.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(redisURL)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "secreto-e2e",
		JWTExpirationHours: 1,
		JWTRefreshHours:    2,
	}

	usuarios := repository.NewUsuarioRepository(db)
	crearUsuario := func(username string, staff bool) {
		hash, err := bcrypt.GenerateFromPassword([]byte("clave123"), bcrypt.MinCost)
		require.NoError(t, err)
		require.NoError(t, usuarios.Create(ctx, &model.Usuario{
			Username:     username,
			Nombre:       username,
			PasswordHash: string(hash),
			EsStaff:      staff,
			Activo:       true,
		}))
	}
	crearUsuario("admin", true)
	crearUsuario("vendedor", false)

	srv := httptest.NewServer(router.Setup(cfg, db, rdb))
	t.Cleanup(srv.Close)

	e := &env{server: srv}
	e.staffTok = e.login(t, "admin")
	e.ventaTok = e.login(t, "vendedor")
	return e
}

func (e *env) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (e *env) login(t *testing.T, username string) string {
	t.Helper()
	resp, body := e.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "clave123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return body["access_token"].(string)
}

func TestFlujoCompleto(t *testing.T) {
	e := setupEnv(t)

	// Cliente
	resp, cliente := e.do(t, http.MethodPost, "/v1/clientes", e.staffTok, map[string]string{
		"nombre":    "Residencial Las Flores",
		"municipio": "Mixco",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	clienteID := cliente["id"].(string)

	// Productos (staff-only)
	resp, producto := e.do(t, http.MethodPost, "/v1/productos", e.staffTok, map[string]interface{}{
		"tipo":         "PRODUCTO",
		"nombre":       "Cámara bullet 4MP",
		"precio_costo": "85.00",
		"precio_venta": "140.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	productoID := producto["id"].(string)

	resp, _ = e.do(t, http.MethodPost, "/v1/productos", e.ventaTok, map[string]interface{}{
		"tipo": "PRODUCTO", "nombre": "no permitido", "precio_costo": "1", "precio_venta": "2",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el catálogo es solo para staff")

	// Cotización
	resp, cot := e.do(t, http.MethodPost, "/v1/cotizaciones", e.staffTok, map[string]interface{}{
		"cliente_id": clienteID,
		"titulo":     "CCTV residencial",
		"items": []map[string]interface{}{
			{"producto_servicio_id": productoID, "cantidad": "3"},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "00001", cot["correlativo"])
	assert.Equal(t, "BORRADOR", cot["estado"])
	assert.True(t, decimal.RequireFromString(fmt.Sprint(cot["subtotal_venta"])).Equal(decimal.RequireFromString("420")))
	require.Contains(t, cot, "ganancia_total")
	cotID := cot["id"].(string)

	// Lectura sin staff: los campos de costo no aparecen.
	resp, vista := e.do(t, http.MethodGet, "/v1/cotizaciones/"+cotID, e.ventaTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, vista, "subtotal_costo")
	assert.NotContains(t, vista, "ganancia_total")
	items := vista["items"].([]interface{})
	assert.NotContains(t, items[0].(map[string]interface{}), "precio_costo_unitario")

	// Edición: subir cantidad y emitir.
	itemID := items[0].(map[string]interface{})["id"].(string)
	resp, editada := e.do(t, http.MethodPut, "/v1/cotizaciones/"+cotID, e.staffTok, map[string]interface{}{
		"cliente_id": clienteID,
		"titulo":     "CCTV residencial ampliado",
		"estado":     "EMITIDA",
		"items": []map[string]interface{}{
			{"id": itemID, "cantidad": "5"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "00001", editada["correlativo"], "la edición no cambia el correlativo")
	assert.Equal(t, "EMITIDA", editada["estado"])
	assert.True(t, decimal.RequireFromString(fmt.Sprint(editada["subtotal_venta"])).Equal(decimal.RequireFromString("700")))

	// Recalcular es idempotente.
	resp, recalc := e.do(t, http.MethodPost, "/v1/cotizaciones/"+cotID+"/recalcular", e.staffTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, fmt.Sprint(editada["subtotal_venta"]), fmt.Sprint(recalc["subtotal_venta"]))

	// El cliente con cotizaciones no puede borrarse.
	resp, _ = e.do(t, http.MethodDelete, "/v1/clientes/"+clienteID, e.staffTok, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// El producto referenciado tampoco.
	resp, _ = e.do(t, http.MethodDelete, "/v1/productos/"+productoID, e.staffTok, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Consulta de precios: staff ve costo, ventas no.
	resp, precioStaff := e.do(t, http.MethodGet, "/v1/precios/"+productoID, e.staffTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, precioStaff, "precio_costo")

	resp, precioVenta := e.do(t, http.MethodGet, "/v1/precios/"+productoID, e.ventaTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, precioVenta, "precio_costo")
}

func TestEmisionConcurrente(t *testing.T) {
	e := setupEnv(t)

	_, cliente := e.do(t, http.MethodPost, "/v1/clientes", e.staffTok, map[string]string{"nombre": "Concurrente"})
	clienteID := cliente["id"].(string)
	_, producto := e.do(t, http.MethodPost, "/v1/productos", e.staffTok, map[string]interface{}{
		"tipo": "SERVICIO", "nombre": "Visita técnica", "precio_costo": "50.00", "precio_venta": "100.00",
	})
	productoID := producto["id"].(string)

	const n = 10
	var wg sync.WaitGroup
	correlativos := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, cot := e.do(t, http.MethodPost, "/v1/cotizaciones", e.staffTok, map[string]interface{}{
				"cliente_id": clienteID,
				"items": []map[string]interface{}{
					{"producto_servicio_id": productoID, "cantidad": "1"},
				},
			})
			if resp.StatusCode == http.StatusCreated {
				correlativos <- cot["correlativo"].(string)
			}
		}()
	}
	wg.Wait()
	close(correlativos)

	vistos := make(map[string]bool)
	for c := range correlativos {
		assert.False(t, vistos[c], "correlativo duplicado %s", c)
		vistos[c] = true
	}
	assert.Len(t, vistos, n, "las %d emisiones concurrentes deben numerar sin huecos ni duplicados", n)
	for i := 1; i <= n; i++ {
		assert.Contains(t, vistos, fmt.Sprintf("%05d", i))
	}
}
