package router

import (
	"time"

	"github.com/jrodash2/Cotiza/internal/config"
	"github.com/jrodash2/Cotiza/internal/handler"
	"github.com/jrodash2/Cotiza/internal/middleware"
	"github.com/jrodash2/Cotiza/internal/repository"
	"github.com/jrodash2/Cotiza/internal/service"

	_ "github.com/jrodash2/Cotiza/docs"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Setup wires repositories, services, and handlers into the Gin engine.
func Setup(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(),
		middleware.ErrorHandler(),
	)

	// Repositories
	clienteRepo := repository.NewClienteRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	cotizacionRepo := repository.NewCotizacionRepository(db)
	correlativoRepo := repository.NewCorrelativoRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)

	// Services
	clienteSvc := service.NewClienteService(clienteRepo)
	productoSvc := service.NewProductoService(productoRepo, rdb)
	cotizacionSvc := service.NewCotizacionService(cotizacionRepo, clienteRepo, productoRepo, correlativoRepo)
	authSvc := service.NewAuthService(usuarioRepo, cfg)

	// Handlers
	healthH := handler.NewHealthHandler(db, rdb)
	authH := handler.NewAuthHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	cotizacionesH := handler.NewCotizacionesHandler(cotizacionSvc)
	preciosH := handler.NewConsultaPreciosHandler(productoRepo, rdb)

	r.GET("/health", healthH.Check)
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/v1")
	v1.Use(middleware.RateLimiter(300, time.Minute))

	auth := v1.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	protected := v1.Group("")
	protected.Use(middleware.JWTAuth(cfg.JWTSecret))
	{
		protected.POST("/usuarios", middleware.RequireStaff(), authH.CrearUsuario)

		clientes := protected.Group("/clientes")
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
		}

		// The catalog carries cost prices, so writes and full reads are
		// staff-only. Non-staff users reach prices via /precios, where the
		// cost field is suppressed.
		productos := protected.Group("/productos")
		productos.Use(middleware.RequireStaff())
		{
			productos.POST("", productosH.Crear)
			productos.GET("", productosH.Listar)
			productos.GET("/:id", productosH.ObtenerPorID)
			productos.PUT("/:id", productosH.Actualizar)
			productos.DELETE("/:id", productosH.Eliminar)
			productos.POST("/:id/desactivar", productosH.Desactivar)
			productos.POST("/:id/reactivar", productosH.Reactivar)
			productos.GET("/:id/historial", productosH.Historial)
		}

		cotizaciones := protected.Group("/cotizaciones")
		{
			cotizaciones.POST("", cotizacionesH.Crear)
			cotizaciones.GET("", cotizacionesH.Listar)
			cotizaciones.GET("/:id", cotizacionesH.ObtenerPorID)
			cotizaciones.PUT("/:id", cotizacionesH.Actualizar)
			cotizaciones.DELETE("/:id", cotizacionesH.Eliminar)
			cotizaciones.POST("/:id/recalcular", cotizacionesH.Recalcular)
		}

		protected.GET("/precios/:producto_id", preciosH.Consultar)
	}

	return r
}
