package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pizzeria-service/catalog"
	"pizzeria-service/models"
	"pizzeria-service/orders"
	"pizzeria-service/repository"
)

// Store is everything the handlers need from the data layer.
type Store interface {
	catalog.Source
	catalog.Seeder
	orders.Writer

	GetProduct(ctx context.Context, id string) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch repository.ProductPatch) error
	GetZone(ctx context.Context, id string) (models.DeliveryZone, error)
	UpdateZone(ctx context.Context, id string, patch repository.ZonePatch) error
	DeleteZone(ctx context.Context, id string) error

	GetOrder(ctx context.Context, id string) (models.SaleRecord, error)
	CreateOrder(ctx context.Context, sale models.SaleRecord) error
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error

	GetUser(ctx context.Context, phone string) (*models.User, error)

	ListSettings(ctx context.Context) (map[string]string, error)
	SaveSetting(ctx context.Context, key, value string) error

	GetCart(ctx context.Context, phone string) (repository.Cart, error)
	SaveCart(ctx context.Context, phone string, c repository.Cart) error
	DeleteCart(ctx context.Context, phone string) error
}

type Options struct {
	JWTSecret      string
	PINHash        []byte
	TokenTTL       time.Duration
	WhatsAppNumber string
	OrdersLimit    int
}

type Handler struct {
	store     Store
	pipeline  *orders.Pipeline
	publisher orders.Publisher
	opts      Options
	now       func() time.Time
}

// NewHandler wires the handlers. publisher may be nil when events are disabled.
func NewHandler(store Store, pipeline *orders.Pipeline, publisher orders.Publisher, opts Options) *Handler {
	if opts.OrdersLimit <= 0 {
		opts.OrdersLimit = 200
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 12 * time.Hour
	}
	return &Handler{store: store, pipeline: pipeline, publisher: publisher, opts: opts, now: time.Now}
}

// Register mounts the API on api. operator gates the console routes.
func (h *Handler) Register(api *gin.RouterGroup, operator gin.HandlerFunc) {
	api.POST("/admin/login", h.AdminLogin)

	api.GET("/categories", h.ListCategories)
	api.GET("/products", h.ListProducts)
	api.GET("/zones", h.ListZones)
	api.GET("/extras", h.ListExtras)
	api.GET("/orders", h.ListOrders)
	api.POST("/orders", h.CreateOrder)
	api.GET("/users/:phone", h.GetUser)
	api.POST("/users", h.SaveUser)
	api.GET("/settings", h.ListSettings)

	api.GET("/carts/:phone", h.GetCart)
	api.DELETE("/carts/:phone", h.ClearCart)
	api.POST("/carts/:phone/items", h.AddCartItem)
	api.POST("/carts/:phone/half", h.AddHalfAndHalf)
	api.PATCH("/carts/:phone/items/:uniqueId", h.UpdateCartQuantity)
	api.DELETE("/carts/:phone/items/:uniqueId", h.RemoveCartItem)
	api.POST("/carts/:phone/items/:uniqueId/extras", h.ToggleCartExtra)
	api.PUT("/carts/:phone/notes", h.SetCartNotes)
	api.POST("/checkout", h.Checkout)

	console := api.Group("", operator)
	{
		console.POST("/categories", h.CreateCategory)
		console.POST("/products", h.CreateProduct)
		console.PATCH("/products/:id", h.UpdateProduct)
		console.POST("/zones", h.CreateZone)
		console.PATCH("/zones/:id", h.UpdateZone)
		console.DELETE("/zones/:id", h.DeleteZone)
		console.GET("/orders/stats", h.OrderStats)
		console.PATCH("/orders/:id", h.UpdateOrderStatus)
		console.POST("/orders/:id/advance", h.statusAction(orders.ActionAdvance))
		console.POST("/orders/:id/cancel", h.statusAction(orders.ActionCancel))
		console.POST("/orders/:id/complete", h.statusAction(orders.ActionComplete))
		console.POST("/settings", h.SaveSetting)
	}
}

func (h *Handler) publish(ctx context.Context, eventType string, sale models.SaleRecord) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishOrderEvent(ctx, models.NewOrderEvent(eventType, sale, h.now())); err != nil {
		log.Printf("Failed to publish order %s event: %v", eventType, err)
	}
}

// storeError maps data-layer errors to a response.
func storeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, repository.ErrEmptyPatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("%s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
	}
}
