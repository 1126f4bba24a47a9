package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pizzeria-service/cart"
	"pizzeria-service/catalog"
	"pizzeria-service/middlewares"
	"pizzeria-service/models"
	"pizzeria-service/orders"
	"pizzeria-service/pricing"
	"pizzeria-service/repository"
)

type cartView struct {
	Items []models.CartItem `json:"items"`
	Notes string            `json:"notes"`
	Quote pricing.Breakdown `json:"quote"`
}

func newCartView(stored repository.Cart, zone *models.DeliveryZone) cartView {
	return cartView{Items: stored.Items, Notes: stored.Notes, Quote: pricing.Quote(stored.Items, zone)}
}

// cartError answers 422 for rejected cart operations; the cart is untouched.
func cartError(c *gin.Context, err error) {
	if errors.Is(err, cart.ErrInactiveProduct) || errors.Is(err, cart.ErrHalfNotSelected) || errors.Is(err, cart.ErrSizeUnavailable) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	storeError(c, "cart", err)
}

// mutateCart loads the phone's cart, applies fn and stores the result.
func (h *Handler) mutateCart(c *gin.Context, op string, fn func(*cart.Cart, *repository.Cart) error) {
	defer middlewares.RecordOperation(c, op)

	phone := c.Param("phone")
	stored, err := h.store.GetCart(c.Request.Context(), phone)
	if err != nil {
		storeError(c, "get cart", err)
		return
	}
	current := cart.New(stored.Items)
	if err := fn(current, &stored); err != nil {
		cartError(c, err)
		return
	}
	stored.Items = current.Items()
	if err := h.store.SaveCart(c.Request.Context(), phone, stored); err != nil {
		storeError(c, "save cart", err)
		return
	}
	c.JSON(http.StatusOK, newCartView(stored, nil))
}

func (h *Handler) GetCart(c *gin.Context) {
	stored, err := h.store.GetCart(c.Request.Context(), c.Param("phone"))
	if err != nil {
		storeError(c, "get cart", err)
		return
	}
	var zone *models.DeliveryZone
	if id := c.Query("zone"); id != "" {
		z, err := h.store.GetZone(c.Request.Context(), id)
		if err != nil {
			storeError(c, "get zone", err)
			return
		}
		zone = &z
	}
	c.JSON(http.StatusOK, newCartView(stored, zone))
}

func (h *Handler) AddCartItem(c *gin.Context) {
	var request struct {
		ProductID string `json:"productId" binding:"required"`
		Size      string `json:"size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := h.store.GetProduct(c.Request.Context(), request.ProductID)
	if err != nil {
		storeError(c, "get product", err)
		return
	}
	h.mutateCart(c, "cart_add", func(ct *cart.Cart, _ *repository.Cart) error {
		_, err := ct.Add(product, request.Size)
		return err
	})
}

func (h *Handler) AddHalfAndHalf(c *gin.Context) {
	var request struct {
		LeftID  string `json:"leftId"`
		RightID string `json:"rightId"`
		Size    string `json:"size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	left, err := h.lookupHalf(c, request.LeftID)
	if err != nil {
		storeError(c, "get product", err)
		return
	}
	right, err := h.lookupHalf(c, request.RightID)
	if err != nil {
		storeError(c, "get product", err)
		return
	}
	h.mutateCart(c, "cart_add_half", func(ct *cart.Cart, _ *repository.Cart) error {
		_, err := ct.AddHalfAndHalf(left, right, request.Size)
		return err
	})
}

// lookupHalf resolves a side of a half-and-half; an empty id is an unselected side.
func (h *Handler) lookupHalf(c *gin.Context, id string) (*models.Product, error) {
	if id == "" {
		return nil, nil
	}
	p, err := h.store.GetProduct(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (h *Handler) UpdateCartQuantity(c *gin.Context) {
	var request struct {
		Delta int `json:"delta"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutateCart(c, "cart_quantity", func(ct *cart.Cart, _ *repository.Cart) error {
		ct.UpdateQuantity(c.Param("uniqueId"), request.Delta)
		return nil
	})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	h.mutateCart(c, "cart_remove", func(ct *cart.Cart, _ *repository.Cart) error {
		ct.Remove(c.Param("uniqueId"))
		return nil
	})
}

// ToggleCartExtra adds or removes an extra by name. Prices come from the
// extras list, never from the request.
func (h *Handler) ToggleCartExtra(c *gin.Context) {
	var request struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var extra *models.Extra
	for _, e := range catalog.Extras() {
		if strings.EqualFold(e.Name, request.Name) {
			extra = &e
			break
		}
	}
	if extra == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown extra"})
		return
	}
	h.mutateCart(c, "cart_extra", func(ct *cart.Cart, _ *repository.Cart) error {
		ct.ToggleExtra(c.Param("uniqueId"), *extra)
		return nil
	})
}

func (h *Handler) SetCartNotes(c *gin.Context) {
	var request struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.mutateCart(c, "cart_notes", func(_ *cart.Cart, stored *repository.Cart) error {
		stored.Notes = request.Notes
		return nil
	})
}

func (h *Handler) ClearCart(c *gin.Context) {
	defer middlewares.RecordOperation(c, "cart_clear")

	if err := h.store.DeleteCart(c.Request.Context(), c.Param("phone")); err != nil {
		storeError(c, "delete cart", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type checkoutResponse struct {
	Sale        models.SaleRecord `json:"sale"`
	User        models.User       `json:"user"`
	Quote       pricing.Breakdown `json:"quote"`
	WhatsAppURL string            `json:"whatsappUrl"`
	Warning     string            `json:"warning,omitempty"`
}

// Checkout finalizes the stored cart of phone: the total is computed here,
// the sale and loyalty update go through the pipeline, and the cart is
// cleared. The response carries the WhatsApp hand-off link.
func (h *Handler) Checkout(c *gin.Context) {
	defer middlewares.RecordOperation(c, "checkout")

	var request struct {
		Phone  string `json:"phone" binding:"required"`
		ZoneID string `json:"zoneId"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	user, err := h.store.GetUser(ctx, request.Phone)
	if err != nil {
		storeError(c, "get user", err)
		return
	}
	if user == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": orders.ErrNoUser.Error()})
		return
	}

	stored, err := h.store.GetCart(ctx, request.Phone)
	if err != nil {
		storeError(c, "get cart", err)
		return
	}
	if len(stored.Items) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cart is empty"})
		return
	}

	var zone *models.DeliveryZone
	if request.ZoneID != "" {
		z, err := h.store.GetZone(ctx, request.ZoneID)
		if err != nil {
			storeError(c, "get zone", err)
			return
		}
		zone = &z
	}

	quote := pricing.Quote(stored.Items, zone)
	res, err := h.pipeline.Finalize(ctx, stored.Items, zone, user, quote.Total)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	middlewares.RecordCheckout(quote.Total)

	if err := h.store.DeleteCart(ctx, request.Phone); err != nil {
		log.Printf("Failed to clear cart of %s after checkout: %v", request.Phone, err)
	}

	msg := orders.HandoffMessage(res.User, zone, stored.Items, stored.Notes)
	resp := checkoutResponse{
		Sale:        res.Sale,
		User:        res.User,
		Quote:       quote,
		WhatsAppURL: orders.HandoffURL(h.opts.WhatsAppNumber, msg),
	}
	if res.WriteErr != nil {
		resp.Warning = "order recorded locally but not fully saved"
	}
	c.JSON(http.StatusCreated, resp)
}
