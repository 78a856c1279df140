package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/model"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
	apperrors "github.com/ivan-cardenas/overlaymaps-backend/internal/errors"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type AddLineRequest struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func cartResponse(c *gin.Context, cart *model.Cart) {
	c.JSON(http.StatusOK, gin.H{
		"cart":     cart,
		"count":    cart.Count(),
		"subtotal": cart.Subtotal(),
	})
}

func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	cart, err := ctrl.cartService.Get(c.Request.Context(), middleware.CartToken(c))
	if err != nil {
		log.Error("Failed to load cart", err, nil)
		apperrors.InternalError(c, "failed to load cart")
		return
	}
	cartResponse(c, cart)
}

func (ctrl *CartController) AddLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "variant_id is required")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := ctrl.cartService.AddLine(c.Request.Context(), middleware.CartToken(c), req.VariantID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVariantNotFound):
			apperrors.NotFound(c, apperrors.CartVariantNotFound, "variant not found")
		case errors.Is(err, service.ErrVariantUnavailable):
			apperrors.UnprocessableEntity(c, apperrors.CartVariantUnavailable, "variant is not available")
		default:
			log.Error("Failed to add cart line", err, map[string]interface{}{
				"variant_id": req.VariantID,
			})
			apperrors.InternalError(c, "failed to update cart")
		}
		return
	}
	cartResponse(c, cart)
}

func (ctrl *CartController) SetQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid variant id")
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "quantity is required")
		return
	}

	cart, err := ctrl.cartService.SetQuantity(c.Request.Context(), middleware.CartToken(c), uint(variantID), req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			apperrors.NotFound(c, apperrors.CartVariantNotFound, "variant not in cart")
			return
		}
		log.Error("Failed to set cart quantity", err, map[string]interface{}{
			"variant_id": variantID,
		})
		apperrors.InternalError(c, "failed to update cart")
		return
	}
	cartResponse(c, cart)
}

func (ctrl *CartController) RemoveLine(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	variantID, err := strconv.ParseUint(c.Param("variant_id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid variant id")
		return
	}

	cart, err := ctrl.cartService.Remove(c.Request.Context(), middleware.CartToken(c), uint(variantID))
	if err != nil {
		log.Error("Failed to remove cart line", err, map[string]interface{}{
			"variant_id": variantID,
		})
		apperrors.InternalError(c, "failed to update cart")
		return
	}
	cartResponse(c, cart)
}

func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if err := ctrl.cartService.Clear(c.Request.Context(), middleware.CartToken(c)); err != nil {
		log.Error("Failed to clear cart", err, nil)
		apperrors.InternalError(c, "failed to clear cart")
		return
	}
	cartResponse(c, &model.Cart{})
}
