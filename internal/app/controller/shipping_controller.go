package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
	apperrors "github.com/ivan-cardenas/overlaymaps-backend/internal/errors"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/middleware"
)

type ShippingController struct {
	shippingService service.ShippingService
}

func NewShippingController(shippingService service.ShippingService) *ShippingController {
	return &ShippingController{shippingService: shippingService}
}

type EstimateRequest struct {
	CountryCode string `json:"country_code" binding:"required"`
}

func (ctrl *ShippingController) Estimate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ShippingInvalidRequest, "country_code is required")
		return
	}

	options, err := ctrl.shippingService.Estimate(c.Request.Context(), middleware.CartToken(c), req.CountryCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidShippingRequest):
			apperrors.BadRequest(c, apperrors.ShippingInvalidRequest, "country code must be ISO 3166-1 alpha-2 and the cart must not be empty")
		case errors.Is(err, service.ErrUnresolvableVariant):
			apperrors.UnprocessableEntity(c, apperrors.ShippingCartUnresolved, "cart contains items missing from the catalog")
		default:
			log.Error("Shipping estimate failed", err, map[string]interface{}{
				"country": req.CountryCode,
			})
			apperrors.BadGateway(c, apperrors.ShippingEstimateFailed, "shipping estimate failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"options": options,
		"count":   len(options),
	})
}

type SelectShippingRequest struct {
	ID string `json:"id" binding:"required"`
}

func (ctrl *ShippingController) SelectOption(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SelectShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ShippingInvalidRequest, "a quoted shipping option id is required")
		return
	}

	option, err := ctrl.shippingService.SelectOption(c.Request.Context(), middleware.CartToken(c), req.ID)
	if err != nil {
		if errors.Is(err, service.ErrShippingOptionNotFound) {
			apperrors.NotFound(c, apperrors.ShippingOptionNotFound, "option is not part of the latest shipping quote")
			return
		}
		log.Error("Failed to store shipping selection", err, nil)
		apperrors.InternalError(c, "failed to store shipping selection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"selected": option})
}

func (ctrl *ShippingController) SelectedOption(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	option, err := ctrl.shippingService.SelectedOption(c.Request.Context(), middleware.CartToken(c))
	if err != nil {
		log.Error("Failed to load shipping selection", err, nil)
		apperrors.InternalError(c, "failed to load shipping selection")
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": option})
}
