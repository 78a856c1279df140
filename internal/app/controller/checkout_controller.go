package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivan-cardenas/overlaymaps-backend/internal/app/service"
	apperrors "github.com/ivan-cardenas/overlaymaps-backend/internal/errors"
	"github.com/ivan-cardenas/overlaymaps-backend/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

func (ctrl *CheckoutController) CreateSession(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	session, err := ctrl.checkoutService.CreateSession(c.Request.Context(), middleware.CartToken(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CheckoutEmptyCart, "cart is empty")
		case errors.Is(err, service.ErrInvalidLine):
			apperrors.UnprocessableEntity(c, apperrors.CheckoutInvalidLine, "cart contains an invalid line")
		case errors.Is(err, service.ErrShippingRequired):
			apperrors.UnprocessableEntity(c, apperrors.CheckoutShippingRequired, "select a shipping option first")
		default:
			log.Error("Checkout failed", err, nil)
			apperrors.BadGateway(c, apperrors.CheckoutFailed, "checkout session could not be created")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redirect_url": session.RedirectURL,
		"session_ref":  session.SessionRef,
	})
}
