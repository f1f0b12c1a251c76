package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"brittlebones-backend/internal/delivery/http/response"
	"brittlebones-backend/internal/domain"
	"brittlebones-backend/internal/usecase"
	"brittlebones-backend/pkg/apperror"
)

type DonationHandler struct {
	donationUC domain.DonationUsecase
}

// NewDonationHandler registers the PayFast redirect routes on a group
// mounted at /donate.
func NewDonationHandler(donate *gin.RouterGroup, donationUC domain.DonationUsecase) {
	handler := &DonationHandler{
		donationUC: donationUC,
	}

	donate.POST("", handler.CreateLink)
	donate.POST("/qr", handler.CreateQRCode)
}

// CreateLink godoc
// @Summary      Create PayFast Link
// @Description  Builds the PayFast hosted payment URL for a once-off or monthly donation.
// @Tags         donations
// @Accept       json
// @Produce      json
// @Param        donation  body      domain.DonationIntent  true  "Donation"
// @Success      200       {object}  response.Link
// @Failure      400       {object}  response.Fault
// @Failure      429       {object}  response.Fault
// @Failure      500       {object}  response.Fault
// @Router       /donate [post]
func (h *DonationHandler) CreateLink(c *gin.Context) {
	var intent domain.DonationIntent
	if err := c.ShouldBindJSON(&intent); err != nil {
		c.Error(apperror.Validation(usecase.MsgDonationMissingFields, err))
		return
	}

	link, err := h.donationUC.BuildLink(c.Request.Context(), &intent)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.Link{URL: link.URL})
}

// CreateQRCode godoc
// @Summary      Create PayFast QR Code
// @Description  Renders the PayFast payment URL as a PNG QR code.
// @Tags         donations
// @Accept       json
// @Produce      png
// @Param        donation  body      domain.DonationIntent  true   "Donation"
// @Param        size      query     int                    false  "Image size in pixels (128-1024)"
// @Success      200       {file}    binary
// @Failure      400       {object}  response.Fault
// @Failure      429       {object}  response.Fault
// @Failure      500       {object}  response.Fault
// @Router       /donate/qr [post]
func (h *DonationHandler) CreateQRCode(c *gin.Context) {
	var intent domain.DonationIntent
	if err := c.ShouldBindJSON(&intent); err != nil {
		c.Error(apperror.Validation(usecase.MsgDonationMissingFields, err))
		return
	}

	// Unparseable sizes fall back to the default
	size, _ := strconv.Atoi(c.Query("size"))

	png, err := h.donationUC.BuildQRCode(c.Request.Context(), &intent, size)
	if err != nil {
		c.Error(err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
