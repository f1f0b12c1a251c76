package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brittlebones-backend/internal/delivery/http/response"
	"brittlebones-backend/internal/domain"
	"brittlebones-backend/pkg/apperror"
)

type FormHandler struct {
	relayUC domain.FormRelayUsecase
}

// NewFormHandler registers the public form routes (no auth required)
func NewFormHandler(public *gin.RouterGroup, relayUC domain.FormRelayUsecase) {
	handler := &FormHandler{
		relayUC: relayUC,
	}

	public.POST("/send-Form-email", handler.SubmitContact)
	public.POST("/volunteer-signup", handler.SubmitVolunteer)
	public.POST("/item-donation", handler.SubmitItemDonation)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Emails the message to the organisation and an acknowledgment to the sender.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactSubmission  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /send-Form-email [post]
func (h *FormHandler) SubmitContact(c *gin.Context) {
	h.submit(c, domain.KindContact)
}

// SubmitVolunteer godoc
// @Summary      Submit Volunteer Signup
// @Description  Emails the signup to the organisation and a confirmation to the volunteer.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        volunteer  body      domain.VolunteerSubmission  true  "Volunteer Signup Data"
// @Success      200        {object}  response.Response
// @Failure      400        {object}  response.Response
// @Failure      429        {object}  response.Response
// @Failure      500        {object}  response.Response
// @Router       /volunteer-signup [post]
func (h *FormHandler) SubmitVolunteer(c *gin.Context) {
	h.submit(c, domain.KindVolunteer)
}

// SubmitItemDonation godoc
// @Summary      Submit Item Donation
// @Description  Emails an item donation offer. Medical, educational and care items also need a delivery mode and time.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        donation  body      domain.ItemDonationSubmission  true  "Item Donation Data"
// @Success      200       {object}  response.Response
// @Failure      400       {object}  response.Response
// @Failure      429       {object}  response.Response
// @Failure      500       {object}  response.Response
// @Router       /item-donation [post]
func (h *FormHandler) SubmitItemDonation(c *gin.Context) {
	h.submit(c, domain.KindItemDonation)
}

func (h *FormHandler) submit(c *gin.Context, kind domain.Kind) {
	sub, err := domain.NewSubmission(kind)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	// An unreadable body is treated as a submission with nothing filled in
	if err := c.ShouldBindJSON(sub); err != nil {
		c.Error(apperror.Validation(h.relayUC.MissingFieldsMessage(kind), err))
		return
	}

	result, err := h.relayUC.Submit(c.Request.Context(), sub)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, result.Message, nil)
}
