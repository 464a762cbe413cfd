package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/sergiocarbajal421/portafolio/internal/contact"
)

// contactRequest mirrors the three inputs of the contact form.
type contactRequest struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
}

func (a *app) setupContactRoutes(r *gin.Engine) {
	// HTMX Contact form endpoint - returns just the form HTML
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title":     "Contacto",
			"csrfField": csrf.TemplateField(c.Request),
		})
	})

	r.POST("/contact", a.submitContact)
}

// submitContact hands one snapshot of the form to the delivery handler and
// renders either the success notice or the failure text as is.
func (a *app) submitContact(c *gin.Context) {
	wantsJSON := c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON

	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		a.log.Debug("contact form bind", zap.Error(err))
		if wantsJSON {
			c.JSON(http.StatusBadRequest, gin.H{"error": "solicitud inválida"})
			return
		}
		c.HTML(http.StatusBadRequest, "contact-error.html", gin.H{"error": "Solicitud inválida"})
		return
	}

	msg := contact.Message{
		SenderName:  req.Name,
		SenderEmail: req.Email,
		Body:        req.Message,
	}

	err := a.contact.Submit(c.Request.Context(), msg)
	if err != nil {
		kind := contact.KindUnknown
		var derr *contact.DeliveryError
		if errors.As(err, &derr) {
			kind = derr.Kind
		}
		if wantsJSON {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "kind": kind.String()})
			return
		}
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": err.Error()})
		return
	}

	if wantsJSON {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": ContactSuccess})
		return
	}
	c.HTML(http.StatusOK, "contact-success.html", gin.H{"success": ContactSuccess})
}
