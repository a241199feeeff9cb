package api

import (
	"encoding/xml"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// twimlResponse is the reply envelope the messaging gateway expects.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// InboundSMS handles the POST /webhook/sms request from the messaging
// gateway. Every customer-facing path ends in a TwiML text reply; the only
// other outcome is a plain 500 when something unexpected breaks.
func (h *Handler) InboundSMS(c *gin.Context) {
	message := c.PostForm("Body")
	from := c.PostForm("From")
	if from == "" {
		c.String(http.StatusBadRequest, "missing From")
		return
	}

	ctx := c.Request.Context()
	log.Printf("webhook: incoming message %q from %s", message, from)

	order, err := h.store.FindOrderByPhone(ctx, from)
	if err != nil {
		log.Printf("webhook: order lookup failed for %s: %v", from, err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	result, err := h.classifier.DetectIntent(ctx, from, message)
	if err != nil {
		// Classification is down; fall back to a human instead of
		// surfacing the failure to the sender.
		log.Printf("webhook: intent detection failed for %s: %v", from, err)
		h.replyTwiML(c, h.dispatcher.Escalate(ctx, order, from, message))
		return
	}
	log.Printf("webhook: detected intent %q for %s", result.Intent, from)

	reply, err := h.dispatcher.Handle(ctx, result, order, from, message)
	if err != nil {
		log.Printf("webhook: failed to handle intent %q for %s: %v", result.Intent, from, err)
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.replyTwiML(c, reply)
}

func (h *Handler) replyTwiML(c *gin.Context, message string) {
	out, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.Data(http.StatusOK, "text/xml; charset=utf-8", out)
}
