package handler

import (
	"io"

	"github.com/gin-gonic/gin"
)

// Changes streams committed writes as server-sent events. Clients use it
// to keep list screens fresh without polling.
func (h *Handler) Changes(c *gin.Context) {
	ch, cancel := h.store.Changes().Subscribe()
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case change, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", change)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
