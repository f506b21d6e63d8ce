package routes

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"styledecor-server/errs"
)

// respondError translates a classified error into its HTTP status and a
// JSON body. Upstream detail rides along for operator debugging; raw driver
// errors never become the primary message.
func respondError(c *gin.Context, err error) {
	body := gin.H{"error": errs.MessageOf(err)}
	if detail := errs.DetailOf(err); detail != "" {
		body["detail"] = detail
	}
	c.JSON(errs.StatusCode(err), body)
}

// parseID parses a numeric path parameter, rejecting malformed ids with
// InvalidInput.
func parseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errs.New(errs.KindInvalidInput, "invalid "+name)
	}
	return uint(id), nil
}
