package reports

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

// RegisterRoutes mounts the CSV exports; main puts the group behind the
// admin guard.
func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/reports/users.csv", h.report(func(ctx context.Context) (*Report, error) { return svc.UsersReport(ctx) }))
	r.GET("/reports/items.csv", h.report(func(ctx context.Context) (*Report, error) { return svc.ItemsReport(ctx) }))
	r.GET("/reports/loans.csv", h.report(func(ctx context.Context) (*Report, error) { return svc.LoansReport(ctx) }))
}

func (h *Handler) report(build func(ctx context.Context) (*Report, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		rep, err := build(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
			return
		}

		encoding := c.Query("encoding")
		var buf bytes.Buffer
		if err := WriteCSV(&buf, rep.Header, rep.Rows, encoding); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		contentType := "text/csv; charset=utf-8"
		if encoding == "windows-1252" {
			contentType = "text/csv; charset=windows-1252"
		}
		c.Header("Content-Disposition", `attachment; filename="`+rep.Filename+`"`)
		c.Data(http.StatusOK, contentType, buf.Bytes())
	}
}
