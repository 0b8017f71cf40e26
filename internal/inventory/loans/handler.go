package loans

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/loans", h.CreateLoan)
	r.GET("/loans", h.ListLoans)
	r.GET("/loans/:id", h.GetLoan)
	// return / cancel, selected by the status field
	r.PATCH("/loans/:id", h.UpdateLoan)
}

// RegisterAdminRoutes holds the destructive operations; main mounts this on
// the admin-guarded group.
func RegisterAdminRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.DELETE("/loans/:id", h.DeleteLoan)
}

// ---------- handlers ----------

func (h *Handler) CreateLoan(c *gin.Context) {
	var req CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.CreateLoan(c.Request.Context(), req)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}

	c.Header("Location", "/loans/"+res.ID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetLoan(c *gin.Context) {
	res, err := h.svc.GetLoan(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListLoans(c *gin.Context) {
	f := LoanFilter{}
	if v := c.Query("status"); v != "" {
		st := Status(v)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "unknown status filter"))
			return
		}
		f.Status = &st
	}
	if v := c.Query("item_id"); v != "" {
		f.ItemID = &v
	}
	if v := c.Query("borrower"); v != "" {
		f.BorrowerName = &v
	}
	p := Page{
		Limit:  parseIntDefault(c.Query("limit"), 50),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Order:  c.DefaultQuery("order", "desc"),
	}

	items, total, err := h.svc.ListLoans(c.Request.Context(), f, p)
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *Handler) UpdateLoan(c *gin.Context) {
	id := c.Param("id")
	var req UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid json or missing status"))
		return
	}

	var actual *time.Time
	if req.ActualReturnDate != nil && *req.ActualReturnDate != "" {
		t, err := time.Parse(dateLayout, *req.ActualReturnDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "invalid actual_return_date format, expected YYYY-MM-DD"))
			return
		}
		actual = &t
	}

	var res *LoanResponse
	var err error
	switch req.Status {
	case StatusReturned:
		res, err = h.svc.ReturnLoan(c.Request.Context(), id, actual, req.Notes, req.VerifiedBy)
	case StatusCancelled:
		res, err = h.svc.CancelLoan(c.Request.Context(), id, req.Notes)
	default:
		c.JSON(http.StatusBadRequest, errorBody(CodeInvalidArgument, "status must be \"returned\" or \"cancelled\""))
		return
	}
	if err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteLoan(c *gin.Context) {
	if err := h.svc.DeleteLoan(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(ToHTTPStatus(err), errorFromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ---------- helpers ----------

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

type errorDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func errorBody(code Code, msg string) errorDTO {
	var e errorDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func errorFromErr(err error) errorDTO {
	var msg string
	var code Code = CodeInternal
	if api, ok := err.(*APIError); ok {
		code, msg = api.Code, api.Message
	} else {
		msg = err.Error()
	}
	return errorBody(code, msg)
}
