// controllers/grn_controller.go
package controllers

import (
	"strconv"

	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
)

type GRNController struct{ *Srv }

func NewGRNController(s *Srv) *GRNController { return &GRNController{Srv: s} }

// POST /grns
func (gc *GRNController) CreateGRN(c *gin.Context) {
	var in models.GRN
	if !bind(c, &in) {
		return
	}
	if in.POID == "" {
		badRequest(c, "po_id is required")
		return
	}
	if in.GRNDate.IsZero() {
		in.GRNDate = models.Today()
	}
	if in.CreatedBy == 0 {
		if id := actor(c); id != nil {
			in.CreatedBy = *id
		}
	}
	if err := gc.Repo.CreateGRN(c.Request.Context(), &in); err != nil {
		gc.fail(c, err)
		return
	}
	created(c, "GRN created successfully", in)
}

func (gc *GRNController) ListGRNs(c *gin.Context) {
	out, err := gc.Repo.ListGRNs(c.Request.Context())
	if err != nil {
		gc.fail(c, err)
		return
	}
	list(c, "GRNs retrieved successfully", out)
}

// GET /grns-rentmachine-cpo-bypoid?po_id=
func (gc *GRNController) ByPO(c *gin.Context) {
	if !required(c, "po_id") {
		return
	}
	out, err := gc.Repo.GRNsByPO(c.Request.Context(), c.Query("po_id"))
	if err != nil {
		gc.fail(c, err)
		return
	}
	list(c, "GRNs retrieved successfully", out)
}

// DELETE /grnsdeletebyid?grn_id=
func (gc *GRNController) DeleteGRN(c *gin.Context) {
	id, err := strconv.ParseUint(c.Query("grn_id"), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "grn_id is required")
		return
	}
	if err := gc.Repo.DeleteGRN(c.Request.Context(), uint(id)); err != nil {
		gc.fail(c, err)
		return
	}
	ok(c, "GRN deleted successfully", gin.H{"grn_id": id})
}

// POST /grn-rent-machines 单条收货，走同一个事务逻辑
func (gc *GRNController) Receive(c *gin.Context) {
	var in db.ReceiptLine
	if !bind(c, &in) {
		return
	}
	gc.receive(c, []db.ReceiptLine{in})
}

// POST /grn-rent-machines-bulk
func (gc *GRNController) ReceiveBulk(c *gin.Context) {
	var in []db.ReceiptLine
	if !bind(c, &in) {
		return
	}
	gc.receive(c, in)
}

func (gc *GRNController) receive(c *gin.Context, lines []db.ReceiptLine) {
	out, err := gc.Repo.ReceiveRentMachines(c.Request.Context(), lines)
	if err != nil {
		gc.fail(c, err)
		return
	}
	created(c, "GRN rent machines created successfully", out)
}

// GET /grn-rent-machines 与 /grn-rent-machines-byrentid?rent_item_id=
func (gc *GRNController) ListRentMachines(c *gin.Context) {
	out, err := gc.Repo.ListGRNRentMachines(c.Request.Context(), c.Query("rent_item_id"))
	if err != nil {
		gc.fail(c, err)
		return
	}
	list(c, "GRN rent machines retrieved successfully", out)
}
