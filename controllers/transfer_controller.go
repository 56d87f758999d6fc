// controllers/transfer_controller.go
package controllers

import (
	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
)

type TransferController struct{ *Srv }

func NewTransferController(s *Srv) *TransferController { return &TransferController{Srv: s} }

type transferReq struct {
	ItemID         string `json:"item_id" binding:"required"`
	OwnerBranch    string `json:"owner_branch" binding:"required"`
	PrevUsedBranch string `json:"prev_used_branch"`
	SendingBranch  string `json:"sending_branch" binding:"required"`
	EmployeeID     uint   `json:"employee_id" binding:"required"`
	Status         string `json:"status" binding:"required,transfer_status"`
	AcceptBy       string `json:"accept_by"`
}

// POST /itemtransfers：同一物品只能有一条 Pending
func (tc *TransferController) CreateTransfer(c *gin.Context) {
	var in transferReq
	if !bind(c, &in) {
		return
	}
	t := &models.ItemTransfer{
		ItemID:         in.ItemID,
		OwnerBranch:    in.OwnerBranch,
		PrevUsedBranch: in.PrevUsedBranch,
		SendingBranch:  in.SendingBranch,
		EmployeeID:     in.EmployeeID,
		Status:         models.TransferStatus(in.Status),
		AcceptBy:       in.AcceptBy,
	}
	if err := tc.Repo.CreateTransfer(c.Request.Context(), t); err != nil {
		tc.fail(c, err)
		return
	}
	created(c, "Item transfer created successfully", t)
}

// PUT /itemtransferstatusupdate {item_code, accept_by}
func (tc *TransferController) AcceptTransfer(c *gin.Context) {
	var in struct {
		ItemCode string `json:"item_code" binding:"required"`
		AcceptBy string `json:"accept_by" binding:"required"`
	}
	if !bind(c, &in) {
		return
	}
	t, err := tc.Repo.AcceptTransfer(c.Request.Context(), in.ItemCode, in.AcceptBy)
	if err != nil {
		tc.fail(c, err)
		return
	}
	ok(c, "Item transfer accepted", t)
}

// GET /itemtransferssendingbranchbyitemcide?item_code=
func (tc *TransferController) CurrentSendingBranch(c *gin.Context) {
	if !required(c, "item_code") {
		return
	}
	loc, err := tc.Repo.CurrentSendingBranch(c.Request.Context(), c.Query("item_code"))
	if err != nil {
		tc.fail(c, err)
		return
	}
	ok(c, "Current branch retrieved successfully", loc)
}

// GET /itemtransfers?status=
func (tc *TransferController) ListTransfers(c *gin.Context) {
	q := db.TransfersQuery{Page: pageOf(c)}
	if s := c.Query("status"); s != "" {
		st, err := models.ParseTransferStatus(s)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		q.Status = st
	}
	tc.list(c, q)
}

// GET /itemtranfersbybranch?branch=  owner 或 sending 为该分厂
func (tc *TransferController) ByBranch(c *gin.Context) {
	if !required(c, "branch") {
		return
	}
	tc.list(c, db.TransfersQuery{Branch: c.Query("branch"), Page: pageOf(c)})
}

// GET /itemtransfersbybranchrecent?prevUsedBranch=
func (tc *TransferController) ByPrevBranch(c *gin.Context) {
	if !required(c, "prevUsedBranch") {
		return
	}
	tc.list(c, db.TransfersQuery{PrevBranch: c.Query("prevUsedBranch"), Page: pageOf(c)})
}

// GET /itemtransferbyitemcodewithpending?item_code=
func (tc *TransferController) PendingByItem(c *gin.Context) {
	if !required(c, "item_code") {
		return
	}
	tc.list(c, db.TransfersQuery{ItemID: c.Query("item_code"), Status: models.TransferPending})
}

// GET /itemtransferspendingbybranch?branch=
func (tc *TransferController) PendingBySendingBranch(c *gin.Context) {
	if !required(c, "branch") {
		return
	}
	tc.list(c, db.TransfersQuery{SendingBranch: c.Query("branch"), Status: models.TransferPending, Page: pageOf(c)})
}

// GET /itemtransferbysendingandprev?sending_branch=&prev_used_branch=
func (tc *TransferController) BySendingAndPrev(c *gin.Context) {
	q := db.TransfersQuery{
		SendingBranch: c.Query("sending_branch"),
		PrevBranch:    c.Query("prev_used_branch"),
		Page:          pageOf(c),
	}
	if q.SendingBranch == "" && q.PrevBranch == "" {
		badRequest(c, "sending_branch or prev_used_branch is required")
		return
	}
	tc.list(c, q)
}

func (tc *TransferController) list(c *gin.Context, q db.TransfersQuery) {
	out, err := tc.Repo.ListTransfers(c.Request.Context(), q)
	if err != nil {
		tc.fail(c, err)
		return
	}
	list(c, "Item transfers retrieved successfully", out)
}
