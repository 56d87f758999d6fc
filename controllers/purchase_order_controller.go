// controllers/purchase_order_controller.go
package controllers

import (
	"Gin_postgres_redis_machine_tracker/app"
	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/idgen"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
)

type PurchaseOrderController struct{ *Srv }

func NewPurchaseOrderController(s *Srv) *PurchaseOrderController {
	return &PurchaseOrderController{Srv: s}
}

type purchaseOrderReq struct {
	POID        string      `json:"po_id"`
	Date        models.Date `json:"date"`
	InvoiceTo   string      `json:"invoice_to"`
	DeliverTo   string      `json:"deliver_to"`
	Attention   string      `json:"attention"`
	PaymentMode string      `json:"payment_mode"`
	PaymentTerm string      `json:"payment_term"`
	Instruction string      `json:"instruction"`
	PRNos       string      `json:"pr_nos"`
	CreatedBy   uint        `json:"created_by" binding:"required"`
	SupplierID  uint        `json:"supplier_id" binding:"required"`
	Status      string      `json:"status" binding:"omitempty,po_status"`
	Branch      string      `json:"branch" binding:"required"`
}

func (in purchaseOrderReq) model() *models.PurchaseOrder {
	po := &models.PurchaseOrder{
		POID: in.POID, Date: in.Date, InvoiceTo: in.InvoiceTo, DeliverTo: in.DeliverTo,
		Attention: in.Attention, PaymentMode: in.PaymentMode, PaymentTerm: in.PaymentTerm,
		Instruction: in.Instruction, PRNos: in.PRNos, CreatedBy: in.CreatedBy,
		SupplierID: in.SupplierID, Status: models.POStatus(in.Status), Branch: in.Branch,
	}
	if po.Date.IsZero() {
		po.Date = models.Today()
	}
	return po
}

// POST /purchaseorders；po_id 形如 2025H/00001
func (pc *PurchaseOrderController) CreatePurchaseOrder(c *gin.Context) {
	var in purchaseOrderReq
	if !bind(c, &in) {
		return
	}
	po := in.model()
	if err := pc.Repo.CreatePurchaseOrder(c.Request.Context(), po); err != nil {
		pc.fail(c, err)
		return
	}
	created(c, "Purchase order created successfully", po)
}

// GET /purchaseorders?branch=&status=
func (pc *PurchaseOrderController) ListPurchaseOrders(c *gin.Context) {
	q := db.POQuery{Branch: c.Query("branch"), Page: pageOf(c)}
	if s := c.Query("status"); s != "" {
		st, err := models.ParsePOStatus(s)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		q.Status = st
	}
	out, err := pc.Repo.ListPurchaseOrders(c.Request.Context(), q)
	if err != nil {
		pc.fail(c, err)
		return
	}
	list(c, "Purchase orders retrieved successfully", out)
}

// GET /purchaseordersbyid?po_id=
func (pc *PurchaseOrderController) GetPurchaseOrder(c *gin.Context) {
	if !required(c, "po_id") {
		return
	}
	po, err := pc.Repo.GetPurchaseOrder(c.Request.Context(), c.Query("po_id"))
	if err != nil {
		pc.fail(c, err)
		return
	}
	ok(c, "Purchase order retrieved successfully", po)
}

// PUT /purchaseorders-status {po_id, status}
func (pc *PurchaseOrderController) UpdateStatus(c *gin.Context) {
	var in struct {
		POID   string `json:"po_id" binding:"required"`
		Status string `json:"status" binding:"required,po_status"`
	}
	if !bind(c, &in) {
		return
	}
	po, err := pc.Repo.UpdatePurchaseOrderStatus(c.Request.Context(), in.POID, models.POStatus(in.Status), actor(c))
	if err != nil {
		pc.fail(c, err)
		return
	}
	ok(c, "Purchase order status updated successfully", po)
}

// PUT /purchaseorders-entire
func (pc *PurchaseOrderController) UpdateEntire(c *gin.Context) {
	var in purchaseOrderReq
	if !bind(c, &in) {
		return
	}
	if in.POID == "" {
		badRequest(c, "po_id is required")
		return
	}
	po, err := pc.Repo.UpdatePurchaseOrder(c.Request.Context(), in.POID, in.model())
	if err != nil {
		pc.fail(c, err)
		return
	}
	ok(c, "Purchase order updated successfully", po)
}

// actor 是当前登录员工；未登录的路由返回 nil
func actor(c *gin.Context) *uint {
	if id, ok := app.EmployeeID(c); ok {
		return &id
	}
	return nil
}

// Approvals

// POST /poapprovals {po_no}
func (pc *PurchaseOrderController) CreateApproval(c *gin.Context) {
	var in struct {
		PONo string `json:"po_no" binding:"required"`
	}
	if !bind(c, &in) {
		return
	}
	a, err := pc.Repo.CreateApproval(c.Request.Context(), in.PONo)
	if err != nil {
		pc.fail(c, err)
		return
	}
	created(c, "PO approval created successfully", a)
}

// Approve1 handles PUT /po-approvals/approval1 {po_no, approval1_by}.
func (pc *PurchaseOrderController) Approve1(c *gin.Context) {
	var in struct {
		PONo string `json:"po_no" binding:"required"`
		By   uint   `json:"approval1_by" binding:"required"`
	}
	if !bind(c, &in) {
		return
	}
	pc.approve(c, 1, in.PONo, in.By)
}

func (pc *PurchaseOrderController) Approve2(c *gin.Context) {
	var in struct {
		PONo string `json:"po_no" binding:"required"`
		By   uint   `json:"approval2_by" binding:"required"`
	}
	if !bind(c, &in) {
		return
	}
	pc.approve(c, 2, in.PONo, in.By)
}

func (pc *PurchaseOrderController) approve(c *gin.Context, gate int, poNo string, by uint) {
	a, err := pc.Repo.SetApproval(c.Request.Context(), gate, poNo, by)
	if err != nil {
		pc.fail(c, err)
		return
	}
	ok(c, "PO approval updated successfully", approvalView(a))
}

func approvalView(a *models.POApproval) gin.H {
	return gin.H{"approval": a, "fully_approved": a.FullyApproved()}
}

// GET /po-approvals/poid?po_no=
func (pc *PurchaseOrderController) GetApproval(c *gin.Context) {
	if !required(c, "po_no") {
		return
	}
	a, err := pc.Repo.GetApproval(c.Request.Context(), c.Query("po_no"))
	if err != nil {
		pc.fail(c, err)
		return
	}
	ok(c, "PO approval retrieved successfully", approvalView(a))
}

func (pc *PurchaseOrderController) ListApprovals(c *gin.Context) {
	out, err := pc.Repo.ListApprovals(c.Request.Context())
	if err != nil {
		pc.fail(c, err)
		return
	}
	list(c, "PO approvals retrieved successfully", out)
}

// Print pool

// POST /poprintpools {po_id, printed_by}：首次打印建记录，之后计数 +1
func (pc *PurchaseOrderController) RecordPrint(c *gin.Context) {
	var in struct {
		POID      string `json:"po_id" binding:"required"`
		PrintedBy *uint  `json:"printed_by"`
	}
	if !bind(c, &in) {
		return
	}
	if in.PrintedBy == nil {
		in.PrintedBy = actor(c)
	}
	pool, isNew, err := pc.Repo.RecordPrint(c.Request.Context(), in.POID, in.PrintedBy, idgen.PrintRef())
	if err != nil {
		pc.fail(c, err)
		return
	}
	if isNew {
		created(c, "PO print recorded successfully", pool)
		return
	}
	ok(c, "PO print count updated successfully", pool)
}

// GET /poprintpoolsbyPoId?po_id=
func (pc *PurchaseOrderController) GetPrintPool(c *gin.Context) {
	if !required(c, "po_id") {
		return
	}
	p, err := pc.Repo.GetPrintPool(c.Request.Context(), c.Query("po_id"))
	if err != nil {
		pc.fail(c, err)
		return
	}
	ok(c, "PO print pool retrieved successfully", p)
}

func (pc *PurchaseOrderController) ListPrintPools(c *gin.Context) {
	out, err := pc.Repo.ListPrintPools(c.Request.Context())
	if err != nil {
		pc.fail(c, err)
		return
	}
	list(c, "PO print pools retrieved successfully", out)
}
