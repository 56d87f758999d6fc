// controllers/cpo_controller.go
package controllers

import (
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
)

// CPOController 采购单分类行 (category purchase order)
type CPOController struct{ *Srv }

func NewCPOController(s *Srv) *CPOController { return &CPOController{Srv: s} }

// POST /categorypurchaseoders
func (cc *CPOController) Create(c *gin.Context) {
	var in models.CategoryPurchaseOrder
	if !bind(c, &in) {
		return
	}
	if err := cc.Repo.CreateCPO(c.Request.Context(), &in); err != nil {
		cc.fail(c, err)
		return
	}
	created(c, "Category purchase order created successfully", in)
}

// POST /bulk-category-purchaseorders：有一行不合法整批不写
func (cc *CPOController) BulkCreate(c *gin.Context) {
	var in []models.CategoryPurchaseOrder
	if !bind(c, &in) {
		return
	}
	out, err := cc.Repo.BulkCreateCPO(c.Request.Context(), in)
	if err != nil {
		cc.fail(c, err)
		return
	}
	created(c, "Category purchase orders created successfully", out)
}

// POST /bulk-category-purchaseorders-update：带 cpo_id 的是更新
func (cc *CPOController) BulkUpsert(c *gin.Context) {
	var in []models.CategoryPurchaseOrder
	if !bind(c, &in) {
		return
	}
	res, err := cc.Repo.BulkUpsertCPO(c.Request.Context(), in)
	if err != nil {
		cc.fail(c, err)
		return
	}
	ok(c, "Category purchase orders processed successfully", res)
}

// PUT /categorypurchaseorders/:id
func (cc *CPOController) Update(c *gin.Context) {
	id, good := paramUint(c, "id")
	if !good {
		return
	}
	var in models.CategoryPurchaseOrder
	if !bind(c, &in) {
		return
	}
	if err := cc.Repo.UpdateCPO(c.Request.Context(), id, &in); err != nil {
		cc.fail(c, err)
		return
	}
	in.CPOID = id
	ok(c, "Category purchase order updated successfully", in)
}

func (cc *CPOController) Delete(c *gin.Context) {
	id, good := paramUint(c, "id")
	if !good {
		return
	}
	if err := cc.Repo.DeleteCPO(c.Request.Context(), id); err != nil {
		cc.fail(c, err)
		return
	}
	ok(c, "Category purchase order deleted successfully", gin.H{"cpo_id": id})
}

func (cc *CPOController) List(c *gin.Context) {
	out, err := cc.Repo.ListCPO(c.Request.Context())
	if err != nil {
		cc.fail(c, err)
		return
	}
	list(c, "Category purchase orders retrieved successfully", out)
}

// GET /categorypurchaseordersbypoid?po_id=  带行合计与总计
func (cc *CPOController) ByPO(c *gin.Context) {
	if !required(c, "po_id") {
		return
	}
	out, err := cc.Repo.CPOByPO(c.Request.Context(), c.Query("po_id"))
	if err != nil {
		cc.fail(c, err)
		return
	}
	ok(c, "Category purchase orders retrieved successfully", out)
}
