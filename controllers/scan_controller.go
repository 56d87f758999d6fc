// controllers/scan_controller.go
package controllers

import (
	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
)

// 三种扫码共用一套 handler，区别只在 model
type ScanController struct{ *Srv }

func NewScanController(s *Srv) *ScanController { return &ScanController{Srv: s} }

type scanReq struct {
	CategoryID    uint        `json:"category_id" binding:"required"`
	ItemID        string      `json:"item_id" binding:"required"`
	ScannedDate   models.Date `json:"scanned_date"`
	Branch        string      `json:"branch"`
	CurrentBranch string      `json:"current_branch"`
}

func (in *scanReq) day() models.Date {
	if in.ScannedDate.IsZero() {
		return models.Today()
	}
	return in.ScannedDate
}

func (sc *ScanController) create(c *gin.Context, s models.Scan) {
	if err := sc.Repo.CreateScan(c.Request.Context(), s); err != nil {
		sc.fail(c, err)
		return
	}
	created(c, "Scan recorded successfully", s)
}

// POST /itemscans
func (sc *ScanController) CreateItemScan(c *gin.Context) {
	var in scanReq
	if !bind(c, &in) {
		return
	}
	sc.create(c, &models.ItemScan{CategoryID: in.CategoryID, ItemID: in.ItemID, ScannedDate: in.day(), Branch: in.Branch})
}

// POST /itemcountscans
func (sc *ScanController) CreateItemCountScan(c *gin.Context) {
	var in scanReq
	if !bind(c, &in) {
		return
	}
	sc.create(c, &models.ItemCountScan{
		CategoryID: in.CategoryID, ItemID: in.ItemID, ScannedDate: in.day(),
		Branch: in.Branch, CurrentBranch: in.CurrentBranch,
	})
}

// POST /idlescans
func (sc *ScanController) CreateIdleScan(c *gin.Context) {
	var in scanReq
	if !bind(c, &in) {
		return
	}
	sc.create(c, &models.IdleScan{
		CategoryID: in.CategoryID, ItemID: in.ItemID, ScannedDate: in.day(),
		Branch: in.Branch, CurrentBranch: in.CurrentBranch,
	})
}

func (sc *ScanController) scansQuery(c *gin.Context) (db.ScansQuery, bool) {
	day, good := queryDate(c, "scanned_date")
	if !good {
		return db.ScansQuery{}, false
	}
	return db.ScansQuery{Branch: c.Query("branch"), ItemID: c.Query("item_id"), Day: day, Page: pageOf(c)}, true
}

func (sc *ScanController) ListItemScans(c *gin.Context) {
	q, good := sc.scansQuery(c)
	if !good {
		return
	}
	var out []models.ItemScan
	if err := sc.Repo.ListScans(c.Request.Context(), &out, q); err != nil {
		sc.fail(c, err)
		return
	}
	list(c, "Item scans retrieved successfully", out)
}

func (sc *ScanController) ListItemCountScans(c *gin.Context) {
	q, good := sc.scansQuery(c)
	if !good {
		return
	}
	var out []models.ItemCountScan
	if err := sc.Repo.ListScans(c.Request.Context(), &out, q); err != nil {
		sc.fail(c, err)
		return
	}
	list(c, "Item count scans retrieved successfully", out)
}

func (sc *ScanController) ListIdleScans(c *gin.Context) {
	q, good := sc.scansQuery(c)
	if !good {
		return
	}
	var out []models.IdleScan
	if err := sc.Repo.ListScans(c.Request.Context(), &out, q); err != nil {
		sc.fail(c, err)
		return
	}
	list(c, "Idle scans retrieved successfully", out)
}

// POST /updateitemcountscanlatestcurrentbranch {item_id, current_branch}
func (sc *ScanController) UpdateLatestCountScanBranch(c *gin.Context) {
	var in struct {
		ItemID        string `json:"item_id" binding:"required"`
		CurrentBranch string `json:"current_branch" binding:"required"`
	}
	if !bind(c, &in) {
		return
	}
	s, err := sc.Repo.UpdateLatestCountScanBranch(c.Request.Context(), in.ItemID, in.CurrentBranch)
	if err != nil {
		sc.fail(c, err)
		return
	}
	ok(c, "Latest count scan updated successfully", s)
}

// GET /idlescanbycategory?branch=&scanned_date=  默认今天
func (sc *ScanController) IdleCountsByCategory(c *gin.Context) {
	if !required(c, "branch") {
		return
	}
	day, good := queryDate(c, "scanned_date")
	if !good {
		return
	}
	d := models.Today()
	if day != nil {
		d = *day
	}
	out, err := sc.Repo.IdleCountsByCategory(c.Request.Context(), c.Query("branch"), d)
	if err != nil {
		sc.fail(c, err)
		return
	}
	list(c, "Idle scan counts retrieved successfully", out)
}
