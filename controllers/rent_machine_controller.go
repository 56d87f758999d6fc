// controllers/rent_machine_controller.go
package controllers

import (
	"fmt"
	"net/http"

	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RentMachineController struct{ *Srv }

func NewRentMachineController(s *Srv) *RentMachineController { return &RentMachineController{Srv: s} }

type rentMachineReq struct {
	RentItemID    string `json:"rent_item_id"`
	SerialNo      string `json:"serial_no" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	RentedBy      string `json:"rented_by"`
	BoxNo         string `json:"box_no"`
	ModelNo       string `json:"model_no"`
	MotorNo       string `json:"motor_no"`
	CatID         uint   `json:"cat_id" binding:"required"`
	SupID         uint   `json:"sup_id" binding:"required"`
	Brand         string `json:"brand"`
	Condition     string `json:"condition"`
	MachineStatus string `json:"machine_status" binding:"omitempty,machine_status"`
}

// POST /rentmachines
func (rc *RentMachineController) CreateRentMachine(c *gin.Context) {
	var in rentMachineReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, machineStatusMsg(err))
		return
	}
	m := &models.RentMachine{
		RentItemID: in.RentItemID, SerialNo: in.SerialNo, Name: in.Name, Description: in.Description,
		RentedBy: in.RentedBy, BoxNo: in.BoxNo, ModelNo: in.ModelNo, MotorNo: in.MotorNo,
		CatID: in.CatID, SupID: in.SupID, Brand: in.Brand, Condition: in.Condition,
		MachineStatus: models.MachineStatus(in.MachineStatus),
	}
	if err := rc.Repo.CreateRentMachine(c.Request.Context(), m); err != nil {
		rc.fail(c, err)
		return
	}
	created(c, "Rent machine created successfully", m)
}

// machineStatusMsg 把 validator 的报错换成带可选值的提示
func machineStatusMsg(err error) string {
	if ve, ok := asValidationErrors(err); ok {
		for _, fe := range ve {
			if fe.Tag() == "machine_status" {
				return fmt.Sprintf("invalid machine_status %q, allowed: %s", fe.Value(), models.AllowedMachineStatuses())
			}
		}
	}
	return err.Error()
}

// GET /rentmachines?rented_by=&machine_status=&cat_id=
func (rc *RentMachineController) ListRentMachines(c *gin.Context) {
	q, good := rc.machinesQuery(c)
	if !good {
		return
	}
	rc.listMachines(c, q)
}

// GET /rentmachinesbystatus?rented_by=&machine_status=  两个都必填
func (rc *RentMachineController) ByBranchAndStatus(c *gin.Context) {
	if !required(c, "rented_by", "machine_status") {
		return
	}
	rc.ListRentMachines(c)
}

// GET /rentmachines-avaialable-to-grn
func (rc *RentMachineController) AvailableToGRN(c *gin.Context) {
	rc.listMachines(c, db.RentMachinesQuery{Status: models.MachineAvailableToGrn, RentedBy: c.Query("rented_by"), Page: pageOf(c)})
}

func (rc *RentMachineController) machinesQuery(c *gin.Context) (db.RentMachinesQuery, bool) {
	q := db.RentMachinesQuery{RentedBy: c.Query("rented_by"), Page: pageOf(c)}
	if s := c.Query("machine_status"); s != "" {
		st, err := models.ParseMachineStatus(s)
		if err != nil {
			badRequest(c, err.Error())
			return q, false
		}
		q.Status = st
	}
	id, good := queryUint(c, "cat_id")
	q.CatID = id
	return q, good
}

func (rc *RentMachineController) listMachines(c *gin.Context, q db.RentMachinesQuery) {
	out, total, err := rc.Repo.ListRentMachines(c.Request.Context(), q)
	if err != nil {
		rc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Rent machines retrieved successfully", "data": out, "count": len(out), "total": total})
}

// GET /rentmachinesbyserial?serial_no=
func (rc *RentMachineController) BySerial(c *gin.Context) {
	if !required(c, "serial_no") {
		return
	}
	m, err := rc.Repo.GetRentMachineBySerial(c.Request.Context(), c.Query("serial_no"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	ok(c, "Rent machine retrieved successfully", m)
}

func (rc *RentMachineController) GetRentMachine(c *gin.Context) {
	m, err := rc.Repo.GetRentMachine(c.Request.Context(), c.Param("id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	ok(c, "Rent machine retrieved successfully", m)
}

var rentMachineColumns = []string{
	"serial_no", "name", "description", "rented_by", "box_no", "model_no", "motor_no",
	"cat_id", "sup_id", "brand", "condition", "machine_status",
}

// PUT /rentmachines/:id
func (rc *RentMachineController) UpdateRentMachine(c *gin.Context) {
	var body map[string]any
	if !bind(c, &body) {
		return
	}
	fields, err := updateFields(body, rentMachineColumns, "cat_id", "sup_id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if v, ok := fields["machine_status"]; ok {
		s, _ := v.(string)
		fields["machine_status"] = models.MachineStatus(s)
	}
	m, err := rc.Repo.UpdateRentMachine(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		rc.fail(c, err)
		return
	}
	ok(c, "Rent machine updated successfully", m)
}

// GET /rentmachinetotals?group=category|branch&machine_status=
func (rc *RentMachineController) Totals(c *gin.Context) {
	var status models.MachineStatus
	if s := c.Query("machine_status"); s != "" {
		st, err := models.ParseMachineStatus(s)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		status = st
	}
	var (
		out []db.MachineTotal
		err error
	)
	switch c.DefaultQuery("group", "category") {
	case "category":
		out, err = rc.Repo.RentMachineTotalsByCategory(c.Request.Context(), status)
	case "branch":
		out, err = rc.Repo.RentMachineTotalsByBranch(c.Request.Context(), status)
	default:
		badRequest(c, "group must be category or branch")
		return
	}
	if err != nil {
		rc.fail(c, err)
		return
	}
	list(c, "Rent machine totals retrieved successfully", out)
}

// Lifecycle

func (rc *RentMachineController) Allocate(c *gin.Context) {
	var in struct {
		RentItemID string       `json:"rent_item_id" binding:"required"`
		StyleNo    string       `json:"style_no"`
		FromDate   models.Date  `json:"from_date"`
		ToDate     *models.Date `json:"to_date"`
		PONo       string       `json:"po_no"`
	}
	if !bind(c, &in) {
		return
	}
	a := &models.RentMachineAllocation{
		RentItemID: in.RentItemID, StyleNo: in.StyleNo, FromDate: in.FromDate, ToDate: in.ToDate, PONo: in.PONo,
	}
	if a.FromDate.IsZero() {
		a.FromDate = models.Today()
	}
	if err := rc.Repo.AllocateMachine(c.Request.Context(), a); err != nil {
		rc.fail(c, err)
		return
	}
	created(c, "Rent machine allocated successfully", a)
}

func (rc *RentMachineController) ReleaseAllocation(c *gin.Context) {
	var in struct {
		RentItemID string      `json:"rent_item_id" binding:"required"`
		EndDate    models.Date `json:"end_date"`
		ToTransfer bool        `json:"to_transfer"`
	}
	if !bind(c, &in) {
		return
	}
	m, err := rc.Repo.ReleaseAllocation(c.Request.Context(), in.RentItemID, in.EndDate, in.ToTransfer)
	if err != nil {
		rc.fail(c, err)
		return
	}
	ok(c, "Allocation released successfully", m)
}

func (rc *RentMachineController) ListAllocations(c *gin.Context) {
	status := models.AllocationStatus(c.Query("status"))
	if status != "" && status != models.AllocationActive && status != models.AllocationInactive {
		badRequest(c, "status must be Active or Inactive")
		return
	}
	out, err := rc.Repo.ListAllocations(c.Request.Context(), c.Query("rent_item_id"), status)
	if err != nil {
		rc.fail(c, err)
		return
	}
	list(c, "Allocations retrieved successfully", out)
}

func (rc *RentMachineController) Return(c *gin.Context) {
	var in models.RentMachineReturn
	if !bind(c, &in) {
		return
	}
	if in.RentItemID == "" {
		badRequest(c, "rent_item_id is required")
		return
	}
	if in.ReturnDate.IsZero() {
		in.ReturnDate = models.Today()
	}
	if err := rc.Repo.ReturnMachine(c.Request.Context(), &in); err != nil {
		rc.fail(c, err)
		return
	}
	created(c, "Rent machine returned successfully", in)
}

func (rc *RentMachineController) ListReturns(c *gin.Context) {
	out, err := rc.Repo.ListReturns(c.Request.Context(), c.Query("rent_item_id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	list(c, "Rent machine returns retrieved successfully", out)
}

// POST /porenewalmachines
func (rc *RentMachineController) Renew(c *gin.Context) {
	var in models.POMachineRenewal
	if !bind(c, &in) {
		return
	}
	if err := rc.Repo.RenewMachine(c.Request.Context(), &in); err != nil {
		rc.fail(c, err)
		return
	}
	created(c, "PO machine renewal created successfully", in)
}

func (rc *RentMachineController) ListRenewals(c *gin.Context) {
	out, err := rc.Repo.ListRenewals(c.Request.Context(), c.Query("po_id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	list(c, "PO machine renewals retrieved successfully", out)
}

// Life windows

func (rc *RentMachineController) CreateLife(c *gin.Context) {
	var in models.RentMachineLife
	if !bind(c, &in) {
		return
	}
	if err := rc.Repo.CreateRentMachineLife(c.Request.Context(), &in); err != nil {
		rc.fail(c, err)
		return
	}
	created(c, "Rent machine life created successfully", in)
}

func (rc *RentMachineController) ListLives(c *gin.Context) {
	out, err := rc.Repo.ListRentMachineLives(c.Request.Context(), c.Query("rent_item_id"))
	if err != nil {
		rc.fail(c, err)
		return
	}
	list(c, "Rent machine lives retrieved successfully", out)
}

// GET /rentmachinesexpired  只读视图
func (rc *RentMachineController) Expired(c *gin.Context) {
	out, err := rc.Repo.ExpiredUnreturned(c.Request.Context(), models.Today())
	if err != nil {
		rc.fail(c, err)
		return
	}
	list(c, "Expired rent machines retrieved successfully", out)
}

// GET /rentmachinesexpired/export
func (rc *RentMachineController) ExportExpired(c *gin.Context) {
	today := models.Today()
	rows, err := rc.Repo.ExpiredUnreturned(c.Request.Context(), today)
	if err != nil {
		rc.fail(c, err)
		return
	}
	f, err := expiredWorkbook(rows)
	if err != nil {
		rc.fail(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"expired_machines_%s.xlsx\"", today))
	if err := f.Write(c.Writer); err != nil {
		rc.Log.Error("write expired workbook", zap.Error(err))
	}
}
