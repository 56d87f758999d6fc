// controllers/it_asset_controller.go
package controllers

import (
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
)

type ITAssetController struct{ *Srv }

func NewITAssetController(s *Srv) *ITAssetController { return &ITAssetController{Srv: s} }

// POST /itassets
func (ac *ITAssetController) CreateITAsset(c *gin.Context) {
	var in models.ITAsset
	if !bind(c, &in) {
		return
	}
	if in.SerialNo == "" || in.Name == "" || in.ITCategoryID == 0 {
		badRequest(c, "serial_no, name and it_category_id are required")
		return
	}
	if err := ac.Repo.CreateITAsset(c.Request.Context(), &in); err != nil {
		ac.fail(c, err)
		return
	}
	created(c, "IT asset created successfully", in)
}

// GET /itassets?it_category_id=
func (ac *ITAssetController) ListITAssets(c *gin.Context) {
	catID, good := queryUint(c, "it_category_id")
	if !good {
		return
	}
	out, err := ac.Repo.ListITAssets(c.Request.Context(), catID, pageOf(c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	list(c, "IT assets retrieved successfully", out)
}

// GET /assetsbyassetcode?asset_id=
func (ac *ITAssetController) GetITAsset(c *gin.Context) {
	if !required(c, "asset_id") {
		return
	}
	a, err := ac.Repo.GetITAsset(c.Request.Context(), c.Query("asset_id"))
	if err != nil {
		ac.fail(c, err)
		return
	}
	ok(c, "IT asset retrieved successfully", a)
}

// POST /createorupdateitassets
func (ac *ITAssetController) BulkUpsertITAssets(c *gin.Context) {
	var in []models.ITAsset
	if !bind(c, &in) {
		return
	}
	res, err := ac.Repo.BulkUpsertITAssets(c.Request.Context(), in)
	if err != nil {
		ac.fail(c, err)
		return
	}
	ok(c, "IT assets processed successfully", res)
}

// Asset users

func (ac *ITAssetController) CreateAssetUser(c *gin.Context) {
	var in models.AssetUser
	if !bind(c, &in) {
		return
	}
	if in.EPFNo == "" || in.FullName == "" {
		badRequest(c, "epf_no and full_name are required")
		return
	}
	if err := ac.Repo.CreateAssetUser(c.Request.Context(), &in); err != nil {
		ac.fail(c, err)
		return
	}
	created(c, "Asset user created successfully", in)
}

func (ac *ITAssetController) ListAssetUsers(c *gin.Context) {
	out, err := ac.Repo.ListAssetUsers(c.Request.Context(), c.Query("branch"))
	if err != nil {
		ac.fail(c, err)
		return
	}
	list(c, "Asset users retrieved successfully", out)
}

// POST /assetusersbulk，按 epf_no 对齐
func (ac *ITAssetController) BulkUpsertAssetUsers(c *gin.Context) {
	var in []models.AssetUser
	if !bind(c, &in) {
		return
	}
	res, err := ac.Repo.BulkUpsertAssetUsers(c.Request.Context(), in)
	if err != nil {
		ac.fail(c, err)
		return
	}
	ok(c, "Asset users processed successfully", res)
}

// Assignments

type assignmentReq struct {
	ITAssetID     string       `json:"it_asset_id" binding:"required"`
	AssetUserID   uint         `json:"asset_user_id" binding:"required"`
	AssignedDate  models.Date  `json:"assigned_date"`
	ReturnedDate  *models.Date `json:"returned_date"`
	IsCurrentUser bool         `json:"is_current_user"`
}

// model 未传 is_current_user 时按 false 处理，assigned_date 默认今天
func (in assignmentReq) model() *models.AssetAssignment {
	a := &models.AssetAssignment{
		ITAssetID:     in.ITAssetID,
		AssetUserID:   in.AssetUserID,
		AssignedDate:  in.AssignedDate,
		ReturnedDate:  in.ReturnedDate,
		IsCurrentUser: in.IsCurrentUser,
	}
	if a.AssignedDate.IsZero() {
		a.AssignedDate = models.Today()
	}
	return a
}

// POST /assetassignments
func (ac *ITAssetController) CreateAssignment(c *gin.Context) {
	var in assignmentReq
	if !bind(c, &in) {
		return
	}
	a := in.model()
	if err := ac.Repo.CreateAssignment(c.Request.Context(), a); err != nil {
		ac.fail(c, err)
		return
	}
	created(c, "Asset assigned successfully", a)
}

// GET /assetassignments 与 /assetassignmentsbyAssetId?asset_id=
func (ac *ITAssetController) ListAssignments(c *gin.Context) {
	out, err := ac.Repo.ListAssignments(c.Request.Context(), c.Query("asset_id"))
	if err != nil {
		ac.fail(c, err)
		return
	}
	list(c, "Asset assignments retrieved successfully", out)
}

// GET /assetassignmentcheckhascurrentuser?asset_id=
func (ac *ITAssetController) HasCurrentUser(c *gin.Context) {
	if !required(c, "asset_id") {
		return
	}
	cur, err := ac.Repo.CurrentAssignment(c.Request.Context(), c.Query("asset_id"))
	if err != nil {
		ac.fail(c, err)
		return
	}
	ok(c, "Current user checked", gin.H{"hasCurrentUser": cur != nil, "assignment": cur})
}

func (ac *ITAssetController) AvailableAssets(c *gin.Context) {
	out, err := ac.Repo.AvailableAssets(c.Request.Context())
	if err != nil {
		ac.fail(c, err)
		return
	}
	list(c, "Available assets retrieved successfully", out)
}

// PUT /assetAssignmentreturnupdate {assignment_id, returned_date}
func (ac *ITAssetController) ReturnAssignment(c *gin.Context) {
	var in struct {
		AssignmentID uint        `json:"assignment_id" binding:"required"`
		ReturnedDate models.Date `json:"returned_date"`
	}
	if !bind(c, &in) {
		return
	}
	if in.ReturnedDate.IsZero() {
		in.ReturnedDate = models.Today()
	}
	a, err := ac.Repo.ReturnAssignment(c.Request.Context(), in.AssignmentID, in.ReturnedDate)
	if err != nil {
		ac.fail(c, err)
		return
	}
	ok(c, "Asset returned successfully", a)
}
