// controllers/org_controller.go
package controllers

import (
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type OrgController struct{ *Srv }

func NewOrgController(s *Srv) *OrgController { return &OrgController{Srv: s} }

// POST /branches
func (oc *OrgController) CreateBranch(c *gin.Context) {
	var in models.Branch
	if !bind(c, &in) {
		return
	}
	if in.BranchName == "" {
		badRequest(c, "branch_name is required")
		return
	}
	if err := oc.Repo.CreateBranch(c.Request.Context(), &in); err != nil {
		oc.fail(c, err)
		return
	}
	created(c, "Branch created successfully", in)
}

func (oc *OrgController) ListBranches(c *gin.Context) {
	out, err := oc.Repo.ListBranches(c.Request.Context())
	if err != nil {
		oc.fail(c, err)
		return
	}
	list(c, "Branches retrieved successfully", out)
}

func (oc *OrgController) CreateCategory(c *gin.Context) {
	var in models.Category
	if !bind(c, &in) {
		return
	}
	if in.CatName == "" {
		badRequest(c, "cat_name is required")
		return
	}
	if err := oc.Repo.CreateCategory(c.Request.Context(), &in); err != nil {
		oc.fail(c, err)
		return
	}
	created(c, "Category created successfully", in)
}

func (oc *OrgController) ListCategories(c *gin.Context) {
	out, err := oc.Repo.ListCategories(c.Request.Context())
	if err != nil {
		oc.fail(c, err)
		return
	}
	list(c, "Categories retrieved successfully", out)
}

func (oc *OrgController) CreateITCategory(c *gin.Context) {
	var in models.ITCategory
	if !bind(c, &in) {
		return
	}
	if in.Name == "" {
		badRequest(c, "name is required")
		return
	}
	if err := oc.Repo.CreateITCategory(c.Request.Context(), &in); err != nil {
		oc.fail(c, err)
		return
	}
	created(c, "IT category created successfully", in)
}

func (oc *OrgController) ListITCategories(c *gin.Context) {
	out, err := oc.Repo.ListITCategories(c.Request.Context())
	if err != nil {
		oc.fail(c, err)
		return
	}
	list(c, "IT categories retrieved successfully", out)
}

// POST /suppliers；contact 必须是 10 位数字
func (oc *OrgController) CreateSupplier(c *gin.Context) {
	var in models.Supplier
	if !bind(c, &in) {
		return
	}
	if in.Name == "" {
		badRequest(c, "name is required")
		return
	}
	if in.Contact != "" && !tenDigits(in.Contact) {
		badRequest(c, "contact must be 10 digits")
		return
	}
	if err := oc.Repo.CreateSupplier(c.Request.Context(), &in); err != nil {
		oc.fail(c, err)
		return
	}
	created(c, "Supplier created successfully", in)
}

func tenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (oc *OrgController) ListSuppliers(c *gin.Context) {
	out, err := oc.Repo.ListSuppliers(c.Request.Context())
	if err != nil {
		oc.fail(c, err)
		return
	}
	list(c, "Suppliers retrieved successfully", out)
}

type employeeReq struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Branch      string `json:"branch"`
	Address     string `json:"address"`
	Contact     string `json:"contact"`
	Designation string `json:"designation"`
}

// POST /employees，密码 bcrypt 后入库
func (oc *OrgController) CreateEmployee(c *gin.Context) {
	var in employeeReq
	if !bind(c, &in) {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		oc.fail(c, err)
		return
	}
	e := &models.Employee{
		Name:        in.Name,
		Email:       in.Email,
		Password:    string(hash),
		Branch:      in.Branch,
		Address:     in.Address,
		Contact:     in.Contact,
		Designation: in.Designation,
	}
	if err := oc.Repo.CreateEmployee(c.Request.Context(), e); err != nil {
		oc.fail(c, err)
		return
	}
	created(c, "Employee created successfully", e)
}

// GET /employees?branch=
func (oc *OrgController) ListEmployees(c *gin.Context) {
	out, err := oc.Repo.ListEmployees(c.Request.Context(), c.Query("branch"))
	if err != nil {
		oc.fail(c, err)
		return
	}
	list(c, "Employees retrieved successfully", out)
}

// Permissions

func (oc *OrgController) CreatePermission(c *gin.Context) {
	var in models.Permission
	if !bind(c, &in) {
		return
	}
	if in.Name == "" {
		badRequest(c, "permission is required")
		return
	}
	if err := oc.Repo.CreatePermission(c.Request.Context(), &in); err != nil {
		oc.fail(c, err)
		return
	}
	created(c, "Permission created successfully", in)
}

func (oc *OrgController) ListPermissions(c *gin.Context) {
	out, err := oc.Repo.ListPermissions(c.Request.Context())
	if err != nil {
		oc.fail(c, err)
		return
	}
	list(c, "Permissions retrieved successfully", out)
}

func (oc *OrgController) GrantPermission(c *gin.Context) {
	var in struct {
		EmployeeID   uint   `json:"employee_id" binding:"required"`
		PermissionID string `json:"permission_id" binding:"required"`
	}
	if !bind(c, &in) {
		return
	}
	ep := &models.EmployeePermission{EmployeeID: in.EmployeeID, PermissionID: in.PermissionID}
	if err := oc.Repo.GrantPermission(c.Request.Context(), ep); err != nil {
		oc.fail(c, err)
		return
	}
	created(c, "Employee permission created successfully", ep)
}

// GET /employeepermissions 与 /employeepermissionsbyemployeid?employee_id=
func (oc *OrgController) ListEmployeePermissions(c *gin.Context) {
	eid, good := queryUint(c, "employee_id")
	if !good {
		return
	}
	out, err := oc.Repo.ListEmployeePermissions(c.Request.Context(), eid)
	if err != nil {
		oc.fail(c, err)
		return
	}
	list(c, "Employee permissions retrieved successfully", out)
}
