// controllers/item_controller.go
package controllers

import (
	"net/http"

	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

type itemReq struct {
	ItemCode    string       `json:"item_code"`
	SerialNo    string       `json:"serial_no" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Description string       `json:"description"`
	Branch      string       `json:"branch" binding:"required"`
	BoxNo       string       `json:"box_no"`
	ModelNo     string       `json:"model_no"`
	MotorNo     string       `json:"motor_no"`
	CatID       uint         `json:"cat_id" binding:"required"`
	Supplier    string       `json:"supplier"`
	Brand       string       `json:"brand"`
	Condition   string       `json:"condition"`
	ImportDate  *models.Date `json:"import_date"`
}

func (in itemReq) model() models.Item {
	return models.Item{
		ItemCode: in.ItemCode, SerialNo: in.SerialNo, Name: in.Name, Description: in.Description,
		Branch: in.Branch, BoxNo: in.BoxNo, ModelNo: in.ModelNo, MotorNo: in.MotorNo, CatID: in.CatID,
		Supplier: in.Supplier, Brand: in.Brand, Condition: in.Condition, ImportDate: in.ImportDate,
	}
}

// POST /items；item_code 不传时按分厂生成
func (ic *ItemController) CreateItem(c *gin.Context) {
	var in itemReq
	if !bind(c, &in) {
		return
	}
	it := in.model()
	if err := ic.Repo.CreateItem(c.Request.Context(), &it); err != nil {
		ic.fail(c, err)
		return
	}
	created(c, "Item created successfully", it)
}

// GET /items?branch=&cat_id=&q=&page=&size=
func (ic *ItemController) ListItems(c *gin.Context) {
	catID, good := queryUint(c, "cat_id")
	if !good {
		return
	}
	items, total, err := ic.Repo.ListItems(c.Request.Context(), db.ItemsQuery{
		Branch: c.Query("branch"),
		CatID:  catID,
		Q:      c.Query("q"),
		Page:   pageOf(c),
	})
	if err != nil {
		ic.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Items retrieved successfully", "data": items, "count": len(items), "total": total})
}

// GET /itemsbybranch?branch=&cat_id=
func (ic *ItemController) ItemsByBranch(c *gin.Context) {
	if !required(c, "branch") {
		return
	}
	ic.ListItems(c)
}

// GET /itemsbyitemcode?item_code=
func (ic *ItemController) GetItem(c *gin.Context) {
	if !required(c, "item_code") {
		return
	}
	it, err := ic.Repo.GetItem(c.Request.Context(), c.Query("item_code"))
	if err != nil {
		ic.fail(c, err)
		return
	}
	ok(c, "Item retrieved successfully", it)
}

var itemColumns = []string{
	"serial_no", "name", "description", "branch", "box_no", "model_no", "motor_no",
	"cat_id", "supplier", "brand", "condition", "import_date",
}

// PUT /items?item_code=
func (ic *ItemController) UpdateItem(c *gin.Context) {
	if !required(c, "item_code") {
		return
	}
	var body map[string]any
	if !bind(c, &body) {
		return
	}
	fields, err := updateFields(body, itemColumns, "cat_id")
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	it, err := ic.Repo.UpdateItem(c.Request.Context(), c.Query("item_code"), fields)
	if err != nil {
		ic.fail(c, err)
		return
	}
	ok(c, "Item updated successfully", it)
}

// POST /createorupdateitems，body 为 item 数组
func (ic *ItemController) BulkUpsertItems(c *gin.Context) {
	var in []itemReq
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err.Error())
		return
	}
	items := make([]models.Item, len(in))
	for i := range in {
		items[i] = in[i].model()
	}
	ic.bulkItems(c, items)
}

// POST /createorupdateitems/upload，multipart 字段 file
func (ic *ItemController) UploadItems(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		ic.fail(c, err)
		return
	}
	defer f.Close()

	items, err := parseItemSheet(f)
	if err != nil {
		if db.KindOf(err) == 0 {
			badRequest(c, err.Error())
			return
		}
		ic.fail(c, err)
		return
	}
	ic.bulkItems(c, items)
}

func (ic *ItemController) bulkItems(c *gin.Context, items []models.Item) {
	res, err := ic.Repo.BulkUpsertItems(c.Request.Context(), items)
	if err != nil {
		ic.fail(c, err)
		return
	}
	ok(c, "Items processed successfully", res)
}
