package controllers

import (
	"net/http"
	"strings"
	"testing"

	"Gin_postgres_redis_machine_tracker/db"
	"Gin_postgres_redis_machine_tracker/internal/testutil"
	"Gin_postgres_redis_machine_tracker/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestCreateRentMachineRejectsUnknownStatus(t *testing.T) {
	r := testutil.SetupRouter(t)
	rc := NewRentMachineController(&Srv{Log: zap.NewNop()})
	r.POST("/rentmachines", rc.CreateRentMachine)

	w := testutil.DoRequest(r, http.MethodPost, "/rentmachines", gin.H{
		"serial_no": "RM-1", "name": "Overlock", "cat_id": 1, "sup_id": 1,
		"machine_status": "Lost",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	msg, _ := testutil.ParseResponse(w)["message"].(string)
	if !strings.Contains(msg, `"Lost"`) || !strings.Contains(msg, string(models.MachineAvailableToGrn)) {
		t.Fatalf("message = %q", msg)
	}
}

func TestCreateTransferRejectsUnknownStatus(t *testing.T) {
	r := testutil.SetupRouter(t)
	tc := NewTransferController(&Srv{Log: zap.NewNop()})
	r.POST("/itemtransfers", tc.CreateTransfer)

	w := testutil.DoRequest(r, http.MethodPost, "/itemtransfers", gin.H{
		"item_id": "ITMH001", "owner_branch": "Hettipola", "sending_branch": "Mathara",
		"employee_id": 1, "status": "Lost",
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

// itemRouter wires the item and transfer handlers on a migrated test schema.
func itemRouter(t *testing.T) (*gin.Engine, uint, uint) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	repo := db.NewRepo(conn)
	cat := models.Category{CatName: "Overlock"}
	emp := models.Employee{Name: "Keeper", Email: "keeper@example.com", Password: "x"}
	if err := conn.Create(&cat).Error; err != nil {
		t.Fatal(err)
	}
	if err := conn.Create(&emp).Error; err != nil {
		t.Fatal(err)
	}

	s := &Srv{Repo: repo, Log: zap.NewNop()}
	ic, tc := NewItemController(s), NewTransferController(s)
	r := testutil.SetupRouter(t)
	r.POST("/items", ic.CreateItem)
	r.GET("/items", ic.ListItems)
	r.GET("/itemsbyitemcode", ic.GetItem)
	r.POST("/itemtransfers", tc.CreateTransfer)
	r.PUT("/itemtransferstatusupdate", tc.AcceptTransfer)
	r.GET("/itemtransferssendingbranchbyitemcide", tc.CurrentSendingBranch)
	return r, cat.CatID, emp.EmployeeID
}

func TestItemAndTransferHandlers(t *testing.T) {
	r, catID, empID := itemRouter(t)

	w := testutil.DoRequest(r, http.MethodPost, "/items", gin.H{
		"serial_no": "SN-1", "name": "Overlock", "branch": "Hettipola", "cat_id": catID,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create item: %d %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]any)
	code := data["item_code"].(string)
	if code != "ITMH001" {
		t.Fatalf("item_code = %s", code)
	}

	w = testutil.DoRequest(r, http.MethodPost, "/items", gin.H{
		"serial_no": "SN-1", "name": "again", "branch": "Hettipola", "cat_id": catID,
	}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate serial: %d", w.Code)
	}

	w = testutil.DoRequest(r, http.MethodGet, "/items?branch=Hettipola", nil, "")
	resp := testutil.ParseResponse(w)
	if resp["count"] != float64(1) || resp["total"] != float64(1) {
		t.Fatalf("list = %v", resp)
	}

	w = testutil.DoRequest(r, http.MethodGet, "/itemsbyitemcode?item_code=ITMH404", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing item: %d", w.Code)
	}

	transfer := gin.H{
		"item_id": code, "owner_branch": "Hettipola", "sending_branch": "Mathara",
		"employee_id": empID, "status": "Pending",
	}
	if w := testutil.DoRequest(r, http.MethodPost, "/itemtransfers", transfer, ""); w.Code != http.StatusCreated {
		t.Fatalf("create transfer: %d %s", w.Code, w.Body.String())
	}
	if w := testutil.DoRequest(r, http.MethodPost, "/itemtransfers", transfer, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("second pending transfer: %d", w.Code)
	}

	w = testutil.DoRequest(r, http.MethodPut, "/itemtransferstatusupdate", gin.H{"item_code": code, "accept_by": "Gate"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("accept: %d %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, http.MethodGet, "/itemtransferssendingbranchbyitemcide?item_code="+code, nil, "")
	loc := testutil.ParseResponse(w)["data"].(map[string]any)
	if loc["new_branch"] != "Mathara" {
		t.Fatalf("location = %v", loc)
	}
}
