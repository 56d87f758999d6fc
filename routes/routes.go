package routes

import (
	"time"

	"Gin_postgres_redis_machine_tracker/app"
	"Gin_postgres_redis_machine_tracker/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 平铺的 动词+资源 路由，与现有客户端保持一致
func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	orgCtl := controllers.NewOrgController(s)
	itemCtl := controllers.NewItemController(s)
	trCtl := controllers.NewTransferController(s)
	scanCtl := controllers.NewScanController(s)
	assetCtl := controllers.NewITAssetController(s)
	rmCtl := controllers.NewRentMachineController(s)
	poCtl := controllers.NewPurchaseOrderController(s)
	cpoCtl := controllers.NewCPOController(s)
	grnCtl := controllers.NewGRNController(s)
	auditCtl := controllers.NewAuditController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.Config.JWTSecret, s.GetAppSess())
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)
	permMW := app.PermissionRequired(s.Repo, a.Config, app.PermManagePermissions)
	authed := []gin.HandlerFunc{authMW, seenMW}

	// ------------------------------
	// 登录 / 员工
	// ------------------------------
	r.POST("/login", authCtl.Login)
	r.POST("/logout", append(authed, authCtl.Logout)...)
	r.GET("/whoami", append(authed, authCtl.WhoAmI)...)
	r.PUT("/employepswupdate", authCtl.UpdatePassword)
	r.POST("/employees", orgCtl.CreateEmployee)
	r.GET("/employees", orgCtl.ListEmployees)

	// 权限管理（需要 manage_permissions）
	perm := r.Group("", authMW, seenMW, permMW)
	{
		perm.POST("/permissions", orgCtl.CreatePermission)
		perm.POST("/employeepermissions", orgCtl.GrantPermission)
		perm.GET("/auditlogs", auditCtl.List)
	}
	r.GET("/permissions", orgCtl.ListPermissions)
	r.GET("/employeepermissions", orgCtl.ListEmployeePermissions)
	r.GET("/employeepermissionsbyemployeid", orgCtl.ListEmployeePermissions)

	// ------------------------------
	// 基础数据
	// ------------------------------
	r.POST("/branches", orgCtl.CreateBranch)
	r.GET("/branches", orgCtl.ListBranches)
	r.POST("/categories", orgCtl.CreateCategory)
	r.GET("/categories", orgCtl.ListCategories)
	r.POST("/itcategories", orgCtl.CreateITCategory)
	r.GET("/itcategories", orgCtl.ListITCategories)
	r.POST("/suppliers", orgCtl.CreateSupplier)
	r.GET("/suppliers", orgCtl.ListSuppliers)

	// ------------------------------
	// 物品 / 调拨 / 扫码
	// ------------------------------
	r.POST("/items", itemCtl.CreateItem)
	r.GET("/items", itemCtl.ListItems)
	r.PUT("/items", itemCtl.UpdateItem)
	r.GET("/itemsbyitemcode", itemCtl.GetItem)
	r.GET("/itemsbybranch", itemCtl.ItemsByBranch)
	r.POST("/createorupdateitems", itemCtl.BulkUpsertItems)
	r.POST("/createorupdateitems/upload", itemCtl.UploadItems)

	r.POST("/itemtransfers", trCtl.CreateTransfer)
	r.GET("/itemtransfers", trCtl.ListTransfers)
	r.PUT("/itemtransferstatusupdate", trCtl.AcceptTransfer)
	r.GET("/itemtranfersbybranch", trCtl.ByBranch)
	r.GET("/itemtransfersbybranchrecent", trCtl.ByPrevBranch)
	r.GET("/itemtransferbyitemcodewithpending", trCtl.PendingByItem)
	r.GET("/itemtransferspendingbybranch", trCtl.PendingBySendingBranch)
	r.GET("/itemtransferssendingbranchbyitemcide", trCtl.CurrentSendingBranch)
	r.GET("/itemtransferbysendingandprev", trCtl.BySendingAndPrev)

	r.POST("/itemscans", scanCtl.CreateItemScan)
	r.GET("/itemscans", scanCtl.ListItemScans)
	r.POST("/itemcountscans", scanCtl.CreateItemCountScan)
	r.GET("/itemcountscans", scanCtl.ListItemCountScans)
	r.POST("/updateitemcountscanlatestcurrentbranch", scanCtl.UpdateLatestCountScanBranch)
	r.POST("/idlescans", scanCtl.CreateIdleScan)
	r.GET("/idlescans", scanCtl.ListIdleScans)
	r.GET("/idlescanbycategory", scanCtl.IdleCountsByCategory)

	// ------------------------------
	// IT 资产
	// ------------------------------
	r.POST("/itassets", assetCtl.CreateITAsset)
	r.GET("/itassets", assetCtl.ListITAssets)
	r.GET("/assetsbyassetcode", assetCtl.GetITAsset)
	r.POST("/createorupdateitassets", assetCtl.BulkUpsertITAssets)
	r.POST("/assetusers", assetCtl.CreateAssetUser)
	r.GET("/assetusers", assetCtl.ListAssetUsers)
	r.POST("/assetusersbulk", assetCtl.BulkUpsertAssetUsers)
	r.POST("/assetassignments", assetCtl.CreateAssignment)
	r.GET("/assetassignments", assetCtl.ListAssignments)
	r.GET("/assetassignmentsbyAssetId", assetCtl.ListAssignments)
	r.GET("/assetassignmentcheckhascurrentuser", assetCtl.HasCurrentUser)
	r.GET("/assetsavaialable", assetCtl.AvailableAssets)
	r.PUT("/assetAssignmentreturnupdate", assetCtl.ReturnAssignment)

	// ------------------------------
	// 租赁机器
	// ------------------------------
	r.GET("/rentmachines", append(authed, rmCtl.ListRentMachines)...)
	r.POST("/rentmachines", append(authed, rmCtl.CreateRentMachine)...)
	r.GET("/rentmachines/:id", rmCtl.GetRentMachine)
	r.PUT("/rentmachines/:id", rmCtl.UpdateRentMachine)
	r.GET("/rentmachinesbybranch", rmCtl.ListRentMachines)
	r.GET("/rentmachinesbyserial", rmCtl.BySerial)
	r.GET("/rentmachinesbystatus", rmCtl.ByBranchAndStatus)
	r.GET("/rentmachines-avaialable-to-grn", rmCtl.AvailableToGRN)
	r.GET("/rentmachinetotals", rmCtl.Totals)

	r.POST("/rentmachineallocations", rmCtl.Allocate)
	r.PUT("/rentmachineallocations/release", rmCtl.ReleaseAllocation)
	r.GET("/rentmachineallocations", rmCtl.ListAllocations)
	r.POST("/rentmachinereturns", rmCtl.Return)
	r.GET("/rentmachinereturns", rmCtl.ListReturns)
	r.POST("/porenewalmachines", rmCtl.Renew)
	r.GET("/porenewalmachines", rmCtl.ListRenewals)

	r.POST("/rentmachinelifetimes", rmCtl.CreateLife)
	r.GET("/rentmachinelifetimes", rmCtl.ListLives)
	r.GET("/rentmachinesexpired", rmCtl.Expired)
	r.GET("/rentmachinesexpired/export", rmCtl.ExportExpired)

	// ------------------------------
	// 采购
	// ------------------------------
	r.POST("/purchaseorders", poCtl.CreatePurchaseOrder)
	r.GET("/purchaseorders", poCtl.ListPurchaseOrders)
	r.GET("/purchaseordersbyid", poCtl.GetPurchaseOrder)
	r.PUT("/purchaseorders-status", poCtl.UpdateStatus)
	r.PUT("/purchaseorders-entire", poCtl.UpdateEntire)

	r.POST("/poapprovals", poCtl.CreateApproval)
	r.GET("/poapprovals", poCtl.ListApprovals)
	r.GET("/po-approvals/poid", poCtl.GetApproval)
	r.PUT("/po-approvals/approval1", poCtl.Approve1)
	r.PUT("/po-approvals/approval2", poCtl.Approve2)

	r.POST("/poprintpools", poCtl.RecordPrint)
	r.PUT("/poprinpools-bypoid", poCtl.RecordPrint)
	r.GET("/poprintpools", poCtl.ListPrintPools)
	r.GET("/poprintpoolsbyPoId", poCtl.GetPrintPool)

	r.POST("/categorypurchaseoders", cpoCtl.Create)
	r.GET("/categorypurchaseorders", cpoCtl.List)
	r.POST("/bulk-category-purchaseorders", cpoCtl.BulkCreate)
	r.POST("/bulk-category-purchaseorders-update", cpoCtl.BulkUpsert)
	r.GET("/categorypurchaseordersbypoid", cpoCtl.ByPO)
	r.PUT("/categorypurchaseorders/:id", cpoCtl.Update)
	r.DELETE("/categorypurchaseorders/:id", cpoCtl.Delete)

	r.POST("/grns", grnCtl.CreateGRN)
	r.GET("/grns", grnCtl.ListGRNs)
	r.GET("/grns-rentmachine-cpo-bypoid", grnCtl.ByPO)
	r.DELETE("/grnsdeletebyid", grnCtl.DeleteGRN)
	r.POST("/grn-rent-machines", grnCtl.Receive)
	r.POST("/grn-rent-machines-bulk", grnCtl.ReceiveBulk)
	r.GET("/grn-rent-machines", grnCtl.ListRentMachines)
	r.GET("/grn-rent-machines-byrentid", grnCtl.ListRentMachines)
}
