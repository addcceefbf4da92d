package auth

const (
	RoleCompAdmin = "comp_admin"
	RoleFinance   = "finance"
	RoleViewer    = "viewer"
)

const (
	PermEmployeesRead      = "core.employees.read"
	PermEmployeesWrite     = "core.employees.write"
	PermPlansRead          = "plans.read"
	PermPlansWrite         = "plans.write"
	PermPayoutsRead        = "payouts.read"
	PermPayoutsRun         = "payouts.run"
	PermPayoutsExport      = "payouts.export"
	PermSettlementsRead    = "settlements.read"
	PermSettlementsWrite   = "settlements.write"
	PermSettlementsApprove = "settlements.approve"
	PermFxRead             = "fx.read"
	PermFxWrite            = "fx.write"
	PermSystemAdmin        = "admin.system"
)

var DefaultPermissions = []string{
	PermEmployeesRead,
	PermEmployeesWrite,
	PermPlansRead,
	PermPlansWrite,
	PermPayoutsRead,
	PermPayoutsRun,
	PermPayoutsExport,
	PermSettlementsRead,
	PermSettlementsWrite,
	PermSettlementsApprove,
	PermFxRead,
	PermFxWrite,
	PermSystemAdmin,
}

var RolePermissions = map[string][]string{
	RoleCompAdmin: {
		PermEmployeesRead,
		PermEmployeesWrite,
		PermPlansRead,
		PermPlansWrite,
		PermPayoutsRead,
		PermPayoutsRun,
		PermPayoutsExport,
		PermSettlementsRead,
		PermSettlementsWrite,
		PermSettlementsApprove,
		PermFxRead,
		PermFxWrite,
		PermSystemAdmin,
	},
	RoleFinance: {
		PermEmployeesRead,
		PermPlansRead,
		PermPayoutsRead,
		PermPayoutsRun,
		PermPayoutsExport,
		PermSettlementsRead,
		PermSettlementsWrite,
		PermSettlementsApprove,
		PermFxRead,
		PermFxWrite,
	},
	RoleViewer: {
		PermEmployeesRead,
		PermPlansRead,
		PermPayoutsRead,
		PermSettlementsRead,
		PermFxRead,
	},
}
