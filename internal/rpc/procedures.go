package rpc

// Procedure paths, in Connect's /package.Service/Method form.
const (
	AuthRegisterProcedure = "/crewledger.v1.AuthService/Register"
	AuthLoginProcedure    = "/crewledger.v1.AuthService/Login"

	LedgerVerifyProcedure      = "/crewledger.v1.LedgerService/VerifyLedger"
	LedgerGetReportProcedure   = "/crewledger.v1.LedgerService/GetReport"
	LedgerListReportsProcedure = "/crewledger.v1.LedgerService/ListReports"
)
