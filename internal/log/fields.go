package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldUserID       = "user_id"
	FieldBudgetID     = "budget_id"
	FieldGoalID       = "goal_id"
	FieldCategoryID   = "category_id"
	FieldSource       = "source"
	FieldGeneration   = "generation"
	FieldTransactions = "transactions"
	FieldAmount       = "amount"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentAnalytics = "analytics"
	ComponentDashboard = "dashboard"
	ComponentInsights  = "insights"
	ComponentAMQP      = "amqp"
	ComponentCache     = "cache"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpFetch    = "fetch"
	OpEvaluate = "evaluate"
	OpTransfer = "transfer"
	OpPublish  = "publish"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
