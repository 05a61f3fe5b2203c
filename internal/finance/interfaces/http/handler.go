// Package http 提供信贷决策引擎的 HTTP 处理器。
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pramodthundathil/ola-backend/internal/finance/application"
	"github.com/pramodthundathil/ola-backend/internal/finance/domain"
	"github.com/pramodthundathil/ola-backend/pkg/logger"
	"github.com/pramodthundathil/ola-backend/pkg/response"
)

const dateLayout = "2006-01-02"

// FinanceHandler HTTP 处理器
// 负责处理信贷决策、排期与收款相关的 HTTP 请求
type FinanceHandler struct {
	decisions *application.DecisionService
	schedules *application.ScheduleService
	payments  *application.PaymentService
	analytics *application.AnalyticsService
}

// NewFinanceHandler 创建 HTTP 处理器实例
func NewFinanceHandler(
	decisions *application.DecisionService,
	schedules *application.ScheduleService,
	payments *application.PaymentService,
	analytics *application.AnalyticsService,
) *FinanceHandler {
	return &FinanceHandler{
		decisions: decisions,
		schedules: schedules,
		payments:  payments,
		analytics: analytics,
	}
}

// RegisterRoutes 注册路由
func (h *FinanceHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/finance")
	{
		api.POST("/auto-plan", h.RunAutoDecision)
		api.GET("/auto-plan/:customer_id", h.GetLatestAutoPlan)

		api.POST("/plans", h.RunDecision)
		api.GET("/plans", h.ListPlans)
		api.GET("/plans/:id", h.GetPlan)
		api.GET("/plans/:id/decision", h.GetDecisionResult)
		api.POST("/plans/:id/schedule", h.GenerateSchedule)
		api.GET("/plans/:id/schedule", h.GetSchedule)

		api.POST("/installments/:id/payments", h.ApplyPayment)
		api.GET("/payments", h.ListPayments)

		analytics := api.Group("/analytics")
		{
			analytics.GET("/overview", h.AnalyticsOverview)
			analytics.GET("/risk-tiers", h.AnalyticsRiskTiers)
			analytics.GET("/collections", h.AnalyticsCollections)
			analytics.GET("/overdue", h.AnalyticsOverdue)
		}
	}
}

// autoDecisionRequest 预审请求体
type autoDecisionRequest struct {
	CustomerID      uint            `json:"customer_id" binding:"required"`
	ApplicationID   uint            `json:"application_id"`
	BureauScore     int             `json:"bureau_score" binding:"required"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	ScoreValidUntil string          `json:"score_valid_until" binding:"required"`
}

// RunAutoDecision 预审：生成分层与建议方案组合
func (h *FinanceHandler) RunAutoDecision(c *gin.Context) {
	var req autoDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	validUntil, err := time.Parse(time.RFC3339, req.ScoreValidUntil)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "score_valid_until must be RFC3339", nil)
		return
	}

	cmd := &application.AutoDecisionCommand{
		CustomerID:    req.CustomerID,
		ApplicationID: req.ApplicationID,
		Profile: domain.CreditProfile{
			CustomerID:      req.CustomerID,
			BureauScore:     req.BureauScore,
			MonthlyIncome:   req.MonthlyIncome,
			ScoreValidUntil: validUntil,
		},
	}

	autoPlan, err := h.decisions.RunAutoDecision(c.Request.Context(), cmd)
	if err != nil {
		h.renderError(c, err, "Failed to run auto decision")
		return
	}

	response.Created(c, autoPlan)
}

// GetLatestAutoPlan 查询客户最近一次预审结果
func (h *FinanceHandler) GetLatestAutoPlan(c *gin.Context) {
	customerID, ok := parseUintParam(c, "customer_id")
	if !ok {
		return
	}

	autoPlan, err := h.decisions.GetLatestAutoPlan(c.Request.Context(), customerID)
	if err != nil {
		h.renderError(c, err, "Failed to get auto plan")
		return
	}

	response.Success(c, autoPlan)
}

// decisionRequest 放款决策请求体
type decisionRequest struct {
	CustomerID    uint `json:"customer_id" binding:"required"`
	ApplicationID uint `json:"application_id"`

	BureauScore     int             `json:"bureau_score" binding:"required"`
	MonthlyIncome   decimal.Decimal `json:"monthly_income"`
	ScoreValidUntil string          `json:"score_valid_until" binding:"required"`

	DeviceID uint `json:"device_id"`
	// DevicePrice 默认按裸价处理，定价时加收 ITBMS；
	// 上游已经给到含税价时置 price_includes_tax
	DevicePrice      decimal.Decimal `json:"device_price" binding:"required"`
	PriceIncludesTax bool            `json:"price_includes_tax"`

	FaceMatchScore *decimal.Decimal `json:"face_match_score"`

	ActualDownPayment        decimal.Decimal `json:"actual_down_payment"`
	SelectedTerm             int             `json:"selected_term" binding:"required"`
	InstallmentFrequencyDays int             `json:"installment_frequency_days" binding:"required"`

	ReferencesScore      decimal.Decimal `json:"references_score"`
	GeoBehaviorScore     decimal.Decimal `json:"geo_behavior_score"`
	ValidReferencesCount int             `json:"valid_references_count"`
	AntiFraudPassed      bool            `json:"anti_fraud_passed"`
	AntiFraudNotes       string          `json:"anti_fraud_notes"`
}

// RunDecision 执行放款决策
func (h *FinanceHandler) RunDecision(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	validUntil, err := time.Parse(time.RFC3339, req.ScoreValidUntil)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "score_valid_until must be RFC3339", nil)
		return
	}

	devicePrice := req.DevicePrice
	if !req.PriceIncludesTax {
		devicePrice = domain.PriceWithTax(devicePrice)
	}

	cmd := &application.DecisionCommand{
		CustomerID:    req.CustomerID,
		ApplicationID: req.ApplicationID,
		Profile: domain.CreditProfile{
			CustomerID:      req.CustomerID,
			BureauScore:     req.BureauScore,
			MonthlyIncome:   req.MonthlyIncome,
			ScoreValidUntil: validUntil,
		},
		Device: domain.DeviceInfo{
			DeviceID: req.DeviceID,
			Price:    devicePrice,
		},
		Identity:                 domain.IdentityContext{FaceMatchScore: req.FaceMatchScore},
		ActualDownPayment:        req.ActualDownPayment,
		SelectedTerm:             req.SelectedTerm,
		InstallmentFrequencyDays: req.InstallmentFrequencyDays,
		ReferencesScore:          req.ReferencesScore,
		GeoBehaviorScore:         req.GeoBehaviorScore,
		ValidReferencesCount:     req.ValidReferencesCount,
		AntiFraudPassed:          req.AntiFraudPassed,
		AntiFraudNotes:           req.AntiFraudNotes,
	}

	outcome, err := h.decisions.RunDecision(c.Request.Context(), cmd)
	if err != nil {
		h.renderError(c, err, "Failed to run decision")
		return
	}

	h.analytics.Invalidate(c.Request.Context())
	response.Created(c, outcome)
}

// ListPlans 分页查询方案
func (h *FinanceHandler) ListPlans(c *gin.Context) {
	offset, limit := pagination(c)

	plans, total, err := h.decisions.ListPlans(c.Request.Context(), offset, limit)
	if err != nil {
		h.renderError(c, err, "Failed to list plans")
		return
	}

	response.Success(c, gin.H{"total": total, "items": plans})
}

// GetPlan 查询单个方案
func (h *FinanceHandler) GetPlan(c *gin.Context) {
	planID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.decisions.GetPlan(c.Request.Context(), planID)
	if err != nil {
		h.renderError(c, err, "Failed to get plan")
		return
	}

	response.Success(c, plan)
}

// GetDecisionResult 查询方案的七因子审计记录
func (h *FinanceHandler) GetDecisionResult(c *gin.Context) {
	planID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	result, err := h.decisions.GetDecisionResult(c.Request.Context(), planID)
	if err != nil {
		h.renderError(c, err, "Failed to get decision result")
		return
	}

	response.Success(c, result)
}

// generateScheduleRequest 排期生成请求体
type generateScheduleRequest struct {
	FirstDueDate string `json:"first_due_date" binding:"required"`
}

// GenerateSchedule 为方案生成分期排期
func (h *FinanceHandler) GenerateSchedule(c *gin.Context) {
	planID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req generateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	firstDue, err := time.Parse(dateLayout, req.FirstDueDate)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "first_due_date must be YYYY-MM-DD", nil)
		return
	}

	result, err := h.schedules.GenerateSchedule(c.Request.Context(), &application.GenerateScheduleCommand{
		PlanID:       planID,
		FirstDueDate: firstDue,
	})
	if err != nil {
		h.renderError(c, err, "Failed to generate schedule")
		return
	}

	if result.Created {
		h.analytics.Invalidate(c.Request.Context())
		response.Created(c, result)
		return
	}
	response.Success(c, result)
}

// GetSchedule 查询方案的全部分期
func (h *FinanceHandler) GetSchedule(c *gin.Context) {
	planID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	installments, err := h.schedules.GetSchedule(c.Request.Context(), planID)
	if err != nil {
		h.renderError(c, err, "Failed to get schedule")
		return
	}

	response.Success(c, installments)
}

// paymentRequest 分期付款请求体
type paymentRequest struct {
	Amount               decimal.Decimal      `json:"amount" binding:"required"`
	PaymentDate          string               `json:"payment_date"`
	Method               domain.PaymentMethod `json:"method" binding:"required"`
	ReceiptNumber        string               `json:"receipt_number"`
	TransactionReference string               `json:"transaction_reference"`
	Notes                string               `json:"notes"`
}

// ApplyPayment 分期付款入账
func (h *FinanceHandler) ApplyPayment(c *gin.Context) {
	installmentID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	var paymentDate time.Time
	if req.PaymentDate != "" {
		parsed, err := time.Parse(dateLayout, req.PaymentDate)
		if err != nil {
			response.ErrorWithStatus(c, http.StatusBadRequest, "payment_date must be YYYY-MM-DD", nil)
			return
		}
		paymentDate = parsed
	}

	result, err := h.payments.ApplyPayment(c.Request.Context(), &application.PaymentCommand{
		InstallmentID:        installmentID,
		Amount:               req.Amount,
		PaymentDate:          paymentDate,
		Method:               req.Method,
		ReceiptNumber:        req.ReceiptNumber,
		TransactionReference: req.TransactionReference,
		Notes:                req.Notes,
	})
	if err != nil {
		h.renderError(c, err, "Failed to apply payment")
		return
	}

	h.analytics.Invalidate(c.Request.Context())
	response.Success(c, result)
}

// ListPayments 分页查询支付流水
func (h *FinanceHandler) ListPayments(c *gin.Context) {
	offset, limit := pagination(c)

	payments, total, err := h.payments.ListPayments(c.Request.Context(), offset, limit)
	if err != nil {
		h.renderError(c, err, "Failed to list payments")
		return
	}

	response.Success(c, gin.H{"total": total, "items": payments})
}

// AnalyticsOverview 总体报表
func (h *FinanceHandler) AnalyticsOverview(c *gin.Context) {
	report, err := h.analytics.Overview(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "Failed to build overview report")
		return
	}
	response.Success(c, report)
}

// AnalyticsRiskTiers 分层报表
func (h *FinanceHandler) AnalyticsRiskTiers(c *gin.Context) {
	report, err := h.analytics.RiskTiers(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "Failed to build risk tier report")
		return
	}
	response.Success(c, report)
}

// AnalyticsCollections 回款报表
func (h *FinanceHandler) AnalyticsCollections(c *gin.Context) {
	report, err := h.analytics.Collections(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "Failed to build collections report")
		return
	}
	response.Success(c, report)
}

// AnalyticsOverdue 逾期报表
func (h *FinanceHandler) AnalyticsOverdue(c *gin.Context) {
	report, err := h.analytics.Overdue(c.Request.Context())
	if err != nil {
		h.renderError(c, err, "Failed to build overdue report")
		return
	}
	response.Success(c, report)
}

// renderError 将领域错误映射到 HTTP 状态码
func (h *FinanceHandler) renderError(c *gin.Context, err error, msg string) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrInstallmentNotFound),
		errors.Is(err, domain.ErrScheduleNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrScheduleExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNoActiveScore),
		errors.Is(err, domain.ErrInvalidTerm):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidFrequency),
		errors.Is(err, domain.ErrInvalidDownPayment),
		errors.Is(err, domain.ErrInvalidPayment):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error(msg, "error", err)
	}

	response.ErrorWithStatus(c, status, err.Error(), nil)
}

// pagination 解析分页参数，page 从 1 开始
func pagination(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return (page - 1) * size, size
}

// parseUintParam 解析路径上的数字 ID
func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, name+" must be a positive integer", nil)
		return 0, false
	}
	return uint(raw), true
}
