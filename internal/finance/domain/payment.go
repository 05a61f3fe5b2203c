package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod 支付渠道
type PaymentMethod string

const (
	PaymentMethodPuntoPago    PaymentMethod = "PUNTO_PAGO"
	PaymentMethodYappy        PaymentMethod = "YAPPY"
	PaymentMethodWesternUnion PaymentMethod = "WESTERN_UNION"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// PaymentStatus 支付状态。COMPLETED 之后仅允许退款/取消流转。
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// PaymentType 支付类型
type PaymentType string

const (
	PaymentTypeDownPayment    PaymentType = "DOWN_PAYMENT"
	PaymentTypeEMI            PaymentType = "EMI"
	PaymentTypeFullSettlement PaymentType = "FULL_SETTLEMENT"
)

// PaymentRecord 支付流水。InstallmentID 为空表示不挂接分期的首付款。
type PaymentRecord struct {
	ID            uint  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PlanID        uint  `gorm:"column:plan_id;index;not null" json:"plan_id"`
	InstallmentID *uint `gorm:"column:installment_id;index" json:"installment_id"`

	PaymentType   PaymentType     `gorm:"column:payment_type;type:varchar(20);not null" json:"payment_type"`
	PaymentMethod PaymentMethod   `gorm:"column:payment_method;type:varchar(20);not null" json:"payment_method"`
	PaymentAmount decimal.Decimal `gorm:"column:payment_amount;type:decimal(10,2);not null" json:"payment_amount"`
	PaymentDate   time.Time       `gorm:"column:payment_date;index;not null" json:"payment_date"`
	PaymentStatus PaymentStatus   `gorm:"column:payment_status;type:varchar(20);index;not null;default:PENDING" json:"payment_status"`

	ReceiptNumber        string `gorm:"column:receipt_number;type:varchar(50);uniqueIndex" json:"receipt_number"`
	TransactionReference string `gorm:"column:transaction_reference;type:varchar(100)" json:"transaction_reference"`
	Notes                string `gorm:"column:notes;type:text" json:"notes"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName gorm 表名
func (PaymentRecord) TableName() string {
	return "payment_records"
}
