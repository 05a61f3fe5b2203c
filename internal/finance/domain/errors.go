package domain

import "errors"

var (
	ErrNoActiveScore       = errors.New("no active credit score for customer")
	ErrInvalidTerm         = errors.New("selected term not allowed for risk tier")
	ErrInvalidFrequency    = errors.New("installment frequency must be 15 or 30 days")
	ErrInvalidDownPayment  = errors.New("down payment exceeds device price")
	ErrPlanNotFound        = errors.New("finance plan not found")
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrAlreadyPaid         = errors.New("installment already paid")
	ErrScheduleExists      = errors.New("EMI schedule already exists for plan")
	ErrScheduleNotFound    = errors.New("EMI schedule not found for plan")
	ErrInvalidPayment      = errors.New("payment amount must be positive")
)
