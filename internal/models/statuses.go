package models

type UserStatus string
type JobRequestStatus string
type OfferStatus string
type ReviewRole string
type ComplaintStatus string
type ProblemType string
type AdminActionType string
type UpgradeStatus string

// Роли пользователя. Храним как множество: один пользователь может быть
// одновременно заказчиком и исполнителем.
const (
	RoleSeeker    = "seeker"
	RoleProvider  = "provider"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	JobRequestStatusOpen      JobRequestStatus = "open"
	JobRequestStatusAssigned  JobRequestStatus = "assigned"
	JobRequestStatusCompleted JobRequestStatus = "completed"
	JobRequestStatusCancelled JobRequestStatus = "cancelled"

	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"

	ReviewRoleSeeker   ReviewRole = "seeker"
	ReviewRoleProvider ReviewRole = "provider"

	ComplaintStatusPending       ComplaintStatus = "pending"
	ComplaintStatusInvestigating ComplaintStatus = "investigating"
	ComplaintStatusResolved      ComplaintStatus = "resolved"
	ComplaintStatusDismissed     ComplaintStatus = "dismissed"

	ProblemTypeFraud           ProblemType = "fraud"
	ProblemTypeNoShow          ProblemType = "no_show"
	ProblemTypePoorQuality     ProblemType = "poor_quality"
	ProblemTypePaymentIssue    ProblemType = "payment_issue"
	ProblemTypeAbusiveBehavior ProblemType = "abusive_behavior"
	ProblemTypeOther           ProblemType = "other"

	AdminActionNone       AdminActionType = "none"
	AdminActionWarning    AdminActionType = "warning"
	AdminActionSuspension AdminActionType = "suspension"
	AdminActionBan        AdminActionType = "ban"
	AdminActionRefund     AdminActionType = "refund"

	UpgradeStatusNone     UpgradeStatus = "none"
	UpgradeStatusPending  UpgradeStatus = "pending"
	UpgradeStatusAccepted UpgradeStatus = "accepted"
	UpgradeStatusRejected UpgradeStatus = "rejected"
)

// ValidProblemType проверяет тип жалобы против фиксированного перечня
func ValidProblemType(p ProblemType) bool {
	switch p {
	case ProblemTypeFraud, ProblemTypeNoShow, ProblemTypePoorQuality,
		ProblemTypePaymentIssue, ProblemTypeAbusiveBehavior, ProblemTypeOther:
		return true
	}
	return false
}

// ValidAdminAction проверяет действие админа против фиксированного перечня
func ValidAdminAction(a AdminActionType) bool {
	switch a {
	case AdminActionNone, AdminActionWarning, AdminActionSuspension,
		AdminActionBan, AdminActionRefund:
		return true
	}
	return false
}

// ComplaintTransitionAllowed проверяет переход статуса жалобы:
// pending -> investigating -> {resolved|dismissed}; resolved и dismissed
// терминальны.
func ComplaintTransitionAllowed(from, to ComplaintStatus) bool {
	if from == to {
		return true
	}
	switch from {
	case ComplaintStatusPending:
		return to == ComplaintStatusInvestigating ||
			to == ComplaintStatusResolved ||
			to == ComplaintStatusDismissed
	case ComplaintStatusInvestigating:
		return to == ComplaintStatusResolved || to == ComplaintStatusDismissed
	}
	return false
}

// ComplaintStatusTerminal - resolved/dismissed замораживают жалобу
func ComplaintStatusTerminal(s ComplaintStatus) bool {
	return s == ComplaintStatusResolved || s == ComplaintStatusDismissed
}
