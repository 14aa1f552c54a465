package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         *AuthService
	UserService         *UserService
	CategoryService     *CategoryService
	JobRequestService   *JobRequestService
	OfferService        *OfferService
	ReviewService       *ReviewService
	RatingService       *RatingService
	ModerationService   *ModerationService
	UpgradeService      *UpgradeService
	NotificationService *NotificationService
}
