package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	CategoryHandler     *CategoryHandler
	JobRequestHandler   *JobRequestHandler
	OfferHandler        *OfferHandler
	ReviewHandler       *ReviewHandler
	ComplaintHandler    *ComplaintHandler
	UpgradeHandler      *UpgradeHandler
	NotificationHandler *NotificationHandler
}
