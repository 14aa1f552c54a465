package services

import (
	"context"
	"time"

	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Репозитории статусные, db прокидывается насквозь, поэтому сервисы
// тестируются с nil *gorm.DB и фейками на функциональных полях.

type fakeUserRepo struct {
	users         map[string]*models.User
	usersByEmail  map[string]*models.User
	created       []*models.User
	saved         []*models.User
	blocked       map[string]bool
	ratingUpdates []ratingUpdate
}

type ratingUpdate struct {
	userID      string
	rating      float64
	reviewCount int64
	isTopRated  bool
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{
		users:        make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
		blocked:      make(map[string]bool),
	}
	for _, u := range users {
		r.users[u.ID] = u
		r.usersByEmail[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	if user.ID == "" {
		user.ID = "user-" + user.Email
	}
	r.created = append(r.created, user)
	r.users[user.ID] = user
	r.usersByEmail[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	u, ok := r.usersByEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) Save(db *gorm.DB, user *models.User) error {
	r.saved = append(r.saved, user)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SetBlocked(db *gorm.DB, userID string, blocked bool) error {
	r.blocked[userID] = blocked
	if u, ok := r.users[userID]; ok {
		u.IsBlocked = blocked
	}
	return nil
}

func (r *fakeUserRepo) UpdateRatingAggregates(db *gorm.DB, userID string, rating float64, reviewCount int64, isTopRated bool) error {
	r.ratingUpdates = append(r.ratingUpdates, ratingUpdate{userID, rating, reviewCount, isTopRated})
	if u, ok := r.users[userID]; ok {
		u.Rating = rating
		u.ReviewCount = int(reviewCount)
		u.IsTopRated = isTopRated
	}
	return nil
}

type fakeCategoryRepo struct {
	active map[string]bool
}

func (r *fakeCategoryRepo) Create(db *gorm.DB, category *models.Category) error { return nil }

func (r *fakeCategoryRepo) FindByID(db *gorm.DB, id string) (*models.Category, error) {
	if _, ok := r.active[id]; !ok {
		return nil, repositories.ErrCategoryNotFound
	}
	return &models.Category{IsActive: r.active[id]}, nil
}

func (r *fakeCategoryRepo) ListActive(db *gorm.DB) ([]models.Category, error) { return nil, nil }

func (r *fakeCategoryRepo) IsActive(db *gorm.DB, id string) (bool, error) {
	active, ok := r.active[id]
	if !ok {
		return false, repositories.ErrCategoryNotFound
	}
	return active, nil
}

type assignCall struct {
	jobID      string
	offerID    string
	providerID string
}

type fakeJobRepo struct {
	jobs              map[string]*models.JobRequest
	offers            *fakeOfferRepo
	assignErr         error
	assignCalls       []assignCall
	completeErr       error
	completeCalls     int
	cancelErr         error
	completedCount    map[string]int64
	savedDetails      []*models.JobRequest
	created           []*models.JobRequest
	expiredCancelled  int64
}

func newFakeJobRepo(jobs ...*models.JobRequest) *fakeJobRepo {
	r := &fakeJobRepo{
		jobs:           make(map[string]*models.JobRequest),
		completedCount: make(map[string]int64),
	}
	for _, j := range jobs {
		r.jobs[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) Create(db *gorm.DB, job *models.JobRequest) error {
	if job.ID == "" {
		job.ID = "job-new"
	}
	r.created = append(r.created, job)
	r.jobs[job.ID] = job
	return nil
}

func (r *fakeJobRepo) FindByID(db *gorm.DB, id string) (*models.JobRequest, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrJobRequestNotFound
	}
	return j, nil
}

func (r *fakeJobRepo) ListBySeeker(db *gorm.DB, seekerID string) ([]models.JobRequest, error) {
	var out []models.JobRequest
	for _, j := range r.jobs {
		if j.SeekerID == seekerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Search(db *gorm.DB, criteria repositories.JobSearchCriteria) ([]models.JobRequest, int64, error) {
	return nil, 0, nil
}

func (r *fakeJobRepo) SaveDetails(db *gorm.DB, job *models.JobRequest) error {
	r.savedDetails = append(r.savedDetails, job)
	return nil
}

func (r *fakeJobRepo) Delete(db *gorm.DB, id string) error {
	delete(r.jobs, id)
	return nil
}

// AssignOffer повторяет полный переход репозитория: заявка уходит из
// open, выбранный pending-оффер принимается, остальные отклоняются.
func (r *fakeJobRepo) AssignOffer(db *gorm.DB, jobID, offerID, providerID string) error {
	r.assignCalls = append(r.assignCalls, assignCall{jobID, offerID, providerID})
	if r.assignErr != nil {
		return r.assignErr
	}
	j, ok := r.jobs[jobID]
	if !ok {
		return repositories.ErrJobRequestNotFound
	}
	if j.Status != models.JobRequestStatusOpen {
		return repositories.ErrJobNotOpen
	}
	if r.offers != nil {
		o, ok := r.offers.offers[offerID]
		if !ok || o.JobRequestID != jobID {
			return repositories.ErrOfferNotFound
		}
		if o.Status != models.OfferStatusPending {
			return repositories.ErrOfferNotPending
		}
		o.Status = models.OfferStatusAccepted
		for _, other := range r.offers.offers {
			if other.JobRequestID == jobID && other.ID != offerID && other.Status == models.OfferStatusPending {
				other.Status = models.OfferStatusRejected
			}
		}
	}
	j.Status = models.JobRequestStatusAssigned
	pid := providerID
	j.AssignedProviderID = &pid
	return nil
}

func (r *fakeJobRepo) Complete(db *gorm.DB, jobID, providerID string, proofImages datatypes.JSON, proofDescription string, completedAt time.Time) error {
	r.completeCalls++
	if r.completeErr != nil {
		return r.completeErr
	}
	if j, ok := r.jobs[jobID]; ok {
		j.Status = models.JobRequestStatusCompleted
		j.ProofImages = proofImages
		j.ProofDescription = proofDescription
		j.CompletedAt = &completedAt
	}
	return nil
}

func (r *fakeJobRepo) Cancel(db *gorm.DB, jobID string) error {
	if r.cancelErr != nil {
		return r.cancelErr
	}
	if j, ok := r.jobs[jobID]; ok {
		j.Status = models.JobRequestStatusCancelled
	}
	return nil
}

func (r *fakeJobRepo) CountCompletedByProvider(db *gorm.DB, providerID string) (int64, error) {
	return r.completedCount[providerID], nil
}

func (r *fakeJobRepo) CancelExpiredOpen(db *gorm.DB, now time.Time) (int64, error) {
	return r.expiredCancelled, nil
}

type fakeOfferRepo struct {
	offers    map[string]*models.Offer
	createErr error
	created   []*models.Offer
}

func newFakeOfferRepo(offers ...*models.Offer) *fakeOfferRepo {
	r := &fakeOfferRepo{offers: make(map[string]*models.Offer)}
	for _, o := range offers {
		r.offers[o.ID] = o
	}
	return r
}

func (r *fakeOfferRepo) Create(db *gorm.DB, offer *models.Offer) error {
	if r.createErr != nil {
		return r.createErr
	}
	if offer.ID == "" {
		offer.ID = "offer-new"
	}
	r.created = append(r.created, offer)
	r.offers[offer.ID] = offer
	return nil
}

func (r *fakeOfferRepo) FindByID(db *gorm.DB, id string) (*models.Offer, error) {
	o, ok := r.offers[id]
	if !ok {
		return nil, repositories.ErrOfferNotFound
	}
	return o, nil
}

func (r *fakeOfferRepo) ListByJobRequest(db *gorm.DB, jobRequestID string) ([]models.Offer, error) {
	var out []models.Offer
	for _, o := range r.offers {
		if o.JobRequestID == jobRequestID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) ListByProvider(db *gorm.DB, providerID string) ([]models.Offer, error) {
	var out []models.Offer
	for _, o := range r.offers {
		if o.ProviderID == providerID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOfferRepo) CountByStatus(db *gorm.DB, jobRequestID string, status models.OfferStatus) (int64, error) {
	var n int64
	for _, o := range r.offers {
		if o.JobRequestID == jobRequestID && o.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeReviewRepo struct {
	reviews   map[string]*models.Review
	createErr error
	created   []*models.Review
	aggregate map[string]*repositories.RatingAggregate
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		reviews:   make(map[string]*models.Review),
		aggregate: make(map[string]*repositories.RatingAggregate),
	}
}

func (r *fakeReviewRepo) Create(db *gorm.DB, review *models.Review) error {
	if r.createErr != nil {
		return r.createErr
	}
	if review.ID == "" {
		review.ID = "review-new"
	}
	r.created = append(r.created, review)
	r.reviews[review.ID] = review
	return nil
}

func (r *fakeReviewRepo) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	rev, ok := r.reviews[id]
	if !ok {
		return nil, repositories.ErrReviewNotFound
	}
	return rev, nil
}

func (r *fakeReviewRepo) FindByPairAndJob(db *gorm.DB, reviewerID, reviewedUserID, jobRequestID string) (*models.Review, error) {
	for _, rev := range r.reviews {
		if rev.ReviewerID == reviewerID && rev.ReviewedUserID == reviewedUserID && rev.JobRequestID == jobRequestID {
			return rev, nil
		}
	}
	return nil, repositories.ErrReviewNotFound
}

func (r *fakeReviewRepo) ListForUser(db *gorm.DB, reviewedUserID string, page, pageSize int) ([]models.Review, int64, error) {
	var out []models.Review
	for _, rev := range r.reviews {
		if rev.ReviewedUserID == reviewedUserID {
			out = append(out, *rev)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) ListByJobRequest(db *gorm.DB, jobRequestID string) ([]models.Review, error) {
	var out []models.Review
	for _, rev := range r.reviews {
		if rev.JobRequestID == jobRequestID {
			out = append(out, *rev)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) AggregateForUser(db *gorm.DB, reviewedUserID string) (*repositories.RatingAggregate, error) {
	if agg, ok := r.aggregate[reviewedUserID]; ok {
		return agg, nil
	}
	// как COALESCE(AVG, 0), COUNT(*) по пустой выборке
	return &repositories.RatingAggregate{}, nil
}

type appliedAction struct {
	complaint   *models.Complaint
	action      *models.AdminAction
	blockUserID string
}

type fakeComplaintRepo struct {
	complaints map[string]*models.Complaint
	active     map[string]*models.Complaint // reporterID+"|"+jobID
	created    []*models.Complaint
	applied    []appliedAction
	actions    []models.AdminAction
	applyErr   error
}

func newFakeComplaintRepo(complaints ...*models.Complaint) *fakeComplaintRepo {
	r := &fakeComplaintRepo{
		complaints: make(map[string]*models.Complaint),
		active:     make(map[string]*models.Complaint),
	}
	for _, c := range complaints {
		r.complaints[c.ID] = c
		if c.Active() {
			r.active[c.ReporterID+"|"+c.JobRequestID] = c
		}
	}
	return r
}

func (r *fakeComplaintRepo) Create(db *gorm.DB, complaint *models.Complaint) error {
	if complaint.ID == "" {
		complaint.ID = "complaint-new"
	}
	r.created = append(r.created, complaint)
	r.complaints[complaint.ID] = complaint
	r.active[complaint.ReporterID+"|"+complaint.JobRequestID] = complaint
	return nil
}

func (r *fakeComplaintRepo) FindByID(db *gorm.DB, id string) (*models.Complaint, error) {
	c, ok := r.complaints[id]
	if !ok {
		return nil, repositories.ErrComplaintNotFound
	}
	return c, nil
}

func (r *fakeComplaintRepo) FindActiveByReporterAndJob(db *gorm.DB, reporterID, jobRequestID string) (*models.Complaint, error) {
	c, ok := r.active[reporterID+"|"+jobRequestID]
	if !ok {
		return nil, repositories.ErrComplaintNotFound
	}
	return c, nil
}

func (r *fakeComplaintRepo) ListByReporter(db *gorm.DB, reporterID string) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range r.complaints {
		if c.ReporterID == reporterID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeComplaintRepo) Search(db *gorm.DB, criteria repositories.ComplaintSearchCriteria) ([]models.Complaint, int64, error) {
	return nil, 0, nil
}

func (r *fakeComplaintRepo) ApplyAdminAction(db *gorm.DB, complaint *models.Complaint, action *models.AdminAction, blockUserID string) error {
	if r.applyErr != nil {
		return r.applyErr
	}
	r.applied = append(r.applied, appliedAction{complaint, action, blockUserID})
	r.actions = append(r.actions, *action)
	r.complaints[complaint.ID] = complaint
	return nil
}

func (r *fakeComplaintRepo) ListAdminActions(db *gorm.DB, complaintID string) ([]models.AdminAction, error) {
	var out []models.AdminAction
	for _, a := range r.actions {
		if a.ComplaintID == complaintID {
			out = append(out, a)
		}
	}
	return out, nil
}

type decideCall struct {
	request       *models.UpgradeRequest
	user          *models.User
	createProfile bool
}

type fakeUpgradeRepo struct {
	requests  map[string]*models.UpgradeRequest
	createErr error
	decideErr error
	created   []*models.UpgradeRequest
	decided   []decideCall
	viewed    []string
}

func newFakeUpgradeRepo(requests ...*models.UpgradeRequest) *fakeUpgradeRepo {
	r := &fakeUpgradeRepo{requests: make(map[string]*models.UpgradeRequest)}
	for _, req := range requests {
		r.requests[req.ID] = req
	}
	return r
}

func (r *fakeUpgradeRepo) CreateWithLimits(db *gorm.DB, request *models.UpgradeRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	if request.ID == "" {
		request.ID = "upgrade-new"
	}
	r.created = append(r.created, request)
	r.requests[request.ID] = request
	return nil
}

func (r *fakeUpgradeRepo) FindByID(db *gorm.DB, id string) (*models.UpgradeRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrUpgradeRequestNotFound
	}
	return req, nil
}

func (r *fakeUpgradeRepo) ListByUser(db *gorm.DB, userID string) ([]models.UpgradeRequest, error) {
	var out []models.UpgradeRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeUpgradeRepo) ListPending(db *gorm.DB) ([]models.UpgradeRequest, error) {
	var out []models.UpgradeRequest
	for _, req := range r.requests {
		if req.Status == models.UpgradeStatusPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeUpgradeRepo) Decide(db *gorm.DB, request *models.UpgradeRequest, user *models.User, createProviderProfile bool) error {
	if r.decideErr != nil {
		return r.decideErr
	}
	r.decided = append(r.decided, decideCall{request, user, createProviderProfile})
	r.requests[request.ID] = request
	return nil
}

func (r *fakeUpgradeRepo) MarkViewed(db *gorm.DB, id string) error {
	r.viewed = append(r.viewed, id)
	return nil
}

type notificationCall struct {
	kind   string
	userID string
}

type fakeNotificationRepo struct {
	calls []notificationCall
}

func (r *fakeNotificationRepo) CreateNotification(db *gorm.DB, n *models.Notification) error {
	r.calls = append(r.calls, notificationCall{"raw", n.UserID})
	return nil
}

func (r *fakeNotificationRepo) FindUserNotifications(db *gorm.DB, userID string, unreadOnly bool, page, pageSize int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(db *gorm.DB, userID string) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) MarkAsRead(db *gorm.DB, notificationID string) error { return nil }

func (r *fakeNotificationRepo) MarkAllAsRead(db *gorm.DB, userID string) error { return nil }

func (r *fakeNotificationRepo) DeleteReadOlderThan(db *gorm.DB, olderThan time.Time) (int64, error) {
	return 0, nil
}

func (r *fakeNotificationRepo) CreateOfferReceivedNotification(db *gorm.DB, seekerID, jobRequestID, jobTitle string) error {
	r.calls = append(r.calls, notificationCall{"offer_received", seekerID})
	return nil
}

func (r *fakeNotificationRepo) CreateOfferDecidedNotification(db *gorm.DB, providerID, jobRequestID, jobTitle string, accepted bool) error {
	kind := "offer_rejected"
	if accepted {
		kind = "offer_accepted"
	}
	r.calls = append(r.calls, notificationCall{kind, providerID})
	return nil
}

func (r *fakeNotificationRepo) CreateJobCompletedNotification(db *gorm.DB, seekerID, jobRequestID, jobTitle string) error {
	r.calls = append(r.calls, notificationCall{"job_completed", seekerID})
	return nil
}

func (r *fakeNotificationRepo) CreateReviewReceivedNotification(db *gorm.DB, reviewedUserID, jobRequestID string, rating int) error {
	r.calls = append(r.calls, notificationCall{"review_received", reviewedUserID})
	return nil
}

func (r *fakeNotificationRepo) CreateComplaintResolvedNotification(db *gorm.DB, reporterID, complaintID string, status models.ComplaintStatus) error {
	r.calls = append(r.calls, notificationCall{"complaint_resolved", reporterID})
	return nil
}

func (r *fakeNotificationRepo) CreateUpgradeDecidedNotification(db *gorm.DB, userID, requestID string, status models.UpgradeStatus) error {
	r.calls = append(r.calls, notificationCall{"upgrade_decided", userID})
	return nil
}

type publishedEvent struct {
	eventType string
	payload   map[string]string
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) Publish(ctx context.Context, eventType string, payload map[string]string) {
	p.events = append(p.events, publishedEvent{eventType, payload})
}
