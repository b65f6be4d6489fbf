// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/models"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, cfg *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: cfg,
	}
}

// notify writes an in-app notification row. Email is layered on top by
// the callers that want it.
func (s *NotificationService) notify(userID uuid.UUID, notifType, title, message, resourceType string, resourceID *uuid.UUID) error {
	notification := &models.Notification{
		UserID:              userID,
		Type:                notifType,
		Title:               title,
		Message:             message,
		RelatedResourceType: resourceType,
		RelatedResourceID:   resourceID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *NotificationService) SendWelcomeEmail(user *models.User) error {
	data := map[string]interface{}{
		"Username":     user.Username,
		"ExploreURL":   fmt.Sprintf("%s/explore", s.config.Frontend.BaseURL),
		"PlatformName": "ForkYouDaddy",
	}

	subject := "Welcome to ForkYouDaddy"
	body, err := s.renderTemplate(s.getEmailTemplate("welcome").Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// SendRemixNotification tells a creator their content was remixed.
func (s *NotificationService) SendRemixNotification(parent *models.ContentItem, remix *models.ContentItem, remixer *models.User) error {
	message := fmt.Sprintf("%s remixed your content '%s' as '%s'", remixer.Username, parent.Title, remix.Title)
	if err := s.notify(parent.CreatorID, "remix", "Your content was remixed", message, "content", &remix.ID); err != nil {
		return err
	}

	var creator models.User
	if err := s.db.First(&creator, parent.CreatorID).Error; err != nil {
		return fmt.Errorf("creator not found: %w", err)
	}
	if creator.Email == "" {
		return nil
	}

	data := map[string]interface{}{
		"CreatorName": creator.Username,
		"RemixerName": remixer.Username,
		"ParentTitle": parent.Title,
		"RemixTitle":  remix.Title,
		"RemixURL":    fmt.Sprintf("%s/content/%s", s.config.Frontend.BaseURL, remix.ID),
	}

	subject := "Your content was remixed - " + parent.Title
	body, err := s.renderTemplate(s.getEmailTemplate("remix").Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(creator.Email, subject, body)
}

// SendPurchaseConfirmation goes to the buyer once a purchase settles.
func (s *NotificationService) SendPurchaseConfirmation(purchase *models.LicensePurchase, content *models.ContentItem) error {
	message := fmt.Sprintf("Your %s license for '%s' is active", purchase.LicenseID, content.Title)
	if err := s.notify(purchase.BuyerID, "purchase", "License purchase confirmed", message, "purchase", &purchase.ID); err != nil {
		return err
	}

	var buyer models.User
	if err := s.db.First(&buyer, purchase.BuyerID).Error; err != nil {
		return fmt.Errorf("buyer not found: %w", err)
	}
	if buyer.Email == "" {
		return nil
	}

	data := map[string]interface{}{
		"BuyerName":    buyer.Username,
		"ContentTitle": content.Title,
		"LicenseName":  purchase.LicenseID,
		"PricePaid":    purchase.PricePaid,
		"TxHash":       purchase.TxHash,
		"ContentURL":   fmt.Sprintf("%s/content/%s", s.config.Frontend.BaseURL, content.ID),
	}

	subject := "License confirmed - " + content.Title
	body, err := s.renderTemplate(s.getEmailTemplate("purchase_confirmation").Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(buyer.Email, subject, body)
}

// SendSaleNotification goes to the content creator on each settled sale.
func (s *NotificationService) SendSaleNotification(purchase *models.LicensePurchase, content *models.ContentItem) error {
	message := fmt.Sprintf("A %s license for '%s' was purchased", purchase.LicenseID, content.Title)
	return s.notify(content.CreatorID, "sale", "License sold", message, "purchase", &purchase.ID)
}

func (s *NotificationService) SendCommentNotification(content *models.ContentItem, comment *models.Comment, author *models.User) error {
	if content.CreatorID == author.ID {
		// Skip self-comments
		return nil
	}
	message := fmt.Sprintf("%s commented on '%s'", author.Username, content.Title)
	return s.notify(content.CreatorID, "comment", "New comment", message, "comment", &comment.ID)
}

func (s *NotificationService) SendFollowNotification(follower *models.User, followeeID uuid.UUID) error {
	message := fmt.Sprintf("%s started following you", follower.Username)
	return s.notify(followeeID, "follow", "New follower", message, "user", &follower.ID)
}

func (s *NotificationService) SendModerationNotification(comment *models.Comment, resolution string) error {
	var title, message string
	switch resolution {
	case string(models.ReportStatusRemoved):
		title = "Comment removed"
		message = "One of your comments was removed after moderation review"
	default:
		title = "Comment reviewed"
		message = "A flag on one of your comments was reviewed and dismissed"
	}
	return s.notify(comment.AuthorID, "moderation", title, message, "comment", &comment.ID)
}

func (s *NotificationService) SendUserStatusChangeNotification(user *models.User, oldStatus models.UserStatus, reason string) error {
	message := fmt.Sprintf("Your account status changed from %s to %s", oldStatus, user.Status)
	if reason != "" {
		message += ": " + reason
	}
	if err := s.notify(user.ID, "account", "Account status update", message, "user", &user.ID); err != nil {
		return err
	}
	if user.Email == "" {
		return nil
	}

	data := map[string]interface{}{
		"Username":  user.Username,
		"NewStatus": user.Status,
		"OldStatus": oldStatus,
		"Reason":    reason,
	}

	body, err := s.renderTemplate(s.getEmailTemplate("user_status_change").Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, "Account Status Update", body)
}

func (s *NotificationService) GetUserNotifications(userID uuid.UUID, unreadOnly bool, page, perPage int) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("status = ?", "unread")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *NotificationService) MarkAsRead(userID, notificationID uuid.UUID) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{
			"status":  "read",
			"read_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found")
	}
	return nil
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Debug("Email delivery skipped, SMTP not configured")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"welcome": {
			Subject: "Welcome to ForkYouDaddy",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Username}}!</h2>
	<p>Thank you for joining {{.PlatformName}}. Start exploring content to remix:</p>
	<a href="{{.ExploreURL}}">Explore</a>
	<p>Best regards,<br>{{.PlatformName}} Team</p>
</body>
</html>`,
		},
		"remix": {
			Subject: "Your content was remixed",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New remix!</h2>
	<p>Hello {{.CreatorName}},</p>
	<p>{{.RemixerName}} remixed "{{.ParentTitle}}" as "{{.RemixTitle}}".</p>
	<a href="{{.RemixURL}}">View the remix</a>
	<p>Best regards,<br>ForkYouDaddy Team</p>
</body>
</html>`,
		},
		"purchase_confirmation": {
			Subject: "License confirmed",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>License confirmed</h2>
	<p>Hello {{.BuyerName}},</p>
	<p>Your {{.LicenseName}} license for "{{.ContentTitle}}" is active.</p>
	<p>Amount paid: {{.PricePaid}} ETH. Transaction: {{.TxHash}}</p>
	<a href="{{.ContentURL}}">View content</a>
	<p>Best regards,<br>ForkYouDaddy Team</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
