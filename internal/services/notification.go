package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"geraetewart/internal/dto"
	"geraetewart/internal/entities"
	"geraetewart/internal/planning"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/notifier"
	"geraetewart/pkg/utils"

	"go.uber.org/zap"
)

const defaultTestMessage = "Dies ist eine Testbenachrichtigung vom Gerätewart."

type NotificationServiceInterface interface {
	SendTest(ctx context.Context, d dto.TestNotificationDTO) error
	SendDueDigest(ctx context.Context) (*dto.DigestResultDTO, error)
	NotifyRecordCompleted(ctx context.Context, record entities.MaintenanceRecord) error
}

type NotificationService struct {
	notifier    notifier.Notifier
	settings    SettingsServiceInterface
	projections projectionSource
	logger      *zap.Logger
}

func NewNotificationService(n notifier.Notifier, settings SettingsServiceInterface, projections projectionSource, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifier: n, settings: settings, projections: projections, logger: logger}
}

func (s *NotificationService) SendTest(ctx context.Context, d dto.TestNotificationDTO) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	recipient := settings.Notifications.Recipient
	if d.Recipient.Valid && d.Recipient.String != "" {
		recipient = d.Recipient.String
	}
	if recipient == "" {
		return apperrors.NewHttpError(http.StatusBadRequest, "Kein Empfänger angegeben", apperrors.ErrBadRequest, nil)
	}
	text := defaultTestMessage
	if d.Message.Valid && strings.TrimSpace(d.Message.String) != "" {
		text = d.Message.String
	}

	return s.send(ctx, notifier.Message{
		Type:         notifier.TypeTest,
		Recipient:    recipient,
		SenderDomain: settings.Notifications.SenderDomain,
		Subject:      "Testbenachrichtigung",
		Message:      text,
	})
}

type digestEntry struct {
	name  string
	lines []string
}

// SendDueDigest отправляет одно письмо на ответственного шаблона со всеми просроченными
// и скоро наступающими сроками. Сроки без e-mail ответственного попадают в Skipped.
func (s *NotificationService) SendDueDigest(ctx context.Context) (*dto.DigestResultDTO, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.Notifications.Enabled {
		return nil, apperrors.NewHttpError(http.StatusConflict, "Benachrichtigungen sind deaktiviert", apperrors.ErrConflict, nil)
	}

	filter := planning.DefaultProjectionFilter()
	filter.Buckets[planning.BucketPlanned] = false
	projections, err := s.projections.Projections(ctx, filter)
	if err != nil {
		return nil, err
	}

	byRecipient := make(map[string]*digestEntry)
	result := &dto.DigestResultDTO{Skipped: []string{}}
	for _, p := range projections {
		email := utils.SafeDeref(p.Template.ResponsiblePersonEmail)
		if email == "" {
			result.Skipped = append(result.Skipped, fmt.Sprintf("%s / %s", p.Template.Name, p.Equipment.Name))
			continue
		}
		entry, ok := byRecipient[email]
		if !ok {
			entry = &digestEntry{name: utils.SafeDeref(p.Template.ResponsiblePersonName)}
			byRecipient[email] = entry
		}
		entry.lines = append(entry.lines, digestLine(p))
	}

	recipients := make([]string, 0, len(byRecipient))
	for email := range byRecipient {
		recipients = append(recipients, email)
	}
	sort.Strings(recipients)

	for _, email := range recipients {
		entry := byRecipient[email]
		err := s.send(ctx, notifier.Message{
			Type:         notifier.TypeProduction,
			Recipient:    email,
			SenderDomain: settings.Notifications.SenderDomain,
			Subject:      fmt.Sprintf("Fällige Wartungen (%d)", len(entry.lines)),
			Message:      digestBody(entry),
		})
		if err != nil {
			return result, err
		}
		result.Sent++
	}

	s.logger.Info("Дайджест сроков отправлен", zap.Int("sent", result.Sent), zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func digestLine(p planning.Projection) string {
	state := fmt.Sprintf("in %d Tagen", p.DaysRemaining)
	if p.Bucket == planning.BucketOverdue {
		state = fmt.Sprintf("seit %d Tagen überfällig", -p.DaysRemaining)
	}
	return fmt.Sprintf("- %s (%s): %s, fällig am %s, %s",
		p.Equipment.Name, p.Equipment.InventoryNumber, p.Template.Name,
		utils.FormatGermanDate(&p.NextDue), state)
}

func digestBody(entry *digestEntry) string {
	greeting := "Hallo,"
	if entry.name != "" {
		greeting = fmt.Sprintf("Hallo %s,", entry.name)
	}
	return greeting + "\n\nfolgende Wartungen sind fällig:\n\n" + strings.Join(entry.lines, "\n")
}

// NotifyRecordCompleted сообщает ответственному шаблона о выполненном обслуживании.
func (s *NotificationService) NotifyRecordCompleted(ctx context.Context, record entities.MaintenanceRecord) error {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !settings.Notifications.Enabled {
		return nil
	}
	recipient := utils.SafeDeref(record.TemplateResponsibleEmail)
	if recipient == "" {
		recipient = settings.Notifications.Recipient
	}
	if recipient == "" {
		s.logger.Debug("Нет получателя для уведомления о выполнении", zap.Uint64("record_id", record.ID))
		return nil
	}

	date := record.DueDate
	if record.PerformedDate != nil {
		date = *record.PerformedDate
	}
	lines := []string{
		fmt.Sprintf("Gerät: %s (%s)", record.EquipmentName, record.InventoryNumber),
		"Wartung: " + record.TemplateName,
		"Durchgeführt am: " + utils.FormatGermanDate(&date),
	}
	if name := utils.SafeDeref(record.PerformerName); name != "" {
		lines = append(lines, "Durchgeführt von: "+name)
	}
	if notes := utils.SafeDeref(record.Notes); notes != "" {
		lines = append(lines, "Notizen: "+notes)
	}

	return s.send(ctx, notifier.Message{
		Type:         notifier.TypeProduction,
		Recipient:    recipient,
		SenderDomain: settings.Notifications.SenderDomain,
		Subject:      fmt.Sprintf("Wartung abgeschlossen: %s", record.EquipmentName),
		Message:      strings.Join(lines, "\n"),
	})
}

func (s *NotificationService) send(ctx context.Context, msg notifier.Message) error {
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.logger.Error("Не удалось отправить уведомление",
			zap.String("type", msg.Type),
			zap.String("recipient", msg.Recipient),
			zap.Error(err))
		return apperrors.NewHttpError(http.StatusBadGateway, "Benachrichtigung konnte nicht gesendet werden", err, nil)
	}
	return nil
}
