package services

import (
	"context"
	"net/http"

	"geraetewart/internal/checksession"
	"geraetewart/internal/dto"
	"geraetewart/internal/repositories"
	"geraetewart/pkg/constants"
	apperrors "geraetewart/pkg/errors"
	"geraetewart/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CheckSessionServiceInterface interface {
	Create(ctx context.Context, templateID uint64) (*dto.CheckSessionDTO, error)
	Get(ctx context.Context, id string) (*dto.CheckSessionDTO, error)
	Start(ctx context.Context, id string) (*dto.CheckSessionDTO, error)
	Scan(ctx context.Context, id string, d dto.ScanDTO) (*dto.CheckSessionDTO, error)
	Mark(ctx context.Context, id string, d dto.MarkItemDTO) (*dto.CheckSessionDTO, error)
	Advance(ctx context.Context, id string) (*dto.CheckSessionDTO, error)
	Back(ctx context.Context, id string) (*dto.CheckSessionDTO, error)
	Complete(ctx context.Context, id string, d dto.CompleteCheckSessionDTO) (*dto.CheckResultDTO, error)
	Cancel(ctx context.Context, id string) (*dto.CheckSessionDTO, error)
}

// CheckSessionService - проверка наличия по списку шаблона; состояние живёт в Redis.
type CheckSessionService struct {
	txManager     repositories.TxManagerInterface
	sessions      repositories.CheckSessionRepositoryInterface
	templateRepo  repositories.TemplateRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	bus           EventPublisher
	logger        *zap.Logger
	now           Clock
	newID         func() string
}

func NewCheckSessionService(
	txManager repositories.TxManagerInterface,
	sessions repositories.CheckSessionRepositoryInterface,
	templateRepo repositories.TemplateRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	bus EventPublisher,
	logger *zap.Logger,
) *CheckSessionService {
	return &CheckSessionService{
		txManager:     txManager,
		sessions:      sessions,
		templateRepo:  templateRepo,
		equipmentRepo: equipmentRepo,
		bus:           bus,
		logger:        logger,
		now:           systemClock,
		newID:         func() string { return uuid.New().String() },
	}
}

func (s *CheckSessionService) Create(ctx context.Context, templateID uint64) (*dto.CheckSessionDTO, error) {
	template, err := s.templateRepo.FindByID(ctx, nil, templateID)
	if err != nil {
		return nil, err
	}
	items, err := s.templateRepo.Items(ctx, nil, templateID)
	if err != nil {
		return nil, err
	}

	createdBy, _ := utils.GetUserIDFromCtx(ctx)
	session := checksession.New(s.newID(), *template, derefAll(items), createdBy, s.now())
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Error("Не удалось сохранить сессию проверки", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Сессия проверки создана",
		zap.String("session_id", session.ID),
		zap.Uint64("template_id", templateID),
		zap.Int("items", len(session.Items)))
	out := dto.NewCheckSessionDTO(session)
	return &out, nil
}

func (s *CheckSessionService) Get(ctx context.Context, id string) (*dto.CheckSessionDTO, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewCheckSessionDTO(session)
	return &out, nil
}

// mutate загружает сессию, применяет fn и сохраняет результат.
func (s *CheckSessionService) mutate(ctx context.Context, id string, fn func(session *checksession.Session) error) (*dto.CheckSessionDTO, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	publishChanged(ctx, s.bus, constants.QueryCheckSession, nil)
	out := dto.NewCheckSessionDTO(session)
	return &out, nil
}

func (s *CheckSessionService) Start(ctx context.Context, id string) (*dto.CheckSessionDTO, error) {
	return s.mutate(ctx, id, func(session *checksession.Session) error {
		return session.Start(s.now())
	})
}

func (s *CheckSessionService) Scan(ctx context.Context, id string, d dto.ScanDTO) (*dto.CheckSessionDTO, error) {
	return s.mutate(ctx, id, func(session *checksession.Session) error {
		_, err := session.Scan(d.Barcode, d.ScanMode, s.now())
		return err
	})
}

func (s *CheckSessionService) Mark(ctx context.Context, id string, d dto.MarkItemDTO) (*dto.CheckSessionDTO, error) {
	return s.mutate(ctx, id, func(session *checksession.Session) error {
		_, err := session.Mark(d.EquipmentID, checksession.ItemState(d.State), s.now())
		return err
	})
}

func (s *CheckSessionService) Advance(ctx context.Context, id string) (*dto.CheckSessionDTO, error) {
	return s.mutate(ctx, id, func(session *checksession.Session) error {
		return session.Advance(s.now())
	})
}

func (s *CheckSessionService) Back(ctx context.Context, id string) (*dto.CheckSessionDTO, error) {
	return s.mutate(ctx, id, func(session *checksession.Session) error {
		return session.Back(s.now())
	})
}

// Cancel закрывает сессию без побочных эффектов в БД и удаляет её из Redis:
// отменённую проверку нельзя продолжить.
func (s *CheckSessionService) Cancel(ctx context.Context, id string) (*dto.CheckSessionDTO, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := session.Cancel(s.now()); err != nil {
		return nil, err
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("Проверка отменена", zap.String("session_id", id))
	publishChanged(ctx, s.bus, constants.QueryCheckSession, nil)
	out := dto.NewCheckSessionDTO(session)
	return &out, nil
}

// Complete записывает итог одной транзакцией: отсутствующие позиции убираются
// из шаблона, проверенные получают last_check_date. Сессия в Redis обновляется
// только после коммита, поэтому повтор после ошибки безопасен.
func (s *CheckSessionService) Complete(ctx context.Context, id string, d dto.CompleteCheckSessionDTO) (*dto.CheckResultDTO, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	outcome, err := session.Complete(d.MarkUncheckedMissing, now)
	if err != nil {
		if n, ok := checksession.IsUncheckedItems(err); ok {
			return nil, apperrors.NewHttpError(http.StatusConflict,
				"Es gibt noch ungeprüfte Positionen. Als fehlend markieren?",
				err, map[string]interface{}{"unchecked": n})
		}
		return nil, err
	}

	var removed int64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		n, err := s.templateRepo.RemoveItems(ctx, tx, outcome.TemplateID, outcome.Missing)
		if err != nil {
			return err
		}
		removed = n
		return s.equipmentRepo.SetLastCheckDate(ctx, tx, outcome.Checked, today(now))
	})
	if err != nil {
		s.logger.Error("Не удалось применить итог проверки", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		// Итог уже в БД; повтор завершения удалит те же связи ещё раз без эффекта.
		s.logger.Error("Итог проверки записан, но сессию сохранить не удалось", zap.String("session_id", id), zap.Error(err))
	}

	s.logger.Info("Проверка завершена",
		zap.String("session_id", id),
		zap.Uint64("template_id", outcome.TemplateID),
		zap.Int("missing", len(outcome.Missing)),
		zap.Int("checked", len(outcome.Checked)),
		zap.Int64("links_removed", removed))

	publishChanged(ctx, s.bus, constants.QueryCheckSession, nil)
	publishChanged(ctx, s.bus, constants.QueryTemplates, &outcome.TemplateID)
	publishChanged(ctx, s.bus, constants.QueryEquipment, nil)

	return &dto.CheckResultDTO{
		CheckSessionDTO: dto.NewCheckSessionDTO(session),
		Outcome:         outcome,
		LinksRemoved:    removed,
	}, nil
}
