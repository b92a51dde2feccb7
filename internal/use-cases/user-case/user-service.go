package user_case

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neolist/neolist/internal/abstraction/cache"
	"github.com/neolist/neolist/internal/abstraction/session"
	"github.com/neolist/neolist/internal/abstraction/tx"
	"github.com/neolist/neolist/internal/dtos"
	user_dto "github.com/neolist/neolist/internal/dtos/user-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	"github.com/neolist/neolist/internal/queue"
	user_repo "github.com/neolist/neolist/internal/repo/user-repo"
	zimbra_sync_case "github.com/neolist/neolist/internal/use-cases/zimbra-sync-case"
	"github.com/neolist/neolist/internal/utils"
	"github.com/rs/zerolog/log"
)

const profileCacheTTL = 15 * time.Minute

func profileCacheKey(userID string) string {
	return fmt.Sprintf("user_profile:%s", userID)
}

type UserService struct {
	repo      user_repo.UserRepoContract
	txManager tx.TxManager
	cache     cache.Cache
	sessions  session.Store
	sync      zimbra_sync_case.ZimbraSyncServiceContract
	queue     queue.TaskQueueClient
}

func NewUserService(db *pgxpool.Pool, c cache.Cache, sessions session.Store, sync zimbra_sync_case.ZimbraSyncServiceContract, q queue.TaskQueueClient) UserServiceContract {
	return &UserService{
		repo:      user_repo.NewUserRepo(db),
		txManager: tx.NewPgxTxManager(db),
		cache:     c,
		sessions:  sessions,
		sync:      sync,
		queue:     q,
	}
}

func (s *UserService) UserSelfProfile(ctx context.Context, userID string) (*user_dto.UserProfileResponse, *app_errors.AppError) {
	// Redis dient nur als Cache, ein Fehler fällt auf die DB zurück.
	var cached user_dto.UserProfileResponse
	if hit, err := s.cache.Get(ctx, profileCacheKey(userID), &cached); err == nil && hit {
		return &cached, nil
	}

	user, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := user_dto.NewUserProfileResponse(user)
	if err := s.cache.Set(ctx, profileCacheKey(userID), resp, profileCacheTTL); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Profil konnte nicht gecacht werden")
	}
	return resp, nil
}

// UpdateSelfProfile ändert Anzeigename und Zimbra-Sync. Wird der Sync
// eingeschaltet, entsteht für jede offene Zuweisung ohne externes Objekt ein
// CREATE-Eintrag in derselben Transaktion.
func (s *UserService) UpdateSelfProfile(ctx context.Context, req user_dto.UpdateSelfProfileRequest, userID string) (*user_dto.UpdateSelfProfileResponse, *app_errors.AppError) {
	if req.DisplayName == nil && req.ZimbraSyncEnabled == nil {
		return nil, app_errors.InvalidBody(fmt.Errorf("keine Felder zum Aktualisieren"))
	}

	before, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	t, err := s.txManager.BeginAs(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	user, err := s.repo.UpdateProfile(ctx, t, userID, user_repo.UserUpdate{
		DisplayName:       req.DisplayName,
		ZimbraSyncEnabled: req.ZimbraSyncEnabled,
	})
	if err != nil {
		return nil, err
	}

	queued := 0
	if user.ZimbraSyncEnabled && !before.ZimbraSyncEnabled && user.IsActive {
		assignments, err := s.repo.ListAssignments(ctx, t, userID)
		if err != nil {
			return nil, err
		}
		for i := range assignments {
			a := &assignments[i]
			if a.Assignee.HasExternalTask() || a.Task.IsCompleted || a.Assignee.IsCompleted {
				continue
			}
			payload := entity.NewSyncPayload(&a.Task, &a.Assignee)
			if _, err := s.sync.Enqueue(ctx, t, a.Task.ID, user.Email, entity.SyncCreate, payload); err != nil {
				return nil, err
			}
			queued++
		}
	}

	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	if queued > 0 {
		log.Info().Str("user_id", userID).Int("count", queued).Msg("Zimbra-Sync eingeschaltet, bestehende Zuweisungen eingereiht")
		if err := s.queue.EnqueueDrainSyncQueue("zimbra_sync_enabled"); err != nil {
			log.Warn().Err(err).Msg("Drain der Sync-Queue konnte nicht angestoßen werden")
		}
	}

	if err := s.cache.Del(ctx, profileCacheKey(userID)); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Profil-Cache konnte nicht gelöscht werden")
	}

	return &user_dto.UpdateSelfProfileResponse{
		Profile:       user_dto.NewUserProfileResponse(user),
		QueuedSyncOps: queued,
	}, nil
}

func (s *UserService) DeactivateSelfUser(ctx context.Context, req user_dto.DeactivateSelfUserRequest, userID string) *app_errors.AppError {
	user, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if isValid, hashErr := utils.VerifyHash(user.PasswordHash, req.Password); !isValid || hashErr != nil {
		return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.unauthorized", hashErr)
	}

	t, err := s.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer t.Rollback(ctx)

	if err := s.repo.Deactivate(ctx, t, userID); err != nil {
		return err
	}
	if err := t.Commit(ctx); err != nil {
		return err
	}

	if err := s.cache.Del(ctx, profileCacheKey(userID)); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Profil-Cache konnte nicht gelöscht werden")
	}
	return s.sessions.DeleteAllForUser(ctx, userID)
}

func (s *UserService) ListUsers(ctx context.Context, q user_dto.ListUsersQuery) (*user_dto.ListUsersResponse, *app_errors.AppError) {
	page, limit := q.Page, q.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	users, total, err := s.repo.ListUsers(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	out := make([]user_dto.UserProfileResponse, 0, len(users))
	for i := range users {
		out = append(out, *user_dto.NewUserProfileResponse(&users[i]))
	}

	return &user_dto.ListUsersResponse{
		Users: out,
		Pagination: dtos.PaginationMeta{
			Page:       page,
			Limit:      limit,
			Total:      int(total),
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}

// SetUserRole beendet alle Sessions des Benutzers, da die Rolle im Token steht.
func (s *UserService) SetUserRole(ctx context.Context, actorID, userID string, req user_dto.SetUserRoleRequest) (*user_dto.UserProfileResponse, *app_errors.AppError) {
	role := entity.UserRole(req.Role)
	if !role.IsValid() {
		return nil, app_errors.NewValidationError([]app_errors.FieldError{{
			Field: "role", Reason: "userRole", MessageKey: "validation.user_role",
		}})
	}
	if actorID == userID {
		return nil, app_errors.Forbidden("user.cannot_change_own_role")
	}

	t, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	user, err := s.repo.SetRole(ctx, t, userID, role)
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}

	if err := s.cache.Del(ctx, profileCacheKey(userID)); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Profil-Cache konnte nicht gelöscht werden")
	}
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return nil, err
	}

	log.Info().Str("actor_id", actorID).Str("user_id", userID).Str("role", req.Role).Msg("Rolle geändert")
	return user_dto.NewUserProfileResponse(user), nil
}
