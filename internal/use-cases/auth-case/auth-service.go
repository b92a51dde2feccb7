package auth_case

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/neolist/neolist/internal/abstraction/session"
	"github.com/neolist/neolist/internal/abstraction/tx"
	auth_dto "github.com/neolist/neolist/internal/dtos/auth-dto"
	"github.com/neolist/neolist/internal/entity"
	app_errors "github.com/neolist/neolist/internal/errors"
	auth_repo "github.com/neolist/neolist/internal/repo/auth-repo"
	"github.com/neolist/neolist/internal/utils"
	"github.com/rs/zerolog/log"
)

type AuthService struct {
	repo      auth_repo.AuthRepoContract
	txManager tx.TxManager
	sessions  session.Store
	paseto    *utils.PasetoMaker
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewAuthService(db *pgxpool.Pool, sessions session.Store, paseto *utils.PasetoMaker, tokenTTL time.Duration) AuthServiceContract {
	return &AuthService{
		repo:      auth_repo.NewAuthRepo(db),
		txManager: tx.NewPgxTxManager(db),
		sessions:  sessions,
		paseto:    paseto,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

func unauthorized(err error) *app_errors.AppError {
	return app_errors.NewAppError(fiber.StatusUnauthorized, app_errors.ErrUnauthorized, "auth.unauthorized", err)
}

// RegisterUser legt einen Benutzer an und meldet ihn direkt an. Der erste
// Benutzer einer leeren Installation wird Administrator.
func (s *AuthService) RegisterUser(ctx context.Context, req auth_dto.RegisterUserRequest, meta auth_dto.LoginMetadata) (*auth_dto.AuthTokenResponse, *app_errors.AppError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	count, err := s.repo.CountUsersByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		log.Debug().Str("email", email).Msg("Benutzer existiert bereits")
		return nil, app_errors.Conflict("auth.email_taken", nil)
	}

	total, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	role := entity.RoleUser
	if total == 0 {
		role = entity.RoleAdmin
	}

	hashed, hashErr := utils.GenerateHash(req.Password)
	if hashErr != nil {
		log.Error().Err(hashErr).Msg("Passwort-Hash konnte nicht erzeugt werden")
		return nil, app_errors.Internal(hashErr)
	}

	idUser, idErr := uuid.NewV7()
	if idErr != nil {
		return nil, app_errors.Internal(idErr)
	}

	newUser := entity.UserEntity{
		ID:           idUser.String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
	}

	t, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer t.Rollback(ctx)

	userID, err := s.repo.SaveUser(ctx, t, newUser)
	if err != nil {
		return nil, err
	}
	if err := t.Commit(ctx); err != nil {
		return nil, err
	}
	newUser.ID = userID

	return s.issueSession(ctx, &newUser, meta)
}

// LoginUser prüft E-Mail und Passwort, erzeugt ein PASETO-Token und legt die
// Session in Redis ab. Unbekannte E-Mail und falsches Passwort sind nach außen
// nicht unterscheidbar.
func (s *AuthService) LoginUser(ctx context.Context, req auth_dto.LoginUserRequest, meta auth_dto.LoginMetadata) (*auth_dto.AuthTokenResponse, *app_errors.AppError) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if err.Type == app_errors.ErrNotFound {
			return nil, unauthorized(nil)
		}
		return nil, err
	}

	isValid, hashErr := utils.VerifyHash(user.PasswordHash, req.Password)
	if hashErr != nil {
		log.Error().Err(hashErr).Str("user_id", user.ID).Msg("Passwort-Hash ist beschädigt")
		return nil, unauthorized(hashErr)
	}
	if !isValid {
		return nil, unauthorized(nil)
	}

	if !user.IsActive {
		return nil, app_errors.Forbidden("auth.account_disabled")
	}

	return s.issueSession(ctx, user, meta)
}

func (s *AuthService) issueSession(ctx context.Context, user *entity.UserEntity, meta auth_dto.LoginMetadata) (*auth_dto.AuthTokenResponse, *app_errors.AppError) {
	sessionID, idErr := uuid.NewV7()
	if idErr != nil {
		return nil, app_errors.Internal(idErr)
	}

	now := s.now()
	claims := utils.TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		SessionID: sessionID.String(),
	}
	token, pasetoErr := s.paseto.CreateToken(claims, s.tokenTTL)
	if pasetoErr != nil {
		log.Error().Err(pasetoErr).Msg("Fehler beim Erstellen des Paseto-Tokens")
		return nil, app_errors.Internal(pasetoErr)
	}

	if meta.Device == "" {
		meta.Device = "Unknown Device"
	}

	sess := &session.Session{
		JTI:       claims.SessionID,
		UserID:    user.ID,
		Role:      string(user.Role),
		Token:     token,
		Device:    meta.Device,
		UserAgent: meta.UserAgent,
		IP:        meta.IP,
		LoginAt:   now,
	}
	if err := s.sessions.Save(ctx, sess, s.tokenTTL); err != nil {
		return nil, err
	}

	return &auth_dto.AuthTokenResponse{
		UserID:    user.ID,
		Role:      string(user.Role),
		Token:     token,
		ExpiresAt: now.Add(s.tokenTTL),
	}, nil
}

// LogoutUser beendet genau die Session mit der übergebenen JTI.
func (s *AuthService) LogoutUser(ctx context.Context, sessionID string) *app_errors.AppError {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return unauthorized(nil)
	}

	return s.sessions.Delete(ctx, sess)
}

func (s *AuthService) ListAllUserDevices(ctx context.Context, userID, currentSessionID string) ([]auth_dto.ListAllUserDevicesResponse, *app_errors.AppError) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	devices := make([]auth_dto.ListAllUserDevicesResponse, 0, len(sessions))
	for _, sess := range sessions {
		devices = append(devices, auth_dto.ListAllUserDevicesResponse{
			SessionID: sess.JTI,
			Device:    sess.Device,
			IP:        sess.IP,
			UserAgent: sess.UserAgent,
			LoginAt:   sess.LoginAt,
			Current:   sess.JTI == currentSessionID,
		})
	}

	return devices, nil
}

func (s *AuthService) LogoutAllDevices(ctx context.Context, userID string) *app_errors.AppError {
	return s.sessions.DeleteAllForUser(ctx, userID)
}
