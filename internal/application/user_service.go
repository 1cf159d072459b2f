package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/entity"
	repo "github.com/BenjaminMehrez/ChallengeWithYari/internal/domain/repository"
	"github.com/BenjaminMehrez/ChallengeWithYari/pkg/helpers"
	"github.com/BenjaminMehrez/ChallengeWithYari/pkg/mailer"
)

// CatalogClient resolves catalog ids/names to (id, name) pairs.
// Implemented by the pokeapi client; faked in tests.
type CatalogClient interface {
	GetByID(ctx context.Context, id int) (entity.PokemonRef, error)
	GetByName(ctx context.Context, name string) (entity.PokemonRef, error)
}

type Service struct {
	Repo         repo.UserRepository
	Catalog      CatalogClient
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Pub          *helpers.RabbitPublisher
	MailEnabled  bool
}

func NewService(r repo.UserRepository, catalog CatalogClient, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, pub *helpers.RabbitPublisher, mailEnabled bool) *Service {
	return &Service{
		Repo:         r,
		Catalog:      catalog,
		JWT:          jwt,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Pub:          pub,
		MailEnabled:  mailEnabled,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Register creates a new active, non-privileged user. Email and username
// uniqueness are pre-checked for business-level responses; the unique
// constraints in the store remain the source of truth.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if taken, err := s.Repo.ExistsByEmail(in.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}
	if taken, err := s.Repo.ExistsByUsername(in.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:       in.Email,
		Username:    in.Username,
		Password:    hash,
		Pokemons:    []entity.PokemonRef{},
		IsActive:    true,
		IsSuperuser: false,
	}
	if err := s.Repo.Create(u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	_ = s.indexUser(ctx, u)
	s.enqueueWelcomeEmail(ctx, u)
	return u, nil
}

func (s *Service) enqueueWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "welcome",
		Data:     map[string]any{"Username": u.Username},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
	}
}

// Authenticate validates email/password without issuing tokens. An
// unknown email reads as bad credentials; storage failures do not.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueTokens generates access/refresh tokens and records a session in
// Redis when configured.
func (s *Service) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"email":      u.Email,
			"username":   u.Username,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenPair{}, "", ErrInvalidCredentials
		}
		return TokenPair{}, "", err
	}
	// The token's sid must match the live session.
	if s.Redis != nil {
		key := sessionKey(u.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

// Logout drops the user's session, invalidating outstanding tokens that
// depend on it.
func (s *Service) Logout(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

// loadUser resolves a user id, mapping a missing row to ErrUserNotFound.
// Storage failures pass through untouched so they surface as 500s, not
// as a missing user.
func (s *Service) loadUser(userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) GetProfile(userID string) (*entity.User, error) {
	return s.loadUser(userID)
}

func (s *Service) GetUserByEmail(email string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) GetUserByUsername(username string) (*entity.User, error) {
	u, err := s.Repo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) ListUsers(skip, limit int) ([]*entity.User, error) {
	return s.Repo.List(skip, normalizeLimit(limit))
}

func (s *Service) ListActiveUsers(skip, limit int) ([]*entity.User, error) {
	return s.Repo.ListActive(skip, normalizeLimit(limit))
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}

type UpdateUserInput struct {
	Email    string
	Username string
	Password string
	IsActive *bool
}

// UpdateUser applies the non-empty fields of in. Changed email/username
// are pre-checked against the uniqueness invariant.
func (s *Service) UpdateUser(ctx context.Context, userID string, in UpdateUserInput) (*entity.User, error) {
	u, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != u.Email {
		if taken, err := s.Repo.ExistsByEmail(in.Email); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrEmailTaken
		}
		u.Email = in.Email
	}
	if in.Username != "" && in.Username != u.Username {
		if taken, err := s.Repo.ExistsByUsername(in.Username); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrUsernameTaken
		}
		u.Username = in.Username
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hash
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}

	if err := s.Repo.Update(u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// DeleteUser removes a user. Superuser accounts cannot be deleted.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	u, err := s.loadUser(userID)
	if err != nil {
		return err
	}
	if u.IsSuperuser {
		return ErrSuperuserDelete
	}
	if err := s.Repo.Delete(userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.Logout(ctx, userID)
	return nil
}

func (s *Service) ActivateUser(ctx context.Context, userID string) (*entity.User, error) {
	return s.setActive(ctx, userID, true)
}

func (s *Service) DeactivateUser(ctx context.Context, userID string) (*entity.User, error) {
	return s.setActive(ctx, userID, false)
}

func (s *Service) setActive(ctx context.Context, userID string, active bool) (*entity.User, error) {
	u, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}
	u.IsActive = active
	if err := s.Repo.Update(u); err != nil {
		return nil, err
	}
	if !active {
		s.Logout(ctx, userID)
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

type Statistics struct {
	TotalUsers    int `json:"total_users"`
	ActiveUsers   int `json:"active_users"`
	InactiveUsers int `json:"inactive_users"`
}

func (s *Service) GetStatistics() (Statistics, error) {
	total, err := s.Repo.CountAll()
	if err != nil {
		return Statistics{}, err
	}
	active, err := s.Repo.CountActive()
	if err != nil {
		return Statistics{}, err
	}
	return Statistics{TotalUsers: total, ActiveUsers: active, InactiveUsers: total - active}, nil
}

// SearchUsers matches usernames by case-insensitive substring. When an
// Elasticsearch index is configured it is preferred; the store's ILIKE
// search is the fallback.
func (s *Service) SearchUsers(ctx context.Context, q string, skip, limit int) ([]*entity.User, error) {
	limit = normalizeLimit(limit)
	if s.ES != nil && s.ESUsersIndex != "" {
		if users, err := s.searchES(ctx, q, limit); err == nil {
			return users, nil
		} else if s.Logger != nil {
			s.Logger.WithError(err).Warn("es search failed, falling back to store")
		}
	}
	return s.Repo.SearchByUsername(q, skip, limit)
}

func (s *Service) searchES(ctx context.Context, q string, size int) ([]*entity.User, error) {
	query := map[string]any{
		"query": map[string]any{
			"wildcard": map[string]any{
				"username": map[string]any{
					"value":            "*" + strings.ToLower(q) + "*",
					"case_insensitive": true,
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, errors.New("es search: " + res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	// Hydrate from the store so responses always reflect persisted state.
	out := make([]*entity.User, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		u, err := s.Repo.GetByID(h.ID)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"is_active":  u.IsActive,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}
