package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	customErrors "github.com/taskhub/auth-service/internal/domain/auth/errors"
	"github.com/taskhub/auth-service/internal/domain/auth/model"
)

type PostgresUserRepo struct {
	db *gorm.DB
}

func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (uuid.UUID, error) {
	res := p.db.WithContext(ctx).Create(&user)
	if err := res.Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, customErrors.ErrAlreadyExists
		}
		return uuid.Nil, customErrors.WrapInternal(err, "CreateUser")
	}
	return user.ID, nil
}

func (p *PostgresUserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return p.getOne(ctx, "id = ?", id)
}

func (p *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return p.getOne(ctx, "email = ?", email)
}

func (p *PostgresUserRepo) GetUserByUsernameOrEmail(ctx context.Context, username, email string) (model.User, error) {
	return p.getOne(ctx, "username = ? OR email = ?", username, email)
}

func (p *PostgresUserRepo) GetUserByVerificationHash(ctx context.Context, hash string, now time.Time) (model.User, error) {
	return p.getOne(ctx,
		"email_verification_token_hash = ? AND email_verification_token_expiry > ?", hash, now)
}

func (p *PostgresUserRepo) GetUserByResetHash(ctx context.Context, hash string, now time.Time) (model.User, error) {
	return p.getOne(ctx,
		"forgot_password_token_hash = ? AND forgot_password_token_expiry > ?", hash, now)
}

// UpdateFields writes only the given columns in a single UPDATE; row-level
// atomicity in Postgres is what serializes concurrent token rotations for
// the same user.
func (p *PostgresUserRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	res := p.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields)
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdateFields")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

func (p *PostgresUserRepo) getOne(ctx context.Context, query string, args ...any) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where(query, args...).First(&u)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return model.User{}, customErrors.ErrNotFound
	}
	if err := res.Error; err != nil {
		return model.User{}, customErrors.WrapInternal(err, "GetUser")
	}
	return u, nil
}
