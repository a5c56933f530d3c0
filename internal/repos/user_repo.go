package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mmcatalog/internal/domain"
)

type UserRepo struct {
	db    *sqlx.DB
	clock *Clock
}

func NewUserRepo(db *sqlx.DB, clock *Clock) *UserRepo { return &UserRepo{db: db, clock: clock} }

type userRow struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Password  string `db:"password"`
	CreatedAt dbTime `db:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{ID: r.ID, Username: r.Username, Password: r.Password, CreatedAt: r.CreatedAt.Time()}
}

func (r *UserRepo) User(id string) (*domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.one(`SELECT id,username,password,created_at FROM users WHERE id=?`, id)
}

func (r *UserRepo) UserByUsername(username string) (*domain.User, error) {
	return r.one(`SELECT id,username,password,created_at FROM users WHERE username=?`, username)
}

func (r *UserRepo) one(q string, arg string) (*domain.User, error) {
	var u userRow
	err := r.db.Get(&u, r.db.Rebind(q), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u.toDomain(), nil
}

// CreateUser relies on the UNIQUE(username) constraint; a clash comes back
// wrapped in ErrDuplicate.
func (r *UserRepo) CreateUser(in domain.NewUser) (*domain.User, error) {
	u := in.Build(uuid.NewString(), r.clock.Now())
	_, err := r.db.Exec(r.db.Rebind(`INSERT INTO users(id,username,password,created_at) VALUES(?,?,?,?)`),
		u.ID, u.Username, u.Password, dbTime(u.CreatedAt))
	if err != nil {
		return nil, dupErr("create user", err)
	}
	return &u, nil
}
