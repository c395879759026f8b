package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linguachat/internal/app/db"
	"linguachat/internal/app/user"
)

// PostgresRepository is the SQL Repository backend, selected when a
// DATABASE_URL is configured. The schema lives in the db package migrations.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wraps an initialized connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// CreateUser inserts a new account, assigning an id when the caller left it empty.
func (p *PostgresRepository) CreateUser(ctx context.Context, u user.User, passwordHash string) (user.User, error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.PreferredLanguage == "" {
		u.PreferredLanguage = user.DefaultLanguage
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, preferred_language)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Email, passwordHash, u.PreferredLanguage,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return user.User{}, ErrDuplicate
		}
		return user.User{}, err
	}

	return u, nil
}

// FindUserByEmail returns the account registered under email.
func (p *PostgresRepository) FindUserByEmail(ctx context.Context, email string) (Account, error) {
	var account Account
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, preferred_language
		 FROM users WHERE email = $1`,
		email,
	).Scan(
		&account.User.ID,
		&account.User.Name,
		&account.User.Email,
		&account.PasswordHash,
		&account.User.PreferredLanguage,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}

	return account, nil
}

// FindUserByID returns the user with the given id.
func (p *PostgresRepository) FindUserByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, email, preferred_language FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PreferredLanguage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrNotFound
		}
		return user.User{}, err
	}

	return u, nil
}

// SetPreferredLanguage updates the stored translation preference for a user.
func (p *PostgresRepository) SetPreferredLanguage(ctx context.Context, id, lang string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE users SET preferred_language = $2 WHERE id = $1`,
		id, lang,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PreferredLanguage returns the stored translation preference for a user.
func (p *PostgresRepository) PreferredLanguage(ctx context.Context, id string) (string, error) {
	var lang string
	err := p.pool.QueryRow(ctx,
		`SELECT preferred_language FROM users WHERE id = $1`,
		id,
	).Scan(&lang)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}

	return lang, nil
}

// ListFriends returns the users linked to userID by an accepted request.
func (p *PostgresRepository) ListFriends(ctx context.Context, userID string) ([]user.User, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT u.id, u.name, u.email, u.preferred_language
		 FROM friend_requests fr
		 JOIN users u ON u.id = CASE WHEN fr.sender_id = $1 THEN fr.receiver_id ELSE fr.sender_id END
		 WHERE fr.status = 'accepted' AND (fr.sender_id = $1 OR fr.receiver_id = $1)
		 ORDER BY u.name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friends := make([]user.User, 0)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PreferredLanguage); err != nil {
			return nil, err
		}
		friends = append(friends, u)
	}

	return friends, rows.Err()
}

// IsFriend reports whether an accepted request links a and b in either direction.
func (p *PostgresRepository) IsFriend(ctx context.Context, a, b string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM friend_requests
		   WHERE status = 'accepted'
		     AND ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		 )`,
		a, b,
	).Scan(&exists)

	return exists, err
}

// CreateFriendRequest inserts a pending request from senderID to receiverID.
// The uniqueness check covers both directions: a pending request in the
// reverse direction also blocks a new one.
func (p *PostgresRepository) CreateFriendRequest(ctx context.Context, senderID, receiverID string) (FriendRequest, error) {
	if _, err := p.FindUserByID(ctx, receiverID); err != nil {
		return FriendRequest{}, err
	}

	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM friend_requests
		   WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		 )`,
		senderID, receiverID,
	).Scan(&exists)
	if err != nil {
		return FriendRequest{}, err
	}
	if exists {
		return FriendRequest{}, ErrDuplicate
	}

	request := FriendRequest{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO friend_requests (id, sender_id, receiver_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		request.ID, request.SenderID, request.ReceiverID, request.Status, request.CreatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return FriendRequest{}, ErrDuplicate
		}
		return FriendRequest{}, err
	}

	return request, nil
}

// ListFriendRequests returns the pending requests addressed to receiverID.
func (p *PostgresRepository) ListFriendRequests(ctx context.Context, receiverID string) ([]FriendRequest, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, sender_id, receiver_id, status, created_at
		 FROM friend_requests
		 WHERE receiver_id = $1 AND status = 'pending'
		 ORDER BY created_at DESC`,
		receiverID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]FriendRequest, 0)
	for rows.Next() {
		var req FriendRequest
		if err := rows.Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt); err != nil {
			return nil, err
		}
		pending = append(pending, req)
	}

	return pending, rows.Err()
}

// UpdateFriendRequestStatus resolves a pending request addressed to receiverID.
func (p *PostgresRepository) UpdateFriendRequestStatus(ctx context.Context, requestID, receiverID string, status FriendRequestStatus) (FriendRequest, error) {
	var req FriendRequest
	err := p.pool.QueryRow(ctx,
		`UPDATE friend_requests
		 SET status = $3, updated_at = now()
		 WHERE id = $1 AND receiver_id = $2 AND status = 'pending'
		 RETURNING id, sender_id, receiver_id, status, created_at`,
		requestID, receiverID, status,
	).Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Status, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FriendRequest{}, ErrNotFound
		}
		return FriendRequest{}, err
	}

	return req, nil
}
