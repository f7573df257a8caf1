package repositories

import (
	"context"
	"fmt"

	crdbpgxv5 "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"

	"github.com/dailyreadnest/backend/internal/db"
	"github.com/dailyreadnest/backend/internal/logging"
	"github.com/dailyreadnest/backend/internal/models"
	"github.com/dailyreadnest/backend/internal/social"
)

// PostgresSocialRepository persists the friend graph. Every transition runs
// in a retried transaction that first locks both user rows in ascending id
// order, so concurrent transitions on the same pair are serialized and two
// simultaneous mutations cannot deadlock each other.
type PostgresSocialRepository struct {
	pool db.Pool
}

// NewPostgresSocialRepository constructs a social repository backed by PostgreSQL.
func NewPostgresSocialRepository(pool db.Pool) *PostgresSocialRepository {
	return &PostgresSocialRepository{pool: pool}
}

// SendRequest records a pending request from one user toward another.
func (r *PostgresSocialRepository) SendRequest(ctx context.Context, from, to string) error {
	if from == to {
		return social.ErrAlreadyRelated
	}

	ctx, span := logging.StartSpan(ctx, "social.sendRequest")
	defer span.End()

	return crdbpgxv5.ExecuteTx(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if err := lockPair(ctx, tx, from, to); err != nil {
			return err
		}

		state, err := relationship(ctx, tx, from, to)
		if err != nil {
			return err
		}
		if err := social.CheckSend(state); err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
            INSERT INTO friend_requests (requester_id, receiver_id, created_at)
            VALUES ($1, $2, now())
        `, from, to)
		if err != nil {
			return fmt.Errorf("insert friend request: %w", err)
		}
		return nil
	})
}

// AcceptRequest converts a pending incoming request into a friendship. The
// request rows are removed and both friendship rows written in the same
// transaction, so no reader can observe a half-applied transition.
func (r *PostgresSocialRepository) AcceptRequest(ctx context.Context, accepter, requester string) error {
	if accepter == requester {
		return social.ErrNoSuchRequest
	}

	ctx, span := logging.StartSpan(ctx, "social.acceptRequest")
	defer span.End()

	return crdbpgxv5.ExecuteTx(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if err := lockPair(ctx, tx, accepter, requester); err != nil {
			return err
		}

		state, err := relationship(ctx, tx, accepter, requester)
		if err != nil {
			return err
		}
		if err := social.CheckAccept(state); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
            DELETE FROM friend_requests
            WHERE requester_id = $1 AND receiver_id = $2
        `, requester, accepter); err != nil {
			return fmt.Errorf("delete friend request: %w", err)
		}

		if _, err := tx.Exec(ctx, `
            INSERT INTO friendships (user_id, friend_id)
            VALUES ($1, $2), ($2, $1)
        `, accepter, requester); err != nil {
			return fmt.Errorf("insert friendship: %w", err)
		}
		return nil
	})
}

// RemoveFriend dissolves a friendship symmetrically, returning the pair to
// strangers.
func (r *PostgresSocialRepository) RemoveFriend(ctx context.Context, actor, other string) error {
	if actor == other {
		return social.ErrNotFriends
	}

	ctx, span := logging.StartSpan(ctx, "social.removeFriend")
	defer span.End()

	return crdbpgxv5.ExecuteTx(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if err := lockPair(ctx, tx, actor, other); err != nil {
			return err
		}

		state, err := relationship(ctx, tx, actor, other)
		if err != nil {
			return err
		}
		if err := social.CheckRemove(state); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
            DELETE FROM friendships
            WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
        `, actor, other); err != nil {
			return fmt.Errorf("delete friendship: %w", err)
		}
		return nil
	})
}

// Relationship reports the current state of the pair from the actor's side.
func (r *PostgresSocialRepository) Relationship(ctx context.Context, actor, other string) (social.Relationship, error) {
	if actor == other {
		return social.Strangers, nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return social.Strangers, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return relationship(ctx, conn, actor, other)
}

// ListFriends returns the public cards of the user's friends.
func (r *PostgresSocialRepository) ListFriends(ctx context.Context, userID string) ([]models.PublicProfile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.name, u.bio, u.photo, u.profile_background
        FROM friendships f
        JOIN users u ON u.id = f.friend_id
        WHERE f.user_id = $1
        ORDER BY u.name, u.id
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query friends: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

// ListRequests returns the pending requests the user has sent and received.
func (r *PostgresSocialRepository) ListRequests(ctx context.Context, userID string) (models.FriendRequests, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.FriendRequests{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	sentRows, err := conn.Query(ctx, `
        SELECT u.id, u.name, u.bio, u.photo, u.profile_background
        FROM friend_requests fr
        JOIN users u ON u.id = fr.receiver_id
        WHERE fr.requester_id = $1
        ORDER BY fr.created_at DESC
    `, userID)
	if err != nil {
		return models.FriendRequests{}, fmt.Errorf("query sent requests: %w", err)
	}
	sent, err := collectProfiles(sentRows)
	sentRows.Close()
	if err != nil {
		return models.FriendRequests{}, err
	}

	receivedRows, err := conn.Query(ctx, `
        SELECT u.id, u.name, u.bio, u.photo, u.profile_background
        FROM friend_requests fr
        JOIN users u ON u.id = fr.requester_id
        WHERE fr.receiver_id = $1
        ORDER BY fr.created_at DESC
    `, userID)
	if err != nil {
		return models.FriendRequests{}, fmt.Errorf("query received requests: %w", err)
	}
	received, err := collectProfiles(receivedRows)
	receivedRows.Close()
	if err != nil {
		return models.FriendRequests{}, err
	}

	return models.FriendRequests{Sent: sent, Received: received}, nil
}

// querier is satisfied by pgx transactions and pooled connections.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// lockPair locks both user rows in ascending id order. Missing users
// surface as ErrNotFound.
func lockPair(ctx context.Context, tx pgx.Tx, a, b string) error {
	first, second := a, b
	if second < first {
		first, second = second, first
	}

	rows, err := tx.Query(ctx, `
        SELECT id FROM users
        WHERE id IN ($1, $2)
        ORDER BY id
        FOR UPDATE
    `, first, second)
	if err != nil {
		return fmt.Errorf("lock user pair: %w", err)
	}
	defer rows.Close()

	var locked int
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan locked user: %w", err)
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate locked users: %w", err)
	}
	if locked != 2 {
		return ErrNotFound
	}
	return nil
}

// relationship derives the pair state from the actor's perspective.
func relationship(ctx context.Context, q querier, actor, other string) (social.Relationship, error) {
	var friends, sent, received bool
	err := q.QueryRow(ctx, `
        SELECT
            EXISTS (SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2),
            EXISTS (SELECT 1 FROM friend_requests WHERE requester_id = $1 AND receiver_id = $2),
            EXISTS (SELECT 1 FROM friend_requests WHERE requester_id = $2 AND receiver_id = $1)
    `, actor, other).Scan(&friends, &sent, &received)
	if err != nil {
		return social.Strangers, fmt.Errorf("derive relationship: %w", err)
	}

	switch {
	case friends:
		return social.Friends, nil
	case sent:
		return social.RequestSent, nil
	case received:
		return social.RequestReceived, nil
	default:
		return social.Strangers, nil
	}
}

var _ SocialRepository = (*PostgresSocialRepository)(nil)
