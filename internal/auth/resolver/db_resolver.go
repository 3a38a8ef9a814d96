package resolver

import (
	"context"
	"database/sql"
	"errors"

	"joinme-auth/internal/auth"
	"joinme-auth/internal/db"

	"github.com/google/uuid"
)

// DBResolver resolves identities against the users/identities tables.
//
// The provider-scoped key is the identity's synthetic UserID (join.me
// derives it from the account email), so a returning user matches step 1
// and a user who changed their provider email arrives as a new identity.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Resolve(ctx context.Context, identity *auth.Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity is nil")
	}
	if identity.UserID == "" && identity.Email == "" {
		return "", errors.New("identity has no stable key")
	}

	// 1. Known identity (provider + provider-scoped user id).
	var userID uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM identities
		WHERE provider = $1
		  AND provider_user_id = $2
	`,
		identity.Provider,
		identity.UserID,
	).Scan(&userID)

	if err == nil {
		return userID.String(), nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	// 2. Existing user, new provider: link by email.
	if identity.Email != "" {
		err = r.db.QueryRowContext(ctx, `
			SELECT id
			FROM users
			WHERE LOWER(email) = LOWER($1)
		`,
			identity.Email,
		).Scan(&userID)

		if err == nil {
			if err := r.linkIdentity(ctx, userID, identity); err != nil {
				return "", err
			}
			return userID.String(), nil
		}
		if err != sql.ErrNoRows {
			return "", err
		}
	}

	// 3. First login: create the user from the identity facts.
	err = r.db.QueryRowContext(ctx, `
		INSERT INTO users (email, display_name, account_type)
		VALUES ($1, $2, $3)
		RETURNING id
	`,
		identity.Email,
		identity.FullName,
		identity.AccountType,
	).Scan(&userID)

	if err != nil {
		return "", err
	}

	if err := r.linkIdentity(ctx, userID, identity); err != nil {
		return "", err
	}
	return userID.String(), nil
}

func (r *DBResolver) linkIdentity(ctx context.Context, userID uuid.UUID, identity *auth.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`,
		userID,
		identity.Provider,
		identity.UserID,
	)
	return err
}
