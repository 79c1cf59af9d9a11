// Package seeders fills an empty database with the fixed admin actor and a
// couple of technicians so a fresh install has someone to create and work
// tickets.
package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"facility-tickets/pkg/constants"
	"facility-tickets/pkg/utils"
)

type seedUser struct {
	username       string
	password       string
	fullName       string
	role           string
	specialization string
	initials       string
}

var seedUsers = []seedUser{
	{username: "admin", password: "admin123", fullName: "Administrator", role: constants.RoleAdmin},
	{username: "budi.teknisi", password: "teknisi123", fullName: "Budi Santoso", role: constants.RoleTechnician, specialization: "Electrical", initials: "BS"},
	{username: "sari.teknisi", password: "teknisi123", fullName: "Sari Wulandari", role: constants.RoleTechnician, specialization: "Plumbing", initials: "SW"},
}

func Run(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	for _, su := range seedUsers {
		var exists bool
		err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, su.username).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check user %q: %w", su.username, err)
		}
		if exists {
			continue
		}

		hashed, err := utils.HashPassword(su.password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %q: %w", su.username, err)
		}

		var userID uint64
		err = pool.QueryRow(ctx,
			`INSERT INTO users (username, password, full_name, role) VALUES ($1, $2, $3, $4) RETURNING id`,
			su.username, hashed, su.fullName, su.role,
		).Scan(&userID)
		if err != nil {
			return fmt.Errorf("failed to insert user %q: %w", su.username, err)
		}

		if su.role == constants.RoleTechnician {
			_, err = pool.Exec(ctx,
				`INSERT INTO technicians (user_id, specialization, initials, active) VALUES ($1, $2, $3, TRUE)`,
				userID, su.specialization, su.initials,
			)
			if err != nil {
				return fmt.Errorf("failed to insert technician %q: %w", su.username, err)
			}
		}
		logger.Info("seeded user", zap.String("username", su.username), zap.String("role", su.role))
	}
	return nil
}
