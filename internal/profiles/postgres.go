package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/spigell/foundermatch/internal/marketplace"
)

const (
	actorColumns = `id, name, headline, location, role, sub_role, is_premium, objectives, organization_id, skills, industries`
	orgColumns   = `id, name, founder_ids, industry, stage, location, pitch, annual_revenue, monthly_burn, total_raised, seeking`

	queryActorsByRole = `SELECT ` + actorColumns + ` FROM actors WHERE role = $1 ORDER BY id`
	queryActorByID    = `SELECT ` + actorColumns + ` FROM actors WHERE id = $1`
	queryActorsByIDs  = `SELECT ` + actorColumns + ` FROM actors WHERE id = ANY($1)`
	queryOrgByID      = `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	queryOrgs         = `SELECT ` + orgColumns + ` FROM organizations ORDER BY id`
)

type PostgresConfig struct {
	DSN string
	// Password, when set, overrides any password in DSN.
	Password       string
	MaxConnections int
}

// dsnWithPassword injects password into either DSN form lib/pq accepts.
func dsnWithPassword(dsn, password string) (string, error) {
	if password == "" {
		return dsn, nil
	}

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse postgres url: %w", err)
		}
		username := ""
		if u.User != nil {
			username = u.User.Username()
		}
		u.User = url.UserPassword(username, password)
		return u.String(), nil
	}

	quoted := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(password)
	return strings.TrimSpace(dsn) + " password='" + quoted + "'", nil
}

// PostgresStore reads profiles from the actors and organizations tables.
// The seeking flag is not stored; it is derived on read.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(cfg PostgresConfig) (*PostgresStore, error) {
	dsn, err := dsnWithPassword(cfg.DSN, cfg.Password)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
		db.SetMaxIdleConns(cfg.MaxConnections)
	}
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return NewPostgresFromDB(db), nil
}

func NewPostgresFromDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) ActorsByRole(ctx context.Context, role marketplace.Role) (marketplace.Actors, error) {
	return s.queryActors(ctx, queryActorsByRole, string(role))
}

func (s *PostgresStore) ActorByID(ctx context.Context, id string) (*marketplace.Actor, error) {
	actor, err := scanActor(s.db.QueryRowContext(ctx, queryActorByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query actor %q: %w", id, err)
	}
	return actor, nil
}

// ActorsByIDs returns the known actors in the order of ids.
func (s *PostgresStore) ActorsByIDs(ctx context.Context, ids []string) (marketplace.Actors, error) {
	if len(ids) == 0 {
		return marketplace.Actors{}, nil
	}

	rows, err := s.queryActors(ctx, queryActorsByIDs, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	ordered := make(marketplace.Actors, 0, len(rows))
	for _, id := range ids {
		if actor := rows.FindByID(id); actor != nil {
			ordered = append(ordered, actor)
		}
	}
	return ordered, nil
}

func (s *PostgresStore) OrganizationByID(ctx context.Context, id string) (*marketplace.Organization, error) {
	org, err := scanOrganization(s.db.QueryRowContext(ctx, queryOrgByID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query organization %q: %w", id, err)
	}
	return org, nil
}

func (s *PostgresStore) Organizations(ctx context.Context) (marketplace.Organizations, error) {
	rows, err := s.db.QueryContext(ctx, queryOrgs)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	orgs := marketplace.Organizations{}
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate organizations: %w", err)
	}
	return orgs, nil
}

func (s *PostgresStore) queryActors(ctx context.Context, query string, args ...any) (marketplace.Actors, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query actors: %w", err)
	}
	defer rows.Close()

	actors := marketplace.Actors{}
	for rows.Next() {
		actor, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan actor: %w", err)
		}
		actors = append(actors, actor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate actors: %w", err)
	}
	return actors, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanActor(row scanner) (*marketplace.Actor, error) {
	var (
		actor                    marketplace.Actor
		name, headline, location sql.NullString
		role, subRole, orgID     sql.NullString
		objectives, skills, inds []string
		premium                  sql.NullBool
	)

	err := row.Scan(
		&actor.ID, &name, &headline, &location, &role, &subRole, &premium,
		pq.Array(&objectives), &orgID, pq.Array(&skills), pq.Array(&inds),
	)
	if err != nil {
		return nil, err
	}

	actor.Name = name.String
	actor.Headline = headline.String
	actor.Location = location.String
	actor.Role = marketplace.Role(role.String)
	actor.SubRole = marketplace.SubRole(subRole.String)
	actor.IsPremium = premium.Bool
	actor.OrganizationID = orgID.String
	actor.Skills = skills
	actor.Industries = inds
	for _, o := range objectives {
		actor.Objectives = append(actor.Objectives, marketplace.Objective(o))
	}

	actor.Normalize()
	return &actor, nil
}

func scanOrganization(row scanner) (*marketplace.Organization, error) {
	var (
		org                              marketplace.Organization
		industry, stage, location, pitch sql.NullString
		revenue, burn, raised, seeking   sql.NullFloat64
	)

	err := row.Scan(
		&org.ID, &org.Name, pq.Array(&org.FounderIDs), &industry, &stage, &location, &pitch,
		&revenue, &burn, &raised, &seeking,
	)
	if err != nil {
		return nil, err
	}

	org.Industry = industry.String
	org.Stage = stage.String
	org.Location = location.String
	org.Pitch = pitch.String
	org.Financials = marketplace.Financials{
		AnnualRevenue: revenue.Float64,
		MonthlyBurn:   burn.Float64,
		TotalRaised:   raised.Float64,
		Seeking:       seeking.Float64,
	}
	return &org, nil
}
