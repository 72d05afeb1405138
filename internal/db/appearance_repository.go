package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/rs2go/internal/model"
)

// AppearanceRepository stores player appearances keyed by username.
type AppearanceRepository struct {
	pool *pgxpool.Pool
}

// NewAppearanceRepository creates a repository over the given pool.
func NewAppearanceRepository(d *DB) *AppearanceRepository {
	return &AppearanceRepository{pool: d.Pool()}
}

// Save upserts an appearance.
func (r *AppearanceRepository) Save(ctx context.Context, a model.Appearance) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appearances (
			username, gender, skull, overhead_prayer,
			hair, beard, arms, legs, hands, feet,
			colors, stances, combat_level, skill_level, hidden
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (username) DO UPDATE SET
			gender = EXCLUDED.gender,
			skull = EXCLUDED.skull,
			overhead_prayer = EXCLUDED.overhead_prayer,
			hair = EXCLUDED.hair,
			beard = EXCLUDED.beard,
			arms = EXCLUDED.arms,
			legs = EXCLUDED.legs,
			hands = EXCLUDED.hands,
			feet = EXCLUDED.feet,
			colors = EXCLUDED.colors,
			stances = EXCLUDED.stances,
			combat_level = EXCLUDED.combat_level,
			skill_level = EXCLUDED.skill_level,
			hidden = EXCLUDED.hidden`,
		a.Username, int16(a.Gender), a.Skull, int16(a.OverheadPrayer),
		a.Hair, a.Beard, a.Arms, a.Legs, a.Hands, a.Feet,
		colorsToDB(a.Colors), a.Stances[:], int16(a.CombatLevel), a.SkillLevel, int16(a.Hidden),
	)
	if err != nil {
		return fmt.Errorf("saving appearance %q: %w", a.Username, err)
	}
	return nil
}

// Load returns the appearance for username.
// Returns nil, nil if no row exists.
func (r *AppearanceRepository) Load(ctx context.Context, username string) (*model.Appearance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT username, gender, skull, overhead_prayer,
		       hair, beard, arms, legs, hands, feet,
		       colors, stances, combat_level, skill_level, hidden
		FROM appearances WHERE username = $1`, username)

	a, err := scanAppearance(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying appearance %q: %w", username, err)
	}
	return a, nil
}

// LoadAll returns every stored appearance ordered by username.
func (r *AppearanceRepository) LoadAll(ctx context.Context) ([]model.Appearance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT username, gender, skull, overhead_prayer,
		       hair, beard, arms, legs, hands, feet,
		       colors, stances, combat_level, skill_level, hidden
		FROM appearances ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("querying appearances: %w", err)
	}
	defer rows.Close()

	var out []model.Appearance
	for rows.Next() {
		a, err := scanAppearance(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning appearance: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appearances: %w", err)
	}
	return out, nil
}

// Delete removes the appearance for username. Missing rows are not an error.
func (r *AppearanceRepository) Delete(ctx context.Context, username string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM appearances WHERE username = $1`, username); err != nil {
		return fmt.Errorf("deleting appearance %q: %w", username, err)
	}
	return nil
}

func scanAppearance(row pgx.Row) (*model.Appearance, error) {
	var a model.Appearance
	var gender, prayer, combat, hidden int16
	var colors []int16
	var stances []int16

	err := row.Scan(
		&a.Username, &gender, &a.Skull, &prayer,
		&a.Hair, &a.Beard, &a.Arms, &a.Legs, &a.Hands, &a.Feet,
		&colors, &stances, &combat, &a.SkillLevel, &hidden,
	)
	if err != nil {
		return nil, err
	}

	a.Gender = int8(gender)
	a.OverheadPrayer = int8(prayer)
	a.CombatLevel = int8(combat)
	a.Hidden = int8(hidden)
	for i := 0; i < len(a.Colors) && i < len(colors); i++ {
		a.Colors[i] = int8(colors[i])
	}
	copy(a.Stances[:], stances)
	return &a, nil
}

func colorsToDB(colors [5]int8) []int16 {
	out := make([]int16, len(colors))
	for i, c := range colors {
		out[i] = int16(c)
	}
	return out
}
