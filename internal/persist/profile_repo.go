package persist

import (
	"context"
)

// ProfileRow is the slice of player state the external profile store keeps:
// allocated attributes and the unspent point balance.
type ProfileRow struct {
	Identity   string
	Name       string
	Str        int
	Agi        int
	Vit        int
	Int        int
	Dex        int
	Luck       int
	StatPoints int
}

// ProfileRepo persists player profiles. Called fire-and-forget on disconnect;
// failures are logged by the caller, never fatal.
type ProfileRepo struct {
	db *DB
}

func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Save upserts a profile row.
func (r *ProfileRepo) Save(ctx context.Context, row *ProfileRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO profiles (identity, name, str, agi, vit, intel, dex, luck, stat_points, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (identity) DO UPDATE SET
		     name = EXCLUDED.name,
		     str = EXCLUDED.str,
		     agi = EXCLUDED.agi,
		     vit = EXCLUDED.vit,
		     intel = EXCLUDED.intel,
		     dex = EXCLUDED.dex,
		     luck = EXCLUDED.luck,
		     stat_points = EXCLUDED.stat_points,
		     updated_at = now()`,
		row.Identity, row.Name, row.Str, row.Agi, row.Vit, row.Int, row.Dex, row.Luck, row.StatPoints,
	)
	return err
}
