package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Robak132/MacrosCompanionModules/internal/game/inventory"
)

const itemColumns = `item_id, name, kind, quantity, equipped, worn, location,
	encumbrance, lightweight, bulky, weighs_less_equipped, description,
	qualities, flaws, coin_value, capacity, properties`

// InventoryRepository stores actor inventories in the actors and items
// tables. It implements inventory.Store.
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates an InventoryRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with migrations applied.
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Actor loads one actor and its entries in insertion order.
//
// Postcondition: Returns the actor or an error wrapping inventory.ErrActorNotFound.
func (r *InventoryRepository) Actor(ctx context.Context, id string) (*inventory.Actor, error) {
	a := inventory.Actor{ID: id}
	err := r.db.QueryRow(ctx,
		`SELECT name, max_encumbrance FROM actors WHERE id = $1`, id,
	).Scan(&a.Name, &a.MaxEncumbrance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("actor %q: %w", id, inventory.ErrActorNotFound)
		}
		return nil, fmt.Errorf("loading actor %q: %w", id, err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+itemColumns+` FROM items WHERE actor_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("loading items of %q: %w", id, err)
	}
	a.Entries, err = scanEntries(rows)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Actors loads every actor ordered by name.
func (r *InventoryRepository) Actors(ctx context.Context) ([]inventory.Actor, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, max_encumbrance FROM actors ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing actors: %w", err)
	}
	actors, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (inventory.Actor, error) {
		var a inventory.Actor
		err := row.Scan(&a.ID, &a.Name, &a.MaxEncumbrance)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning actor row: %w", err)
	}

	index := make(map[string]int, len(actors))
	for i, a := range actors {
		index[a.ID] = i
	}
	rows, err = r.db.Query(ctx,
		`SELECT actor_id, `+itemColumns+` FROM items ORDER BY actor_id, seq`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var actorID string
		e, err := scanEntry(rows, &actorID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[actorID]; ok {
			actors[i].Entries = append(actors[i].Entries, e)
		}
	}
	return actors, rows.Err()
}

// Commit applies cs in one transaction. Every touched actor row is locked
// first, so commits against the same actor are serialised.
//
// Postcondition: either every change is written or none is; an unknown actor
// yields inventory.ErrActorNotFound and an unknown updated entry
// inventory.ErrItemNotFound.
func (r *InventoryRepository) Commit(ctx context.Context, cs inventory.Changeset) error {
	if cs.Empty() {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("Commit: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := lockActors(ctx, tx, touchedActors(cs)); err != nil {
		return err
	}

	for _, u := range cs.Updates {
		tag, err := tx.Exec(ctx, `
			UPDATE items
			SET quantity = $3,
			    location = COALESCE($4, location),
			    equipped = equipped AND NOT $5,
			    worn     = worn AND NOT $5
			WHERE actor_id = $1 AND item_id = $2`,
			u.ActorID, u.ItemID, u.Quantity, u.Location, u.Unequip,
		)
		if err != nil {
			return fmt.Errorf("Commit: updating %q: %w", u.ItemID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("Commit: item %q of actor %q: %w", u.ItemID, u.ActorID, inventory.ErrItemNotFound)
		}
	}
	for _, c := range cs.Creates {
		if err := insertEntry(ctx, tx, c.ActorID, c.Entry); err != nil {
			return fmt.Errorf("Commit: %w", err)
		}
	}
	for _, d := range cs.Deletes {
		if _, err := tx.Exec(ctx,
			`DELETE FROM items WHERE actor_id = $1 AND item_id = $2`, d.ActorID, d.ItemID,
		); err != nil {
			return fmt.Errorf("Commit: deleting %q: %w", d.ItemID, err)
		}
	}
	if _, err := tx.Exec(ctx,
		`UPDATE actors SET updated_at = NOW() WHERE id = ANY($1)`, touchedActors(cs),
	); err != nil {
		return fmt.Errorf("Commit: touching actors: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("Commit: %w", err)
	}
	return nil
}

// SaveActor replaces the stored actor and all its entries.
//
// Postcondition: Actor(ctx, a.ID) returns a with its entries in slice order.
func (r *InventoryRepository) SaveActor(ctx context.Context, a inventory.Actor) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("SaveActor: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO actors (id, name, max_encumbrance)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, max_encumbrance = EXCLUDED.max_encumbrance, updated_at = NOW()`,
		a.ID, a.Name, a.MaxEncumbrance,
	); err != nil {
		return fmt.Errorf("SaveActor: upserting %q: %w", a.ID, err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM items WHERE actor_id = $1`, a.ID); err != nil {
		return fmt.Errorf("SaveActor: clearing items of %q: %w", a.ID, err)
	}
	for _, e := range a.Entries {
		if err := insertEntry(ctx, tx, a.ID, e); err != nil {
			return fmt.Errorf("SaveActor: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("SaveActor: %w", err)
	}
	return nil
}

func touchedActors(cs inventory.Changeset) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, u := range cs.Updates {
		add(u.ActorID)
	}
	for _, c := range cs.Creates {
		add(c.ActorID)
	}
	for _, d := range cs.Deletes {
		add(d.ActorID)
	}
	return ids
}

func lockActors(ctx context.Context, tx pgx.Tx, ids []string) error {
	rows, err := tx.Query(ctx,
		`SELECT id FROM actors WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return fmt.Errorf("Commit: locking actors: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("Commit: locking actors: %w", err)
	}
	locked := make(map[string]bool, len(found))
	for _, id := range found {
		locked[id] = true
	}
	for _, id := range ids {
		if !locked[id] {
			return fmt.Errorf("Commit: actor %q: %w", id, inventory.ErrActorNotFound)
		}
	}
	return nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, actorID string, e inventory.Entry) error {
	qualities, flaws, props := e.Qualities, e.Flaws, e.Properties
	if qualities == nil {
		qualities = []string{}
	}
	if flaws == nil {
		flaws = []string{}
	}
	if props == nil {
		props = map[string]string{}
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO items (actor_id, `+itemColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		actorID, e.ItemID, e.Name, e.Kind, e.Quantity, e.Equipped, e.Worn, e.Location,
		e.Encumbrance, e.Lightweight, e.Bulky, e.WeighsLessEquipped, e.Description,
		qualities, flaws, e.CoinValue, e.Capacity, props,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("item %q of actor %q already exists", e.ItemID, actorID)
		}
		if isForeignKeyError(err) {
			return fmt.Errorf("actor %q: %w", actorID, inventory.ErrActorNotFound)
		}
		return fmt.Errorf("inserting item %q: %w", e.ItemID, err)
	}
	return nil
}

func scanEntries(rows pgx.Rows) ([]inventory.Entry, error) {
	defer rows.Close()
	var out []inventory.Entry
	for rows.Next() {
		e, err := scanEntry(rows, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// scanEntry reads one items row. actorID is scanned first when non-nil.
func scanEntry(rows pgx.Rows, actorID *string) (inventory.Entry, error) {
	var e inventory.Entry
	dest := []any{
		&e.ItemID, &e.Name, &e.Kind, &e.Quantity, &e.Equipped, &e.Worn, &e.Location,
		&e.Encumbrance, &e.Lightweight, &e.Bulky, &e.WeighsLessEquipped, &e.Description,
		&e.Qualities, &e.Flaws, &e.CoinValue, &e.Capacity, &e.Properties,
	}
	if actorID != nil {
		dest = append([]any{actorID}, dest...)
	}
	if err := rows.Scan(dest...); err != nil {
		return inventory.Entry{}, fmt.Errorf("scanning item row: %w", err)
	}
	if len(e.Qualities) == 0 {
		e.Qualities = nil
	}
	if len(e.Flaws) == 0 {
		e.Flaws = nil
	}
	if len(e.Properties) == 0 {
		e.Properties = nil
	}
	return e, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	return sqlState(err) == "23505"
}

// isForeignKeyError checks if a pgx error is a foreign key violation.
func isForeignKeyError(err error) bool {
	return sqlState(err) == "23503"
}

func sqlState(err error) string {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState()
	}
	return ""
}
