package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"campus/internal/domain"
)

// Postgres хранилище поверх pgxpool. Сам реализует ProfileRepository,
// остальные репозитории — типы-обёртки (тот же расклад, что у MemoryStore).
type Postgres struct {
	pool *pgxpool.Pool
}

func ConnectPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Close() { s.pool.Close() }

// Ensure interfaces
var (
	_ ProfileRepository = (*Postgres)(nil)
	_ CatalogRepository = (*PostgresCatalog)(nil)
	_ OrderRepository   = (*PostgresOrders)(nil)
	_ PostRepository    = (*PostgresPosts)(nil)
	_ EventRepository   = (*PostgresEvents)(nil)
)

// ProfileRepository implementation

func (s *Postgres) Create(ctx context.Context, p *domain.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles(id, name, email, phone, role, college, is_verified, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Email, p.Phone, p.Role, p.College, p.IsVerified, p.PasswordHash, p.CreatedAt,
	)
	return err
}

func (s *Postgres) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return s.getProfile(ctx, `WHERE id=$1`, id)
}

func (s *Postgres) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return s.getProfile(ctx, `WHERE email=$1`, email)
}

func (s *Postgres) getProfile(ctx context.Context, where string, arg any) (*domain.Profile, error) {
	var p domain.Profile
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, role, college, is_verified, password_hash, created_at
		FROM profiles `+where, arg,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Role, &p.College, &p.IsVerified, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CatalogRepository implementation on wrapper type

type PostgresCatalog struct{ store *Postgres }

func NewPostgresCatalog(store *Postgres) *PostgresCatalog { return &PostgresCatalog{store: store} }

func (pc *PostgresCatalog) Create(ctx context.Context, item *domain.CatalogItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = time.Now().UTC()
	_, err := pc.store.pool.Exec(ctx, `
		INSERT INTO canteen_items(id, name, price, is_veg, available, description, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		item.ID, item.Name, item.Price, item.IsVeg, item.Available, item.Description, item.OwnerID, item.CreatedAt,
	)
	return err
}

func (pc *PostgresCatalog) ListAvailable(ctx context.Context) ([]domain.CatalogItem, error) {
	rows, err := pc.store.pool.Query(ctx, `
		SELECT i.id, i.name, i.price, i.is_veg, i.available, i.description, i.owner_id, i.created_at, p.name
		FROM canteen_items i
		JOIN profiles p ON p.id = i.owner_id
		WHERE i.available
		ORDER BY i.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.CatalogItem, 0)
	for rows.Next() {
		var item domain.CatalogItem
		var ownerName string
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.IsVeg, &item.Available,
			&item.Description, &item.OwnerID, &item.CreatedAt, &ownerName); err != nil {
			return nil, err
		}
		item.Owner = &domain.Contact{Name: ownerName}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (pc *PostgresCatalog) OwnedItemIDs(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := pc.store.pool.Query(ctx, `SELECT id FROM canteen_items WHERE owner_id=$1`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// OrderRepository implementation on wrapper type

type PostgresOrders struct{ store *Postgres }

func NewPostgresOrders(store *Postgres) *PostgresOrders { return &PostgresOrders{store: store} }

func (po *PostgresOrders) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt

	tx, err := po.store.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, total_price, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.UserID, o.TotalPrice, o.Status, o.Notes, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	for _, l := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, item_id, quantity, price)
			VALUES ($1, $2, $3, $4)`,
			o.ID, l.ItemID, l.Quantity, l.Price,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

const orderColumns = `o.id, o.user_id, o.total_price, o.status, o.notes, o.created_at, o.updated_at, p.name, p.email, p.phone`

func (po *PostgresOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	row := po.store.pool.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN profiles p ON p.id = o.user_id
		WHERE o.id=$1`, id)
	o, err := scanOrder(row, true)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := po.loadLines(ctx, []*domain.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (po *PostgresOrders) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	rows, err := po.store.pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		JOIN profiles p ON p.id = o.user_id
		WHERE o.user_id=$1
		ORDER BY o.created_at`, userID)
	if err != nil {
		return nil, err
	}
	return po.collect(ctx, rows, false)
}

func (po *PostgresOrders) ListByItemIDs(ctx context.Context, itemIDs []string) ([]domain.Order, error) {
	rows, err := po.store.pool.Query(ctx, `
		SELECT DISTINCT `+orderColumns+`
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN profiles p ON p.id = o.user_id
		WHERE oi.item_id = ANY($1)
		ORDER BY o.created_at`, itemIDs)
	if err != nil {
		return nil, err
	}
	return po.collect(ctx, rows, true)
}

func (po *PostgresOrders) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	tag, err := po.store.pool.Exec(ctx, `
		UPDATE orders SET status=$2, updated_at=$3 WHERE id=$1`,
		id, status, time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return po.GetByID(ctx, id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, withPhone bool) (*domain.Order, error) {
	var o domain.Order
	var c domain.Contact
	var phone string
	err := row.Scan(&o.ID, &o.UserID, &o.TotalPrice, &o.Status, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt, &c.Name, &c.Email, &phone)
	if err != nil {
		return nil, err
	}
	if withPhone {
		c.Phone = phone
	}
	o.Purchaser = &c
	return &o, nil
}

func (po *PostgresOrders) collect(ctx context.Context, rows pgx.Rows, withPhone bool) ([]domain.Order, error) {
	defer rows.Close()
	out := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows, withPhone)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := po.loadLines(ctx, orderRefs(out)); err != nil {
		return nil, err
	}
	return out, nil
}

// orderRefs строит указатели на элементы out. Брать их можно только после
// того, как срез перестал расти, иначе append переаллоцирует массив и
// указатели смотрят в старую память.
func orderRefs(out []domain.Order) []*domain.Order {
	refs := make([]*domain.Order, 0, len(out))
	for i := range out {
		refs = append(refs, &out[i])
	}
	return refs
}

// loadLines дозагружает позиции для пачки заказов одним запросом
func (po *PostgresOrders) loadLines(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		o.Items = make([]domain.OrderLine, 0)
		ids = append(ids, o.ID)
	}
	rows, err := po.store.pool.Query(ctx, `
		SELECT order_id, item_id, quantity, price
		FROM order_items WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var l domain.OrderLine
		if err := rows.Scan(&orderID, &l.ItemID, &l.Quantity, &l.Price); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, l)
		}
	}
	return rows.Err()
}

// PostRepository implementation on wrapper type

type PostgresPosts struct{ store *Postgres }

func NewPostgresPosts(store *Postgres) *PostgresPosts { return &PostgresPosts{store: store} }

func (pp *PostgresPosts) Create(ctx context.Context, p *domain.RoommatePost) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	_, err := pp.store.pool.Exec(ctx, `
		INSERT INTO roommate_posts(id, user_id, budget, location, preferences, contact, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.UserID, p.Budget, p.Location, p.Preferences, p.Contact, p.CreatedAt,
	)
	return err
}

func (pp *PostgresPosts) List(ctx context.Context) ([]domain.RoommatePost, error) {
	rows, err := pp.store.pool.Query(ctx, `
		SELECT r.id, r.user_id, r.budget, r.location, r.preferences, r.contact, r.created_at, p.name
		FROM roommate_posts r
		JOIN profiles p ON p.id = r.user_id
		ORDER BY r.created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.RoommatePost, 0)
	for rows.Next() {
		var p domain.RoommatePost
		var posterName string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Budget, &p.Location, &p.Preferences,
			&p.Contact, &p.CreatedAt, &posterName); err != nil {
			return nil, err
		}
		p.Poster = &domain.Contact{Name: posterName}
		out = append(out, p)
	}
	return out, rows.Err()
}

// EventRepository implementation on wrapper type

type PostgresEvents struct{ store *Postgres }

func NewPostgresEvents(store *Postgres) *PostgresEvents { return &PostgresEvents{store: store} }

func (pe *PostgresEvents) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	_, err := pe.store.pool.Exec(ctx, `
		INSERT INTO events(id, title, description, date, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Title, e.Description, e.Date, e.Location, e.CreatedAt,
	)
	return err
}

func (pe *PostgresEvents) ListByDate(ctx context.Context) ([]domain.Event, error) {
	rows, err := pe.store.pool.Query(ctx, `
		SELECT id, title, description, date, location, created_at
		FROM events ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]domain.Event, 0)
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
