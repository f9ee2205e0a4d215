package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/voyago/reputation/internal/domain/model"
)

// SQLiteLedger persists the event log in SQLite. The schema enforces the
// append-only discipline: this type issues no UPDATE or DELETE against the
// events table. The database is opened in WAL mode so readers do not block
// the single writer.
//
// Monetary amounts are stored as decimal text, never floats.
type SQLiteLedger struct {
	db  *sql.DB
	cfg settings
}

// NewSQLiteLedger opens (or creates) the ledger database at path. Use
// ":memory:" for an in-memory database in tests.
func NewSQLiteLedger(path string, opts ...Option) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrUnavailable, path, err)
	}
	l := &SQLiteLedger{db: db, cfg: newSettings(opts...)}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *SQLiteLedger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reputation_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id TEXT NOT NULL UNIQUE,
		wallet_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		ts TEXT NOT NULL,
		booking_id TEXT,
		destination TEXT,
		country_code TEXT,
		trip_start TEXT,
		trip_end TEXT,
		amount_usd TEXT,
		rating INTEGER,
		points_delta INTEGER,
		referral_kind TEXT,
		referral_successful INTEGER,
		referral_amount_usd TEXT,
		evidence_hash TEXT,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_events_wallet_ts
		ON reputation_events(wallet_id, ts, seq);
	`
	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: migrate: %w", ErrUnavailable, err)
	}
	return nil
}

// Append implements Ledger.Append.
func (l *SQLiteLedger) Append(ctx context.Context, e *model.Event) error {
	if err := e.Validate(l.cfg.now(), l.cfg.clockSkew); err != nil {
		return err
	}

	var (
		dest, cc, tripStart, tripEnd, amount *string
		rating, pointsDelta                  *int
		refKind, refAmount                   *string
		refSuccess                           *bool
	)
	if e.Trip != nil {
		dest = &e.Trip.Destination
		cc = &e.Trip.CountryCode
		ts := e.Trip.StartDate.UTC().Format(timeLayout)
		te := e.Trip.EndDate.UTC().Format(timeLayout)
		am := e.Trip.AmountUSD.String()
		tripStart, tripEnd, amount = &ts, &te, &am
	}
	rating = e.Rating
	pointsDelta = e.PointsDelta
	if e.Referral != nil {
		k := string(e.Referral.Kind)
		am := e.Referral.AmountUSD.String()
		refKind, refAmount = &k, &am
		refSuccess = &e.Referral.Successful
	}

	res, err := l.db.ExecContext(ctx, `
		INSERT INTO reputation_events (
			event_id, wallet_id, event_type, ts, booking_id,
			destination, country_code, trip_start, trip_end, amount_usd,
			rating, points_delta, referral_kind, referral_successful,
			referral_amount_usd, evidence_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.EventID, e.WalletID, string(e.Type), e.Timestamp.UTC().Format(timeLayout),
		nullable(e.BookingID), dest, cc, tripStart, tripEnd, amount,
		rating, pointsDelta, refKind, refSuccess, refAmount,
		nullable(e.EvidenceHash),
	)
	if err != nil {
		return fmt.Errorf("%w: append: %w", ErrUnavailable, err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%w: append: %w", ErrUnavailable, err)
	}
	e.Seq = uint64(seq)
	return nil
}

// EventsFor implements Ledger.EventsFor.
func (l *SQLiteLedger) EventsFor(ctx context.Context, walletID string) ([]model.Event, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT seq, event_id, wallet_id, event_type, ts, booking_id,
		       destination, country_code, trip_start, trip_end, amount_usd,
		       rating, points_delta, referral_kind, referral_successful,
		       referral_amount_usd, evidence_hash
		FROM reputation_events
		WHERE wallet_id = ?
		ORDER BY ts ASC, seq ASC`, walletID)
	if err != nil {
		return nil, fmt.Errorf("%w: events for %s: %w", ErrUnavailable, walletID, err)
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: events for %s: %w", ErrUnavailable, walletID, err)
	}
	if out == nil {
		out = []model.Event{}
	}
	return out, nil
}

// Wallets implements Ledger.Wallets.
func (l *SQLiteLedger) Wallets(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT DISTINCT wallet_id FROM reputation_events ORDER BY wallet_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: wallets: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("%w: wallets: %w", ErrUnavailable, err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: wallets: %w", ErrUnavailable, err)
	}
	return out, nil
}

// Count implements Ledger.Count.
func (l *SQLiteLedger) Count(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT wallet_id) FROM reputation_events`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%w: count: %w", ErrUnavailable, err)
	}
	return n, nil
}

// Close implements Ledger.Close.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scanEvent(rows *sql.Rows) (model.Event, error) {
	var (
		e                                    model.Event
		typ, ts                              string
		bookingID, evidence                  sql.NullString
		dest, cc, tripStart, tripEnd, amount sql.NullString
		rating, pointsDelta                  sql.NullInt64
		refKind, refAmount                   sql.NullString
		refSuccess                           sql.NullBool
	)
	err := rows.Scan(&e.Seq, &e.EventID, &e.WalletID, &typ, &ts, &bookingID,
		&dest, &cc, &tripStart, &tripEnd, &amount,
		&rating, &pointsDelta, &refKind, &refSuccess, &refAmount, &evidence)
	if err != nil {
		return model.Event{}, fmt.Errorf("%w: scan event: %w", ErrUnavailable, err)
	}
	e.Type = model.EventType(typ)
	e.Timestamp, err = parseTime(ts)
	if err != nil {
		return model.Event{}, err
	}
	e.BookingID = bookingID.String
	e.EvidenceHash = evidence.String

	if dest.Valid || cc.Valid {
		trip := &model.TripDetails{Destination: dest.String, CountryCode: cc.String}
		if tripStart.Valid {
			if trip.StartDate, err = parseTime(tripStart.String); err != nil {
				return model.Event{}, err
			}
		}
		if tripEnd.Valid {
			if trip.EndDate, err = parseTime(tripEnd.String); err != nil {
				return model.Event{}, err
			}
		}
		if amount.Valid {
			d, derr := decimal.NewFromString(amount.String)
			if derr != nil {
				return model.Event{}, fmt.Errorf("%w: bad amount %q: %w", ErrUnavailable, amount.String, derr)
			}
			trip.AmountUSD = d
		}
		e.Trip = trip
	}
	if rating.Valid {
		r := int(rating.Int64)
		e.Rating = &r
	}
	if pointsDelta.Valid {
		p := int(pointsDelta.Int64)
		e.PointsDelta = &p
	}
	if refKind.Valid {
		ref := &model.ReferralDetails{
			Kind:       model.BonusKind(refKind.String),
			Successful: refSuccess.Bool,
		}
		if refAmount.Valid {
			d, derr := decimal.NewFromString(refAmount.String)
			if derr != nil {
				return model.Event{}, fmt.Errorf("%w: bad referral amount %q: %w", ErrUnavailable, refAmount.String, derr)
			}
			ref.AmountUSD = d
		}
		e.Referral = ref
	}
	return e, nil
}

func parseTime(s string) (t time.Time, err error) {
	t, err = time.Parse(timeLayout, s)
	if err != nil {
		err = fmt.Errorf("%w: bad timestamp %q: %w", ErrUnavailable, s, err)
	}
	return t, err
}
