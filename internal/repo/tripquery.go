package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/triptracker/backend/internal/domain"
)

// The listing query is compiled as a fixed sequence of stages:
//
//	join     trips to their owner (inner join, so orphaned trips drop out)
//	project  the trip fields plus the owner's id, email, and name
//	match    the predicate built by tripMatch
//	sort     start_date, created_at, id
//	window   OFFSET, plus LIMIT unless the filter is unbounded
//
// The count query shares the join and match stages, so the total always
// describes the same rows the window is cut from.
const (
	tripOwnerJoin = `FROM trips t JOIN users u ON u.id = t.user_id`

	tripViewProjection = `t.id, t.destination, t.start_date, t.end_date, t.comment, t.created_at,
		u.id, u.email, u.name`

	tripListOrder = `ORDER BY t.start_date ASC, t.created_at ASC, t.id ASC`
)

// List returns the filtered, sorted window of joined trips.
func (r *pgTripRepo) List(ctx context.Context, f domain.TripFilter) ([]domain.TripView, error) {
	q, args := compileTripPage(f)

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.TripView, 0)
	for rows.Next() {
		v, err := scanTripView(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}
	return trips, nil
}

// Count returns the number of joined trips that satisfy f's predicate.
func (r *pgTripRepo) Count(ctx context.Context, f domain.TripFilter) (int64, error) {
	q, args := compileTripCount(f)

	var total int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&total); err != nil {
		return 0, fmt.Errorf("repo.TripRepo.Count: %w", err)
	}
	return total, nil
}

// compileTripPage builds the windowed listing query for f.
func compileTripPage(f domain.TripFilter) (string, pgx.NamedArgs) {
	where, args := tripMatch(f)

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(tripViewProjection)
	b.WriteString("\n")
	b.WriteString(tripOwnerJoin)
	b.WriteString("\nWHERE ")
	b.WriteString(where)
	b.WriteString("\n")
	b.WriteString(tripListOrder)

	b.WriteString("\nOFFSET @offset")
	args["offset"] = f.Offset()
	if !f.Unbounded() {
		b.WriteString("\nLIMIT @limit")
		args["limit"] = f.PerPage
	}
	return b.String(), args
}

// compileTripCount builds the total query for f. It has no sort or window stage.
func compileTripCount(f domain.TripFilter) (string, pgx.NamedArgs) {
	where, args := tripMatch(f)
	return "SELECT count(*)\n" + tripOwnerJoin + "\nWHERE " + where, args
}

// tripMatch is the single source of the listing predicate. Absent filter
// fields contribute nothing; with no fields present it matches every row.
func tripMatch(f domain.TripFilter) (string, pgx.NamedArgs) {
	var conds []string
	args := pgx.NamedArgs{}

	if f.OwnerID != nil {
		conds = append(conds, "u.id = @owner_id")
		args["owner_id"] = *f.OwnerID
	}
	if f.Keyword != nil {
		conds = append(conds, `(t.destination ILIKE @keyword ESCAPE '\' OR t.comment ILIKE @keyword ESCAPE '\')`)
		args["keyword"] = "%" + escapeLike(*f.Keyword) + "%"
	}
	if f.StartDate != nil {
		conds = append(conds, "t.start_date >= @start_date")
		args["start_date"] = pgDate(*f.StartDate)
	}
	if f.EndDate != nil {
		conds = append(conds, "t.start_date <= @end_date")
		args["end_date"] = pgDate(*f.EndDate)
	}

	if len(conds) == 0 {
		return "TRUE", args
	}
	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes every character of s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func pgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.TruncateToDate(t), Valid: true}
}

// scanTripView maps a projected join row into a domain.TripView.
func scanTripView(s scanner) (domain.TripView, error) {
	var (
		v       domain.TripView
		id      pgtype.UUID
		ownerID pgtype.UUID
		start   pgtype.Date
		end     pgtype.Date
	)

	err := s.Scan(&id, &v.Destination, &start, &end, &v.Comment, &v.CreatedAt,
		&ownerID, &v.Owner.Email, &v.Owner.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripView{}, domain.ErrNotFound
		}
		return domain.TripView{}, err
	}

	v.ID = uuid.UUID(id.Bytes)
	v.Owner.ID = uuid.UUID(ownerID.Bytes)
	v.StartDate = start.Time
	v.EndDate = end.Time
	return v, nil
}
