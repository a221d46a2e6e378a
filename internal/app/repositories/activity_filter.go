package repositories

import (
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/yigit/activityhub/internal/app/models"
)

// ActivityFilter is the set of optional listing predicates. Every present field
// contributes exactly one conjunct.
type ActivityFilter struct {
	Search        *string
	CategoryID    *uuid.UUID
	Status        *models.ActivityStatus
	CreatorID     *uuid.UUID
	ParticipantID *uuid.UUID
	// StartFrom and StartBefore bound start_date as [StartFrom, StartBefore)
	StartFrom   *time.Time
	StartBefore *time.Time
}

// Sort fields accepted by ActivitySort
const (
	SortByStartDate = "startDate"
	SortByCreatedAt = "createdAt"
	SortByTitle     = "title"
)

var sortColumns = map[string]string{
	SortByStartDate: "a.start_date",
	SortByCreatedAt: "a.created_at",
	SortByTitle:     "a.title",
}

// ActivitySort orders an activity listing
type ActivitySort struct {
	Field string
	Desc  bool
}

// likeEscaper escapes LIKE wildcards so user input matches literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Predicate compiles the filter into a WHERE clause over "activities a"
func (f ActivityFilter) Predicate() squirrel.And {
	where := squirrel.And{}

	if f.Search != nil {
		if term := strings.TrimSpace(*f.Search); term != "" {
			pattern := "%" + likeEscaper.Replace(term) + "%"
			where = append(where, squirrel.Or{
				squirrel.ILike{"a.title": pattern},
				squirrel.ILike{"a.description": pattern},
				squirrel.ILike{"a.location": pattern},
			})
		}
	}
	// uuid.UUID is an array type, so squirrel.Eq would expand it into an IN list
	if f.CategoryID != nil {
		where = append(where, squirrel.Expr("a.category_id = ?", *f.CategoryID))
	}
	if f.Status != nil {
		where = append(where, squirrel.Eq{"a.status": string(*f.Status)})
	}
	if f.CreatorID != nil {
		where = append(where, squirrel.Expr("a.creator_id = ?", *f.CreatorID))
	}
	if f.ParticipantID != nil {
		where = append(where, squirrel.Expr(
			"EXISTS (SELECT 1 FROM participations p WHERE p.activity_id = a.id AND p.user_id = ? AND p.status <> ?)",
			*f.ParticipantID, string(models.ParticipationCancelled),
		))
	}
	if f.StartFrom != nil {
		where = append(where, squirrel.GtOrEq{"a.start_date": *f.StartFrom})
	}
	if f.StartBefore != nil {
		where = append(where, squirrel.Lt{"a.start_date": *f.StartBefore})
	}

	return where
}

// OrderBy returns the ORDER BY terms. The id tiebreaker keeps pages stable when
// the sort column has duplicates.
func (s ActivitySort) OrderBy() []string {
	column, ok := sortColumns[s.Field]
	if !ok {
		column = sortColumns[SortByStartDate]
	}

	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}

	return []string{column + " " + direction, "a.id " + direction}
}
