package repositories

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/testutil/pgtest"
)

var testDB *pgtest.Database

func TestMain(m *testing.M) {
	flag.Parse()
	ctx := context.Background()

	if !testing.Short() {
		db, err := pgtest.Start(ctx)
		if err != nil {
			log.Printf("integration database unavailable: %v", err)
		} else {
			testDB = db
		}
	}

	code := m.Run()
	testDB.Close(ctx)
	os.Exit(code)
}

func TestActivityRepository_ListPagination(t *testing.T) {
	pool := pgtest.Require(t, testDB)
	ctx := context.Background()

	creator := pgtest.InsertUser(t, pool, "ada")
	category := pgtest.InsertCategory(t, pool, "Sports", nil)
	base := time.Now().Add(24 * time.Hour)
	for i := 0; i < 25; i++ {
		pgtest.InsertActivity(t, pool, pgtest.ActivityFixture{
			Title:      fmt.Sprintf("Activity %02d", i),
			StartDate:  base.Add(time.Duration(i) * time.Hour),
			CreatorID:  creator,
			CategoryID: category,
		})
	}

	repo := NewActivityRepository(pool)

	page1, total, err := repo.List(ctx, ActivityFilter{}, ActivitySort{}, 0, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, page1, 9)
	assert.Equal(t, "Activity 00", page1[0].Title)
	assert.Equal(t, "ada", page1[0].Creator.Name)
	assert.Equal(t, "Sports", page1[0].Category.Name)

	page3, total, err := repo.List(ctx, ActivityFilter{}, ActivitySort{}, 18, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, page3, 7)
	assert.Equal(t, "Activity 18", page3[0].Title)
	assert.Equal(t, "Activity 24", page3[6].Title)

	beyond, total, err := repo.List(ctx, ActivityFilter{}, ActivitySort{}, 90, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Empty(t, beyond)

	byTitle, _, err := repo.List(ctx, ActivityFilter{}, ActivitySort{Field: SortByTitle, Desc: true}, 0, 1)
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Activity 24", byTitle[0].Title)
}

func TestActivityRepository_ListFilters(t *testing.T) {
	pool := pgtest.Require(t, testDB)
	ctx := context.Background()

	ada := pgtest.InsertUser(t, pool, "ada")
	bob := pgtest.InsertUser(t, pool, "bob")
	sports := pgtest.InsertCategory(t, pool, "Sports", nil)
	music := pgtest.InsertCategory(t, pool, "Music", nil)

	loc := time.Local
	now := time.Now().In(loc)
	sod := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	lateToday := pgtest.InsertActivity(t, pool, pgtest.ActivityFixture{
		Title: "Jazz night", Location: "Kadikoy PIER", StartDate: sod.Add(23*time.Hour + 59*time.Minute),
		CreatorID: ada, CategoryID: music,
	})
	earlyTomorrow := pgtest.InsertActivity(t, pool, pgtest.ActivityFixture{
		Title: "Sunrise yoga", StartDate: sod.Add(24*time.Hour + time.Minute),
		CreatorID: bob, CategoryID: sports,
	})
	cancelledFor := pgtest.InsertActivity(t, pool, pgtest.ActivityFixture{
		Title: "Chess club", Status: "cancelled", StartDate: sod.AddDate(0, 0, 3),
		CreatorID: bob, CategoryID: sports,
	})

	pgtest.InsertParticipation(t, pool, earlyTomorrow, ada, "confirmed")
	pgtest.InsertParticipation(t, pool, cancelledFor, ada, "cancelled")

	repo := NewActivityRepository(pool)
	ids := func(filter ActivityFilter) []uuid.UUID {
		items, total, err := repo.List(ctx, filter, ActivitySort{}, 0, 50)
		require.NoError(t, err)
		require.Equal(t, int64(len(items)), total)
		out := make([]uuid.UUID, 0, len(items))
		for _, a := range items {
			out = append(out, a.ID)
		}
		return out
	}

	search := "pier"
	assert.Equal(t, []uuid.UUID{lateToday}, ids(ActivityFilter{Search: &search}))

	assert.Equal(t, []uuid.UUID{lateToday}, ids(ActivityFilter{CategoryID: &music}))
	assert.Equal(t, []uuid.UUID{earlyTomorrow, cancelledFor}, ids(ActivityFilter{CreatorID: &bob}))

	status := models.ActivityStatusCancelled
	assert.Equal(t, []uuid.UUID{cancelledFor}, ids(ActivityFilter{Status: &status}))

	// cancelled participations do not count as membership
	assert.Equal(t, []uuid.UUID{earlyTomorrow}, ids(ActivityFilter{ParticipantID: &ada}))

	from, before := sod, sod.AddDate(0, 0, 1)
	assert.Equal(t, []uuid.UUID{lateToday}, ids(ActivityFilter{StartFrom: &from, StartBefore: &before}))

	literal := "100%"
	assert.Empty(t, ids(ActivityFilter{Search: &literal}))
}

func TestActivityRepository_CreateAndGet(t *testing.T) {
	pool := pgtest.Require(t, testDB)
	ctx := context.Background()

	creator := pgtest.InsertUser(t, pool, "ada")
	category := pgtest.InsertCategory(t, pool, "Outdoor", nil)
	price := 12.5
	start := time.Now().Add(72 * time.Hour).Truncate(time.Second)

	repo := NewActivityRepository(pool)
	activity := &models.Activity{
		Title:           "Kayak tour",
		Description:     "Two hours on the Bosphorus",
		StartDate:       start,
		EndDate:         start.Add(2 * time.Hour),
		Location:        "Bebek",
		Coordinates:     &models.Coordinates{Lat: 41.07, Lng: 29.04},
		MaxParticipants: 8,
		IsPaid:          true,
		Price:           &price,
		Images:          []string{"https://img.example/kayak.jpg"},
		Status:          models.ActivityStatusUpcoming,
		CreatorID:       creator,
		CategoryID:      category,
	}
	require.NoError(t, repo.Create(ctx, activity))
	assert.NotEqual(t, uuid.Nil, activity.ID)
	assert.Equal(t, 0, activity.CurrentParticipants)

	got, err := repo.GetByID(ctx, activity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kayak tour", got.Title)
	assert.True(t, got.StartDate.Equal(start))
	require.NotNil(t, got.Price)
	assert.InDelta(t, 12.5, *got.Price, 0.001)
	require.NotNil(t, got.Coordinates)
	assert.InDelta(t, 41.07, got.Coordinates.Lat, 0.0001)
	assert.Equal(t, []string{"https://img.example/kayak.jpg"}, got.Images)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	activity.ID = uuid.Nil
	activity.CategoryID = uuid.New()
	assert.ErrorIs(t, repo.Create(ctx, activity), ErrNotFound)
}

func TestParticipationRepository_JoinLeavePrimitives(t *testing.T) {
	pool := pgtest.Require(t, testDB)
	ctx := context.Background()

	creator := pgtest.InsertUser(t, pool, "ada")
	joiner := pgtest.InsertUser(t, pool, "bob")
	category := pgtest.InsertCategory(t, pool, "Games", nil)
	activityID := pgtest.InsertActivity(t, pool, pgtest.ActivityFixture{MaxParticipants: 1, CreatorID: creator, CategoryID: category})

	repo := NewParticipationRepository(pool)

	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		_, err := repo.LockActivity(ctx, tx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
		return nil
	})
	require.NoError(t, err)

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		capacity, err := repo.LockActivity(ctx, tx, activityID)
		require.NoError(t, err)
		assert.True(t, capacity.HasFreeSlot())

		p := &models.Participation{UserID: joiner, ActivityID: activityID, Status: models.ParticipationConfirmed}
		require.NoError(t, repo.Insert(ctx, tx, p))
		assert.NotEqual(t, uuid.Nil, p.ID)

		current, ok, err := repo.IncrementCounter(ctx, tx, activityID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, current)

		_, ok, err = repo.IncrementCounter(ctx, tx, activityID)
		require.NoError(t, err)
		assert.False(t, ok, "counter must not pass capacity")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, pgtest.Counter(t, pool, activityID))

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		exists, err := repo.Exists(ctx, tx, activityID, joiner)
		require.NoError(t, err)
		assert.True(t, exists)

		dup := &models.Participation{UserID: joiner, ActivityID: activityID, Status: models.ParticipationConfirmed}
		assert.ErrorIs(t, repo.Insert(ctx, tx, dup), ErrDuplicate)
		return nil
	})
	require.NoError(t, err)

	participants, err := repo.ListByActivity(ctx, activityID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, "bob", participants[0].User.Name)

	mine, err := repo.ListByUser(ctx, joiner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, activityID, mine[0].Activity.ID)
	assert.Equal(t, "Games", mine[0].Activity.Category.Name)

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		status, err := repo.Delete(ctx, tx, activityID, joiner)
		require.NoError(t, err)
		assert.Equal(t, models.ParticipationConfirmed, status)

		_, err = repo.Delete(ctx, tx, activityID, joiner)
		assert.ErrorIs(t, err, ErrNotFound)

		current, err := repo.DecrementCounter(ctx, tx, activityID)
		require.NoError(t, err)
		assert.Equal(t, 0, current)

		current, err = repo.DecrementCounter(ctx, tx, activityID)
		require.NoError(t, err)
		assert.Equal(t, 0, current, "counter is floored at zero")
		return nil
	})
	require.NoError(t, err)

	active, err := repo.CountActive(ctx, activityID)
	require.NoError(t, err)
	assert.Equal(t, 0, active)
}

func TestCategoryRepository(t *testing.T) {
	pool := pgtest.Require(t, testDB)
	ctx := context.Background()

	repo := NewCategoryRepository(pool)

	sports := &models.Category{Name: "Sports"}
	require.NoError(t, repo.Create(ctx, sports))
	football := &models.Category{Name: "Football", ParentID: &sports.ID}
	require.NoError(t, repo.Create(ctx, football))
	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Art"}))

	creator := pgtest.InsertUser(t, pool, "ada")
	pgtest.InsertActivity(t, pool, pgtest.ActivityFixture{CreatorID: creator, CategoryID: sports.ID})
	pgtest.InsertActivity(t, pool, pgtest.ActivityFixture{CreatorID: creator, CategoryID: sports.ID})

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Art", "Football", "Sports"}, []string{all[0].Name, all[1].Name, all[2].Name})
	assert.Equal(t, 2, all[2].ActivityCount)
	require.Len(t, all[2].Children, 1)
	assert.Equal(t, "Football", all[2].Children[0].Name)
	require.NotNil(t, all[1].Parent)
	assert.Equal(t, "Sports", all[1].Parent.Name)

	roots, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, roots, 2)

	got, err := repo.GetByID(ctx, sports.ID)
	require.NoError(t, err)
	assert.Len(t, got.Children, 1)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Create(ctx, &models.Category{Name: "Sports"}), ErrDuplicate)
	missing := uuid.New()
	assert.ErrorIs(t, repo.Create(ctx, &models.Category{Name: "Orphan", ParentID: &missing}), ErrNotFound)

	desc := "Everything with a ball"
	upserted := &models.Category{Name: "Sports", Description: &desc}
	require.NoError(t, repo.UpsertByName(ctx, upserted))
	assert.Equal(t, sports.ID, upserted.ID)
}

func TestCommentRepository(t *testing.T) {
	pool := pgtest.Require(t, testDB)
	ctx := context.Background()

	author := pgtest.InsertUser(t, pool, "ada")
	category := pgtest.InsertCategory(t, pool, "Talks", nil)
	activityID := pgtest.InsertActivity(t, pool, pgtest.ActivityFixture{CreatorID: author, CategoryID: category})

	repo := NewCommentRepository(pool)

	root := &models.Comment{Content: "Who is bringing snacks?", ActivityID: activityID, UserID: author}
	require.NoError(t, repo.Create(ctx, root))
	reply := &models.Comment{Content: "Me!", ActivityID: activityID, UserID: author, ParentID: &root.ID}
	require.NoError(t, repo.Create(ctx, reply))

	list, err := repo.ListByActivity(ctx, activityID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ada", list[0].Author.Name)

	require.NoError(t, repo.UpdateContent(ctx, root.ID, "Who brings snacks?"))
	got, err := repo.GetByID(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, "Who brings snacks?", got.Content)

	require.NoError(t, repo.Delete(ctx, root.ID))
	_, err = repo.GetByID(ctx, reply.ID)
	assert.ErrorIs(t, err, ErrNotFound, "replies are removed with their parent")
	assert.ErrorIs(t, repo.Delete(ctx, root.ID), ErrNotFound)
}

func TestUserRepository(t *testing.T) {
	pool := pgtest.Require(t, testDB)
	ctx := context.Background()

	repo := NewUserRepository(pool)

	user := &models.User{Name: "Ada", Email: "Ada@Example.com"}
	account := &models.Account{Provider: "google", ProviderAccountID: "g-1"}
	require.NoError(t, repo.CreateWithAccount(ctx, user, account))
	assert.Equal(t, user.ID, account.UserID)

	found, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.IsNewUser())

	accounts, err := repo.ListAccounts(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "google", accounts[0].Provider)

	again := &models.User{Name: "Ada", Email: "Ada@Example.com"}
	assert.ErrorIs(t, repo.CreateWithAccount(ctx, again, &models.Account{Provider: "github", ProviderAccountID: "gh-1"}), ErrDuplicate)

	bio := "Mathematician"
	updated, err := repo.UpdateProfile(ctx, user.ID, &bio, nil, []string{"chess"})
	require.NoError(t, err)
	assert.Equal(t, "Mathematician", *updated.Bio)
	assert.Equal(t, []string{"chess"}, updated.Interests)
	assert.False(t, updated.IsNewUser())

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
