package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/activityhub/internal/app/models"
)

type recordingUpserter struct {
	names  []string
	failOn string
}

func (r *recordingUpserter) UpsertByName(_ context.Context, c *models.Category) error {
	r.names = append(r.names, c.Name)
	if c.Name == r.failOn {
		return errors.New("boom")
	}
	c.ID = uuid.New()
	return nil
}

func TestCreateDefaultData_UpsertsEveryCategory(t *testing.T) {
	store := &recordingUpserter{}

	require.NoError(t, CreateDefaultData(context.Background(), store, zerolog.Nop()))

	assert.Len(t, store.names, 10)
	assert.Contains(t, store.names, "Technology")
	assert.Contains(t, store.names, "Music & Entertainment")
}

func TestCreateDefaultData_ContinuesPastFailures(t *testing.T) {
	store := &recordingUpserter{failOn: "Education"}

	err := CreateDefaultData(context.Background(), store, zerolog.Nop())

	require.Error(t, err)
	assert.Len(t, store.names, 10)
}
