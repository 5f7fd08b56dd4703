package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	statements []string
	failOn     func(stmt string) error
}

func (f *fakeExecutor) ExecDDL(ctx context.Context, stmt string) error {
	if f.failOn != nil {
		if err := f.failOn(stmt); err != nil {
			return err
		}
	}
	f.statements = append(f.statements, stmt)
	return nil
}

func TestEnsureCollection(t *testing.T) {
	exec := &fakeExecutor{}
	registry := NewRegistry(exec)

	err := registry.EnsureCollection(context.Background(), CollectionShops)
	require.NoError(t, err)
	require.Len(t, exec.statements, 1)
	assert.Contains(t, exec.statements[0], "CREATE TABLE IF NOT EXISTS shops")
}

func TestEnsureCollection_Idempotent(t *testing.T) {
	exec := &fakeExecutor{}
	registry := NewRegistry(exec)

	// The DDL is CREATE TABLE IF NOT EXISTS, so ensuring twice must succeed
	// both times
	require.NoError(t, registry.EnsureCollection(context.Background(), CollectionDishes))
	require.NoError(t, registry.EnsureCollection(context.Background(), CollectionDishes))
	assert.Equal(t, exec.statements[0], exec.statements[1])
}

func TestEnsureCollection_Unknown(t *testing.T) {
	registry := NewRegistry(&fakeExecutor{})

	err := registry.EnsureCollection(context.Background(), Collection("no_such_table"))
	assert.ErrorIs(t, err, ErrUnknownCollection)
}

func TestInitializeDatabase(t *testing.T) {
	exec := &fakeExecutor{}
	registry := NewRegistry(exec)

	results := registry.InitializeDatabase(context.Background())
	require.Len(t, results, len(Collections()))
	for _, r := range results {
		assert.Equal(t, InitStatusSuccess, r.Status)
		assert.Empty(t, r.Message)
	}
	// Parents before children
	assert.Equal(t, CollectionShops, results[0].Collection)
}

func TestInitializeDatabase_ContinueOnError(t *testing.T) {
	boom := errors.New("permission denied")
	exec := &fakeExecutor{
		failOn: func(stmt string) error {
			if stmtContains(stmt, "recommendations") {
				return boom
			}
			return nil
		},
	}
	registry := NewRegistry(exec)

	results := registry.InitializeDatabase(context.Background())
	require.Len(t, results, len(Collections()))

	byCollection := map[Collection]InitResult{}
	for _, r := range results {
		byCollection[r.Collection] = r
	}

	assert.Equal(t, InitStatusError, byCollection[CollectionRecommendations].Status)
	assert.Contains(t, byCollection[CollectionRecommendations].Message, "permission denied")

	// Collections after the failing one still ran
	assert.Equal(t, InitStatusSuccess, byCollection[CollectionMonitoringConfigs].Status)
	assert.Equal(t, InitStatusSuccess, byCollection[CollectionAlertsHistory].Status)
}

func TestParseCollection(t *testing.T) {
	assert.Equal(t, CollectionShops, ParseCollection("shops"))
	assert.Equal(t, CollectionAlertsHistory, ParseCollection("alerts_history"))
	assert.Equal(t, CollectionUnknown, ParseCollection("users"))
	assert.Equal(t, CollectionUnknown, ParseCollection(""))
}

func stmtContains(stmt, table string) bool {
	return ddl[Collection(table)] == stmt
}
