package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/common"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/models"
)

func TestConversationCreate(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	s := NewConversationService(db, rm)

	c, err := s.Create(context.Background(), "u1", "   ", " sess ")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTitle, c.Title)
	assert.Equal(t, "sess", c.SessionID)
	assert.Equal(t, "u1", c.UserID)
	assert.NotNil(t, c.Messages)

	c, err = s.Create(context.Background(), "u1", "Beach week", "")
	require.NoError(t, err)
	assert.Equal(t, "Beach week", c.Title)
}

func TestConversationCreate_Error(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	rm.c.err = errBoom{}
	s := NewConversationService(db, rm)

	_, err := s.Create(context.Background(), "u1", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error creating conversation")
}

func TestConversationList(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	a := rm.c.seed("u1", "A")
	b := rm.c.seed("u1", "B")
	rm.c.seed("u2", "C")
	s := NewConversationService(db, rm)

	list, err := s.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b, list[0].ID)
	assert.Equal(t, a, list[1].ID)
}

func TestConversationGet_Ownership(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	id := rm.c.seed("u1", "A")
	rm.c.msgs[id] = []models.Message{{Role: models.RoleUser, Text: "hi"}}
	s := NewConversationService(db, rm)

	c, err := s.Get(context.Background(), "u1", id)
	require.NoError(t, err)
	require.Len(t, c.Messages, 1)
	assert.Equal(t, "hi", c.Messages[0].Text)

	_, err = s.Get(context.Background(), "u2", id)
	require.ErrorIs(t, err, common.ErrorForbidden)

	_, err = s.Get(context.Background(), "u1", "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestConversationAppend(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := newFakeRepoManager()
	id := rm.c.seed("u1", "A")
	s := NewConversationService(db, rm)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	err := s.Append(context.Background(), "u1", id, models.Message{
		Role: models.RoleAgent, Text: "Go to Ella", Metadata: json.RawMessage(`{"status":"complete"}`),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, rm.c.msgs[id], 1)
	assert.Equal(t, fixed, rm.c.msgs[id][0].Timestamp)
	assert.JSONEq(t, `{"status":"complete"}`, string(rm.c.msgs[id][0].Metadata))
}

func TestConversationAppend_Rejected(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	id := rm.c.seed("u1", "A")
	s := NewConversationService(db, rm)

	err := s.Append(context.Background(), "u1", id, models.Message{Role: "assistant", Text: "x"})
	require.ErrorIs(t, err, common.ErrorValidation)

	mock.ExpectBegin()
	mock.ExpectRollback()
	err = s.Append(context.Background(), "u2", id, models.Message{Role: models.RoleUser, Text: "x"})
	require.ErrorIs(t, err, common.ErrorForbidden)

	mock.ExpectBegin()
	mock.ExpectRollback()
	rm.c.appendErr = errBoom{}
	err = s.Append(context.Background(), "u1", id, models.Message{Role: models.RoleUser, Text: "x"})
	require.ErrorIs(t, err, errBoom{})

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, rm.c.msgs[id])
}

func TestConversationUpdateTitle(t *testing.T) {
	db, mock := newSQLMockDB(t)
	rm := newFakeRepoManager()
	id := rm.c.seed("u1", models.DefaultTitle)
	s := NewConversationService(db, rm)

	_, err := s.UpdateTitle(context.Background(), "u1", id, "  ")
	require.ErrorIs(t, err, common.ErrorValidation)

	mock.ExpectBegin()
	mock.ExpectCommit()
	c, err := s.UpdateTitle(context.Background(), "u1", id, " Trip to Kandy ")
	require.NoError(t, err)
	assert.Equal(t, "Trip to Kandy", c.Title)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = s.UpdateTitle(context.Background(), "u2", id, "Mine now")
	require.ErrorIs(t, err, common.ErrorForbidden)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationDelete(t *testing.T) {
	db, _ := newSQLMockDB(t)
	rm := newFakeRepoManager()
	id := rm.c.seed("u1", "A")
	s := NewConversationService(db, rm)

	require.ErrorIs(t, s.Delete(context.Background(), "u2", id), common.ErrorForbidden)
	require.NoError(t, s.Delete(context.Background(), "u1", id))
	require.ErrorIs(t, s.Delete(context.Background(), "u1", id), common.ErrorNotFound)
}
