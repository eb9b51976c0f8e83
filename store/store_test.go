package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/morfx/element"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTree() *element.ElementTree {
	tree := element.NewElementTree()
	tree.Elements = append(tree.Elements, &element.Element{
		Kind: element.KindFunction, Name: "helper",
		HasRange: true, Range: element.Range{StartLine: 1, EndLine: 2},
	})
	return tree
}

func TestOpenRunsMigrations(t *testing.T) {
	s := openTestStore(t)
	require.NotNil(t, s.db)
}

func TestNewSessionAndEndSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.NewSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, s.EndSession(ctx, id))
}

func TestRecordExtractionIncrementsSessionCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sessionID, err := s.NewSession(ctx)
	require.NoError(t, err)

	tree := sampleTree()
	extractionID, err := s.RecordExtraction(ctx, sessionID, "python", "widget.py", []byte("def helper():\n    pass\n"), tree, nil)
	require.NoError(t, err)
	require.NotEmpty(t, extractionID)

	var sess Session
	require.NoError(t, s.db.First(&sess, "id = ?", sessionID).Error)
	require.Equal(t, 1, sess.ExtractionCount)
}

func TestLatestExtractionReturnsMostRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sessionID, err := s.NewSession(ctx)
	require.NoError(t, err)

	tree := sampleTree()
	_, err = s.RecordExtraction(ctx, sessionID, "python", "widget.py", []byte("source one"), tree, nil)
	require.NoError(t, err)
	_, err = s.RecordExtraction(ctx, sessionID, "python", "widget.py", []byte("source two"), tree, nil)
	require.NoError(t, err)

	rec, found, err := s.LatestExtraction(ctx, "widget.py")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, digest([]byte("source two")), rec.SourceDigest)
}

func TestLatestExtractionMissingPath(t *testing.T) {
	s := openTestStore(t)
	_, found, err := s.LatestExtraction(context.Background(), "nonexistent.py")
	require.NoError(t, err)
	require.False(t, found)
}

func TestRecordLocate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sessionID, err := s.NewSession(ctx)
	require.NoError(t, err)

	id, err := s.RecordLocate(ctx, sessionID, "python", "widget.py", "Widget.render", []byte("source"), element.Range{StartLine: 3, EndLine: 5})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var rec Locate
	require.NoError(t, s.db.First(&rec, "id = ?", id).Error)
	require.True(t, rec.Found)
	require.Equal(t, 3, rec.StartLine)
}
