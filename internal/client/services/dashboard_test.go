package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/safedocs/internal/client/client"
	"github.com/dmitrijs2005/safedocs/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func sampleDocs() []models.Document {
	return []models.Document{
		{ID: 1, OriginalName: "Contract.pdf", FileType: "application/pdf", FileSize: 1024, UploadDate: fixedNow.AddDate(0, 0, -1)},
		{ID: 2, OriginalName: "holiday.PNG", FileType: "image/png", FileSize: 512, UploadDate: fixedNow.AddDate(0, 0, -30)},
		{ID: 3, OriginalName: "notes.txt", FileType: "text/plain", FileSize: 0, UploadDate: fixedNow.AddDate(0, 0, -7)},
	}
}

func newTestDashboard(fc *fakeClient) *dashboard {
	d := NewDashboard(fc, nil).(*dashboard)
	d.now = func() time.Time { return fixedNow }
	return d
}

func TestRefresh_ReplacesSnapshotAndStats(t *testing.T) {
	fc := &fakeClient{Docs: sampleDocs()}
	d := newTestDashboard(fc)

	require.NoError(t, d.Refresh(context.Background()))

	if diff := cmp.Diff(sampleDocs(), d.Documents()); diff != "" {
		t.Fatalf("documents mismatch (-want +got):\n%s", diff)
	}
	want := models.Stats{TotalDocuments: 3, TotalSize: 1536, TotalStorage: "1.5 KB", RecentUploads: 1}
	if diff := cmp.Diff(want, d.Stats()); diff != "" {
		t.Fatalf("stats mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, fixedNow, d.FetchedAt())
}

func TestRefresh_ErrorKeepsPreviousSnapshot(t *testing.T) {
	fc := &fakeClient{Docs: sampleDocs()}
	d := newTestDashboard(fc)
	require.NoError(t, d.Refresh(context.Background()))

	fc.ListErr = client.ErrUnauthorized
	err := d.Refresh(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Len(t, d.Documents(), 3)
}

func TestSearch(t *testing.T) {
	d := newTestDashboard(&fakeClient{Docs: sampleDocs()})
	require.NoError(t, d.Refresh(context.Background()))

	got := d.Search("png")
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	assert.Len(t, d.Search(""), 3)
	assert.Empty(t, d.Search("invoice"))
}

func TestFind(t *testing.T) {
	d := newTestDashboard(&fakeClient{Docs: sampleDocs()})
	require.NoError(t, d.Refresh(context.Background()))

	doc, ok := d.Find(3)
	require.True(t, ok)
	assert.Equal(t, "notes.txt", doc.OriginalName)

	_, ok = d.Find(99)
	assert.False(t, ok)
}

func TestDelete_DeclinedMakesNoCall(t *testing.T) {
	fc := &fakeClient{Docs: sampleDocs()}
	d := newTestDashboard(fc)

	deleted, err := d.Delete(context.Background(), 1, func() bool { return false })
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Empty(t, fc.Deleted)
	assert.Zero(t, fc.Listings)
}

func TestDelete_RefetchesList(t *testing.T) {
	fc := &fakeClient{Docs: sampleDocs()}
	d := newTestDashboard(fc)
	require.NoError(t, d.Refresh(context.Background()))

	deleted, err := d.Delete(context.Background(), 1, func() bool { return true })
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []int64{1}, fc.Deleted)
	assert.Equal(t, 2, fc.Listings)
	assert.Len(t, d.Documents(), 2)
	assert.Equal(t, 2, d.Stats().TotalDocuments)
}

func TestDelete_FailureWrapsCause(t *testing.T) {
	fc := &fakeClient{Docs: sampleDocs(), DeleteErr: &client.APIError{StatusCode: 404, Message: "Document not found"}}
	d := newTestDashboard(fc)
	require.NoError(t, d.Refresh(context.Background()))

	deleted, err := d.Delete(context.Background(), 1, func() bool { return true })
	require.ErrorIs(t, err, ErrDeleteFailed)
	assert.False(t, deleted)
	assert.Equal(t, "Document not found", client.MessageOr(err, ""))
	assert.Equal(t, 1, fc.Listings)
	assert.Len(t, d.Documents(), 3)
}
