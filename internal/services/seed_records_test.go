package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("gallery")
	require.NoError(t, err)
	require.Equal(t, KindGallery, kind)

	_, err = ParseKind("podcasts")
	require.Error(t, err)
	_, err = ParseKind("")
	require.Error(t, err)
}

func TestDecodeSeedRecordsUnknownKind(t *testing.T) {
	_, err := decodeSeedRecords(Kind("podcasts"), []byte(`[]`))
	require.Error(t, err)
}

func TestDecodeSeedRecordsMalformedJSON(t *testing.T) {
	_, err := decodeSeedRecords(KindMembers, []byte(`{"not": "an array"}`))
	require.Error(t, err)
}

func TestEventSeedValidatesDateFormat(t *testing.T) {
	good := &eventSeed{ID: "e1", Title: "Open Day", Date: "2026-09-12"}
	require.NoError(t, good.Validate(KindEvents))

	alsoGood := &eventSeed{ID: "e2", Title: "Evening Talk", Date: "2026-09-12T19:00:00Z"}
	require.NoError(t, alsoGood.Validate(KindEvents))

	bad := &eventSeed{ID: "e3", Title: "Bad Date", Date: "12.09.2026"}
	err := bad.Validate(KindEvents)
	var vErr *SeedValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "date", vErr.Field)
}

func TestFileRefsAreOptionalWhereDeclaredOptional(t *testing.T) {
	member := &memberSeed{ID: "m1", Name: "Jane", Role: "Director"}
	require.Empty(t, member.FileRefs())

	member.Photo = "jane.jpg"
	refs := member.FileRefs()
	require.Len(t, refs, 1)
	require.Equal(t, "photo", refs[0].Field)

	video := &videoSeed{ID: "v1", Title: "Intro", VideoPath: "intro.mp4", ThumbnailPath: "intro.jpg"}
	require.Len(t, video.FileRefs(), 2)
}
