package natspub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"godata/audit"
	"godata/identity"
)

func TestSubjectName(t *testing.T) {
	p := &Publisher{cfg: Config{SubjectPrefix: "audit."}}
	require.Equal(t, "audit.UPDATE", p.subjectName(audit.OpUpdate))
	require.Equal(t, "audit.DELETE_HARD", p.subjectName(audit.OpHardDelete))
}

func TestMarshalRecord(t *testing.T) {
	rec := audit.NewRecord("5", audit.OpCreate,
		identity.Identity{TenantID: 7, ActorID: 42},
		time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		`{"name":"张三"}`)

	data, err := marshalRecord(rec)
	require.NoError(t, err)

	var decoded audit.Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, rec.EntityID, decoded.EntityID)
	require.Equal(t, audit.OpCreate, decoded.Operation)
	require.Equal(t, rec.Changes, decoded.Changes)
}

func TestNew_RequiresConnOrURL(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}
