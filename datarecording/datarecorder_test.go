package datarecording

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type packetRecord struct {
	PacketID    int
	SrcNI       int
	DestNI      int
	VNet        int
	InjectCycle uint64
	EjectCycle  uint64
	Latency     uint64
	Hops        int
}

func TestRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace")

	r := New(path)
	r.CreateTable("packets", packetRecord{})
	r.InsertData("packets", packetRecord{
		PacketID: 0, SrcNI: 0, DestNI: 3, VNet: 1,
		InjectCycle: 2, EjectCycle: 10, Latency: 8, Hops: 2,
	})
	r.InsertData("packets", packetRecord{
		PacketID: 1, SrcNI: 1, DestNI: 2, VNet: 0,
		InjectCycle: 5, EjectCycle: 12, Latency: 7, Hops: 2,
	})
	r.Flush()

	assert.Equal(t, []string{"packets"}, r.ListTables())

	db, err := sql.Open("sqlite3", path+".sqlite3")
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t,
		db.QueryRow("SELECT COUNT(*) FROM packets").Scan(&count))
	assert.Equal(t, 2, count)

	var latency uint64
	require.NoError(t, db.QueryRow(
		"SELECT Latency FROM packets WHERE PacketID = 1").Scan(&latency))
	assert.Equal(t, uint64(7), latency)
}

func TestRecorderRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace")
	require.NoError(t, os.WriteFile(path+".sqlite3", []byte("x"), 0600))

	assert.Panics(t, func() { New(path) })
}

func TestRecorderRejectsNestedStructs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace2")
	r := New(path)

	type nested struct {
		Inner struct{ A int }
	}

	assert.Panics(t, func() { r.CreateTable("bad", nested{}) })
}
