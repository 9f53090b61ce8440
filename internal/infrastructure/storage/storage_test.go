package storage

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func sampleSession() *domain.ReplaySession {
	return &domain.ReplaySession{
		Seed:      -42,
		Timestamp: 1760745600,
		Width:     80,
		Height:    50,
		Commands: []domain.ReplayCommand{
			{Step: 1, Command: domain.Move(-1, 1)},
			{Step: 4, Command: domain.Simple(domain.CmdOpenInventory)},
			{Step: 5, Command: domain.SelectItem(2)},
			{Step: 6, Command: domain.SelectTarget(domain.Position{X: 33, Y: 12})},
			{Step: 9, Command: domain.Simple(domain.CmdMenuConfirm)},
		},
	}
}

func TestBinaryLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeBinary(&buf, sampleSession()))

	assert.Equal(t, 36+5*20, buf.Len())
	assert.Equal(t, "DKRP", string(buf.Bytes()[:4]))
	assert.Equal(t, Version1, binary.LittleEndian.Uint32(buf.Bytes()[4:8]))

	got, err := readBinary(&buf)
	require.NoError(t, err)
	assert.Equal(t, sampleSession(), got)
}

func TestSaveAndLoadFile(t *testing.T) {
	svc, err := NewReplayService(filepath.Join(t.TempDir(), "replays"))
	require.NoError(t, err)

	path, err := svc.Save(sampleSession())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "replay_-42_1760745600.dkrp"), path)

	got, err := svc.Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleSession(), got)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.dkrp"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadBinary_Rejects(t *testing.T) {
	encoded := func(mutate func(b []byte) []byte) []byte {
		var buf bytes.Buffer
		require.NoError(t, writeBinary(&buf, sampleSession()))
		return mutate(buf.Bytes())
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{
			name:    "bad magic",
			data:    encoded(func(b []byte) []byte { copy(b, "CDRP"); return b }),
			wantErr: ErrInvalidMagic,
		},
		{
			name: "future version",
			data: encoded(func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[4:8], 2)
				return b
			}),
			wantErr: ErrUnsupportedVersion,
		},
		{
			name: "negative count",
			data: encoded(func(b []byte) []byte {
				binary.LittleEndian.PutUint32(b[32:36], 0xFFFFFFFF)
				return b
			}),
			wantErr: ErrCorrupt,
		},
		{
			name: "unknown command kind",
			data: encoded(func(b []byte) []byte {
				b[36+4] = 200
				return b
			}),
			wantErr: ErrCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readBinary(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("truncated", func(t *testing.T) {
		data := encoded(func(b []byte) []byte { return b[:len(b)-3] })
		_, err := readBinary(bytes.NewReader(data))
		assert.Error(t, err)
	})
}

func TestWriteBinary_StepOutOfRange(t *testing.T) {
	s := sampleSession()
	s.Commands = append(s.Commands, domain.ReplayCommand{Command: domain.Move(500, 0)})

	var buf bytes.Buffer
	assert.Error(t, writeBinary(&buf, s))
}
