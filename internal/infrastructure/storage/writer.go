package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"dungeon-kernel/internal/domain"
	"dungeon-kernel/pkg/logger"

	"github.com/sirupsen/logrus"
)

const (
	MagicHeader string = `DKRP` // 4 байта
	Version1    uint32 = 1

	// FileExt добавляется в ReplayService.Save.
	FileExt = ".dkrp"
)

// ReplayFileHeader - точное представление заголовка файла в памяти.
// binary.Write пишет его целиком, так как тут нет слайсов и строк, только числа.
type ReplayFileHeader struct {
	Magic        [4]byte // 4
	Version      uint32  // 4
	Seed         int64   // 8
	Timestamp    int64   // 8
	Width        int32   // 4
	Height       int32   // 4
	CommandCount int32   // 4
}

// CommandRecord - запись одной команды фиксированного размера, little endian.
type CommandRecord struct {
	Step     uint32 // 4
	Kind     uint8  // 1
	Dx       int8   // 1
	Dy       int8   // 1
	Reserved uint8  // 1
	Slot     int32  // 4
	X        int32  // 4
	Y        int32  // 4
}

type ReplayService struct {
	SaveDir string
}

// NewReplayService создает папку, если ее нет.
func NewReplayService(dir string) (*ReplayService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("replay dir %s: %w", dir, err)
	}
	return &ReplayService{SaveDir: dir}, nil
}

// Save пишет сессию в SaveDir под именем из сида и времени и возвращает путь.
func (s *ReplayService) Save(session *domain.ReplaySession) (string, error) {
	filename := fmt.Sprintf("replay_%d_%d%s", session.Seed, session.Timestamp, FileExt)
	path := filepath.Join(s.SaveDir, filename)
	return path, SaveFile(path, session)
}

// SaveFile пишет сессию в path, перезаписывая существующий файл.
func SaveFile(path string, session *domain.ReplaySession) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create replay: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close replay: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := writeBinary(bw, session); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush replay: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "replay_storage",
		"path":      path,
		"seed":      session.Seed,
		"commands":  len(session.Commands),
	}).Info("Replay saved")
	return nil
}

func writeBinary(w io.Writer, s *domain.ReplaySession) error {
	// 1. Пишем глобальный заголовок
	header := ReplayFileHeader{
		Version:      Version1,
		Seed:         s.Seed,
		Timestamp:    s.Timestamp,
		Width:        int32(s.Width),
		Height:       int32(s.Height),
		CommandCount: int32(len(s.Commands)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Пишем команды
	for i, rc := range s.Commands {
		cmd := rc.Command
		if cmd.Dx < -128 || cmd.Dx > 127 || cmd.Dy < -128 || cmd.Dy > 127 {
			return fmt.Errorf("command %d: step (%d,%d) out of range", i, cmd.Dx, cmd.Dy)
		}
		rec := CommandRecord{
			Step: rc.Step,
			Kind: uint8(cmd.Kind),
			Dx:   int8(cmd.Dx),
			Dy:   int8(cmd.Dy),
			Slot: int32(cmd.Slot),
			X:    int32(cmd.Target.X),
			Y:    int32(cmd.Target.Y),
		}
		if err := binary.Write(w, binary.LittleEndian, &rec); err != nil {
			return fmt.Errorf("failed to write command %d: %w", i, err)
		}
	}

	return nil
}
