package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"dungeon-kernel/internal/domain"
)

var (
	ErrInvalidMagic       = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrCorrupt            = errors.New("corrupt replay")
)

// maxCommands ограничивает аллокацию по недоверенному заголовку.
const maxCommands = 1 << 24

func (s *ReplayService) Load(path string) (*domain.ReplaySession, error) {
	return LoadFile(path)
}

func LoadFile(path string) (*domain.ReplaySession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()

	return readBinary(bufio.NewReader(f))
}

func readBinary(r io.Reader) (*domain.ReplaySession, error) {
	// 1. Читаем заголовок целиком
	var header ReplayFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, header.Magic[:])
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, header.Version, Version1)
	}
	if header.CommandCount < 0 || header.CommandCount > maxCommands {
		return nil, fmt.Errorf("%w: command count %d", ErrCorrupt, header.CommandCount)
	}

	session := &domain.ReplaySession{
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Width:     int(header.Width),
		Height:    int(header.Height),
		Commands:  make([]domain.ReplayCommand, header.CommandCount),
	}

	// 2. Читаем команды
	for i := range session.Commands {
		var rec CommandRecord
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("failed to read command %d: %w", i, err)
		}
		kind := domain.CommandKind(rec.Kind)
		if kind > domain.CmdMenuConfirm {
			return nil, fmt.Errorf("%w: command %d has kind %d", ErrCorrupt, i, rec.Kind)
		}
		session.Commands[i] = domain.ReplayCommand{
			Step: rec.Step,
			Command: domain.Command{
				Kind:   kind,
				Dx:     int(rec.Dx),
				Dy:     int(rec.Dy),
				Slot:   int(rec.Slot),
				Target: domain.Position{X: int(rec.X), Y: int(rec.Y)},
			},
		}
	}

	return session, nil
}
