package types

import (
	"fmt"
	"strconv"
)

// EntityID - 64-битный идентификатор сущности с поколением слота.
//
// Формат битов (от старших к младшим):
//
//	[ Shard (8) | Type (8) | Generation (16) | Index (32) ]
//
// Где:
//   - Shard - мир, выдавший идентификатор
//   - Type - тип сущности (см. enums.EntityType)
//   - Generation - версия слота, растет при каждом освобождении
//   - Index - индекс слота в хранилище сущностей
//
// Два идентификатора одного слота с разными поколениями не равны, поэтому
// ссылка, пережившая удаление сущности, не укажет на нового владельца слота.
// Слот, чье поколение дошло до 65535, при следующем удалении списывается
// навсегда, а не начинает счет заново.
type EntityID uint64

// NilEntityID - нулевой идентификатор, аналог nil. Хранилище никогда не
// выдает поколение 0, поэтому живая сущность не может быть нулевой.
const NilEntityID EntityID = 0

// Конфигурация битов EntityID. Всего 64 бита.
const (
	bitsIndex = 32
	bitsGen   = 16
	bitsType  = 8
	bitsShard = 8

	// Сдвиги битов
	shiftGen   = bitsIndex
	shiftType  = bitsIndex + bitsGen
	shiftShard = bitsIndex + bitsGen + bitsType

	// Маски для извлечения значений
	maskIndex = (1 << bitsIndex) - 1
	maskGen   = (1 << bitsGen) - 1
	maskType  = (1 << bitsType) - 1
	maskShard = (1 << bitsShard) - 1
)

// PackEntityID собирает EntityID из составных частей. Диапазоны не проверяются.
func PackEntityID(shardID uint8, typeID uint8, gen uint16, index uint32) EntityID {
	return EntityID(
		(uint64(shardID) << shiftShard) |
			(uint64(typeID) << shiftType) |
			(uint64(gen) << shiftGen) |
			uint64(index),
	)
}

func (id EntityID) Index() uint32 {
	return uint32(id & maskIndex)
}

func (id EntityID) Generation() uint16 {
	return uint16((id >> shiftGen) & maskGen)
}

func (id EntityID) Type() uint8 {
	return uint8((id >> shiftType) & maskType)
}

func (id EntityID) Shard() uint8 {
	return uint8((id >> shiftShard) & maskShard)
}

func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// IsLocal проверяет, принадлежит ли сущность текущему шарду.
func (id EntityID) IsLocal(currentShard uint8) bool {
	return id.Shard() == currentShard
}

func (id EntityID) String() string {
	if id.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("[shard=%d type=%d gen=%d idx=%d]", id.Shard(), id.Type(), id.Generation(), id.Index())
}

// MarshalJSON пишет ID строкой: JavaScript теряет точность на 64-битных числах.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON принимает и строку в кавычках, и голое число.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) > 1 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		*id = NilEntityID
		return nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entity id %q: %w", s, err)
	}
	*id = EntityID(v)
	return nil
}
