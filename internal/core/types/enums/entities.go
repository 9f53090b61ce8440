package enums

import "strings"

// EntityType хранится в битах Type каждого EntityID, чтобы в логах и дампах
// было видно, игрок это или зелье, без обращения к компонентам.
type EntityType uint8

const (
	EntityTypeUnknown EntityType = iota
	EntityTypePlayer
	EntityTypeMonster
	EntityTypeItem
)

var entityTypeToString = map[EntityType]string{
	EntityTypePlayer:  "PLAYER",
	EntityTypeMonster: "MONSTER",
	EntityTypeItem:    "ITEM",
}

var entityTypeStringToType = map[string]EntityType{
	"PLAYER":  EntityTypePlayer,
	"MONSTER": EntityTypeMonster,
	"ITEM":    EntityTypeItem,
}

// String возвращает строковое представление (для логов и дебага)
func (e EntityType) String() string {
	if val, ok := entityTypeToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseEntityType конвертирует строку в Enum без учета регистра.
// Неизвестные имена дают EntityTypeUnknown.
func ParseEntityType(s string) EntityType {
	if val, ok := entityTypeStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return EntityTypeUnknown
}
