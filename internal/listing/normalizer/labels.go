package normalizer

import "strings"

// labelTable maps stored vocabulary tokens to display labels. Lookups are
// case-insensitive and also accept the label itself.
type labelTable map[string]string

func newLabelTable(tokens map[string]string) labelTable {
	t := make(labelTable, len(tokens)*2)
	for token, label := range tokens {
		t[strings.ToLower(token)] = label
		t[strings.ToLower(label)] = label
	}
	return t
}

// Label returns the display label for v, or v unchanged when it is not in
// the table.
func (t labelTable) Label(v string) string {
	if v == "" {
		return ""
	}
	if label, ok := t[strings.ToLower(strings.TrimSpace(v))]; ok {
		return label
	}
	return v
}

var (
	engineLabels = newLabelTable(map[string]string{
		"gasoline": "Бензин",
		"diesel":   "Дизель",
		"electric": "Электро",
		"hybrid":   "Гибрид",
	})
	transmissionLabels = newLabelTable(map[string]string{
		"manual":    "Механика",
		"automatic": "Автомат",
		"cvt":       "Вариатор",
		"robot":     "Робот",
	})
	driveLabels = newLabelTable(map[string]string{
		"front": "Передний",
		"rear":  "Задний",
		"full":  "Полный",
		"part":  "Подключаемый",
	})
	bodyLabels = newLabelTable(map[string]string{
		"sedan":       "Седан",
		"suv":         "Внедорожник",
		"hatchback":   "Хэтчбек",
		"wagon":       "Универсал",
		"coupe":       "Купе",
		"minivan":     "Минивэн",
		"pickup":      "Пикап",
		"convertible": "Кабриолет",
	})
)

func EngineLabel(v string) string       { return engineLabels.Label(v) }
func TransmissionLabel(v string) string { return transmissionLabels.Label(v) }
func DriveLabel(v string) string        { return driveLabels.Label(v) }
func BodyLabel(v string) string         { return bodyLabels.Label(v) }
